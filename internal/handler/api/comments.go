// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/fauzinoor/kalam/internal/middleware"
	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/service"
)

// CommentListResponse is the moderation queue with per-status totals.
type CommentListResponse struct {
	Comments []model.Comment     `json:"comments"`
	Counts   model.CommentCounts `json:"counts"`
}

// ListPostComments handles GET /api/v1/posts/{id}/comments
// Returns approved comments of a published post.
func (h *Handler) ListPostComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := parseIDParam(w, r, "id", "post")
	if !ok {
		return
	}
	comments, err := h.comments.ListApproved(r.Context(), postID)
	if err != nil {
		h.writeServiceError(w, r, "post", err)
		return
	}
	WriteSuccess(w, comments, nil)
}

// SubmitComment handles POST /api/v1/posts/{id}/comments
// Guests must supply guest_name and guest_email; signed-in readers are
// recorded by id. New comments wait for moderation.
func (h *Handler) SubmitComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := parseIDParam(w, r, "id", "post")
	if !ok {
		return
	}
	var req service.CommentInput
	if !decodeJSON(w, r, &req) {
		return
	}
	comment, err := h.comments.Submit(r.Context(), postID, middleware.GetUserIDPtr(r), req, r.UserAgent())
	if err != nil {
		h.writeServiceError(w, r, "post", err)
		return
	}
	WriteCreated(w, comment)
}

// ListComments handles GET /api/v1/admin/comments
// Query: status, page, per_page.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePage(r)
	status := model.CommentStatus(r.URL.Query().Get("status"))
	res, err := h.comments.ListForModeration(r.Context(), status, page, perPage)
	if err != nil {
		h.writeServiceError(w, r, "comment", err)
		return
	}

	total := res.Counts.Pending + res.Counts.Approved + res.Counts.Rejected
	switch status {
	case model.CommentPending:
		total = res.Counts.Pending
	case model.CommentApproved:
		total = res.Counts.Approved
	case model.CommentRejected:
		total = res.Counts.Rejected
	}
	WriteSuccess(w, CommentListResponse{Comments: res.Comments, Counts: res.Counts},
		newMeta(total, res.Page, res.PerPage))
}

// ApproveComment handles POST /api/v1/admin/comments/{id}/approve
func (h *Handler) ApproveComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "comment")
	if !ok {
		return
	}
	comment, err := h.comments.Approve(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "comment", err)
		return
	}
	WriteSuccess(w, comment, nil)
}

// RejectComment handles POST /api/v1/admin/comments/{id}/reject
func (h *Handler) RejectComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "comment")
	if !ok {
		return
	}
	comment, err := h.comments.Reject(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "comment", err)
		return
	}
	WriteSuccess(w, comment, nil)
}

// DeleteComment handles DELETE /api/v1/admin/comments/{id}
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "comment")
	if !ok {
		return
	}
	if err := h.comments.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "comment", err)
		return
	}
	WriteNoContent(w)
}
