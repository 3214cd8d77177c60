// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fauzinoor/kalam/internal/middleware"
	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/service"
)

// postQuery reads the listing filters shared by the public and admin lists.
func postQuery(r *http.Request) service.PostQuery {
	page, perPage := parsePage(r)
	q := r.URL.Query()
	return service.PostQuery{
		CategorySlug: q.Get("category"),
		TagSlug:      q.Get("tag"),
		Page:         page,
		PerPage:      perPage,
	}
}

func writePostPage(w http.ResponseWriter, p service.PostPage) {
	WriteSuccess(w, p.Posts, newMeta(p.Total, p.Page, p.PerPage))
}

// ListPublishedPosts handles GET /api/v1/posts
// Query: category, tag, page, per_page.
func (h *Handler) ListPublishedPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.ListPublished(r.Context(), postQuery(r))
	if err != nil {
		h.writeServiceError(w, r, "post", err)
		return
	}
	writePostPage(w, page)
}

// GetPostBySlug handles GET /api/v1/posts/{slug}
func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeServiceError(w, r, "post", err)
		return
	}
	WriteSuccess(w, post, nil)
}

// ListPosts handles GET /api/v1/admin/posts
// Lists the caller's posts. Query: status, category, tag, page, per_page.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := postQuery(r)
	if s := r.URL.Query().Get("status"); s != "" {
		q.Status = model.Status(s)
		if !q.Status.IsValid() {
			WriteValidationError(w, map[string]string{"status": "must be draft, published or archived"})
			return
		}
	}
	page, err := h.posts.ListByAuthor(r.Context(), middleware.GetUserID(r), q)
	if err != nil {
		h.writeServiceError(w, r, "post", err)
		return
	}
	writePostPage(w, page)
}

// GetPost handles GET /api/v1/admin/posts/{id}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "post")
	if !ok {
		return
	}
	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "post", err)
		return
	}
	WriteSuccess(w, post, nil)
}

// CreatePost handles POST /api/v1/admin/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req service.PostInput
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.posts.Create(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		h.writeServiceError(w, r, "post", err)
		return
	}
	WriteCreated(w, post)
}

// UpdatePost handles PUT /api/v1/admin/posts/{id}
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "post")
	if !ok {
		return
	}
	var req service.PostInput
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.posts.Update(r.Context(), middleware.GetUserID(r), id, req)
	if err != nil {
		h.writeServiceError(w, r, "post", err)
		return
	}
	WriteSuccess(w, post, nil)
}

// SetPostStatus handles PUT /api/v1/admin/posts/{id}/status
func (h *Handler) SetPostStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "post")
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.posts.SetStatus(r.Context(), middleware.GetUserID(r), id, req.Status)
	if err != nil {
		h.writeServiceError(w, r, "post", err)
		return
	}
	WriteSuccess(w, post, nil)
}

// DeletePost handles DELETE /api/v1/admin/posts/{id}
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "post")
	if !ok {
		return
	}
	if err := h.posts.Delete(r.Context(), middleware.GetUserID(r), id); err != nil {
		h.writeServiceError(w, r, "post", err)
		return
	}
	WriteNoContent(w)
}

// UploadPostImage handles POST /api/v1/admin/posts/{id}/images
// Expects a multipart form with a "file" field. The image is stored under the
// post's folder and its URL returned for embedding in the content.
func (h *Handler) UploadPostImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "post")
	if !ok {
		return
	}
	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "post", err)
		return
	}
	if post.AuthorID != middleware.GetUserID(r) {
		h.writeServiceError(w, r, "post", service.ErrForbidden)
		return
	}

	file, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	upload, err := h.media.UploadPostImage(r.Context(), id, file)
	if err != nil {
		h.writeServiceError(w, r, "image", err)
		return
	}
	WriteCreated(w, upload)
}
