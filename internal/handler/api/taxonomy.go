// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/fauzinoor/kalam/internal/service"
)

// ListCategories handles GET /api/v1/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.posts.ListCategories(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "category", err)
		return
	}
	WriteSuccess(w, cats, nil)
}

// CreateCategory handles POST /api/v1/admin/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req service.CategoryInput
	if !decodeJSON(w, r, &req) {
		return
	}
	cat, err := h.posts.CreateCategory(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "category", err)
		return
	}
	WriteCreated(w, cat)
}

// UpdateCategory handles PUT /api/v1/admin/categories/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "category")
	if !ok {
		return
	}
	var req service.CategoryInput
	if !decodeJSON(w, r, &req) {
		return
	}
	cat, err := h.posts.UpdateCategory(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, "category", err)
		return
	}
	WriteSuccess(w, cat, nil)
}

// DeleteCategory handles DELETE /api/v1/admin/categories/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "category")
	if !ok {
		return
	}
	if err := h.posts.DeleteCategory(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "category", err)
		return
	}
	WriteNoContent(w)
}

// ListTags handles GET /api/v1/tags
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.posts.ListTags(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "tag", err)
		return
	}
	WriteSuccess(w, tags, nil)
}

// CreateTag handles POST /api/v1/admin/tags
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req service.TagInput
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := h.posts.CreateTag(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "tag", err)
		return
	}
	WriteCreated(w, tag)
}

// UpdateTag handles PUT /api/v1/admin/tags/{id}
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "tag")
	if !ok {
		return
	}
	var req service.TagInput
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := h.posts.UpdateTag(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, "tag", err)
		return
	}
	WriteSuccess(w, tag, nil)
}

// DeleteTag handles DELETE /api/v1/admin/tags/{id}
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "tag")
	if !ok {
		return
	}
	if err := h.posts.DeleteTag(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "tag", err)
		return
	}
	WriteNoContent(w)
}
