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

// ListPublishedEbooks handles GET /api/v1/ebooks
// Query: category (slug), featured.
func (h *Handler) ListPublishedEbooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.ebooks.ListPublished(r.Context(), r.URL.Query().Get("category"), parseBool(r, "featured"))
	if err != nil {
		h.writeServiceError(w, r, "e-book", err)
		return
	}
	WriteSuccess(w, books, nil)
}

// GetEbookBySlug handles GET /api/v1/ebooks/{slug}
func (h *Handler) GetEbookBySlug(w http.ResponseWriter, r *http.Request) {
	book, err := h.ebooks.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeServiceError(w, r, "e-book", err)
		return
	}
	WriteSuccess(w, book, nil)
}

// ListEbooks handles GET /api/v1/admin/ebooks
// Query: status.
func (h *Handler) ListEbooks(w http.ResponseWriter, r *http.Request) {
	status := model.Status(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		WriteValidationError(w, map[string]string{"status": "must be draft, published or archived"})
		return
	}
	books, err := h.ebooks.ListAll(r.Context(), status)
	if err != nil {
		h.writeServiceError(w, r, "e-book", err)
		return
	}
	WriteSuccess(w, books, nil)
}

// GetEbook handles GET /api/v1/admin/ebooks/{id}
func (h *Handler) GetEbook(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "e-book")
	if !ok {
		return
	}
	book, err := h.ebooks.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "e-book", err)
		return
	}
	WriteSuccess(w, book, nil)
}

// CreateEbook handles POST /api/v1/admin/ebooks
func (h *Handler) CreateEbook(w http.ResponseWriter, r *http.Request) {
	var req service.EbookInput
	if !decodeJSON(w, r, &req) {
		return
	}
	book, err := h.ebooks.Create(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		h.writeServiceError(w, r, "e-book", err)
		return
	}
	WriteCreated(w, book)
}

// UpdateEbook handles PUT /api/v1/admin/ebooks/{id}
func (h *Handler) UpdateEbook(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "e-book")
	if !ok {
		return
	}
	var req service.EbookInput
	if !decodeJSON(w, r, &req) {
		return
	}
	book, err := h.ebooks.Update(r.Context(), middleware.GetUserID(r), id, req)
	if err != nil {
		h.writeServiceError(w, r, "e-book", err)
		return
	}
	WriteSuccess(w, book, nil)
}

// SetEbookStatus handles PUT /api/v1/admin/ebooks/{id}/status
func (h *Handler) SetEbookStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "e-book")
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	book, err := h.ebooks.SetStatus(r.Context(), middleware.GetUserID(r), id, req.Status)
	if err != nil {
		h.writeServiceError(w, r, "e-book", err)
		return
	}
	WriteSuccess(w, book, nil)
}

// SetEbookCover handles POST /api/v1/admin/ebooks/{id}/cover
func (h *Handler) SetEbookCover(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "e-book")
	if !ok {
		return
	}
	file, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	book, err := h.ebooks.SetCover(r.Context(), middleware.GetUserID(r), id, file)
	if err != nil {
		h.writeServiceError(w, r, "e-book", err)
		return
	}
	WriteSuccess(w, book, nil)
}

// DeleteEbook handles DELETE /api/v1/admin/ebooks/{id}
func (h *Handler) DeleteEbook(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "e-book")
	if !ok {
		return
	}
	if err := h.ebooks.Delete(r.Context(), middleware.GetUserID(r), id); err != nil {
		h.writeServiceError(w, r, "e-book", err)
		return
	}
	WriteNoContent(w)
}

// ReorderEbooks handles POST /api/v1/admin/ebooks/reorder
func (h *Handler) ReorderEbooks(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.ebooks.Reorder(r.Context(), req.IDs); err != nil {
		h.writeServiceError(w, r, "e-book", err)
		return
	}
	WriteNoContent(w)
}

// ListEbookCategories handles GET /api/v1/ebook-categories
func (h *Handler) ListEbookCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.ebooks.ListCategories(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "e-book category", err)
		return
	}
	WriteSuccess(w, cats, nil)
}

// CreateEbookCategory handles POST /api/v1/admin/ebook-categories
func (h *Handler) CreateEbookCategory(w http.ResponseWriter, r *http.Request) {
	var req service.EbookCategoryInput
	if !decodeJSON(w, r, &req) {
		return
	}
	cat, err := h.ebooks.CreateCategory(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "e-book category", err)
		return
	}
	WriteCreated(w, cat)
}

// UpdateEbookCategory handles PUT /api/v1/admin/ebook-categories/{id}
// A slug change is carried over to the e-books filed under the category.
func (h *Handler) UpdateEbookCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "e-book category")
	if !ok {
		return
	}
	var req service.EbookCategoryInput
	if !decodeJSON(w, r, &req) {
		return
	}
	cat, err := h.ebooks.UpdateCategory(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, "e-book category", err)
		return
	}
	WriteSuccess(w, cat, nil)
}

// DeleteEbookCategory handles DELETE /api/v1/admin/ebook-categories/{id}
// Fails with 409 while e-books still use the category.
func (h *Handler) DeleteEbookCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "e-book category")
	if !ok {
		return
	}
	if err := h.ebooks.DeleteCategory(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "e-book category", err)
		return
	}
	WriteNoContent(w)
}
