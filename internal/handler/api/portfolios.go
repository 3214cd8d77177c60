// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/fauzinoor/kalam/internal/middleware"
	"github.com/fauzinoor/kalam/internal/service"
)

// ListPublishedPortfolios handles GET /api/v1/portfolios
func (h *Handler) ListPublishedPortfolios(w http.ResponseWriter, r *http.Request) {
	items, err := h.portfolios.ListPublished(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "portfolio", err)
		return
	}
	WriteSuccess(w, items, nil)
}

// ListPortfolios handles GET /api/v1/admin/portfolios
// Lists the caller's portfolio items, drafts included.
func (h *Handler) ListPortfolios(w http.ResponseWriter, r *http.Request) {
	items, err := h.portfolios.ListByUser(r.Context(), middleware.GetUserID(r))
	if err != nil {
		h.writeServiceError(w, r, "portfolio", err)
		return
	}
	WriteSuccess(w, items, nil)
}

// GetPortfolio handles GET /api/v1/admin/portfolios/{id}
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "portfolio")
	if !ok {
		return
	}
	item, err := h.portfolios.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "portfolio", err)
		return
	}
	WriteSuccess(w, item, nil)
}

// CreatePortfolio handles POST /api/v1/admin/portfolios
func (h *Handler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req service.PortfolioInput
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.portfolios.Create(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		h.writeServiceError(w, r, "portfolio", err)
		return
	}
	WriteCreated(w, item)
}

// UpdatePortfolio handles PUT /api/v1/admin/portfolios/{id}
func (h *Handler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "portfolio")
	if !ok {
		return
	}
	var req service.PortfolioInput
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.portfolios.Update(r.Context(), middleware.GetUserID(r), id, req)
	if err != nil {
		h.writeServiceError(w, r, "portfolio", err)
		return
	}
	WriteSuccess(w, item, nil)
}

// SetPortfolioCover handles POST /api/v1/admin/portfolios/{id}/cover
func (h *Handler) SetPortfolioCover(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "portfolio")
	if !ok {
		return
	}
	file, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	item, err := h.portfolios.SetCover(r.Context(), middleware.GetUserID(r), id, file)
	if err != nil {
		h.writeServiceError(w, r, "portfolio", err)
		return
	}
	WriteSuccess(w, item, nil)
}

// DeletePortfolio handles DELETE /api/v1/admin/portfolios/{id}
func (h *Handler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "portfolio")
	if !ok {
		return
	}
	if err := h.portfolios.Delete(r.Context(), middleware.GetUserID(r), id); err != nil {
		h.writeServiceError(w, r, "portfolio", err)
		return
	}
	WriteNoContent(w)
}

// ReorderPortfolios handles POST /api/v1/admin/portfolios/reorder
func (h *Handler) ReorderPortfolios(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.portfolios.Reorder(r.Context(), req.IDs); err != nil {
		h.writeServiceError(w, r, "portfolio", err)
		return
	}
	WriteNoContent(w)
}
