// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fauzinoor/kalam/internal/service"
)

// GetMenuTree handles GET /api/v1/menus/{slug}
// Public: returns the nested active items of an active menu.
func (h *Handler) GetMenuTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.menus.PublicTree(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeServiceError(w, r, "menu", err)
		return
	}
	WriteSuccess(w, tree, nil)
}

// ListMenus handles GET /api/v1/admin/menus
func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.menus.ListMenus(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "menu", err)
		return
	}
	WriteSuccess(w, menus, nil)
}

// GetMenu handles GET /api/v1/admin/menus/{id}
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "menu")
	if !ok {
		return
	}
	menu, err := h.menus.GetMenu(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "menu", err)
		return
	}
	WriteSuccess(w, menu, nil)
}

// CreateMenu handles POST /api/v1/admin/menus
func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	var req service.MenuInput
	if !decodeJSON(w, r, &req) {
		return
	}
	menu, err := h.menus.CreateMenu(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "menu", err)
		return
	}
	WriteCreated(w, menu)
}

// UpdateMenu handles PUT /api/v1/admin/menus/{id}
func (h *Handler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "menu")
	if !ok {
		return
	}
	var req service.MenuInput
	if !decodeJSON(w, r, &req) {
		return
	}
	menu, err := h.menus.UpdateMenu(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, "menu", err)
		return
	}
	WriteSuccess(w, menu, nil)
}

// DeleteMenu handles DELETE /api/v1/admin/menus/{id}
func (h *Handler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "menu")
	if !ok {
		return
	}
	if err := h.menus.DeleteMenu(r.Context(), id); err != nil {
		h.writeServiceError(w, r, "menu", err)
		return
	}
	WriteNoContent(w)
}

// GetAdminMenuTree handles GET /api/v1/admin/menus/{id}/tree
// Returns every item, active or not, plus the ids the tree could not place.
func (h *Handler) GetAdminMenuTree(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "menu")
	if !ok {
		return
	}
	tree, err := h.menus.AdminTree(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "menu", err)
		return
	}
	WriteSuccess(w, tree, nil)
}

// ListMenuItems handles GET /api/v1/admin/menus/{id}/items
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "menu")
	if !ok {
		return
	}
	items, err := h.menus.ListItems(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, "menu", err)
		return
	}
	WriteSuccess(w, items, nil)
}

// CreateMenuItem handles POST /api/v1/admin/menus/{id}/items
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(w, r, "id", "menu")
	if !ok {
		return
	}
	var req service.MenuItemInput
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.menus.CreateItem(r.Context(), menuID, req)
	if err != nil {
		h.writeServiceError(w, r, "menu item", err)
		return
	}
	WriteCreated(w, item)
}

// UpdateMenuItem handles PUT /api/v1/admin/menus/{id}/items/{itemID}
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(w, r, "id", "menu")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(w, r, "itemID", "menu item")
	if !ok {
		return
	}
	var req service.MenuItemInput
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.menus.UpdateItem(r.Context(), menuID, itemID, req)
	if err != nil {
		h.writeServiceError(w, r, "menu item", err)
		return
	}
	WriteSuccess(w, item, nil)
}

// DeleteMenuItemResponse lists the ids removed by a cascading delete.
type DeleteMenuItemResponse struct {
	Deleted []int64 `json:"deleted"`
}

// DeleteMenuItem handles DELETE /api/v1/admin/menus/{id}/items/{itemID}
// The item's descendants are deleted with it.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(w, r, "id", "menu")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(w, r, "itemID", "menu item")
	if !ok {
		return
	}
	deleted, err := h.menus.DeleteItem(r.Context(), menuID, itemID)
	if err != nil {
		h.writeServiceError(w, r, "menu item", err)
		return
	}
	WriteSuccess(w, DeleteMenuItemResponse{Deleted: deleted}, nil)
}

// ReorderMenuItems handles POST /api/v1/admin/menus/{id}/reorder
func (h *Handler) ReorderMenuItems(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(w, r, "id", "menu")
	if !ok {
		return
	}
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.menus.Reorder(r.Context(), menuID, req.IDs); err != nil {
		h.writeServiceError(w, r, "menu item", err)
		return
	}
	WriteNoContent(w)
}
