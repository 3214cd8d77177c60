// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/service"
)

// ListEvents handles GET /api/v1/admin/events
// Query: level (info, warning, error), page, per_page. Newest first.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	switch level {
	case "", model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError:
	default:
		WriteValidationError(w, map[string]string{"level": "must be info, warning or error"})
		return
	}

	page, perPage := service.NormalizePage(parsePage(r))
	events, err := h.events.ListEvents(r.Context(), level, perPage, (page-1)*perPage)
	if err != nil {
		h.writeServiceError(w, r, "event", err)
		return
	}
	WriteSuccess(w, events, &Meta{Page: page, PerPage: perPage})
}
