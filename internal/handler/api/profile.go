// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/fauzinoor/kalam/internal/middleware"
	"github.com/fauzinoor/kalam/internal/service"
)

// GetPublicProfile handles GET /api/v1/profile
// Returns the site owner's profile.
func (h *Handler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetPublic(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "profile", err)
		return
	}
	WriteSuccess(w, profile, nil)
}

// GetProfile handles GET /api/v1/admin/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), middleware.GetUserID(r))
	if err != nil {
		h.writeServiceError(w, r, "profile", err)
		return
	}
	WriteSuccess(w, profile, nil)
}

// UpdateProfile handles PUT /api/v1/admin/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileInput
	if !decodeJSON(w, r, &req) {
		return
	}
	profile, err := h.profiles.Update(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		h.writeServiceError(w, r, "profile", err)
		return
	}
	WriteSuccess(w, profile, nil)
}

// UpdateSocials handles PUT /api/v1/admin/profile/socials
func (h *Handler) UpdateSocials(w http.ResponseWriter, r *http.Request) {
	var req service.SocialsInput
	if !decodeJSON(w, r, &req) {
		return
	}
	profile, err := h.profiles.UpdateSocials(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		h.writeServiceError(w, r, "profile", err)
		return
	}
	WriteSuccess(w, profile, nil)
}

// UpdateNotifications handles PUT /api/v1/admin/profile/notifications
// The body is a map of preference keys to booleans, merged into the stored
// preferences.
func (h *Handler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	var req map[string]bool
	if !decodeJSON(w, r, &req) {
		return
	}
	profile, err := h.profiles.UpdateNotifications(r.Context(), middleware.GetUserID(r), req)
	if err != nil {
		h.writeServiceError(w, r, "profile", err)
		return
	}
	WriteSuccess(w, profile, nil)
}

// UploadAvatar handles POST /api/v1/admin/profile/avatar
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	profile, err := h.profiles.UploadAvatar(r.Context(), middleware.GetUserID(r), file)
	if err != nil {
		h.writeServiceError(w, r, "avatar", err)
		return
	}
	WriteSuccess(w, profile, nil)
}

// DeleteAvatar handles DELETE /api/v1/admin/profile/avatar
func (h *Handler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.DeleteAvatar(r.Context(), middleware.GetUserID(r))
	if err != nil {
		h.writeServiceError(w, r, "avatar", err)
		return
	}
	WriteSuccess(w, profile, nil)
}
