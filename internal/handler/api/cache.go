// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/fauzinoor/kalam/internal/cache"
)

// CacheInfo describes the cache backend and its counters.
type CacheInfo struct {
	Backend string       `json:"backend"`
	Stats   *cache.Stats `json:"stats,omitempty"`
}

// GetCacheStats handles GET /api/v1/admin/cache
func (h *Handler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	info := CacheInfo{Backend: h.cacheBackend}
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		stats := sp.Stats()
		info.Stats = &stats
	}
	WriteSuccess(w, info, nil)
}

// ClearCache handles DELETE /api/v1/admin/cache
// Drops every cached entry and resets the counters.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		WriteNoContent(w)
		return
	}
	if err := h.cache.Clear(r.Context()); err != nil {
		h.writeServiceError(w, r, "cache", err)
		return
	}
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		sp.ResetStats()
	}
	h.logger.Info("cache cleared", "backend", h.cacheBackend)
	WriteNoContent(w)
}
