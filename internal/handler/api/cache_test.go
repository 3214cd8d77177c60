// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fauzinoor/kalam/internal/service"
)

func TestCache_StatsAndClear(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/admin/menus", ownerToken, service.MenuInput{Name: "Main"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for range 2 {
		w = api.do(http.MethodGet, "/menus/main", "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = api.do(http.MethodGet, "/admin/cache", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	info, _ := decodeData[CacheInfo](t, w)
	assert.Equal(t, "memory", info.Backend)
	require.NotNil(t, info.Stats)
	assert.Equal(t, int64(1), info.Stats.Hits)
	assert.Equal(t, int64(1), info.Stats.Misses)
	assert.Equal(t, 1, info.Stats.Items)

	w = api.do(http.MethodGet, "/admin/cache", visitorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodDelete, "/admin/cache", ownerToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/admin/cache", ownerToken, nil)
	info, _ = decodeData[CacheInfo](t, w)
	require.NotNil(t, info.Stats)
	assert.Zero(t, info.Stats.Hits)
	assert.Zero(t, info.Stats.Items)
}
