// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/scheduler"
	"github.com/fauzinoor/kalam/internal/service"
)

func TestJobs_ListAndRun(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/admin/jobs", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	jobs, _ := decodeData[[]scheduler.JobInfo](t, w)
	require.Len(t, jobs, 2)
	assert.Equal(t, scheduler.JobAuditMenus, jobs[0].Name)
	assert.Equal(t, scheduler.JobPublishPosts, jobs[1].Name)

	due := time.Now().Add(-time.Hour).UTC()
	post := createPost(t, api, service.PostInput{Title: "Scheduled", ScheduledAt: &due})
	assert.Equal(t, model.StatusDraft, post.Status)

	w = api.do(http.MethodGet, "/posts/scheduled", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPost, "/admin/jobs/"+scheduler.JobPublishPosts+"/run", ownerToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/posts/scheduled", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/admin/jobs/unknown/run", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
