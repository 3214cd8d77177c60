// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fauzinoor/kalam/internal/scheduler"
)

// ListJobs handles GET /api/v1/admin/jobs
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		WriteSuccess(w, []scheduler.JobInfo{}, nil)
		return
	}
	WriteSuccess(w, h.jobs.List(), nil)
}

// RunJob handles POST /api/v1/admin/jobs/{name}/run
// Runs the job synchronously and reports its error, if any.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.jobs == nil {
		WriteNotFound(w, "Job not found")
		return
	}
	if err := h.jobs.TriggerNow(r.Context(), name); err != nil {
		h.writeServiceError(w, r, "job", err)
		return
	}
	WriteNoContent(w)
}
