// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a dependency is reachable. *sql.DB implements it;
// other clients are wrapped in a PingFunc.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// PingContext implements Pinger.
func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthChecker runs dependency checks for the health endpoint.
type HealthChecker struct {
	version   string
	checks    map[string]Pinger
	startTime time.Time
}

// NewHealthChecker creates a checker for the named dependencies. version is
// reported as is.
func NewHealthChecker(version string, checks map[string]Pinger) *HealthChecker {
	return &HealthChecker{version: version, checks: checks, startTime: time.Now()}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Version   string           `json:"version,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Checks    map[string]Check `json:"checks,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Latency string `json:"latency"`
}

// Health handles GET /healthz. Error details are logged, never returned.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Status: "healthy", Timestamp: time.Now().UTC()}
	if h.health == nil {
		WriteJSON(w, http.StatusOK, status)
		return
	}
	status.Version = h.health.version
	status.Uptime = time.Since(h.health.startTime).Round(time.Second).String()
	status.Checks = make(map[string]Check, len(h.health.checks))

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for name, p := range h.health.checks {
		start := time.Now()
		err := p.PingContext(ctx)
		check := Check{Status: "healthy", Latency: time.Since(start).String()}
		if err != nil {
			check.Status = "unhealthy"
			status.Status = "degraded"
			h.logger.Warn("health check failed", "check", name, "error", err)
		}
		status.Checks[name] = check
	}

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	WriteJSON(w, code, status)
}
