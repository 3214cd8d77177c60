// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithHeaders(cfg SecurityHeadersConfig, path string) *httptest.ResponseRecorder {
	handler := SecurityHeaders(cfg)(simpleOKHandler)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{name: "production mode enables HSTS", isDev: false, wantHSTS: true},
		{name: "development mode disables HSTS", isDev: true, wantHSTS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveWithHeaders(DefaultSecurityHeadersConfig(tt.isDev), "/api/v1/posts")

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS && hsts != "max-age=31536000; includeSubDomains" {
				t.Errorf("HSTS = %q", hsts)
			}
			if !tt.wantHSTS && hsts != "" {
				t.Errorf("expected no HSTS header but got: %s", hsts)
			}

			if csp := rec.Header().Get("Content-Security-Policy"); csp != "default-src 'none'; frame-ancestors 'none'" {
				t.Errorf("CSP = %q", csp)
			}
			if frame := rec.Header().Get("X-Frame-Options"); frame != "DENY" {
				t.Errorf("X-Frame-Options = %q, want DENY", frame)
			}
			if nosniff := rec.Header().Get("X-Content-Type-Options"); nosniff != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q, want nosniff", nosniff)
			}
			if rec.Header().Get("Permissions-Policy") == "" {
				t.Error("missing Permissions-Policy")
			}
		})
	}
}

func TestSecurityHeadersExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/uploads/"}

	tests := []struct {
		path        string
		wantHeaders bool
	}{
		{"/api/v1/posts", true},
		{"/healthz", true},
		{"/uploads/avatars/x/avatar.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			csp := serveWithHeaders(cfg, tt.path).Header().Get("Content-Security-Policy")
			if tt.wantHeaders && csp == "" {
				t.Errorf("expected CSP header for path %s", tt.path)
			}
			if !tt.wantHeaders && csp != "" {
				t.Errorf("expected no CSP header for path %s, got: %s", tt.path, csp)
			}
		})
	}
}

func TestBuildPoliciesAreSorted(t *testing.T) {
	csp := buildCSP(map[string]string{
		"img-src":     "'self' data:",
		"default-src": "'self'",
	})
	if csp != "default-src 'self'; img-src 'self' data:" {
		t.Errorf("buildCSP() = %q", csp)
	}

	pp := buildPermissionsPolicy(map[string]string{"usb": "()", "camera": "()"})
	if pp != "camera=(), usb=()" {
		t.Errorf("buildPermissionsPolicy() = %q", pp)
	}
	if !strings.Contains(pp, ", ") {
		t.Error("policies should be separated by commas")
	}
}
