// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fauzinoor/kalam/internal/auth"
	"github.com/fauzinoor/kalam/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys
const (
	ContextKeyClaims ContextKey = "claims"
)

// TokenVerifier validates bearer tokens. *auth.Verifier implements it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate requires a valid bearer token and stores its claims in the
// request context.
func Authenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized",
					"Missing or malformed Authorization header. Use: Bearer <token>", nil)
				return
			}
			claims, err := v.Verify(token)
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuthenticate stores the claims of a valid bearer token in the
// request context. Requests without a valid token pass through anonymously.
func OptionalAuthenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if claims, err := v.Verify(token); err == nil {
					r = r.WithContext(WithClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner rejects authenticated users other than the site owner. An
// empty ownerID admits every authenticated user. Use after Authenticate.
func RequireOwner(ownerID string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r)
			if userID == "" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}
			if ownerID != "" && userID != ownerID {
				logger.Warn("access denied: not the site owner",
					"category", model.EventCategoryAuth,
					"user_id", userID,
					"path", r.URL.Path,
					"method", r.Method)
				WriteAPIError(w, http.StatusForbidden, "forbidden", "Only the site owner may do this", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

// GetClaims retrieves the token claims from the request context.
// Returns nil for anonymous requests.
func GetClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(ContextKeyClaims).(*auth.Claims)
	return claims
}

// GetUserID returns the authenticated user's id, or "" when anonymous.
func GetUserID(r *http.Request) string {
	if claims := GetClaims(r); claims != nil {
		return claims.UserID()
	}
	return ""
}

// GetUserIDPtr returns the authenticated user's id as a pointer, or nil when
// anonymous.
func GetUserIDPtr(r *http.Request) *string {
	if id := GetUserID(r); id != "" {
		return &id
	}
	return nil
}
