// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testUserID = "8d6c1c0e-5b0a-4c44-9f3e-2a1b7c9d0e11"
)

func newTestVerifier(t *testing.T, opts Options) *Verifier {
	t.Helper()
	if opts.Secret == "" {
		opts.Secret = testSecret
	}
	v, err := NewVerifier(context.Background(), opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return v
}

func mint(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims() Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testUserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: "owner@example.com",
		Role:  RoleAuthenticated,
	}
}

func TestVerify_Valid(t *testing.T) {
	v := newTestVerifier(t, Options{RequiredRole: RoleAuthenticated})

	claims, err := v.Verify(mint(t, testSecret, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID())
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestVerify_Rejects(t *testing.T) {
	v := newTestVerifier(t, Options{RequiredRole: RoleAuthenticated, Audience: "authenticated"})

	withAud := func(c Claims) Claims {
		c.Audience = jwt.ClaimStrings{"authenticated"}
		return c
	}

	expired := withAud(validClaims())
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExp := withAud(validClaims())
	noExp.ExpiresAt = nil

	anon := withAud(validClaims())
	anon.Role = "anon"

	badSubject := withAud(validClaims())
	badSubject.Subject = "42"

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", mint(t, "another-secret-another-secret-00", withAud(validClaims()))},
		{"expired", mint(t, testSecret, expired)},
		{"missing expiry", mint(t, testSecret, noExp)},
		{"anonymous role", mint(t, testSecret, anon)},
		{"subject not uuid", mint(t, testSecret, badSubject)},
		{"missing audience", mint(t, testSecret, validClaims())},
		{"none algorithm", func() string {
			s, _ := jwt.NewWithClaims(jwt.SigningMethodNone, withAud(validClaims())).SignedString(jwt.UnsafeAllowNoneSignatureType)
			return s
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}

	_, err := v.Verify(mint(t, testSecret, withAud(validClaims())))
	assert.NoError(t, err)
}

func TestNewVerifier_RequiresKeySource(t *testing.T) {
	_, err := NewVerifier(context.Background(), Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
