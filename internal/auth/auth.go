// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth verifies bearer tokens issued by the external identity
// provider. Tokens are never issued here.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrUnauthorized is returned for any token that fails verification.
var ErrUnauthorized = errors.New("unauthorized")

// RoleAuthenticated is the role carried by signed-in users' tokens.
const RoleAuthenticated = "authenticated"

// Claims are the token claims kalam reads.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// UserID returns the subject, which is the user's UUID.
func (c *Claims) UserID() string {
	return c.Subject
}

// Options configures a Verifier. Exactly one of JWKSURL and Secret is used;
// JWKSURL wins when both are set.
type Options struct {
	JWKSURL  string
	Secret   string
	Issuer   string
	Audience string
	// RequiredRole rejects tokens whose role claim differs. Empty disables
	// the check.
	RequiredRole string
}

// Verifier validates bearer tokens.
type Verifier struct {
	keyfunc jwt.Keyfunc
	methods []string
	opts    Options
	logger  *slog.Logger
}

// NewVerifier creates a verifier. With a JWKS URL the public keys are
// fetched and refreshed in the background for the lifetime of ctx.
func NewVerifier(ctx context.Context, opts Options, logger *slog.Logger) (*Verifier, error) {
	v := &Verifier{opts: opts, logger: logger}

	switch {
	case opts.JWKSURL != "":
		jwks, err := keyfunc.NewDefaultCtx(ctx, []string{opts.JWKSURL})
		if err != nil {
			return nil, fmt.Errorf("creating JWKS client: %w", err)
		}
		v.keyfunc = jwks.Keyfunc
		// Only asymmetric algorithms, to prevent algorithm confusion.
		v.methods = []string{"RS256", "ES256"}
		logger.Info("JWT verifier initialized", "jwks_url", opts.JWKSURL)
	case opts.Secret != "":
		secret := []byte(opts.Secret)
		v.keyfunc = func(*jwt.Token) (any, error) { return secret, nil }
		v.methods = []string{"HS256"}
		logger.Info("JWT verifier initialized", "mode", "shared secret")
	default:
		return nil, errors.New("either a JWKS URL or a JWT secret is required")
	}

	return v, nil
}

// Verify parses and validates a token and returns its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
	}
	if v.opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.opts.Issuer))
	}
	if v.opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.opts.Audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyfunc, parserOpts...)
	if err != nil || !token.Valid {
		v.logger.Debug("token rejected", "error", err)
		return nil, ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrUnauthorized
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		v.logger.Debug("token subject is not a UUID", "subject", claims.Subject)
		return nil, ErrUnauthorized
	}
	if v.opts.RequiredRole != "" && claims.Role != v.opts.RequiredRole {
		v.logger.Debug("token has unexpected role", "role", claims.Role, "user_id", claims.Subject)
		return nil, ErrUnauthorized
	}

	return claims, nil
}
