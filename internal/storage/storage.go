// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage stores uploaded files (avatars, post images, covers) in a
// local directory or an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// Object key prefixes.
const (
	PrefixAvatars         = "avatars"
	PrefixPostImages      = "post-images"
	PrefixEbookCovers     = "ebook-covers"
	PrefixPortfolioCovers = "portfolio-covers"
)

// ErrInvalidKey is returned for keys that escape the storage root.
var ErrInvalidKey = errors.New("invalid object key")

// Storage is implemented by every storage backend.
type Storage interface {
	// Put writes an object and returns its public URL. A negative size
	// streams until EOF.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)

	// Delete removes one object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every object under prefix and returns how many
	// were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// URL returns the public URL for key.
	URL(key string) string
}

// cleanKey normalizes a key to a slash-separated relative path.
func cleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// cleanPrefix is cleanKey for folder prefixes; the result ends in a slash.
func cleanPrefix(prefix string) (string, error) {
	p, err := cleanKey(prefix)
	if err != nil {
		return "", err
	}
	return p + "/", nil
}
