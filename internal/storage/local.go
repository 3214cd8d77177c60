// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps objects under a directory that the HTTP server exposes
// at baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates the base directory if needed.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolving storage directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{
		basePath: abs,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// BasePath returns the absolute storage directory.
func (l *LocalStorage) BasePath() string {
	return l.basePath
}

// fullPath resolves key below basePath and verifies containment.
func (l *LocalStorage) fullPath(key string) (string, error) {
	full := filepath.Join(l.basePath, filepath.FromSlash(key))
	rel, err := filepath.Rel(l.basePath, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", ErrInvalidKey
	}
	return full, nil
}

// Put writes r to the file for key, replacing any existing file.
func (l *LocalStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	full, err := l.fullPath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}
	return l.URL(key), nil
}

// Delete removes the file for key.
func (l *LocalStorage) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	full, err := l.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

// DeletePrefix removes every file under the prefix directory.
func (l *LocalStorage) DeletePrefix(_ context.Context, prefix string) (int, error) {
	prefix, err := cleanPrefix(prefix)
	if err != nil {
		return 0, err
	}
	dir, err := l.fullPath(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return 0, err
	}

	count := 0
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("listing %s: %w", prefix, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return 0, fmt.Errorf("deleting %s: %w", prefix, err)
	}
	return count, nil
}

// URL returns baseURL joined with key.
func (l *LocalStorage) URL(key string) string {
	return l.baseURL + "/" + strings.TrimPrefix(key, "/")
}

var _ Storage = (*LocalStorage)(nil)
