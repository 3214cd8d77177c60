// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic and service layer functionality.
package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/fauzinoor/kalam/internal/util"
)

// Service errors. Store lookups report model.ErrNotFound directly.
var (
	ErrSlugTaken        = errors.New("slug already in use")
	ErrCategoryInUse    = errors.New("category is in use")
	ErrInvalidParent    = errors.New("invalid parent item")
	ErrItemNotInMenu    = errors.New("item does not belong to this menu")
	ErrForbidden        = errors.New("forbidden")
	ErrCommentsDisabled = errors.New("comments are disabled for this post")
)

// ValidationError carries per-field messages for a rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validationErr converts ozzo validation errors into a *ValidationError.
// Internal rule errors are returned unchanged.
func validationErr(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for k, v := range verrs {
			fields[k] = v.Error()
		}
		return &ValidationError{Fields: fields}
	}
	return err
}

func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// slugRule checks the slug alphabet when a slug is given.
var slugRule = validation.By(func(v any) error {
	s, _ := v.(string)
	if s != "" && !util.IsValidSlug(s) {
		return errors.New("must contain only lowercase letters, numbers and single hyphens")
	}
	return nil
})

// ApplySlug returns the slug to store for a record. An explicit slug is kept
// as given; otherwise one is derived from the title. An empty title and slug
// give an empty result.
func ApplySlug(title, slug string) string {
	if slug = strings.TrimSpace(slug); slug != "" {
		return slug
	}
	if strings.TrimSpace(title) == "" {
		return ""
	}
	return util.DeriveSlug(title)
}

// resolveSlug applies ApplySlug and checks the result against exists.
func resolveSlug(title, slug string, exists func(string) (bool, error)) (string, error) {
	slug = ApplySlug(title, slug)
	if slug == "" {
		return "", fieldError("slug", "cannot be derived from the title")
	}
	if !util.IsValidSlug(slug) {
		return "", fieldError("slug", "must contain only lowercase letters, numbers and single hyphens")
	}
	taken, err := exists(slug)
	if err != nil {
		return "", fmt.Errorf("checking slug: %w", err)
	}
	if taken {
		return "", fmt.Errorf("%w: %s", ErrSlugTaken, slug)
	}
	return slug, nil
}

// boolOr returns *b, or def when b is nil.
func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// cleanList trims entries and drops empty and repeated ones.
func cleanList(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
