// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"testing"
)

func TestApplySlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		slug  string
		want  string
	}{
		{"explicit slug kept", "Hello World", "custom-slug", "custom-slug"},
		{"explicit slug kept even if title differs", "Other", "my-post", "my-post"},
		{"derived from title", "Hello World", "", "hello-world"},
		{"whitespace slug derives", "Café Résumé", "   ", "cafe-resume"},
		{"no title no slug", "", "", ""},
		{"blank title", "   ", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplySlug(tt.title, tt.slug); got != tt.want {
				t.Errorf("ApplySlug(%q, %q) = %q, want %q", tt.title, tt.slug, got, tt.want)
			}
		})
	}
}

func TestResolveSlug(t *testing.T) {
	never := func(string) (bool, error) { return false, nil }
	always := func(string) (bool, error) { return true, nil }

	if got, err := resolveSlug("My Post", "", never); err != nil || got != "my-post" {
		t.Errorf("resolveSlug = %q, %v", got, err)
	}
	if _, err := resolveSlug("My Post", "", always); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("expected ErrSlugTaken, got %v", err)
	}

	var verr *ValidationError
	if _, err := resolveSlug("!!!", "", never); !errors.As(err, &verr) || verr.Fields["slug"] == "" {
		t.Errorf("expected slug validation error, got %v", err)
	}
	if _, err := resolveSlug("x", "Bad Slug", never); !errors.As(err, &verr) {
		t.Errorf("expected validation error for invalid explicit slug, got %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"title": "cannot be blank", "slug": "bad"}}
	want := "validation failed: slug: bad; title: cannot be blank"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, perPage         int
		wantPage, wantPerPage int
	}{
		{0, 0, 1, DefaultPerPage},
		{-3, 5, 1, 5},
		{4, 500, 4, MaxPerPage},
	}
	for _, tt := range tests {
		p, pp := NormalizePage(tt.page, tt.perPage)
		if p != tt.wantPage || pp != tt.wantPerPage {
			t.Errorf("NormalizePage(%d, %d) = %d, %d", tt.page, tt.perPage, p, pp)
		}
	}
}

func TestCleanList(t *testing.T) {
	got := cleanList([]string{" go ", "", "go", "rust", "  "})
	if len(got) != 2 || got[0] != "go" || got[1] != "rust" {
		t.Errorf("cleanList = %v", got)
	}
}

func TestCheckOrderedIDs(t *testing.T) {
	if err := checkOrderedIDs([]int64{3, 1, 2}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	var verr *ValidationError
	if err := checkOrderedIDs(nil); !errors.As(err, &verr) {
		t.Errorf("empty list: got %v", err)
	}
	if err := checkOrderedIDs([]int64{1, 2, 1}); !errors.As(err, &verr) {
		t.Errorf("duplicate ids: got %v", err)
	}
}
