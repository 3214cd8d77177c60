// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"punctuation and number", "Hello, World! #1", "hello-world-1"},
		{"padded with ampersand", "  Belajar Islam & Teknologi!! ", "belajar-islam-teknologi"},
		{"with accents", "Café résumé", "cafe-resume"},
		{"multiple spaces", "Hello   World", "hello-world"},
		{"tabs and newlines", "Hello\t\nWorld", "hello-world"},
		{"spaced hyphen", "Hello - World", "hello-world"},
		{"underscores", "snake_case__title", "snake-case-title"},
		{"leading and trailing hyphens", "--Hello--", "hello"},
		{"german umlaut", "Über Straße", "uber-strasse"},
		{"cyrillic", "Привет мир", "privet-mir"},
		{"only symbols", "!!! ###", ""},
		{"empty", "", ""},
		{"already a slug", "already-a-slug", "already-a-slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveSlug(tt.input); got != tt.expected {
				t.Errorf("DeriveSlug(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDeriveSlug_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello, World! #1",
		"  Belajar Islam & Teknologi!! ",
		"Ünïcödé -- Tïtlé",
		"a_b c-d",
		"日本語のタイトル",
		"---",
	}

	for _, in := range inputs {
		once := DeriveSlug(in)
		twice := DeriveSlug(once)
		if once != twice {
			t.Errorf("DeriveSlug not idempotent for %q: %q then %q", in, once, twice)
		}
		if once != "" && !IsValidSlug(once) {
			t.Errorf("DeriveSlug(%q) = %q is not a valid slug", in, once)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"hello-world", true},
		{"post-123", true},
		{"a", true},
		{"", false},
		{"Hello", false},
		{"-hello", false},
		{"hello-", false},
		{"hello--world", false},
		{"hello_world", false},
		{"hello world", false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.slug); got != tt.want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}
