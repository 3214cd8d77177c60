// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package markup

import (
	"strings"
	"testing"
)

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{
			name: "keeps formatting",
			in:   `<p>Hello <strong>world</strong></p>`,
			want: []string{"<p>", "<strong>world</strong>"},
		},
		{
			name:    "drops script",
			in:      `<p>ok</p><script>alert(1)</script>`,
			want:    []string{"<p>ok</p>"},
			notWant: []string{"script", "alert"},
		},
		{
			name:    "drops event handlers",
			in:      `<a href="https://example.com" onclick="steal()">x</a>`,
			want:    []string{`href="https://example.com"`},
			notWant: []string{"onclick"},
		},
		{
			name:    "drops javascript urls",
			in:      `<a href="javascript:alert(1)">x</a>`,
			notWant: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeHTML(tt.in)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("SanitizeHTML(%q) = %q, missing %q", tt.in, got, w)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("SanitizeHTML(%q) = %q, should not contain %q", tt.in, got, nw)
				}
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"  <b>bold</b> move ", "bold move"},
		{"<script>alert(1)</script>hi", "hi"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	got, err := RenderMarkdown("# Title\n\nSome *emphasis* and a [link](https://example.com).\n")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	for _, w := range []string{"<h1", "Title</h1>", "<em>emphasis</em>", `href="https://example.com"`} {
		if !strings.Contains(got, w) {
			t.Errorf("rendered %q, missing %q", got, w)
		}
	}
}

func TestRenderMarkdown_RawHTMLRemoved(t *testing.T) {
	got, err := RenderMarkdown("hello\n\n<script>alert(1)</script>\n")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if strings.Contains(got, "<script") {
		t.Errorf("raw script survived: %q", got)
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	got, err := RenderMarkdown("   ")
	if err != nil || got != "" {
		t.Errorf("RenderMarkdown(blank) = %q, %v", got, err)
	}
}
