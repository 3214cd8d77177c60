// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markup cleans and renders user-supplied text: post bodies are
// sanitized HTML, comments are plain text and portfolio descriptions are
// Markdown.
package markup

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	// ugcPolicy allows the formatting tags an editor produces and drops
	// scripts, event handlers and unsafe URLs.
	ugcPolicy = bluemonday.UGCPolicy()

	stripPolicy = bluemonday.StrictPolicy()

	md = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// SanitizeHTML returns s with unsafe markup removed.
func SanitizeHTML(s string) string {
	return ugcPolicy.Sanitize(s)
}

// StripHTML removes every tag from s and trims surrounding whitespace.
// Remaining text is HTML-escaped.
func StripHTML(s string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(s))
}

// RenderMarkdown converts Markdown to sanitized HTML.
func RenderMarkdown(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return ugcPolicy.Sanitize(buf.String()), nil
}
