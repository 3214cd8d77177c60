// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"testing"
	"time"
)

func TestTransitionStatus(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		from        Status
		to          Status
		wantErr     bool
		wantChanged bool
		wantStamp   bool
	}{
		{"draft to published", StatusDraft, StatusPublished, false, true, true},
		{"published to draft", StatusPublished, StatusDraft, false, true, false},
		{"draft to archived", StatusDraft, StatusArchived, false, true, false},
		{"published to archived", StatusPublished, StatusArchived, false, true, false},
		{"archived to draft", StatusArchived, StatusDraft, false, true, false},
		{"archived to published", StatusArchived, StatusPublished, true, false, false},
		{"draft to draft", StatusDraft, StatusDraft, false, false, false},
		{"unknown target", StatusDraft, Status("deleted"), true, false, false},
		{"new record published", "", StatusPublished, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Lifecycle{Status: tt.from}
			changed, err := TransitionStatus(l, tt.to, t1)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("TransitionStatus() error = %v, want ErrInvalidTransition", err)
				}
				if l.Status != tt.from {
					t.Errorf("status changed to %q on error", l.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("TransitionStatus() error = %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if l.Status != tt.to {
				t.Errorf("status = %q, want %q", l.Status, tt.to)
			}
			if got := l.PublishedAt != nil; got != tt.wantStamp {
				t.Errorf("published_at set = %v, want %v", got, tt.wantStamp)
			}
		})
	}
}

func TestTransitionStatus_PublishedAtRetainedAndRestamped(t *testing.T) {
	first := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	l := &Lifecycle{Status: StatusDraft}
	if _, err := TransitionStatus(l, StatusPublished, first); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if _, err := TransitionStatus(l, StatusDraft, second); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if l.PublishedAt == nil || !l.PublishedAt.Equal(first) {
		t.Fatalf("published_at after unpublish = %v, want %v", l.PublishedAt, first)
	}

	if _, err := TransitionStatus(l, StatusPublished, second); err != nil {
		t.Fatalf("republish: %v", err)
	}
	if !l.PublishedAt.Equal(second) {
		t.Errorf("published_at after republish = %v, want %v", l.PublishedAt, second)
	}
}

func TestTransitionStatus_RepublishSameStatusKeepsStamp(t *testing.T) {
	first := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	l := &Lifecycle{Status: StatusDraft}
	_, _ = TransitionStatus(l, StatusPublished, first)

	changed, err := TransitionStatus(l, StatusPublished, first.Add(time.Hour))
	if err != nil {
		t.Fatalf("TransitionStatus() error = %v", err)
	}
	if changed {
		t.Error("expected no change for published to published")
	}
	if !l.PublishedAt.Equal(first) {
		t.Errorf("published_at = %v, want %v", l.PublishedAt, first)
	}
}

func TestTransitionStatus_ArchiveKeepsPublishedAt(t *testing.T) {
	first := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	l := &Lifecycle{Status: StatusDraft}
	_, _ = TransitionStatus(l, StatusPublished, first)
	if _, err := TransitionStatus(l, StatusArchived, first.Add(time.Hour)); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if l.PublishedAt == nil || !l.PublishedAt.Equal(first) {
		t.Errorf("published_at = %v, want %v", l.PublishedAt, first)
	}
}
