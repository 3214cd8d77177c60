// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Status is the publication state of a post or e-book.
type Status string

// Publication statuses
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ErrInvalidTransition is returned when a status change is not permitted.
var ErrInvalidTransition = errors.New("invalid status transition")

// allowedTransitions lists the statuses reachable from each status.
var allowedTransitions = map[Status][]Status{
	StatusDraft:     {StatusPublished, StatusArchived},
	StatusPublished: {StatusDraft, StatusArchived},
	StatusArchived:  {StatusDraft},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is permitted.
// Staying in the same status is always permitted.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return next.IsValid()
	}
	return slices.Contains(allowedTransitions[s], next)
}

// Lifecycle holds the publication state embedded in publishable records.
type Lifecycle struct {
	Status      Status     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
}

// IsPublished returns true if the record is published.
func (l *Lifecycle) IsPublished() bool {
	return l.Status == StatusPublished
}

// TransitionStatus moves l to next. Entering published stamps PublishedAt
// with now; leaving published keeps the stamp. A zero Status is treated as
// draft so new records can be created directly in any reachable status.
// It reports whether the status changed.
func TransitionStatus(l *Lifecycle, next Status, now time.Time) (bool, error) {
	if !next.IsValid() {
		return false, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	current := l.Status
	if current == "" {
		current = StatusDraft
	}
	if !current.CanTransitionTo(next) {
		return false, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, next)
	}
	if current == next && l.Status != "" {
		return false, nil
	}

	l.Status = next
	if next == StatusPublished {
		ts := now.UTC()
		l.PublishedAt = &ts
	}
	return true, nil
}
