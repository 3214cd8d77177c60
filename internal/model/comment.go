// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// CommentStatus is the moderation state of a comment.
type CommentStatus string

// Comment moderation statuses
const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
)

// IsValid reports whether s is a known moderation status.
func (s CommentStatus) IsValid() bool {
	switch s {
	case CommentPending, CommentApproved, CommentRejected:
		return true
	}
	return false
}

// Comment is a reader comment on a post. Guests leave a name and email;
// signed-in readers carry an AuthorID.
type Comment struct {
	ID         int64         `json:"id"`
	PostID     int64         `json:"post_id"`
	AuthorID   *string       `json:"author_id,omitempty"`
	GuestName  string        `json:"guest_name"`
	GuestEmail string        `json:"guest_email,omitempty"`
	Content    string        `json:"content"`
	Status     CommentStatus `json:"status"`
	UserAgent  string        `json:"-"`
	Browser    string        `json:"browser,omitempty"`
	OS         string        `json:"os,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// CommentCounts holds per-status totals for the moderation queue.
type CommentCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
