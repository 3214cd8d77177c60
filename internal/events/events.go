// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package events publishes content events (posts published, comments
// submitted) to a message broker for downstream consumers such as
// notification senders and search indexers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types. The NATS subject is SubjectPrefix + type.
const (
	PostPublished   = "post.published"
	PostUnpublished = "post.unpublished"
	EbookPublished  = "ebook.published"
	CommentCreated  = "comment.created"
	CommentApproved = "comment.approved"
)

// Event is a single content event.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent creates an event with a fresh id.
func NewEvent(eventType string, data any) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// PostEventData contains data for post events.
type PostEventData struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Status      string     `json:"status"`
	AuthorID    string     `json:"author_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// EbookEventData contains data for e-book events.
type EbookEventData struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
}

// CommentEventData contains data for comment events.
type CommentEventData struct {
	ID        int64  `json:"id"`
	PostID    int64  `json:"post_id"`
	GuestName string `json:"guest_name,omitempty"`
	Status    string `json:"status"`
}

// Publisher delivers an event to a broker.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// Emitter is what services depend on to announce events.
type Emitter interface {
	Emit(ctx context.Context, eventType string, data any)
}

// NopEmitter drops every event.
type NopEmitter struct{}

// Emit implements Emitter.
func (NopEmitter) Emit(context.Context, string, any) {}
