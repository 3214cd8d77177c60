// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Post is a blog article.
type Post struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	Content         string   `json:"content"`
	CoverURL        string   `json:"cover_url"`
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
	MetaKeywords    []string `json:"meta_keywords"`
	EnableComments  bool     `json:"enable_comments"`
	AuthorID        string   `json:"author_id"`
	Lifecycle
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`
}

// Category groups posts.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Tag labels posts.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// PostFilter narrows post listings.
type PostFilter struct {
	Status       Status
	AuthorID     string
	CategorySlug string
	TagSlug      string
	Limit        int
	Offset       int
}
