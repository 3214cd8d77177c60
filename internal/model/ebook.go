// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Ebook is a catalog entry for a downloadable e-book hosted externally.
type Ebook struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	CoverImageURL  string   `json:"cover_image_url"`
	GoogleDriveURL string   `json:"google_drive_url"`
	FileSize       string   `json:"file_size"`
	FileFormat     string   `json:"file_format"`
	AuthorName     string   `json:"author_name"`
	IsOwnWork      bool     `json:"is_own_work"`
	Category       string   `json:"category"` // ebook category slug
	Tags           []string `json:"tags"`
	IsFeatured     bool     `json:"is_featured"`
	DisplayOrder   int      `json:"display_order"`
	AuthorID       string   `json:"author_id"`
	Lifecycle
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EbookCategory groups e-books.
type EbookCategory struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// EbookFilter narrows e-book listings.
type EbookFilter struct {
	Status   Status
	Category string
	Featured bool
}
