// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"time"
)

// Portfolio categories
const (
	PortfolioProject      = "project"
	PortfolioPresentation = "presentation"
	PortfolioAchievement  = "achievement"
	PortfolioPublication  = "publication"
)

// ValidPortfolioCategories contains all valid portfolio categories.
var ValidPortfolioCategories = []string{
	PortfolioProject, PortfolioPresentation, PortfolioAchievement, PortfolioPublication,
}

// Portfolio is a showcase entry.
type Portfolio struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html"`
	Category        string    `json:"category"`
	CoverImage      string    `json:"cover_image"`
	LinkURL         string    `json:"link_url"`
	Tags            []string  `json:"tags"`
	Featured        bool      `json:"featured"`
	IsPublished     bool      `json:"is_published"`
	DisplayOrder    int       `json:"display_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsValidPortfolioCategory checks if a portfolio category is valid.
func IsValidPortfolioCategory(c string) bool {
	return slices.Contains(ValidPortfolioCategories, c)
}
