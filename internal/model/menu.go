// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"time"
)

// Menu locations
const (
	MenuLocationHeader  = "header"
	MenuLocationFooter  = "footer"
	MenuLocationSidebar = "sidebar"
)

// ValidMenuLocations contains all valid menu locations.
var ValidMenuLocations = []string{MenuLocationHeader, MenuLocationFooter, MenuLocationSidebar}

// Menu target values
const (
	TargetSelf   = "_self"
	TargetBlank  = "_blank"
	TargetParent = "_parent"
	TargetTop    = "_top"
)

// ValidTargets contains all valid link target values.
var ValidTargets = []string{TargetSelf, TargetBlank, TargetParent, TargetTop}

// Menu item types
const (
	MenuItemCategory = "category"
	MenuItemPost     = "post"
	MenuItemEbook    = "ebook"
	MenuItemPage     = "page"
	MenuItemCustom   = "custom"
	MenuItemExternal = "external"
)

// ValidMenuItemTypes contains all valid menu item types.
var ValidMenuItemTypes = []string{
	MenuItemCategory, MenuItemPost, MenuItemEbook,
	MenuItemPage, MenuItemCustom, MenuItemExternal,
}

// Reference types for category menu items
const (
	ReferencePostCategory  = "post_category"
	ReferenceEbookCategory = "ebook_category"
)

// Menu represents a navigation menu.
type Menu struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MenuItem represents an item in a navigation menu. A nil ParentID marks a
// top-level item.
type MenuItem struct {
	ID            int64     `json:"id"`
	MenuID        int64     `json:"menu_id"`
	ParentID      *int64    `json:"parent_id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Icon          string    `json:"icon,omitempty"`
	Color         string    `json:"color,omitempty"`
	Description   string    `json:"description,omitempty"`
	Target        string    `json:"target"`
	DisplayOrder  int       `json:"display_order"`
	IsActive      bool      `json:"is_active"`
	Type          string    `json:"type"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   *int64    `json:"reference_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsRoot reports whether the item has no parent.
func (m *MenuItem) IsRoot() bool {
	return m.ParentID == nil
}

// MenuNode is a menu item with its attached children, as produced by the
// tree builder.
type MenuNode struct {
	MenuItem
	Children []*MenuNode `json:"children"`
}

// Position assigns a display order to a record id.
type Position struct {
	ID           int64 `json:"id"`
	DisplayOrder int   `json:"display_order"`
}

// IsValidTarget checks if a target value is valid.
func IsValidTarget(target string) bool {
	return slices.Contains(ValidTargets, target)
}

// IsValidMenuItemType checks if a menu item type is valid.
func IsValidMenuItemType(t string) bool {
	return slices.Contains(ValidMenuItemTypes, t)
}

// IsValidMenuLocation checks if a menu location is valid.
func IsValidMenuLocation(loc string) bool {
	return slices.Contains(ValidMenuLocations, loc)
}
