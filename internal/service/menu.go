// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/fauzinoor/kalam/internal/cache"
	"github.com/fauzinoor/kalam/internal/model"
)

// MenuStore is the persistence used by MenuService.
type MenuStore interface {
	ListMenus(ctx context.Context) ([]model.Menu, error)
	GetMenuByID(ctx context.Context, id int64) (model.Menu, error)
	GetMenuBySlug(ctx context.Context, slug string) (model.Menu, error)
	MenuSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	CreateMenu(ctx context.Context, m model.Menu) (model.Menu, error)
	UpdateMenu(ctx context.Context, m model.Menu) (model.Menu, error)
	DeleteMenu(ctx context.Context, id int64) error

	ListMenuItems(ctx context.Context, menuID int64) ([]model.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (model.MenuItem, error)
	MaxMenuItemOrder(ctx context.Context, menuID int64, parentID *int64) (int, error)
	CreateMenuItem(ctx context.Context, it model.MenuItem) (model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, it model.MenuItem) (model.MenuItem, error)
	ReorderMenuItems(ctx context.Context, menuID int64, positions []model.Position) error
	DeleteMenuItems(ctx context.Context, ids []int64) error
}

// MenuTreeCacheNamespace prefixes cached public menu trees.
const MenuTreeCacheNamespace = "menu:tree:"

// MenuInput is the writable part of a menu.
type MenuInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Location    string `json:"location"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

func (in *MenuInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Location == "" {
		in.Location = model.MenuLocationHeader
	}
}

func (in *MenuInput) validate() error {
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Slug, validation.Length(0, 100), slugRule),
		validation.Field(&in.Location, validation.In(stringsToAny(model.ValidMenuLocations)...)),
		validation.Field(&in.Description, validation.Length(0, 500)),
	))
}

// MenuItemInput is the writable part of a menu item.
type MenuItemInput struct {
	ParentID      *int64 `json:"parent_id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	Description   string `json:"description"`
	Target        string `json:"target"`
	DisplayOrder  int    `json:"display_order"`
	IsActive      *bool  `json:"is_active"`
	Type          string `json:"type"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   *int64 `json:"reference_id"`
}

func (in *MenuItemInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	if in.Target == "" {
		in.Target = model.TargetSelf
	}
	if in.Type == "" {
		in.Type = model.MenuItemCustom
	}
}

func (in *MenuItemInput) validate() error {
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.URL,
			validation.Length(0, 2048),
			validation.When(in.Type == model.MenuItemExternal, validation.Required, is.URL)),
		validation.Field(&in.Target, validation.In(stringsToAny(model.ValidTargets)...)),
		validation.Field(&in.DisplayOrder, validation.Min(0)),
		validation.Field(&in.Type, validation.In(stringsToAny(model.ValidMenuItemTypes)...)),
		validation.Field(&in.ReferenceType,
			validation.In(model.ReferencePostCategory, model.ReferenceEbookCategory),
			validation.When(in.Type == model.MenuItemCategory, validation.Required)),
		validation.Field(&in.ReferenceID,
			validation.When(in.ReferenceType != "", validation.Required)),
	))
}

// MenuService manages menus and their item hierarchies. Public trees are
// cached per menu slug when a cache is configured.
type MenuService struct {
	store  MenuStore
	trees  *cache.TypedCache[MenuTree]
	logger *slog.Logger
}

// NewMenuService creates a new MenuService. A nil cache disables tree caching.
func NewMenuService(store MenuStore, c cache.Cacher, ttl time.Duration, logger *slog.Logger) *MenuService {
	s := &MenuService{store: store, logger: logger}
	if c != nil {
		s.trees = cache.NewTypedCache[MenuTree](c, MenuTreeCacheNamespace, ttl)
	}
	return s
}

// ListMenus returns all menus.
func (s *MenuService) ListMenus(ctx context.Context) ([]model.Menu, error) {
	return s.store.ListMenus(ctx)
}

// GetMenu returns a menu by id.
func (s *MenuService) GetMenu(ctx context.Context, id int64) (model.Menu, error) {
	return s.store.GetMenuByID(ctx, id)
}

// CreateMenu creates a menu. The slug is derived from the name when empty.
func (s *MenuService) CreateMenu(ctx context.Context, in MenuInput) (model.Menu, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return model.Menu{}, err
	}
	slug, err := resolveSlug(in.Name, in.Slug, func(slug string) (bool, error) {
		return s.store.MenuSlugExists(ctx, slug, 0)
	})
	if err != nil {
		return model.Menu{}, err
	}

	menu, err := s.store.CreateMenu(ctx, model.Menu{
		Name:        in.Name,
		Slug:        slug,
		Location:    in.Location,
		Description: in.Description,
		IsActive:    boolOr(in.IsActive, true),
	})
	if err != nil {
		return model.Menu{}, fmt.Errorf("creating menu: %w", err)
	}
	return menu, nil
}

// UpdateMenu replaces a menu's fields. A cleared slug is derived again from
// the name.
func (s *MenuService) UpdateMenu(ctx context.Context, id int64, in MenuInput) (model.Menu, error) {
	existing, err := s.store.GetMenuByID(ctx, id)
	if err != nil {
		return model.Menu{}, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return model.Menu{}, err
	}
	slug, err := resolveSlug(in.Name, in.Slug, func(slug string) (bool, error) {
		return s.store.MenuSlugExists(ctx, slug, id)
	})
	if err != nil {
		return model.Menu{}, err
	}

	oldSlug := existing.Slug
	existing.Name = in.Name
	existing.Slug = slug
	existing.Location = in.Location
	existing.Description = in.Description
	existing.IsActive = boolOr(in.IsActive, existing.IsActive)

	menu, err := s.store.UpdateMenu(ctx, existing)
	if err != nil {
		return model.Menu{}, fmt.Errorf("updating menu: %w", err)
	}
	s.invalidate(ctx, oldSlug, menu.Slug)
	return menu, nil
}

// DeleteMenu deletes a menu together with its items.
func (s *MenuService) DeleteMenu(ctx context.Context, id int64) error {
	menu, err := s.store.GetMenuByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteMenu(ctx, id); err != nil {
		return fmt.Errorf("deleting menu: %w", err)
	}
	s.invalidate(ctx, menu.Slug)
	return nil
}

// ListItems returns a menu's items in display order.
func (s *MenuService) ListItems(ctx context.Context, menuID int64) ([]model.MenuItem, error) {
	if _, err := s.store.GetMenuByID(ctx, menuID); err != nil {
		return nil, err
	}
	return s.store.ListMenuItems(ctx, menuID)
}

// AdminTree builds the tree of all items of a menu, active or not, and
// reports the items that cannot be reached from a root.
func (s *MenuService) AdminTree(ctx context.Context, menuID int64) (MenuTree, error) {
	items, err := s.ListItems(ctx, menuID)
	if err != nil {
		return MenuTree{}, err
	}
	return BuildMenuTree(items), nil
}

// PublicTree returns the tree of active items of an active menu. An inactive
// item hides its whole subtree.
func (s *MenuService) PublicTree(ctx context.Context, slug string) (*MenuTree, error) {
	load := func() (*MenuTree, error) {
		menu, err := s.store.GetMenuBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if !menu.IsActive {
			return nil, model.ErrNotFound
		}
		items, err := s.store.ListMenuItems(ctx, menu.ID)
		if err != nil {
			return nil, fmt.Errorf("listing menu items: %w", err)
		}
		active := make([]model.MenuItem, 0, len(items))
		for _, it := range items {
			if it.IsActive {
				active = append(active, it)
			}
		}
		tree := BuildMenuTree(active)
		// Hidden subtrees are expected in public trees; only the admin view
		// reports them.
		tree.Dropped = nil
		return &tree, nil
	}

	if s.trees == nil {
		return load()
	}
	return s.trees.GetOrSet(ctx, slug, load)
}

// CreateItem adds an item to a menu. A zero display order appends the item
// after its last sibling.
func (s *MenuService) CreateItem(ctx context.Context, menuID int64, in MenuItemInput) (model.MenuItem, error) {
	menu, err := s.store.GetMenuByID(ctx, menuID)
	if err != nil {
		return model.MenuItem{}, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return model.MenuItem{}, err
	}
	if in.ParentID != nil {
		if err := s.checkParent(ctx, menuID, 0, *in.ParentID, nil); err != nil {
			return model.MenuItem{}, err
		}
	}
	if in.DisplayOrder == 0 {
		maxOrder, err := s.store.MaxMenuItemOrder(ctx, menuID, in.ParentID)
		if err != nil {
			return model.MenuItem{}, fmt.Errorf("reading sibling order: %w", err)
		}
		in.DisplayOrder = maxOrder + 1
	}

	item, err := s.store.CreateMenuItem(ctx, in.apply(model.MenuItem{MenuID: menuID, IsActive: true}))
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("creating menu item: %w", err)
	}
	s.invalidate(ctx, menu.Slug)
	return item, nil
}

// UpdateItem replaces an item's fields. Moving an item under another parent
// is allowed as long as the parent belongs to the same menu and is neither
// the item itself nor one of its descendants. A zero display order keeps the
// current position, or appends the item after its new siblings when the
// parent changes.
func (s *MenuService) UpdateItem(ctx context.Context, menuID, itemID int64, in MenuItemInput) (model.MenuItem, error) {
	menu, err := s.store.GetMenuByID(ctx, menuID)
	if err != nil {
		return model.MenuItem{}, err
	}
	existing, err := s.itemInMenu(ctx, menuID, itemID)
	if err != nil {
		return model.MenuItem{}, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return model.MenuItem{}, err
	}
	if in.ParentID != nil {
		items, err := s.store.ListMenuItems(ctx, menuID)
		if err != nil {
			return model.MenuItem{}, fmt.Errorf("listing menu items: %w", err)
		}
		if err := s.checkParent(ctx, menuID, itemID, *in.ParentID, items); err != nil {
			return model.MenuItem{}, err
		}
	}

	if in.DisplayOrder == 0 {
		if sameParent(existing.ParentID, in.ParentID) {
			in.DisplayOrder = existing.DisplayOrder
		} else {
			maxOrder, err := s.store.MaxMenuItemOrder(ctx, menuID, in.ParentID)
			if err != nil {
				return model.MenuItem{}, fmt.Errorf("reading sibling order: %w", err)
			}
			in.DisplayOrder = maxOrder + 1
		}
	}

	item, err := s.store.UpdateMenuItem(ctx, in.apply(existing))
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("updating menu item: %w", err)
	}
	s.invalidate(ctx, menu.Slug)
	return item, nil
}

// DeleteItem deletes an item and every item below it. It returns the ids
// removed, deepest first.
func (s *MenuService) DeleteItem(ctx context.Context, menuID, itemID int64) ([]int64, error) {
	menu, err := s.store.GetMenuByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if _, err := s.itemInMenu(ctx, menuID, itemID); err != nil {
		return nil, err
	}
	items, err := s.store.ListMenuItems(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	ids := CollectDescendants(items, itemID)
	if err := s.store.DeleteMenuItems(ctx, ids); err != nil {
		return nil, fmt.Errorf("deleting menu items: %w", err)
	}
	s.invalidate(ctx, menu.Slug)
	return ids, nil
}

// Reorder assigns display orders 1..n to the given items of a menu in one
// batch. Items not listed keep their order.
func (s *MenuService) Reorder(ctx context.Context, menuID int64, orderedIDs []int64) error {
	menu, err := s.store.GetMenuByID(ctx, menuID)
	if err != nil {
		return err
	}
	if err := checkOrderedIDs(orderedIDs); err != nil {
		return err
	}
	if err := s.store.ReorderMenuItems(ctx, menuID, ReorderPositions(orderedIDs)); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrItemNotInMenu
		}
		return fmt.Errorf("reordering menu items: %w", err)
	}
	s.invalidate(ctx, menu.Slug)
	return nil
}

// MenuAudit reports the items of one menu that no root reaches.
type MenuAudit struct {
	MenuID  int64   `json:"menu_id"`
	Slug    string  `json:"slug"`
	Dropped []int64 `json:"dropped"`
}

// AuditOrphans checks every menu for unreachable items and logs the ones it
// finds. Only menus with unreachable items are returned.
func (s *MenuService) AuditOrphans(ctx context.Context) ([]MenuAudit, error) {
	menus, err := s.store.ListMenus(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing menus: %w", err)
	}
	var audits []MenuAudit
	for _, m := range menus {
		items, err := s.store.ListMenuItems(ctx, m.ID)
		if err != nil {
			return audits, fmt.Errorf("listing items of menu %d: %w", m.ID, err)
		}
		tree := BuildMenuTree(items)
		if len(tree.Dropped) == 0 {
			continue
		}
		audits = append(audits, MenuAudit{MenuID: m.ID, Slug: m.Slug, Dropped: tree.Dropped})
		s.logger.Warn("menu has unreachable items",
			"category", model.EventCategoryMenu,
			"menu_id", m.ID,
			"menu_slug", m.Slug,
			"dropped", tree.Dropped,
		)
	}
	return audits, nil
}

func (s *MenuService) itemInMenu(ctx context.Context, menuID, itemID int64) (model.MenuItem, error) {
	item, err := s.store.GetMenuItem(ctx, itemID)
	if err != nil {
		return model.MenuItem{}, err
	}
	if item.MenuID != menuID {
		return model.MenuItem{}, ErrItemNotInMenu
	}
	return item, nil
}

// checkParent verifies that parentID may hold itemID. items is only needed
// for an existing item, to rule out moving it below its own subtree.
func (s *MenuService) checkParent(ctx context.Context, menuID, itemID, parentID int64, items []model.MenuItem) error {
	if parentID == itemID {
		return fmt.Errorf("%w: an item cannot be its own parent", ErrInvalidParent)
	}
	parent, err := s.store.GetMenuItem(ctx, parentID)
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("%w: parent %d does not exist", ErrInvalidParent, parentID)
	}
	if err != nil {
		return fmt.Errorf("loading parent item: %w", err)
	}
	if parent.MenuID != menuID {
		return fmt.Errorf("%w: parent %d belongs to another menu", ErrInvalidParent, parentID)
	}
	if itemID != 0 {
		for _, id := range CollectDescendants(items, itemID) {
			if id == parentID {
				return fmt.Errorf("%w: parent %d is below item %d", ErrInvalidParent, parentID, itemID)
			}
		}
	}
	return nil
}

func (s *MenuService) invalidate(ctx context.Context, slugs ...string) {
	if s.trees == nil {
		return
	}
	for _, slug := range slugs {
		if err := s.trees.Delete(ctx, slug); err != nil {
			s.logger.Warn("failed to invalidate menu cache", "category", model.EventCategoryCache,
				"menu_slug", slug, "error", err)
		}
	}
}

func (in *MenuItemInput) apply(it model.MenuItem) model.MenuItem {
	it.ParentID = in.ParentID
	it.Title = in.Title
	it.URL = in.URL
	it.Icon = in.Icon
	it.Color = in.Color
	it.Description = in.Description
	it.Target = in.Target
	it.DisplayOrder = in.DisplayOrder
	it.IsActive = boolOr(in.IsActive, it.IsActive)
	it.Type = in.Type
	it.ReferenceType = in.ReferenceType
	it.ReferenceID = in.ReferenceID
	return it
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// checkOrderedIDs rejects empty and repeated id lists.
func checkOrderedIDs(ids []int64) error {
	if len(ids) == 0 {
		return fieldError("ids", "cannot be blank")
	}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fieldError("ids", fmt.Sprintf("id %d is listed more than once", id))
		}
		seen[id] = true
	}
	return nil
}

func stringsToAny(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}
