// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fauzinoor/kalam/internal/model"
)

const menuColumns = `id, name, slug, location, description, is_active, created_at, updated_at`

func scanMenu(row rowScanner) (model.Menu, error) {
	var m model.Menu
	err := row.Scan(&m.ID, &m.Name, &m.Slug, &m.Location, &m.Description, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, notFound(err)
}

// ListMenus returns all menus ordered by name.
func (q *Queries) ListMenus(ctx context.Context) ([]model.Menu, error) {
	rows, err := q.query(ctx, `SELECT `+menuColumns+` FROM menus ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	menus := []model.Menu{}
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

// GetMenuByID returns a menu by id.
func (q *Queries) GetMenuByID(ctx context.Context, id int64) (model.Menu, error) {
	return scanMenu(q.queryRow(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = ?`, id))
}

// GetMenuBySlug returns a menu by slug.
func (q *Queries) GetMenuBySlug(ctx context.Context, slug string) (model.Menu, error) {
	return scanMenu(q.queryRow(ctx, `SELECT `+menuColumns+` FROM menus WHERE slug = ?`, slug))
}

// MenuSlugExists reports whether another menu uses slug.
func (q *Queries) MenuSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int64
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM menus WHERE slug = ? AND id <> ?`, slug, excludeID).Scan(&n)
	return n > 0, err
}

// CreateMenu inserts a menu.
func (q *Queries) CreateMenu(ctx context.Context, m model.Menu) (model.Menu, error) {
	ts := now()
	return scanMenu(q.queryRow(ctx, `
		INSERT INTO menus (name, slug, location, description, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+menuColumns,
		m.Name, m.Slug, m.Location, m.Description, m.IsActive, ts, ts))
}

// UpdateMenu updates a menu's attributes.
func (q *Queries) UpdateMenu(ctx context.Context, m model.Menu) (model.Menu, error) {
	return scanMenu(q.queryRow(ctx, `
		UPDATE menus SET name = ?, slug = ?, location = ?, description = ?, is_active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+menuColumns,
		m.Name, m.Slug, m.Location, m.Description, m.IsActive, now(), m.ID))
}

const menuItemColumns = `id, menu_id, parent_id, title, url, icon, color, description, target,
	display_order, is_active, type, reference_type, reference_id, created_at, updated_at`

func scanMenuItem(row rowScanner) (model.MenuItem, error) {
	var (
		it       model.MenuItem
		parentID sql.NullInt64
		refID    sql.NullInt64
	)
	err := row.Scan(&it.ID, &it.MenuID, &parentID, &it.Title, &it.URL, &it.Icon, &it.Color,
		&it.Description, &it.Target, &it.DisplayOrder, &it.IsActive, &it.Type,
		&it.ReferenceType, &refID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return it, notFound(err)
	}
	it.ParentID = int64Ptr(parentID)
	it.ReferenceID = int64Ptr(refID)
	return it, nil
}

// ListMenuItems returns a menu's items ordered by display order, ties
// broken by id.
func (q *Queries) ListMenuItems(ctx context.Context, menuID int64) ([]model.MenuItem, error) {
	rows, err := q.query(ctx, `SELECT `+menuItemColumns+` FROM menu_items
		WHERE menu_id = ? ORDER BY display_order, id`, menuID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []model.MenuItem{}
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetMenuItem returns a menu item by id.
func (q *Queries) GetMenuItem(ctx context.Context, id int64) (model.MenuItem, error) {
	return scanMenuItem(q.queryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = ?`, id))
}

// MaxMenuItemOrder returns the highest display order among the siblings
// under parentID, or 0 when there are none.
func (q *Queries) MaxMenuItemOrder(ctx context.Context, menuID int64, parentID *int64) (int, error) {
	var (
		maxOrder sql.NullInt64
		err      error
	)
	if parentID == nil {
		err = q.queryRow(ctx, `SELECT MAX(display_order) FROM menu_items
			WHERE menu_id = ? AND parent_id IS NULL`, menuID).Scan(&maxOrder)
	} else {
		err = q.queryRow(ctx, `SELECT MAX(display_order) FROM menu_items
			WHERE menu_id = ? AND parent_id = ?`, menuID, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, err
	}
	return int(maxOrder.Int64), nil
}

// CreateMenuItem inserts a menu item.
func (q *Queries) CreateMenuItem(ctx context.Context, it model.MenuItem) (model.MenuItem, error) {
	ts := now()
	return scanMenuItem(q.queryRow(ctx, `
		INSERT INTO menu_items (menu_id, parent_id, title, url, icon, color, description, target,
			display_order, is_active, type, reference_type, reference_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+menuItemColumns,
		it.MenuID, nullInt64(it.ParentID), it.Title, it.URL, it.Icon, it.Color, it.Description,
		it.Target, it.DisplayOrder, it.IsActive, it.Type, it.ReferenceType, nullInt64(it.ReferenceID),
		ts, ts))
}

// UpdateMenuItem updates a menu item, including its parent.
func (q *Queries) UpdateMenuItem(ctx context.Context, it model.MenuItem) (model.MenuItem, error) {
	return scanMenuItem(q.queryRow(ctx, `
		UPDATE menu_items SET parent_id = ?, title = ?, url = ?, icon = ?, color = ?, description = ?,
			target = ?, display_order = ?, is_active = ?, type = ?, reference_type = ?, reference_id = ?,
			updated_at = ?
		WHERE id = ?
		RETURNING `+menuItemColumns,
		nullInt64(it.ParentID), it.Title, it.URL, it.Icon, it.Color, it.Description, it.Target,
		it.DisplayOrder, it.IsActive, it.Type, it.ReferenceType, nullInt64(it.ReferenceID), now(), it.ID))
}

// setDisplayOrders writes positions for rows of table scoped by the extra
// where clause.
func (q *Queries) setDisplayOrders(ctx context.Context, table, scope string, scopeArgs []any, positions []model.Position) error {
	ts := now()
	for _, p := range positions {
		args := append([]any{p.DisplayOrder, ts, p.ID}, scopeArgs...)
		res, err := q.exec(ctx, `UPDATE `+table+` SET display_order = ?, updated_at = ? WHERE id = ?`+scope, args...)
		if err != nil {
			return fmt.Errorf("updating %s %d: %w", table, p.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%s %d: %w", table, p.ID, model.ErrNotFound)
		}
	}
	return nil
}

// ReorderMenuItems writes display orders for items of one menu in a single
// transaction. An id outside the menu aborts the whole batch.
func (s *Store) ReorderMenuItems(ctx context.Context, menuID int64, positions []model.Position) error {
	return s.InTx(ctx, func(q *Queries) error {
		return q.setDisplayOrders(ctx, "menu_items", " AND menu_id = ?", []any{menuID}, positions)
	})
}

// DeleteMenuItems deletes the given items in order inside one transaction.
func (s *Store) DeleteMenuItems(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return s.InTx(ctx, func(q *Queries) error {
		for _, id := range ids {
			if _, err := q.exec(ctx, `DELETE FROM menu_items WHERE id = ?`, id); err != nil {
				return fmt.Errorf("deleting menu item %d: %w", id, err)
			}
		}
		return nil
	})
}

// DeleteMenu deletes a menu and all of its items.
func (s *Store) DeleteMenu(ctx context.Context, id int64) error {
	return s.InTx(ctx, func(q *Queries) error {
		if _, err := q.exec(ctx, `DELETE FROM menu_items WHERE menu_id = ?`, id); err != nil {
			return fmt.Errorf("deleting menu items: %w", err)
		}
		res, err := q.exec(ctx, `DELETE FROM menus WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting menu: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return model.ErrNotFound
		}
		return nil
	})
}
