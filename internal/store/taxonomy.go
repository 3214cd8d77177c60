// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/fauzinoor/kalam/internal/model"
)

const categoryColumns = `id, name, slug, description, created_at`

func scanCategory(row rowScanner) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	return c, notFound(err)
}

func (q *Queries) listCategories(ctx context.Context, query string, args ...any) ([]model.Category, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cats := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// ListCategories returns all post categories by name.
func (q *Queries) ListCategories(ctx context.Context) ([]model.Category, error) {
	return q.listCategories(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name, id`)
}

// GetCategory returns a post category by id.
func (q *Queries) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	return scanCategory(q.queryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
}

// CategorySlugExists reports whether another category uses slug.
func (q *Queries) CategorySlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int64
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM categories WHERE slug = ? AND id <> ?`, slug, excludeID).Scan(&n)
	return n > 0, err
}

// CreateCategory inserts a post category.
func (q *Queries) CreateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	return scanCategory(q.queryRow(ctx, `
		INSERT INTO categories (name, slug, description, created_at) VALUES (?, ?, ?, ?)
		RETURNING `+categoryColumns, c.Name, c.Slug, c.Description, now()))
}

// UpdateCategory updates a post category.
func (q *Queries) UpdateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	return scanCategory(q.queryRow(ctx, `
		UPDATE categories SET name = ?, slug = ?, description = ? WHERE id = ?
		RETURNING `+categoryColumns, c.Name, c.Slug, c.Description, c.ID))
}

// DeleteCategory deletes a post category; post links cascade.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	res, err := q.exec(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CountExistingCategories counts how many of ids exist.
func (q *Queries) CountExistingCategories(ctx context.Context, ids []int64) (int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM categories WHERE id IN (`+placeholders(len(ids))+`)`,
		int64Args(ids)...).Scan(&n)
	return n, err
}

const tagColumns = `id, name, slug, created_at`

func scanTag(row rowScanner) (model.Tag, error) {
	var t model.Tag
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	return t, notFound(err)
}

func (q *Queries) listTags(ctx context.Context, query string, args ...any) ([]model.Tag, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tags := []model.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ListTags returns all tags by name.
func (q *Queries) ListTags(ctx context.Context) ([]model.Tag, error) {
	return q.listTags(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name, id`)
}

// GetTag returns a tag by id.
func (q *Queries) GetTag(ctx context.Context, id int64) (model.Tag, error) {
	return scanTag(q.queryRow(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id))
}

// TagSlugExists reports whether another tag uses slug.
func (q *Queries) TagSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int64
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM tags WHERE slug = ? AND id <> ?`, slug, excludeID).Scan(&n)
	return n > 0, err
}

// CreateTag inserts a tag.
func (q *Queries) CreateTag(ctx context.Context, t model.Tag) (model.Tag, error) {
	return scanTag(q.queryRow(ctx, `
		INSERT INTO tags (name, slug, created_at) VALUES (?, ?, ?)
		RETURNING `+tagColumns, t.Name, t.Slug, now()))
}

// UpdateTag renames a tag.
func (q *Queries) UpdateTag(ctx context.Context, t model.Tag) (model.Tag, error) {
	return scanTag(q.queryRow(ctx, `UPDATE tags SET name = ?, slug = ? WHERE id = ?
		RETURNING `+tagColumns, t.Name, t.Slug, t.ID))
}

// DeleteTag deletes a tag; post links cascade.
func (q *Queries) DeleteTag(ctx context.Context, id int64) error {
	res, err := q.exec(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CountExistingTags counts how many of ids exist.
func (q *Queries) CountExistingTags(ctx context.Context, ids []int64) (int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM tags WHERE id IN (`+placeholders(len(ids))+`)`,
		int64Args(ids)...).Scan(&n)
	return n, err
}
