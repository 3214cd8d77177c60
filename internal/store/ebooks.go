// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fauzinoor/kalam/internal/model"
)

const ebookColumns = `id, title, slug, description, cover_image_url, google_drive_url, file_size,
	file_format, author_name, is_own_work, category, tags, is_featured, display_order, author_id,
	status, published_at, created_at, updated_at`

func scanEbook(row rowScanner) (model.Ebook, error) {
	var (
		e           model.Ebook
		tags        string
		status      string
		publishedAt sql.NullTime
	)
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.CoverImageURL, &e.GoogleDriveURL,
		&e.FileSize, &e.FileFormat, &e.AuthorName, &e.IsOwnWork, &e.Category, &tags, &e.IsFeatured,
		&e.DisplayOrder, &e.AuthorID, &status, &publishedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, notFound(err)
	}
	e.Tags = decodeList(tags)
	e.Status = model.Status(status)
	e.PublishedAt = timePtr(publishedAt)
	return e, nil
}

// ListEbooks returns e-books matching f in display order, ties broken by id.
func (q *Queries) ListEbooks(ctx context.Context, f model.EbookFilter) ([]model.Ebook, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Featured {
		conds = append(conds, "is_featured = ?")
		args = append(args, true)
	}
	query := `SELECT ` + ebookColumns + ` FROM ebooks`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY display_order, id"

	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ebooks := []model.Ebook{}
	for rows.Next() {
		e, err := scanEbook(rows)
		if err != nil {
			return nil, err
		}
		ebooks = append(ebooks, e)
	}
	return ebooks, rows.Err()
}

// GetEbookByID returns an e-book by id.
func (q *Queries) GetEbookByID(ctx context.Context, id int64) (model.Ebook, error) {
	return scanEbook(q.queryRow(ctx, `SELECT `+ebookColumns+` FROM ebooks WHERE id = ?`, id))
}

// GetEbookBySlug returns an e-book by slug.
func (q *Queries) GetEbookBySlug(ctx context.Context, slug string) (model.Ebook, error) {
	return scanEbook(q.queryRow(ctx, `SELECT `+ebookColumns+` FROM ebooks WHERE slug = ?`, slug))
}

// EbookSlugExists reports whether another e-book uses slug.
func (q *Queries) EbookSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int64
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM ebooks WHERE slug = ? AND id <> ?`, slug, excludeID).Scan(&n)
	return n > 0, err
}

// CreateEbook inserts an e-book.
func (q *Queries) CreateEbook(ctx context.Context, e model.Ebook) (model.Ebook, error) {
	ts := now()
	return scanEbook(q.queryRow(ctx, `
		INSERT INTO ebooks (title, slug, description, cover_image_url, google_drive_url, file_size,
			file_format, author_name, is_own_work, category, tags, is_featured, display_order, author_id,
			status, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+ebookColumns,
		e.Title, e.Slug, e.Description, e.CoverImageURL, e.GoogleDriveURL, e.FileSize, e.FileFormat,
		e.AuthorName, e.IsOwnWork, e.Category, encodeList(e.Tags), e.IsFeatured, e.DisplayOrder,
		e.AuthorID, string(e.Status), nullTime(e.PublishedAt), ts, ts))
}

// UpdateEbook updates an e-book.
func (q *Queries) UpdateEbook(ctx context.Context, e model.Ebook) (model.Ebook, error) {
	return scanEbook(q.queryRow(ctx, `
		UPDATE ebooks SET title = ?, slug = ?, description = ?, cover_image_url = ?, google_drive_url = ?,
			file_size = ?, file_format = ?, author_name = ?, is_own_work = ?, category = ?, tags = ?,
			is_featured = ?, display_order = ?, status = ?, published_at = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+ebookColumns,
		e.Title, e.Slug, e.Description, e.CoverImageURL, e.GoogleDriveURL, e.FileSize, e.FileFormat,
		e.AuthorName, e.IsOwnWork, e.Category, encodeList(e.Tags), e.IsFeatured, e.DisplayOrder,
		string(e.Status), nullTime(e.PublishedAt), now(), e.ID))
}

// SetEbookStatus persists a status change.
func (q *Queries) SetEbookStatus(ctx context.Context, id int64, status model.Status, publishedAt *time.Time) error {
	res, err := q.exec(ctx, `UPDATE ebooks SET status = ?, published_at = ?, updated_at = ? WHERE id = ?`,
		string(status), nullTime(publishedAt), now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SetEbookCover updates an e-book's cover image URL.
func (q *Queries) SetEbookCover(ctx context.Context, id int64, url string) error {
	res, err := q.exec(ctx, `UPDATE ebooks SET cover_image_url = ?, updated_at = ? WHERE id = ?`, url, now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteEbook deletes an e-book.
func (q *Queries) DeleteEbook(ctx context.Context, id int64) error {
	res, err := q.exec(ctx, `DELETE FROM ebooks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ReorderEbooks writes e-book display orders in one transaction.
func (s *Store) ReorderEbooks(ctx context.Context, positions []model.Position) error {
	return s.InTx(ctx, func(q *Queries) error {
		return q.setDisplayOrders(ctx, "ebooks", "", nil, positions)
	})
}

// CountEbooksInCategory counts e-books filed under a category slug.
func (q *Queries) CountEbooksInCategory(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM ebooks WHERE category = ?`, slug).Scan(&n)
	return n, err
}

const ebookCategoryColumns = `id, name, slug, description, display_order, created_at`

func scanEbookCategory(row rowScanner) (model.EbookCategory, error) {
	var c model.EbookCategory
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.DisplayOrder, &c.CreatedAt)
	return c, notFound(err)
}

// ListEbookCategories returns e-book categories in display order.
func (q *Queries) ListEbookCategories(ctx context.Context) ([]model.EbookCategory, error) {
	rows, err := q.query(ctx, `SELECT `+ebookCategoryColumns+` FROM ebook_categories ORDER BY display_order, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cats := []model.EbookCategory{}
	for rows.Next() {
		c, err := scanEbookCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// GetEbookCategory returns an e-book category by id.
func (q *Queries) GetEbookCategory(ctx context.Context, id int64) (model.EbookCategory, error) {
	return scanEbookCategory(q.queryRow(ctx, `SELECT `+ebookCategoryColumns+` FROM ebook_categories WHERE id = ?`, id))
}

// GetEbookCategoryBySlug returns an e-book category by slug.
func (q *Queries) GetEbookCategoryBySlug(ctx context.Context, slug string) (model.EbookCategory, error) {
	return scanEbookCategory(q.queryRow(ctx, `SELECT `+ebookCategoryColumns+` FROM ebook_categories WHERE slug = ?`, slug))
}

// EbookCategorySlugExists reports whether another e-book category uses slug.
func (q *Queries) EbookCategorySlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int64
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM ebook_categories WHERE slug = ? AND id <> ?`, slug, excludeID).Scan(&n)
	return n > 0, err
}

// CreateEbookCategory inserts an e-book category.
func (q *Queries) CreateEbookCategory(ctx context.Context, c model.EbookCategory) (model.EbookCategory, error) {
	return scanEbookCategory(q.queryRow(ctx, `
		INSERT INTO ebook_categories (name, slug, description, display_order, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+ebookCategoryColumns, c.Name, c.Slug, c.Description, c.DisplayOrder, now()))
}

// UpdateEbookCategory updates an e-book category. E-books filed under the
// old slug follow a slug change.
func (s *Store) UpdateEbookCategory(ctx context.Context, c model.EbookCategory) (model.EbookCategory, error) {
	var updated model.EbookCategory
	err := s.InTx(ctx, func(q *Queries) error {
		old, err := q.GetEbookCategory(ctx, c.ID)
		if err != nil {
			return err
		}
		updated, err = scanEbookCategory(q.queryRow(ctx, `
			UPDATE ebook_categories SET name = ?, slug = ?, description = ?, display_order = ? WHERE id = ?
			RETURNING `+ebookCategoryColumns, c.Name, c.Slug, c.Description, c.DisplayOrder, c.ID))
		if err != nil {
			return err
		}
		if old.Slug != updated.Slug {
			if _, err := q.exec(ctx, `UPDATE ebooks SET category = ? WHERE category = ?`, updated.Slug, old.Slug); err != nil {
				return fmt.Errorf("moving e-books to new category slug: %w", err)
			}
		}
		return nil
	})
	return updated, err
}

// DeleteEbookCategory deletes an e-book category.
func (q *Queries) DeleteEbookCategory(ctx context.Context, id int64) error {
	res, err := q.exec(ctx, `DELETE FROM ebook_categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}
