// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"

	"github.com/fauzinoor/kalam/internal/model"
)

const portfolioColumns = `id, user_id, title, description, category, cover_image, link_url, tags,
	featured, is_published, display_order, created_at, updated_at`

func scanPortfolio(row rowScanner) (model.Portfolio, error) {
	var (
		p    model.Portfolio
		tags string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Category, &p.CoverImage,
		&p.LinkURL, &tags, &p.Featured, &p.IsPublished, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, notFound(err)
	}
	p.Tags = decodeList(tags)
	return p, nil
}

// ListPortfolios returns portfolios in display order. publishedOnly and a
// non-empty userID narrow the result.
func (q *Queries) ListPortfolios(ctx context.Context, publishedOnly bool, userID string) ([]model.Portfolio, error) {
	var (
		conds []string
		args  []any
	)
	if publishedOnly {
		conds = append(conds, "is_published = ?")
		args = append(args, true)
	}
	if userID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, userID)
	}
	query := `SELECT ` + portfolioColumns + ` FROM portfolios`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY display_order, id"

	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []model.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// GetPortfolio returns a portfolio by id.
func (q *Queries) GetPortfolio(ctx context.Context, id int64) (model.Portfolio, error) {
	return scanPortfolio(q.queryRow(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE id = ?`, id))
}

// CreatePortfolio inserts a portfolio.
func (q *Queries) CreatePortfolio(ctx context.Context, p model.Portfolio) (model.Portfolio, error) {
	ts := now()
	return scanPortfolio(q.queryRow(ctx, `
		INSERT INTO portfolios (user_id, title, description, category, cover_image, link_url, tags,
			featured, is_published, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+portfolioColumns,
		p.UserID, p.Title, p.Description, p.Category, p.CoverImage, p.LinkURL, encodeList(p.Tags),
		p.Featured, p.IsPublished, p.DisplayOrder, ts, ts))
}

// UpdatePortfolio updates a portfolio.
func (q *Queries) UpdatePortfolio(ctx context.Context, p model.Portfolio) (model.Portfolio, error) {
	return scanPortfolio(q.queryRow(ctx, `
		UPDATE portfolios SET title = ?, description = ?, category = ?, cover_image = ?, link_url = ?,
			tags = ?, featured = ?, is_published = ?, display_order = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+portfolioColumns,
		p.Title, p.Description, p.Category, p.CoverImage, p.LinkURL, encodeList(p.Tags),
		p.Featured, p.IsPublished, p.DisplayOrder, now(), p.ID))
}

// DeletePortfolio deletes a portfolio.
func (q *Queries) DeletePortfolio(ctx context.Context, id int64) error {
	res, err := q.exec(ctx, `DELETE FROM portfolios WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// MaxPortfolioOrder returns the highest portfolio display order.
func (q *Queries) MaxPortfolioOrder(ctx context.Context) (int, error) {
	var n int
	err := q.queryRow(ctx, `SELECT COALESCE(MAX(display_order), 0) FROM portfolios`).Scan(&n)
	return n, err
}

// ReorderPortfolios writes portfolio display orders in one transaction.
func (s *Store) ReorderPortfolios(ctx context.Context, positions []model.Position) error {
	return s.InTx(ctx, func(q *Queries) error {
		return q.setDisplayOrders(ctx, "portfolios", "", nil, positions)
	})
}
