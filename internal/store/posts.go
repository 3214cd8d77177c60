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

var postFields = []string{
	"id", "title", "slug", "description", "content", "cover_url", "meta_title",
	"meta_description", "meta_keywords", "enable_comments", "author_id", "status",
	"published_at", "scheduled_at", "created_at", "updated_at",
}

var (
	// postColumns is qualified for SELECTs that alias posts as p.
	postColumns = columns("p", postFields)
	// postReturning is used in RETURNING clauses.
	postReturning = columns("", postFields)
)

func scanPost(row rowScanner) (model.Post, error) {
	var (
		p           model.Post
		keywords    string
		status      string
		publishedAt sql.NullTime
		scheduledAt sql.NullTime
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Content, &p.CoverURL, &p.MetaTitle,
		&p.MetaDescription, &keywords, &p.EnableComments, &p.AuthorID, &status,
		&publishedAt, &scheduledAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, notFound(err)
	}
	p.MetaKeywords = decodeList(keywords)
	p.Status = model.Status(status)
	p.PublishedAt = timePtr(publishedAt)
	p.ScheduledAt = timePtr(scheduledAt)
	p.Categories = []model.Category{}
	p.Tags = []model.Tag{}
	return p, nil
}

// postWhere builds the WHERE clause for a post filter.
func postWhere(f model.PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		conds = append(conds, "p.status = ?")
		args = append(args, string(f.Status))
	}
	if f.AuthorID != "" {
		conds = append(conds, "p.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.CategorySlug != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM post_categories pc
			JOIN categories c ON c.id = pc.category_id
			WHERE pc.post_id = p.id AND c.slug = ?)`)
		args = append(args, f.CategorySlug)
	}
	if f.TagSlug != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM post_tags pt
			JOIN tags t ON t.id = pt.tag_id
			WHERE pt.post_id = p.id AND t.slug = ?)`)
		args = append(args, f.TagSlug)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListPosts returns posts matching f. Published listings are newest first by
// publication date; others by last update.
func (q *Queries) ListPosts(ctx context.Context, f model.PostFilter) ([]model.Post, error) {
	where, args := postWhere(f)
	order := " ORDER BY p.updated_at DESC, p.id DESC"
	if f.Status == model.StatusPublished {
		order = " ORDER BY p.published_at DESC, p.id DESC"
	}
	query := `SELECT ` + postColumns + ` FROM posts p` + where + order
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CountPosts counts posts matching f, ignoring limit and offset.
func (q *Queries) CountPosts(ctx context.Context, f model.PostFilter) (int64, error) {
	where, args := postWhere(f)
	var n int64
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&n)
	return n, err
}

// GetPostByID returns a post without its categories and tags.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	return scanPost(q.queryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = ?`, id))
}

// GetPostBySlug returns a post without its categories and tags.
func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	return scanPost(q.queryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.slug = ?`, slug))
}

// PostSlugExists reports whether another post uses slug.
func (q *Queries) PostSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int64
	err := q.queryRow(ctx, `SELECT COUNT(*) FROM posts WHERE slug = ? AND id <> ?`, slug, excludeID).Scan(&n)
	return n > 0, err
}

func (q *Queries) insertPost(ctx context.Context, p model.Post) (model.Post, error) {
	ts := now()
	return scanPost(q.queryRow(ctx, `
		INSERT INTO posts (title, slug, description, content, cover_url, meta_title, meta_description,
			meta_keywords, enable_comments, author_id, status, published_at, scheduled_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+postReturning,
		p.Title, p.Slug, p.Description, p.Content, p.CoverURL, p.MetaTitle, p.MetaDescription,
		encodeList(p.MetaKeywords), p.EnableComments, p.AuthorID, string(p.Status),
		nullTime(p.PublishedAt), nullTime(p.ScheduledAt), ts, ts))
}

func (q *Queries) updatePost(ctx context.Context, p model.Post) (model.Post, error) {
	return scanPost(q.queryRow(ctx, `
		UPDATE posts SET title = ?, slug = ?, description = ?, content = ?, cover_url = ?,
			meta_title = ?, meta_description = ?, meta_keywords = ?, enable_comments = ?,
			status = ?, published_at = ?, scheduled_at = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+postReturning,
		p.Title, p.Slug, p.Description, p.Content, p.CoverURL, p.MetaTitle, p.MetaDescription,
		encodeList(p.MetaKeywords), p.EnableComments, string(p.Status),
		nullTime(p.PublishedAt), nullTime(p.ScheduledAt), now(), p.ID))
}

// replacePostTerms rewrites a post's category and tag links.
func (q *Queries) replacePostTerms(ctx context.Context, postID int64, categoryIDs, tagIDs []int64) error {
	if _, err := q.exec(ctx, `DELETE FROM post_categories WHERE post_id = ?`, postID); err != nil {
		return fmt.Errorf("clearing post categories: %w", err)
	}
	for _, id := range uniqueIDs(categoryIDs) {
		if _, err := q.exec(ctx, `INSERT INTO post_categories (post_id, category_id) VALUES (?, ?)`, postID, id); err != nil {
			return fmt.Errorf("adding category %d: %w", id, err)
		}
	}
	if _, err := q.exec(ctx, `DELETE FROM post_tags WHERE post_id = ?`, postID); err != nil {
		return fmt.Errorf("clearing post tags: %w", err)
	}
	for _, id := range uniqueIDs(tagIDs) {
		if _, err := q.exec(ctx, `INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)`, postID, id); err != nil {
			return fmt.Errorf("adding tag %d: %w", id, err)
		}
	}
	return nil
}

// CreatePost inserts a post and links its categories and tags in one
// transaction.
func (s *Store) CreatePost(ctx context.Context, p model.Post, categoryIDs, tagIDs []int64) (model.Post, error) {
	var created model.Post
	err := s.InTx(ctx, func(q *Queries) error {
		var err error
		if created, err = q.insertPost(ctx, p); err != nil {
			return err
		}
		if err := q.replacePostTerms(ctx, created.ID, categoryIDs, tagIDs); err != nil {
			return err
		}
		return q.loadPostTerms(ctx, &created)
	})
	return created, err
}

// UpdatePost updates a post. Nil categoryIDs or tagIDs leave the links as
// they are; empty slices clear them.
func (s *Store) UpdatePost(ctx context.Context, p model.Post, categoryIDs, tagIDs []int64) (model.Post, error) {
	var updated model.Post
	err := s.InTx(ctx, func(q *Queries) error {
		var err error
		if updated, err = q.updatePost(ctx, p); err != nil {
			return err
		}
		if categoryIDs != nil || tagIDs != nil {
			if categoryIDs == nil {
				categoryIDs = categoryIDsOf(p.Categories)
			}
			if tagIDs == nil {
				tagIDs = tagIDsOf(p.Tags)
			}
			if err := q.replacePostTerms(ctx, updated.ID, categoryIDs, tagIDs); err != nil {
				return err
			}
		}
		return q.loadPostTerms(ctx, &updated)
	})
	return updated, err
}

// SetPostStatus persists a status change.
func (q *Queries) SetPostStatus(ctx context.Context, id int64, status model.Status, publishedAt *time.Time) error {
	res, err := q.exec(ctx, `UPDATE posts SET status = ?, published_at = ?, scheduled_at = NULL, updated_at = ? WHERE id = ?`,
		string(status), nullTime(publishedAt), now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeletePost deletes a post; links and comments cascade.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	res, err := q.exec(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ListDuePosts returns drafts whose scheduled time is at or before t.
func (q *Queries) ListDuePosts(ctx context.Context, t time.Time) ([]model.Post, error) {
	rows, err := q.query(ctx, `SELECT `+postColumns+` FROM posts p
		WHERE p.status = ? AND p.scheduled_at IS NOT NULL AND p.scheduled_at <= ?
		ORDER BY p.scheduled_at, p.id`, string(model.StatusDraft), t.UTC())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// LoadPostTerms fills in the categories and tags of each post.
func (q *Queries) LoadPostTerms(ctx context.Context, posts []model.Post) error {
	for i := range posts {
		if err := q.loadPostTerms(ctx, &posts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queries) loadPostTerms(ctx context.Context, p *model.Post) error {
	cats, err := q.listCategories(ctx, `SELECT c.id, c.name, c.slug, c.description, c.created_at
		FROM categories c JOIN post_categories pc ON pc.category_id = c.id
		WHERE pc.post_id = ? ORDER BY c.name, c.id`, p.ID)
	if err != nil {
		return fmt.Errorf("loading post categories: %w", err)
	}
	tags, err := q.listTags(ctx, `SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = ? ORDER BY t.name, t.id`, p.ID)
	if err != nil {
		return fmt.Errorf("loading post tags: %w", err)
	}
	p.Categories = cats
	p.Tags = tags
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func categoryIDsOf(cats []model.Category) []int64 {
	ids := make([]int64, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	return ids
}

func tagIDsOf(tags []model.Tag) []int64 {
	ids := make([]int64, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}
