// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/fauzinoor/kalam/internal/model"
)

const commentColumns = `id, post_id, author_id, guest_name, guest_email, content, status,
	user_agent, browser, os, created_at, updated_at`

func scanComment(row rowScanner) (model.Comment, error) {
	var (
		c        model.Comment
		authorID sql.NullString
		status   string
	)
	err := row.Scan(&c.ID, &c.PostID, &authorID, &c.GuestName, &c.GuestEmail, &c.Content, &status,
		&c.UserAgent, &c.Browser, &c.OS, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, notFound(err)
	}
	c.AuthorID = stringPtr(authorID)
	c.Status = model.CommentStatus(status)
	return c, nil
}

func (q *Queries) listComments(ctx context.Context, query string, args ...any) ([]model.Comment, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ListPostComments returns a post's comments with the given status,
// oldest first.
func (q *Queries) ListPostComments(ctx context.Context, postID int64, status model.CommentStatus) ([]model.Comment, error) {
	return q.listComments(ctx, `SELECT `+commentColumns+` FROM comments
		WHERE post_id = ? AND status = ? ORDER BY created_at, id`, postID, string(status))
}

// ListComments returns comments for moderation, newest first. An empty
// status lists every comment.
func (q *Queries) ListComments(ctx context.Context, status model.CommentStatus, limit, offset int) ([]model.Comment, error) {
	if status == "" {
		return q.listComments(ctx, `SELECT `+commentColumns+` FROM comments
			ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	}
	return q.listComments(ctx, `SELECT `+commentColumns+` FROM comments WHERE status = ?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, string(status), limit, offset)
}

// CountCommentsByStatus returns per-status comment totals.
func (q *Queries) CountCommentsByStatus(ctx context.Context) (model.CommentCounts, error) {
	var counts model.CommentCounts
	rows, err := q.query(ctx, `SELECT status, COUNT(*) FROM comments GROUP BY status`)
	if err != nil {
		return counts, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return counts, err
		}
		switch model.CommentStatus(status) {
		case model.CommentPending:
			counts.Pending = n
		case model.CommentApproved:
			counts.Approved = n
		case model.CommentRejected:
			counts.Rejected = n
		}
	}
	return counts, rows.Err()
}

// GetComment returns a comment by id.
func (q *Queries) GetComment(ctx context.Context, id int64) (model.Comment, error) {
	return scanComment(q.queryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
}

// CreateComment inserts a comment.
func (q *Queries) CreateComment(ctx context.Context, c model.Comment) (model.Comment, error) {
	ts := now()
	return scanComment(q.queryRow(ctx, `
		INSERT INTO comments (post_id, author_id, guest_name, guest_email, content, status,
			user_agent, browser, os, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+commentColumns,
		c.PostID, nullString(c.AuthorID), c.GuestName, c.GuestEmail, c.Content, string(c.Status),
		c.UserAgent, c.Browser, c.OS, ts, ts))
}

// SetCommentStatus changes a comment's moderation status.
func (q *Queries) SetCommentStatus(ctx context.Context, id int64, status model.CommentStatus) (model.Comment, error) {
	return scanComment(q.queryRow(ctx, `UPDATE comments SET status = ?, updated_at = ? WHERE id = ?
		RETURNING `+commentColumns, string(status), now(), id))
}

// DeleteComment deletes a comment.
func (q *Queries) DeleteComment(ctx context.Context, id int64) error {
	res, err := q.exec(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteRejectedCommentsBefore removes rejected comments last touched
// before t and returns how many were removed.
func (q *Queries) DeleteRejectedCommentsBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := q.exec(ctx, `DELETE FROM comments WHERE status = ? AND updated_at < ?`,
		string(model.CommentRejected), t.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
