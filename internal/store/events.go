// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/fauzinoor/kalam/internal/model"
)

const eventColumns = `id, level, category, message, metadata, created_at`

// CreateEvent appends to the event log.
func (q *Queries) CreateEvent(ctx context.Context, e model.Event) (model.Event, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}
	if e.Metadata == "" {
		e.Metadata = "{}"
	}
	var out model.Event
	err := q.queryRow(ctx, `
		INSERT INTO event_log (level, category, message, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		e.Level, e.Category, e.Message, e.Metadata, e.CreatedAt.UTC()).
		Scan(&out.ID, &out.Level, &out.Category, &out.Message, &out.Metadata, &out.CreatedAt)
	return out, err
}

// ListEvents returns event log entries newest first. An empty level lists
// every level.
func (q *Queries) ListEvents(ctx context.Context, level string, limit, offset int) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event_log`
	args := []any{}
	if level != "" {
		query += ` WHERE level = ?`
		args = append(args, level)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteEventsBefore prunes event log entries older than t.
func (q *Queries) DeleteEventsBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := q.exec(ctx, `DELETE FROM event_log WHERE created_at < ?`, t.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
