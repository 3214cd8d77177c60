// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/mileusna/useragent"

	"github.com/fauzinoor/kalam/internal/events"
	"github.com/fauzinoor/kalam/internal/markup"
	"github.com/fauzinoor/kalam/internal/model"
)

// CommentStore is the persistence used by CommentService.
type CommentStore interface {
	GetPostByID(ctx context.Context, id int64) (model.Post, error)
	ListPostComments(ctx context.Context, postID int64, status model.CommentStatus) ([]model.Comment, error)
	ListComments(ctx context.Context, status model.CommentStatus, limit, offset int) ([]model.Comment, error)
	CountCommentsByStatus(ctx context.Context) (model.CommentCounts, error)
	GetComment(ctx context.Context, id int64) (model.Comment, error)
	CreateComment(ctx context.Context, c model.Comment) (model.Comment, error)
	SetCommentStatus(ctx context.Context, id int64, status model.CommentStatus) (model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	DeleteRejectedCommentsBefore(ctx context.Context, t time.Time) (int64, error)
}

// CommentInput is a submitted comment. Guests must give a name and email.
type CommentInput struct {
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	Content    string `json:"content"`
}

// CommentPage is one page of the moderation queue.
type CommentPage struct {
	Comments []model.Comment
	Counts   model.CommentCounts
	Page     int
	PerPage  int
}

// CommentService handles comment submission and moderation.
type CommentService struct {
	store  CommentStore
	events events.Emitter
	logger *slog.Logger
	clock  clock
}

// NewCommentService creates a new CommentService. A nil emitter drops events.
func NewCommentService(store CommentStore, emitter events.Emitter, logger *slog.Logger) *CommentService {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return &CommentService{store: store, events: emitter, logger: logger}
}

// ListApproved returns the approved comments of a published post, oldest first.
func (s *CommentService) ListApproved(ctx context.Context, postID int64) ([]model.Comment, error) {
	if _, err := s.publishedPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.ListPostComments(ctx, postID, model.CommentApproved)
}

// Submit stores a new comment awaiting moderation. Markup is stripped from
// the content; authorID is nil for guests.
func (s *CommentService) Submit(ctx context.Context, postID int64, authorID *string, in CommentInput, userAgent string) (model.Comment, error) {
	post, err := s.publishedPost(ctx, postID)
	if err != nil {
		return model.Comment{}, err
	}
	if !post.EnableComments {
		return model.Comment{}, ErrCommentsDisabled
	}

	in.GuestName = markup.StripHTML(in.GuestName)
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)
	in.Content = markup.StripHTML(in.Content)
	guest := authorID == nil
	err = validation.ValidateStruct(&in,
		validation.Field(&in.GuestName, validation.When(guest, validation.Required), validation.Length(0, 100)),
		validation.Field(&in.GuestEmail, validation.When(guest, validation.Required), validation.Length(0, 254), is.EmailFormat),
		validation.Field(&in.Content, validation.Required, validation.Length(1, 2000)),
	)
	if err := validationErr(err); err != nil {
		return model.Comment{}, err
	}

	ua := useragent.Parse(userAgent)
	c, err := s.store.CreateComment(ctx, model.Comment{
		PostID:     postID,
		AuthorID:   authorID,
		GuestName:  in.GuestName,
		GuestEmail: in.GuestEmail,
		Content:    in.Content,
		Status:     model.CommentPending,
		UserAgent:  userAgent,
		Browser:    ua.Name,
		OS:         ua.OS,
	})
	if err != nil {
		return model.Comment{}, fmt.Errorf("creating comment: %w", err)
	}
	s.emit(ctx, events.CommentCreated, c)
	return c, nil
}

// ListForModeration returns a page of comments, optionally of one status,
// with the per-status totals.
func (s *CommentService) ListForModeration(ctx context.Context, status model.CommentStatus, page, perPage int) (CommentPage, error) {
	if status != "" && !status.IsValid() {
		return CommentPage{}, fieldError("status", "must be pending, approved or rejected")
	}
	page, perPage = NormalizePage(page, perPage)
	comments, err := s.store.ListComments(ctx, status, perPage, (page-1)*perPage)
	if err != nil {
		return CommentPage{}, fmt.Errorf("listing comments: %w", err)
	}
	counts, err := s.store.CountCommentsByStatus(ctx)
	if err != nil {
		return CommentPage{}, fmt.Errorf("counting comments: %w", err)
	}
	return CommentPage{Comments: comments, Counts: counts, Page: page, PerPage: perPage}, nil
}

// Approve publishes a comment.
func (s *CommentService) Approve(ctx context.Context, id int64) (model.Comment, error) {
	c, err := s.store.SetCommentStatus(ctx, id, model.CommentApproved)
	if err != nil {
		return model.Comment{}, err
	}
	s.emit(ctx, events.CommentApproved, c)
	return c, nil
}

// Reject hides a comment. Rejected comments are purged after a while.
func (s *CommentService) Reject(ctx context.Context, id int64) (model.Comment, error) {
	return s.store.SetCommentStatus(ctx, id, model.CommentRejected)
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteComment(ctx, id)
}

// PurgeRejected deletes comments rejected longer than olderThan ago.
func (s *CommentService) PurgeRejected(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.store.DeleteRejectedCommentsBefore(ctx, s.clock.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("purging rejected comments: %w", err)
	}
	if n > 0 {
		s.logger.Info("purged rejected comments", "category", model.EventCategoryComment, "count", n)
	}
	return n, nil
}

func (s *CommentService) publishedPost(ctx context.Context, postID int64) (model.Post, error) {
	p, err := s.store.GetPostByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	if !p.IsPublished() {
		return model.Post{}, model.ErrNotFound
	}
	return p, nil
}

func (s *CommentService) emit(ctx context.Context, eventType string, c model.Comment) {
	s.events.Emit(ctx, eventType, events.CommentEventData{
		ID:        c.ID,
		PostID:    c.PostID,
		GuestName: c.GuestName,
		Status:    string(c.Status),
	})
}
