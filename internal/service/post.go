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

	"github.com/fauzinoor/kalam/internal/events"
	"github.com/fauzinoor/kalam/internal/markup"
	"github.com/fauzinoor/kalam/internal/model"
)

// Pagination defaults
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PostStore is the persistence used by PostService.
type PostStore interface {
	ListPosts(ctx context.Context, f model.PostFilter) ([]model.Post, error)
	CountPosts(ctx context.Context, f model.PostFilter) (int64, error)
	GetPostByID(ctx context.Context, id int64) (model.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (model.Post, error)
	PostSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	CreatePost(ctx context.Context, p model.Post, categoryIDs, tagIDs []int64) (model.Post, error)
	UpdatePost(ctx context.Context, p model.Post, categoryIDs, tagIDs []int64) (model.Post, error)
	SetPostStatus(ctx context.Context, id int64, status model.Status, publishedAt *time.Time) error
	DeletePost(ctx context.Context, id int64) error
	ListDuePosts(ctx context.Context, t time.Time) ([]model.Post, error)
	LoadPostTerms(ctx context.Context, posts []model.Post) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id int64) (model.Category, error)
	CategorySlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	CreateCategory(ctx context.Context, c model.Category) (model.Category, error)
	UpdateCategory(ctx context.Context, c model.Category) (model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	CountExistingCategories(ctx context.Context, ids []int64) (int, error)

	ListTags(ctx context.Context) ([]model.Tag, error)
	GetTag(ctx context.Context, id int64) (model.Tag, error)
	TagSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	CreateTag(ctx context.Context, t model.Tag) (model.Tag, error)
	UpdateTag(ctx context.Context, t model.Tag) (model.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
	CountExistingTags(ctx context.Context, ids []int64) (int, error)
}

// PostInput is the writable part of a post. Nil CategoryIDs or TagIDs leave
// the existing links untouched on update.
type PostInput struct {
	Title           string       `json:"title"`
	Slug            string       `json:"slug"`
	Description     string       `json:"description"`
	Content         string       `json:"content"`
	CoverURL        string       `json:"cover_url"`
	MetaTitle       string       `json:"meta_title"`
	MetaDescription string       `json:"meta_description"`
	MetaKeywords    []string     `json:"meta_keywords"`
	EnableComments  *bool        `json:"enable_comments"`
	Status          model.Status `json:"status"`
	ScheduledAt     *time.Time   `json:"scheduled_at"`
	CategoryIDs     []int64      `json:"category_ids"`
	TagIDs          []int64      `json:"tag_ids"`
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = strings.TrimSpace(in.Description)
	in.Content = markup.SanitizeHTML(in.Content)
	in.CoverURL = strings.TrimSpace(in.CoverURL)
	in.MetaTitle = strings.TrimSpace(in.MetaTitle)
	if in.MetaTitle == "" {
		in.MetaTitle = in.Title
	}
	in.MetaDescription = strings.TrimSpace(in.MetaDescription)
	if in.MetaDescription == "" {
		in.MetaDescription = in.Description
	}
	in.MetaKeywords = cleanList(in.MetaKeywords)
}

func (in *PostInput) validate() error {
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Slug, validation.Length(0, 200), slugRule),
		validation.Field(&in.Description, validation.Length(0, 1000)),
		validation.Field(&in.CoverURL, validation.Length(0, 2048), is.RequestURI),
		validation.Field(&in.MetaTitle, validation.Length(0, 200)),
		validation.Field(&in.MetaDescription, validation.Length(0, 500)),
		validation.Field(&in.MetaKeywords, validation.Length(0, 20)),
		validation.Field(&in.Status, validation.In(model.StatusDraft, model.StatusPublished, model.StatusArchived)),
	))
}

// PostQuery selects a page of posts.
type PostQuery struct {
	CategorySlug string
	TagSlug      string
	Status       model.Status
	Page         int
	PerPage      int
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts   []model.Post
	Total   int64
	Page    int
	PerPage int
}

// CategoryInput is the writable part of a post category.
type CategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (in *CategoryInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Slug, validation.Length(0, 100), slugRule),
		validation.Field(&in.Description, validation.Length(0, 500)),
	))
}

// TagInput is the writable part of a tag.
type TagInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (in *TagInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.Slug, validation.Length(0, 50), slugRule),
	))
}

// PostService manages posts, their categories and tags.
type PostService struct {
	store  PostStore
	events events.Emitter
	logger *slog.Logger
	clock  clock
}

// NewPostService creates a new PostService. A nil emitter drops events.
func NewPostService(store PostStore, emitter events.Emitter, logger *slog.Logger) *PostService {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return &PostService{store: store, events: emitter, logger: logger}
}

// ListPublished returns a page of published posts, newest first.
func (s *PostService) ListPublished(ctx context.Context, q PostQuery) (PostPage, error) {
	q.Status = model.StatusPublished
	return s.list(ctx, "", q)
}

// ListByAuthor returns a page of an author's posts in any status unless
// q.Status narrows it.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string, q PostQuery) (PostPage, error) {
	return s.list(ctx, authorID, q)
}

func (s *PostService) list(ctx context.Context, authorID string, q PostQuery) (PostPage, error) {
	page, perPage := NormalizePage(q.Page, q.PerPage)
	f := model.PostFilter{
		Status:       q.Status,
		AuthorID:     authorID,
		CategorySlug: q.CategorySlug,
		TagSlug:      q.TagSlug,
		Limit:        perPage,
		Offset:       (page - 1) * perPage,
	}
	total, err := s.store.CountPosts(ctx, f)
	if err != nil {
		return PostPage{}, fmt.Errorf("counting posts: %w", err)
	}
	posts, err := s.store.ListPosts(ctx, f)
	if err != nil {
		return PostPage{}, fmt.Errorf("listing posts: %w", err)
	}
	if err := s.store.LoadPostTerms(ctx, posts); err != nil {
		return PostPage{}, err
	}
	return PostPage{Posts: posts, Total: total, Page: page, PerPage: perPage}, nil
}

// GetBySlug returns a published post by slug.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (model.Post, error) {
	p, err := s.store.GetPostBySlug(ctx, slug)
	if err != nil {
		return model.Post{}, err
	}
	if !p.IsPublished() {
		return model.Post{}, model.ErrNotFound
	}
	return s.withTerms(ctx, p)
}

// GetByID returns a post in any status.
func (s *PostService) GetByID(ctx context.Context, id int64) (model.Post, error) {
	p, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		return model.Post{}, err
	}
	return s.withTerms(ctx, p)
}

// GetPublishedByID returns a post by id only if it is published.
func (s *PostService) GetPublishedByID(ctx context.Context, id int64) (model.Post, error) {
	p, err := s.store.GetPostByID(ctx, id)
	if err != nil {
		return model.Post{}, err
	}
	if !p.IsPublished() {
		return model.Post{}, model.ErrNotFound
	}
	return p, nil
}

func (s *PostService) withTerms(ctx context.Context, p model.Post) (model.Post, error) {
	posts := []model.Post{p}
	if err := s.store.LoadPostTerms(ctx, posts); err != nil {
		return model.Post{}, err
	}
	return posts[0], nil
}

// Create creates a post owned by authorID. The status defaults to draft and
// goes through the regular transition rules.
func (s *PostService) Create(ctx context.Context, authorID string, in PostInput) (model.Post, error) {
	in.normalize()
	if in.Status == "" {
		in.Status = model.StatusDraft
	}
	if err := in.validate(); err != nil {
		return model.Post{}, err
	}
	slug, err := resolveSlug(in.Title, in.Slug, func(slug string) (bool, error) {
		return s.store.PostSlugExists(ctx, slug, 0)
	})
	if err != nil {
		return model.Post{}, err
	}
	if err := s.checkTerms(ctx, in.CategoryIDs, in.TagIDs); err != nil {
		return model.Post{}, err
	}

	p := model.Post{AuthorID: authorID, EnableComments: true, Slug: slug}
	in.apply(&p)
	if _, err := model.TransitionStatus(&p.Lifecycle, in.Status, s.clock.now()); err != nil {
		return model.Post{}, err
	}
	if p.IsPublished() {
		p.ScheduledAt = nil
	}

	created, err := s.store.CreatePost(ctx, p, in.CategoryIDs, in.TagIDs)
	if err != nil {
		return model.Post{}, fmt.Errorf("creating post: %w", err)
	}
	if created.IsPublished() {
		s.emit(ctx, events.PostPublished, created)
	}
	return created, nil
}

// Update replaces a post's fields. An empty status keeps the current one.
func (s *PostService) Update(ctx context.Context, actorID string, id int64, in PostInput) (model.Post, error) {
	existing, err := s.owned(ctx, actorID, id)
	if err != nil {
		return model.Post{}, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return model.Post{}, err
	}
	slug, err := resolveSlug(in.Title, in.Slug, func(slug string) (bool, error) {
		return s.store.PostSlugExists(ctx, slug, id)
	})
	if err != nil {
		return model.Post{}, err
	}
	if err := s.checkTerms(ctx, in.CategoryIDs, in.TagIDs); err != nil {
		return model.Post{}, err
	}

	wasPublished := existing.IsPublished()
	existing.Slug = slug
	in.apply(&existing)
	changed := false
	if in.Status != "" {
		if changed, err = model.TransitionStatus(&existing.Lifecycle, in.Status, s.clock.now()); err != nil {
			return model.Post{}, err
		}
	}
	if existing.IsPublished() {
		existing.ScheduledAt = nil
	}

	updated, err := s.store.UpdatePost(ctx, existing, in.CategoryIDs, in.TagIDs)
	if err != nil {
		return model.Post{}, fmt.Errorf("updating post: %w", err)
	}
	if changed {
		s.emitTransition(ctx, wasPublished, updated)
	}
	return updated, nil
}

// SetStatus moves a post to another status.
func (s *PostService) SetStatus(ctx context.Context, actorID string, id int64, status model.Status) (model.Post, error) {
	p, err := s.owned(ctx, actorID, id)
	if err != nil {
		return model.Post{}, err
	}
	wasPublished := p.IsPublished()
	changed, err := model.TransitionStatus(&p.Lifecycle, status, s.clock.now())
	if err != nil {
		return model.Post{}, err
	}
	if !changed {
		return p, nil
	}
	if err := s.store.SetPostStatus(ctx, id, p.Status, p.PublishedAt); err != nil {
		return model.Post{}, fmt.Errorf("saving post status: %w", err)
	}
	p.ScheduledAt = nil
	s.emitTransition(ctx, wasPublished, p)
	return p, nil
}

// Delete deletes a post with its comments and term links.
func (s *PostService) Delete(ctx context.Context, actorID string, id int64) error {
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return err
	}
	return s.store.DeletePost(ctx, id)
}

// PublishDue publishes every draft whose scheduled time has passed and
// returns how many were published. A failing post does not stop the others.
func (s *PostService) PublishDue(ctx context.Context) (int, error) {
	now := s.clock.now()
	due, err := s.store.ListDuePosts(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("listing scheduled posts: %w", err)
	}

	var (
		published int
		errs      []error
	)
	for _, p := range due {
		if _, err := model.TransitionStatus(&p.Lifecycle, model.StatusPublished, now); err != nil {
			errs = append(errs, fmt.Errorf("post %d: %w", p.ID, err))
			continue
		}
		if err := s.store.SetPostStatus(ctx, p.ID, p.Status, p.PublishedAt); err != nil {
			errs = append(errs, fmt.Errorf("post %d: %w", p.ID, err))
			continue
		}
		published++
		s.logger.Info("published scheduled post",
			"category", model.EventCategoryContent,
			"post_id", p.ID,
			"post_title", p.Title,
			"scheduled_at", p.ScheduledAt,
		)
		s.emit(ctx, events.PostPublished, p)
	}
	return published, errors.Join(errs...)
}

// owned loads a post and checks that actorID wrote it.
func (s *PostService) owned(ctx context.Context, actorID string, id int64) (model.Post, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return model.Post{}, err
	}
	if p.AuthorID != actorID {
		return model.Post{}, ErrForbidden
	}
	return p, nil
}

func (s *PostService) checkTerms(ctx context.Context, categoryIDs, tagIDs []int64) error {
	if n, err := s.store.CountExistingCategories(ctx, categoryIDs); err != nil {
		return fmt.Errorf("checking categories: %w", err)
	} else if n != countUnique(categoryIDs) {
		return fieldError("category_ids", "contains an unknown category")
	}
	if n, err := s.store.CountExistingTags(ctx, tagIDs); err != nil {
		return fmt.Errorf("checking tags: %w", err)
	} else if n != countUnique(tagIDs) {
		return fieldError("tag_ids", "contains an unknown tag")
	}
	return nil
}

func (s *PostService) emitTransition(ctx context.Context, wasPublished bool, p model.Post) {
	switch {
	case p.IsPublished():
		s.emit(ctx, events.PostPublished, p)
	case wasPublished:
		s.emit(ctx, events.PostUnpublished, p)
	}
}

func (s *PostService) emit(ctx context.Context, eventType string, p model.Post) {
	s.events.Emit(ctx, eventType, events.PostEventData{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Status:      string(p.Status),
		AuthorID:    p.AuthorID,
		PublishedAt: p.PublishedAt,
	})
}

func (in *PostInput) apply(p *model.Post) {
	p.Title = in.Title
	p.Description = in.Description
	p.Content = in.Content
	p.CoverURL = in.CoverURL
	p.MetaTitle = in.MetaTitle
	p.MetaDescription = in.MetaDescription
	p.MetaKeywords = in.MetaKeywords
	p.EnableComments = boolOr(in.EnableComments, p.EnableComments)
	p.ScheduledAt = in.ScheduledAt
}

// Categories

// ListCategories returns all post categories.
func (s *PostService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.store.ListCategories(ctx)
}

// CreateCategory creates a post category.
func (s *PostService) CreateCategory(ctx context.Context, in CategoryInput) (model.Category, error) {
	if err := in.validate(); err != nil {
		return model.Category{}, err
	}
	slug, err := resolveSlug(in.Name, in.Slug, func(slug string) (bool, error) {
		return s.store.CategorySlugExists(ctx, slug, 0)
	})
	if err != nil {
		return model.Category{}, err
	}
	return s.store.CreateCategory(ctx, model.Category{Name: in.Name, Slug: slug, Description: in.Description})
}

// UpdateCategory updates a post category.
func (s *PostService) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (model.Category, error) {
	if _, err := s.store.GetCategory(ctx, id); err != nil {
		return model.Category{}, err
	}
	if err := in.validate(); err != nil {
		return model.Category{}, err
	}
	slug, err := resolveSlug(in.Name, in.Slug, func(slug string) (bool, error) {
		return s.store.CategorySlugExists(ctx, slug, id)
	})
	if err != nil {
		return model.Category{}, err
	}
	return s.store.UpdateCategory(ctx, model.Category{ID: id, Name: in.Name, Slug: slug, Description: in.Description})
}

// DeleteCategory deletes a post category. Posts lose the link.
func (s *PostService) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.DeleteCategory(ctx, id)
}

// Tags

// ListTags returns all tags.
func (s *PostService) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.store.ListTags(ctx)
}

// CreateTag creates a tag.
func (s *PostService) CreateTag(ctx context.Context, in TagInput) (model.Tag, error) {
	if err := in.validate(); err != nil {
		return model.Tag{}, err
	}
	slug, err := resolveSlug(in.Name, in.Slug, func(slug string) (bool, error) {
		return s.store.TagSlugExists(ctx, slug, 0)
	})
	if err != nil {
		return model.Tag{}, err
	}
	return s.store.CreateTag(ctx, model.Tag{Name: in.Name, Slug: slug})
}

// UpdateTag renames a tag.
func (s *PostService) UpdateTag(ctx context.Context, id int64, in TagInput) (model.Tag, error) {
	if _, err := s.store.GetTag(ctx, id); err != nil {
		return model.Tag{}, err
	}
	if err := in.validate(); err != nil {
		return model.Tag{}, err
	}
	slug, err := resolveSlug(in.Name, in.Slug, func(slug string) (bool, error) {
		return s.store.TagSlugExists(ctx, slug, id)
	})
	if err != nil {
		return model.Tag{}, err
	}
	return s.store.UpdateTag(ctx, model.Tag{ID: id, Name: in.Name, Slug: slug})
}

// DeleteTag deletes a tag.
func (s *PostService) DeleteTag(ctx context.Context, id int64) error {
	return s.store.DeleteTag(ctx, id)
}

// NormalizePage clamps page to at least 1 and perPage to 1..MaxPerPage.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case perPage < 1:
		perPage = DefaultPerPage
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}
	return page, perPage
}

func countUnique(ids []int64) int {
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return len(seen)
}
