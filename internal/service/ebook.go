// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/fauzinoor/kalam/internal/events"
	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/storage"
)

// EbookStore is the persistence used by EbookService.
type EbookStore interface {
	ListEbooks(ctx context.Context, f model.EbookFilter) ([]model.Ebook, error)
	GetEbookByID(ctx context.Context, id int64) (model.Ebook, error)
	GetEbookBySlug(ctx context.Context, slug string) (model.Ebook, error)
	EbookSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	CreateEbook(ctx context.Context, e model.Ebook) (model.Ebook, error)
	UpdateEbook(ctx context.Context, e model.Ebook) (model.Ebook, error)
	SetEbookStatus(ctx context.Context, id int64, status model.Status, publishedAt *time.Time) error
	SetEbookCover(ctx context.Context, id int64, url string) error
	DeleteEbook(ctx context.Context, id int64) error
	ReorderEbooks(ctx context.Context, positions []model.Position) error
	CountEbooksInCategory(ctx context.Context, slug string) (int64, error)

	ListEbookCategories(ctx context.Context) ([]model.EbookCategory, error)
	GetEbookCategory(ctx context.Context, id int64) (model.EbookCategory, error)
	GetEbookCategoryBySlug(ctx context.Context, slug string) (model.EbookCategory, error)
	EbookCategorySlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	CreateEbookCategory(ctx context.Context, c model.EbookCategory) (model.EbookCategory, error)
	UpdateEbookCategory(ctx context.Context, c model.EbookCategory) (model.EbookCategory, error)
	DeleteEbookCategory(ctx context.Context, id int64) error
}

// EbookInput is the writable part of an e-book.
type EbookInput struct {
	Title          string       `json:"title"`
	Slug           string       `json:"slug"`
	Description    string       `json:"description"`
	CoverImageURL  string       `json:"cover_image_url"`
	GoogleDriveURL string       `json:"google_drive_url"`
	FileSize       string       `json:"file_size"`
	FileFormat     string       `json:"file_format"`
	AuthorName     string       `json:"author_name"`
	IsOwnWork      bool         `json:"is_own_work"`
	Category       string       `json:"category"`
	Tags           []string     `json:"tags"`
	IsFeatured     bool         `json:"is_featured"`
	DisplayOrder   int          `json:"display_order"`
	Status         model.Status `json:"status"`
}

func (in *EbookInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = strings.TrimSpace(in.Description)
	in.GoogleDriveURL = strings.TrimSpace(in.GoogleDriveURL)
	in.AuthorName = strings.TrimSpace(in.AuthorName)
	in.Category = strings.TrimSpace(in.Category)
	in.FileFormat = strings.ToUpper(strings.TrimSpace(in.FileFormat))
	in.Tags = cleanList(in.Tags)
}

func (in *EbookInput) validate() error {
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Slug, validation.Length(0, 200), slugRule),
		validation.Field(&in.Description, validation.Length(0, 2000)),
		validation.Field(&in.CoverImageURL, validation.Length(0, 2048), is.RequestURI),
		validation.Field(&in.GoogleDriveURL, validation.Required, is.URL),
		validation.Field(&in.FileSize, validation.Length(0, 20)),
		validation.Field(&in.FileFormat, validation.Length(0, 10)),
		validation.Field(&in.AuthorName, validation.Length(0, 100)),
		validation.Field(&in.Category, validation.Required),
		validation.Field(&in.Tags, validation.Length(0, 20)),
		validation.Field(&in.DisplayOrder, validation.Min(0)),
		validation.Field(&in.Status, validation.In(model.StatusDraft, model.StatusPublished, model.StatusArchived)),
	))
}

// EbookCategoryInput is the writable part of an e-book category.
type EbookCategoryInput struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

func (in *EbookCategoryInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Slug, validation.Length(0, 100), slugRule),
		validation.Field(&in.Description, validation.Length(0, 500)),
		validation.Field(&in.DisplayOrder, validation.Min(0)),
	))
}

// EbookService manages the e-book catalog.
type EbookService struct {
	store  EbookStore
	media  *MediaService
	events events.Emitter
	logger *slog.Logger
	clock  clock
}

// NewEbookService creates a new EbookService. A nil emitter drops events.
func NewEbookService(store EbookStore, media *MediaService, emitter events.Emitter, logger *slog.Logger) *EbookService {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return &EbookService{store: store, media: media, events: emitter, logger: logger}
}

// ListPublished returns published e-books in display order, optionally
// narrowed to one category slug.
func (s *EbookService) ListPublished(ctx context.Context, category string, featuredOnly bool) ([]model.Ebook, error) {
	return s.store.ListEbooks(ctx, model.EbookFilter{
		Status:   model.StatusPublished,
		Category: category,
		Featured: featuredOnly,
	})
}

// ListAll returns every e-book; an empty status lists all statuses.
func (s *EbookService) ListAll(ctx context.Context, status model.Status) ([]model.Ebook, error) {
	return s.store.ListEbooks(ctx, model.EbookFilter{Status: status})
}

// GetBySlug returns a published e-book.
func (s *EbookService) GetBySlug(ctx context.Context, slug string) (model.Ebook, error) {
	e, err := s.store.GetEbookBySlug(ctx, slug)
	if err != nil {
		return model.Ebook{}, err
	}
	if !e.IsPublished() {
		return model.Ebook{}, model.ErrNotFound
	}
	return e, nil
}

// Get returns an e-book in any status.
func (s *EbookService) Get(ctx context.Context, id int64) (model.Ebook, error) {
	return s.store.GetEbookByID(ctx, id)
}

// Create creates an e-book owned by authorID.
func (s *EbookService) Create(ctx context.Context, authorID string, in EbookInput) (model.Ebook, error) {
	in.normalize()
	if in.Status == "" {
		in.Status = model.StatusDraft
	}
	if err := in.validate(); err != nil {
		return model.Ebook{}, err
	}
	slug, err := resolveSlug(in.Title, in.Slug, func(slug string) (bool, error) {
		return s.store.EbookSlugExists(ctx, slug, 0)
	})
	if err != nil {
		return model.Ebook{}, err
	}
	if err := s.checkCategory(ctx, in.Category); err != nil {
		return model.Ebook{}, err
	}

	e := model.Ebook{AuthorID: authorID, Slug: slug}
	in.apply(&e)
	if _, err := model.TransitionStatus(&e.Lifecycle, in.Status, s.clock.now()); err != nil {
		return model.Ebook{}, err
	}

	created, err := s.store.CreateEbook(ctx, e)
	if err != nil {
		return model.Ebook{}, fmt.Errorf("creating e-book: %w", err)
	}
	if created.IsPublished() {
		s.emitPublished(ctx, created)
	}
	return created, nil
}

// Update replaces an e-book's fields. An empty status keeps the current one.
func (s *EbookService) Update(ctx context.Context, actorID string, id int64, in EbookInput) (model.Ebook, error) {
	existing, err := s.owned(ctx, actorID, id)
	if err != nil {
		return model.Ebook{}, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return model.Ebook{}, err
	}
	slug, err := resolveSlug(in.Title, in.Slug, func(slug string) (bool, error) {
		return s.store.EbookSlugExists(ctx, slug, id)
	})
	if err != nil {
		return model.Ebook{}, err
	}
	if err := s.checkCategory(ctx, in.Category); err != nil {
		return model.Ebook{}, err
	}

	if in.DisplayOrder == 0 {
		in.DisplayOrder = existing.DisplayOrder
	}
	existing.Slug = slug
	in.apply(&existing)
	changed := false
	if in.Status != "" {
		if changed, err = model.TransitionStatus(&existing.Lifecycle, in.Status, s.clock.now()); err != nil {
			return model.Ebook{}, err
		}
	}

	updated, err := s.store.UpdateEbook(ctx, existing)
	if err != nil {
		return model.Ebook{}, fmt.Errorf("updating e-book: %w", err)
	}
	if changed && updated.IsPublished() {
		s.emitPublished(ctx, updated)
	}
	return updated, nil
}

// SetStatus moves an e-book to another status.
func (s *EbookService) SetStatus(ctx context.Context, actorID string, id int64, status model.Status) (model.Ebook, error) {
	e, err := s.owned(ctx, actorID, id)
	if err != nil {
		return model.Ebook{}, err
	}
	changed, err := model.TransitionStatus(&e.Lifecycle, status, s.clock.now())
	if err != nil {
		return model.Ebook{}, err
	}
	if !changed {
		return e, nil
	}
	if err := s.store.SetEbookStatus(ctx, id, e.Status, e.PublishedAt); err != nil {
		return model.Ebook{}, fmt.Errorf("saving e-book status: %w", err)
	}
	if e.IsPublished() {
		s.emitPublished(ctx, e)
	}
	return e, nil
}

// SetCover uploads a cover image and points the e-book at it.
func (s *EbookService) SetCover(ctx context.Context, actorID string, id int64, r io.Reader) (model.Ebook, error) {
	e, err := s.owned(ctx, actorID, id)
	if err != nil {
		return model.Ebook{}, err
	}
	up, err := s.media.UploadEbookCover(ctx, id, r)
	if err != nil {
		return model.Ebook{}, err
	}
	if err := s.store.SetEbookCover(ctx, id, up.URL); err != nil {
		return model.Ebook{}, fmt.Errorf("saving e-book cover: %w", err)
	}
	e.CoverImageURL = up.URL
	return e, nil
}

// Delete deletes an e-book and its stored covers.
func (s *EbookService) Delete(ctx context.Context, actorID string, id int64) error {
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.store.DeleteEbook(ctx, id); err != nil {
		return err
	}
	s.media.DeleteFolder(ctx, storage.PrefixEbookCovers, id)
	return nil
}

// Reorder assigns display orders 1..n to the given e-books in one batch.
func (s *EbookService) Reorder(ctx context.Context, orderedIDs []int64) error {
	if err := checkOrderedIDs(orderedIDs); err != nil {
		return err
	}
	return s.store.ReorderEbooks(ctx, ReorderPositions(orderedIDs))
}

func (s *EbookService) owned(ctx context.Context, actorID string, id int64) (model.Ebook, error) {
	e, err := s.store.GetEbookByID(ctx, id)
	if err != nil {
		return model.Ebook{}, err
	}
	if e.AuthorID != actorID {
		return model.Ebook{}, ErrForbidden
	}
	return e, nil
}

func (s *EbookService) checkCategory(ctx context.Context, slug string) error {
	_, err := s.store.GetEbookCategoryBySlug(ctx, slug)
	if errors.Is(err, model.ErrNotFound) {
		return fieldError("category", "unknown e-book category")
	}
	return err
}

func (s *EbookService) emitPublished(ctx context.Context, e model.Ebook) {
	s.events.Emit(ctx, events.EbookPublished, events.EbookEventData{
		ID:       e.ID,
		Title:    e.Title,
		Slug:     e.Slug,
		Category: e.Category,
	})
}

func (in *EbookInput) apply(e *model.Ebook) {
	e.Title = in.Title
	e.Description = in.Description
	if in.CoverImageURL != "" {
		e.CoverImageURL = in.CoverImageURL
	}
	e.GoogleDriveURL = in.GoogleDriveURL
	e.FileSize = in.FileSize
	e.FileFormat = in.FileFormat
	e.AuthorName = in.AuthorName
	e.IsOwnWork = in.IsOwnWork
	e.Category = in.Category
	e.Tags = in.Tags
	e.IsFeatured = in.IsFeatured
	e.DisplayOrder = in.DisplayOrder
}

// Categories

// ListCategories returns e-book categories in display order.
func (s *EbookService) ListCategories(ctx context.Context) ([]model.EbookCategory, error) {
	return s.store.ListEbookCategories(ctx)
}

// CreateCategory creates an e-book category.
func (s *EbookService) CreateCategory(ctx context.Context, in EbookCategoryInput) (model.EbookCategory, error) {
	if err := in.validate(); err != nil {
		return model.EbookCategory{}, err
	}
	slug, err := resolveSlug(in.Name, in.Slug, func(slug string) (bool, error) {
		return s.store.EbookCategorySlugExists(ctx, slug, 0)
	})
	if err != nil {
		return model.EbookCategory{}, err
	}
	return s.store.CreateEbookCategory(ctx, model.EbookCategory{
		Name: in.Name, Slug: slug, Description: in.Description, DisplayOrder: in.DisplayOrder,
	})
}

// UpdateCategory updates an e-book category. E-books follow a slug change.
func (s *EbookService) UpdateCategory(ctx context.Context, id int64, in EbookCategoryInput) (model.EbookCategory, error) {
	if _, err := s.store.GetEbookCategory(ctx, id); err != nil {
		return model.EbookCategory{}, err
	}
	if err := in.validate(); err != nil {
		return model.EbookCategory{}, err
	}
	slug, err := resolveSlug(in.Name, in.Slug, func(slug string) (bool, error) {
		return s.store.EbookCategorySlugExists(ctx, slug, id)
	})
	if err != nil {
		return model.EbookCategory{}, err
	}
	return s.store.UpdateEbookCategory(ctx, model.EbookCategory{
		ID: id, Name: in.Name, Slug: slug, Description: in.Description, DisplayOrder: in.DisplayOrder,
	})
}

// DeleteCategory deletes an e-book category that no e-book uses.
func (s *EbookService) DeleteCategory(ctx context.Context, id int64) error {
	c, err := s.store.GetEbookCategory(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.store.CountEbooksInCategory(ctx, c.Slug)
	if err != nil {
		return fmt.Errorf("counting e-books in category: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %d e-book(s) are using this category", ErrCategoryInUse, n)
	}
	return s.store.DeleteEbookCategory(ctx, id)
}
