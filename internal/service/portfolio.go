// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/fauzinoor/kalam/internal/markup"
	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/storage"
)

// PortfolioStore is the persistence used by PortfolioService.
type PortfolioStore interface {
	ListPortfolios(ctx context.Context, publishedOnly bool, userID string) ([]model.Portfolio, error)
	GetPortfolio(ctx context.Context, id int64) (model.Portfolio, error)
	CreatePortfolio(ctx context.Context, p model.Portfolio) (model.Portfolio, error)
	UpdatePortfolio(ctx context.Context, p model.Portfolio) (model.Portfolio, error)
	DeletePortfolio(ctx context.Context, id int64) error
	MaxPortfolioOrder(ctx context.Context) (int, error)
	ReorderPortfolios(ctx context.Context, positions []model.Position) error
}

// PortfolioInput is the writable part of a portfolio entry. Description is
// Markdown.
type PortfolioInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	CoverImage   string   `json:"cover_image"`
	LinkURL      string   `json:"link_url"`
	Tags         []string `json:"tags"`
	Featured     bool     `json:"featured"`
	IsPublished  bool     `json:"is_published"`
	DisplayOrder int      `json:"display_order"`
}

func (in *PortfolioInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.LinkURL = strings.TrimSpace(in.LinkURL)
	in.Tags = cleanList(in.Tags)
	if in.Category == "" {
		in.Category = model.PortfolioProject
	}
}

func (in *PortfolioInput) validate() error {
	return validationErr(validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Length(0, 10000)),
		validation.Field(&in.Category, validation.In(stringsToAny(model.ValidPortfolioCategories)...)),
		validation.Field(&in.CoverImage, validation.Length(0, 2048), is.RequestURI),
		validation.Field(&in.LinkURL, validation.Length(0, 2048), is.URL),
		validation.Field(&in.Tags, validation.Length(0, 20)),
		validation.Field(&in.DisplayOrder, validation.Min(0)),
	))
}

// PortfolioService manages portfolio showcase entries.
type PortfolioService struct {
	store  PortfolioStore
	media  *MediaService
	logger *slog.Logger
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(store PortfolioStore, media *MediaService, logger *slog.Logger) *PortfolioService {
	return &PortfolioService{store: store, media: media, logger: logger}
}

// ListPublished returns published entries in display order.
func (s *PortfolioService) ListPublished(ctx context.Context) ([]model.Portfolio, error) {
	return s.render(s.store.ListPortfolios(ctx, true, ""))
}

// ListByUser returns every entry owned by userID.
func (s *PortfolioService) ListByUser(ctx context.Context, userID string) ([]model.Portfolio, error) {
	return s.render(s.store.ListPortfolios(ctx, false, userID))
}

// Get returns one entry.
func (s *PortfolioService) Get(ctx context.Context, id int64) (model.Portfolio, error) {
	p, err := s.store.GetPortfolio(ctx, id)
	if err != nil {
		return model.Portfolio{}, err
	}
	return p, s.renderOne(&p)
}

// Create creates an entry owned by userID. A zero display order appends it.
func (s *PortfolioService) Create(ctx context.Context, userID string, in PortfolioInput) (model.Portfolio, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return model.Portfolio{}, err
	}
	if in.DisplayOrder == 0 {
		maxOrder, err := s.store.MaxPortfolioOrder(ctx)
		if err != nil {
			return model.Portfolio{}, fmt.Errorf("reading portfolio order: %w", err)
		}
		in.DisplayOrder = maxOrder + 1
	}

	p := model.Portfolio{UserID: userID}
	in.apply(&p)
	created, err := s.store.CreatePortfolio(ctx, p)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("creating portfolio: %w", err)
	}
	return created, s.renderOne(&created)
}

// Update replaces an entry's fields.
func (s *PortfolioService) Update(ctx context.Context, userID string, id int64, in PortfolioInput) (model.Portfolio, error) {
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return model.Portfolio{}, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return model.Portfolio{}, err
	}
	if in.DisplayOrder == 0 {
		in.DisplayOrder = existing.DisplayOrder
	}
	in.apply(&existing)
	updated, err := s.store.UpdatePortfolio(ctx, existing)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("updating portfolio: %w", err)
	}
	return updated, s.renderOne(&updated)
}

// SetCover uploads a cover image for an entry.
func (s *PortfolioService) SetCover(ctx context.Context, userID string, id int64, r io.Reader) (model.Portfolio, error) {
	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return model.Portfolio{}, err
	}
	up, err := s.media.UploadPortfolioCover(ctx, id, r)
	if err != nil {
		return model.Portfolio{}, err
	}
	existing.CoverImage = up.URL
	updated, err := s.store.UpdatePortfolio(ctx, existing)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("saving portfolio cover: %w", err)
	}
	return updated, s.renderOne(&updated)
}

// Delete deletes an entry and its stored covers.
func (s *PortfolioService) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeletePortfolio(ctx, id); err != nil {
		return err
	}
	s.media.DeleteFolder(ctx, storage.PrefixPortfolioCovers, id)
	return nil
}

// Reorder assigns display orders 1..n to the given entries in one batch.
func (s *PortfolioService) Reorder(ctx context.Context, orderedIDs []int64) error {
	if err := checkOrderedIDs(orderedIDs); err != nil {
		return err
	}
	return s.store.ReorderPortfolios(ctx, ReorderPositions(orderedIDs))
}

func (s *PortfolioService) owned(ctx context.Context, userID string, id int64) (model.Portfolio, error) {
	p, err := s.store.GetPortfolio(ctx, id)
	if err != nil {
		return model.Portfolio{}, err
	}
	if p.UserID != userID {
		return model.Portfolio{}, ErrForbidden
	}
	return p, nil
}

func (s *PortfolioService) render(items []model.Portfolio, err error) ([]model.Portfolio, error) {
	if err != nil {
		return nil, err
	}
	for i := range items {
		if err := s.renderOne(&items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *PortfolioService) renderOne(p *model.Portfolio) error {
	html, err := markup.RenderMarkdown(p.Description)
	if err != nil {
		return fmt.Errorf("rendering portfolio %d description: %w", p.ID, err)
	}
	p.DescriptionHTML = html
	return nil
}

func (in *PortfolioInput) apply(p *model.Portfolio) {
	p.Title = in.Title
	p.Description = in.Description
	p.Category = in.Category
	if in.CoverImage != "" {
		p.CoverImage = in.CoverImage
	}
	p.LinkURL = in.LinkURL
	p.Tags = in.Tags
	p.Featured = in.Featured
	p.IsPublished = in.IsPublished
	p.DisplayOrder = in.DisplayOrder
}
