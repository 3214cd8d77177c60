// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"

	"github.com/google/uuid"

	"github.com/fauzinoor/kalam/internal/imaging"
	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/storage"
)

// Upload is a stored image.
type Upload struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mime_type"`
	Size     int    `json:"size"`
}

// MediaService processes uploaded images and writes them to storage.
type MediaService struct {
	processor *imaging.Processor
	storage   storage.Storage
	logger    *slog.Logger
	clock     clock
}

// NewMediaService creates a new media service.
func NewMediaService(processor *imaging.Processor, store storage.Storage, logger *slog.Logger) *MediaService {
	return &MediaService{
		processor: processor,
		storage:   store,
		logger:    logger,
	}
}

// UploadPostImage stores an image for use inside a post's content under
// post-images/{postID}/{unix-ms}.{ext}.
func (s *MediaService) UploadPostImage(ctx context.Context, postID int64, r io.Reader) (Upload, error) {
	name := strconv.FormatInt(s.clock.now().UnixMilli(), 10)
	return s.put(ctx, path.Join(storage.PrefixPostImages, strconv.FormatInt(postID, 10), name), r)
}

// UploadEbookCover stores a cover image for an e-book.
func (s *MediaService) UploadEbookCover(ctx context.Context, ebookID int64, r io.Reader) (Upload, error) {
	return s.put(ctx, path.Join(storage.PrefixEbookCovers, strconv.FormatInt(ebookID, 10), uuid.NewString()), r)
}

// UploadPortfolioCover stores a cover image for a portfolio entry.
func (s *MediaService) UploadPortfolioCover(ctx context.Context, portfolioID int64, r io.Reader) (Upload, error) {
	return s.put(ctx, path.Join(storage.PrefixPortfolioCovers, strconv.FormatInt(portfolioID, 10), uuid.NewString()), r)
}

// UploadAvatar replaces a user's avatar, stored as avatars/{uid}/avatar.{ext}.
// Avatars with another extension are removed first.
func (s *MediaService) UploadAvatar(ctx context.Context, userID string, r io.Reader) (Upload, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return Upload{}, fieldError("user_id", "must be a valid UUID")
	}
	img, err := s.processor.Process(r)
	if err != nil {
		return Upload{}, err
	}
	if _, err := s.storage.DeletePrefix(ctx, path.Join(storage.PrefixAvatars, userID)); err != nil {
		return Upload{}, fmt.Errorf("removing old avatar: %w", err)
	}
	return s.store(ctx, path.Join(storage.PrefixAvatars, userID, "avatar"), img)
}

// DeleteAvatar removes every stored avatar file of a user.
func (s *MediaService) DeleteAvatar(ctx context.Context, userID string) (int, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return 0, fieldError("user_id", "must be a valid UUID")
	}
	n, err := s.storage.DeletePrefix(ctx, path.Join(storage.PrefixAvatars, userID))
	if err != nil {
		return 0, fmt.Errorf("deleting avatar: %w", err)
	}
	return n, nil
}

// DeleteFolder removes every object under prefix/{id}. Failures are logged.
// It is a no-op on a nil service.
func (s *MediaService) DeleteFolder(ctx context.Context, prefix string, id int64) {
	if s == nil {
		return
	}
	folder := path.Join(prefix, strconv.FormatInt(id, 10))
	if _, err := s.storage.DeletePrefix(ctx, folder); err != nil {
		s.logger.Warn("failed to delete stored files",
			"category", model.EventCategoryStorage, "prefix", folder, "error", err)
	}
}

// put processes an image and stores it under base plus the extension of the
// stored format.
func (s *MediaService) put(ctx context.Context, base string, r io.Reader) (Upload, error) {
	img, err := s.processor.Process(r)
	if err != nil {
		return Upload{}, err
	}
	return s.store(ctx, base, img)
}

func (s *MediaService) store(ctx context.Context, base string, img *imaging.Result) (Upload, error) {
	key := base + "." + img.Ext
	url, err := s.storage.Put(ctx, key, bytes.NewReader(img.Data), int64(len(img.Data)), img.MimeType)
	if err != nil {
		s.logger.Error("upload failed", "category", model.EventCategoryStorage, "key", key, "error", err)
		return Upload{}, fmt.Errorf("storing %s: %w", key, err)
	}
	return Upload{
		Key:      key,
		URL:      url,
		Width:    img.Width,
		Height:   img.Height,
		MimeType: img.MimeType,
		Size:     len(img.Data),
	}, nil
}
