// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/fauzinoor/kalam/internal/model"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)

// ProfileStore is the persistence used by ProfileService.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (model.Profile, error)
	UpsertProfile(ctx context.Context, p model.Profile) (model.Profile, error)
}

// ProfileInput holds the editable personal fields of a profile.
type ProfileInput struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

// SocialsInput holds social network links.
type SocialsInput struct {
	Facebook  string `json:"social_facebook"`
	Instagram string `json:"social_instagram"`
	Linkedin  string `json:"social_linkedin"`
	Twitter   string `json:"social_twitter"`
}

// ProfileService manages author profiles. The site owner's profile is the
// public one.
type ProfileService struct {
	store   ProfileStore
	media   *MediaService
	ownerID string
	logger  *slog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(store ProfileStore, media *MediaService, ownerID string, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: store, media: media, ownerID: ownerID, logger: logger}
}

// GetPublic returns the site owner's profile.
func (s *ProfileService) GetPublic(ctx context.Context) (model.Profile, error) {
	if s.ownerID == "" {
		return model.Profile{}, model.ErrNotFound
	}
	return s.store.GetProfile(ctx, s.ownerID)
}

// Get returns a user's profile. A user without a stored profile gets an
// empty one with default notification preferences.
func (s *ProfileService) Get(ctx context.Context, userID string) (model.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return model.Profile{}, fieldError("id", "must be a valid UUID")
	}
	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Profile{ID: userID, NotificationPreferences: model.DefaultNotificationPreferences()}, nil
	}
	return p, err
}

// Update replaces the personal fields of a profile.
func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileInput) (model.Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.TrimSpace(in.Username)
	in.Bio = strings.TrimSpace(in.Bio)
	in.Location = strings.TrimSpace(in.Location)
	in.Website = strings.TrimSpace(in.Website)
	err := validation.ValidateStruct(&in,
		validation.Field(&in.FullName, validation.Length(0, 100)),
		validation.Field(&in.Username, validation.Match(usernameRegex)),
		validation.Field(&in.Bio, validation.Length(0, 500)),
		validation.Field(&in.Location, validation.Length(0, 100)),
		validation.Field(&in.Website, validation.Length(0, 2048), is.URL),
	)
	if err := validationErr(err); err != nil {
		return model.Profile{}, err
	}

	return s.modify(ctx, userID, func(p *model.Profile) {
		p.FullName = in.FullName
		p.Username = in.Username
		p.Bio = in.Bio
		p.Location = in.Location
		p.Website = in.Website
	})
}

// UpdateSocials replaces the social network links of a profile.
func (s *ProfileService) UpdateSocials(ctx context.Context, userID string, in SocialsInput) (model.Profile, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Facebook, validation.Length(0, 2048), is.URL),
		validation.Field(&in.Instagram, validation.Length(0, 2048), is.URL),
		validation.Field(&in.Linkedin, validation.Length(0, 2048), is.URL),
		validation.Field(&in.Twitter, validation.Length(0, 2048), is.URL),
	)
	if err := validationErr(err); err != nil {
		return model.Profile{}, err
	}
	return s.modify(ctx, userID, func(p *model.Profile) {
		p.SocialFacebook = in.Facebook
		p.SocialInstagram = in.Instagram
		p.SocialLinkedin = in.Linkedin
		p.SocialTwitter = in.Twitter
	})
}

// UpdateNotifications merges prefs into the stored notification preferences.
// Unknown keys are rejected.
func (s *ProfileService) UpdateNotifications(ctx context.Context, userID string, prefs map[string]bool) (model.Profile, error) {
	known := model.DefaultNotificationPreferences()
	for k := range prefs {
		if _, ok := known[k]; !ok {
			return model.Profile{}, fieldError(k, "unknown notification preference")
		}
	}
	return s.modify(ctx, userID, func(p *model.Profile) {
		maps.Copy(p.NotificationPreferences, prefs)
	})
}

// UploadAvatar stores a new avatar image and links it to the profile.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, r io.Reader) (model.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return model.Profile{}, fieldError("id", "must be a valid UUID")
	}
	up, err := s.media.UploadAvatar(ctx, userID, r)
	if err != nil {
		return model.Profile{}, err
	}
	return s.modify(ctx, userID, func(p *model.Profile) {
		p.AvatarURL = up.URL
	})
}

// DeleteAvatar removes the stored avatar files and unlinks the avatar.
func (s *ProfileService) DeleteAvatar(ctx context.Context, userID string) (model.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return model.Profile{}, fieldError("id", "must be a valid UUID")
	}
	n, err := s.media.DeleteAvatar(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}
	s.logger.Debug("avatar removed", "user_id", userID, "files", n)
	return s.modify(ctx, userID, func(p *model.Profile) {
		p.AvatarURL = ""
	})
}

// modify loads the profile (or a new one), applies fn and saves it.
func (s *ProfileService) modify(ctx context.Context, userID string, fn func(p *model.Profile)) (model.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}
	if p.NotificationPreferences == nil {
		p.NotificationPreferences = model.DefaultNotificationPreferences()
	}
	fn(&p)
	saved, err := s.store.UpsertProfile(ctx, p)
	if err != nil {
		return model.Profile{}, fmt.Errorf("saving profile: %w", err)
	}
	return saved, nil
}
