// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"

	"github.com/fauzinoor/kalam/internal/model"
)

const profileColumns = `id, full_name, username, bio, avatar_url, location, website, social_facebook,
	social_instagram, social_linkedin, social_twitter, notification_preferences, updated_at`

func scanProfile(row rowScanner) (model.Profile, error) {
	var (
		p     model.Profile
		prefs string
	)
	err := row.Scan(&p.ID, &p.FullName, &p.Username, &p.Bio, &p.AvatarURL, &p.Location, &p.Website,
		&p.SocialFacebook, &p.SocialInstagram, &p.SocialLinkedin, &p.SocialTwitter, &prefs, &p.UpdatedAt)
	if err != nil {
		return p, notFound(err)
	}
	p.NotificationPreferences = map[string]bool{}
	_ = json.Unmarshal([]byte(prefs), &p.NotificationPreferences)
	return p, nil
}

// GetProfile returns a profile by id.
func (q *Queries) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	return scanProfile(q.queryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id))
}

// UpsertProfile inserts or replaces a profile.
func (q *Queries) UpsertProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	prefs := p.NotificationPreferences
	if prefs == nil {
		prefs = map[string]bool{}
	}
	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		return model.Profile{}, err
	}
	return scanProfile(q.queryRow(ctx, `
		INSERT INTO profiles (id, full_name, username, bio, avatar_url, location, website, social_facebook,
			social_instagram, social_linkedin, social_twitter, notification_preferences, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			full_name = excluded.full_name,
			username = excluded.username,
			bio = excluded.bio,
			avatar_url = excluded.avatar_url,
			location = excluded.location,
			website = excluded.website,
			social_facebook = excluded.social_facebook,
			social_instagram = excluded.social_instagram,
			social_linkedin = excluded.social_linkedin,
			social_twitter = excluded.social_twitter,
			notification_preferences = excluded.notification_preferences,
			updated_at = excluded.updated_at
		RETURNING `+profileColumns,
		p.ID, p.FullName, p.Username, p.Bio, p.AvatarURL, p.Location, p.Website, p.SocialFacebook,
		p.SocialInstagram, p.SocialLinkedin, p.SocialTwitter, string(prefsJSON), now()))
}
