// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Notification preference keys, as stored by the account settings page
const (
	NotifyActivityComments   = "activity_comments"
	NotifyActivityAnswers    = "activity_answers"
	NotifyActivityFollows    = "activityFollows"
	NotifyApplicationNews    = "application_news"
	NotifyApplicationProduct = "application_product"
	NotifyApplicationBlog    = "application_blog"
)

// DefaultNotificationPreferences returns the preferences applied to a new profile.
func DefaultNotificationPreferences() map[string]bool {
	return map[string]bool{
		NotifyActivityComments:   true,
		NotifyActivityAnswers:    false,
		NotifyActivityFollows:    false,
		NotifyApplicationNews:    false,
		NotifyApplicationProduct: true,
		NotifyApplicationBlog:    false,
	}
}

// Profile is the public profile of a site author. ID is the identity
// provider's subject.
type Profile struct {
	ID                      string          `json:"id"`
	FullName                string          `json:"full_name"`
	Username                string          `json:"username"`
	Bio                     string          `json:"bio"`
	AvatarURL               string          `json:"avatar_url"`
	Location                string          `json:"location"`
	Website                 string          `json:"website"`
	SocialFacebook          string          `json:"social_facebook"`
	SocialInstagram         string          `json:"social_instagram"`
	SocialLinkedin          string          `json:"social_linkedin"`
	SocialTwitter           string          `json:"social_twitter"`
	NotificationPreferences map[string]bool `json:"notification_preferences"`
	UpdatedAt               time.Time       `json:"updated_at"`
}
