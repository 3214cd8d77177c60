// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import "testing"

func TestS3Storage_URL(t *testing.T) {
	tests := []struct {
		name string
		s    *S3Storage
		key  string
		want string
	}{
		{
			name: "public url",
			s:    &S3Storage{bucket: "kalam", publicURL: "https://cdn.example.com", endpoint: "s3.example.com", useSSL: true},
			key:  "avatars/u1/avatar.png",
			want: "https://cdn.example.com/avatars/u1/avatar.png",
		},
		{
			name: "endpoint with ssl",
			s:    &S3Storage{bucket: "kalam", endpoint: "s3.example.com", useSSL: true},
			key:  "/post-images/4/1700000000000.jpg",
			want: "https://s3.example.com/kalam/post-images/4/1700000000000.jpg",
		},
		{
			name: "local minio",
			s:    &S3Storage{bucket: "kalam", endpoint: "localhost:9000"},
			key:  "ebook-covers/7/cover.jpg",
			want: "http://localhost:9000/kalam/ebook-covers/7/cover.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.URL(tt.key); got != tt.want {
				t.Errorf("URL(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
