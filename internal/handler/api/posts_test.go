// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/service"
)

func createPost(t *testing.T, api *testAPI, in service.PostInput) model.Post {
	t.Helper()
	w := api.do(http.MethodPost, "/admin/posts", ownerToken, in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post, _ := decodeData[model.Post](t, w)
	return post
}

func TestPosts_PublicListing(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/admin/categories", ownerToken, service.CategoryInput{Name: "Go Lang"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cat, _ := decodeData[model.Category](t, w)
	assert.Equal(t, "go-lang", cat.Slug)

	published := createPost(t, api, service.PostInput{
		Title:       "Hello World",
		Content:     `<p>Hi</p><script>alert(1)</script>`,
		Status:      model.StatusPublished,
		CategoryIDs: []int64{cat.ID},
	})
	assert.Equal(t, "hello-world", published.Slug)
	assert.NotContains(t, published.Content, "<script>")
	assert.Equal(t, "Hello World", published.MetaTitle)
	require.NotNil(t, published.PublishedAt)

	draft := createPost(t, api, service.PostInput{Title: "Work in progress"})
	assert.Equal(t, model.StatusDraft, draft.Status)

	w = api.do(http.MethodGet, "/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts, meta := decodeData[[]model.Post](t, w)
	require.Len(t, posts, 1)
	assert.Equal(t, published.ID, posts[0].ID)
	require.NotNil(t, meta)
	assert.Equal(t, int64(1), meta.Total)
	assert.Equal(t, 1, meta.Pages)

	w = api.do(http.MethodGet, "/posts?category=go-lang", "", nil)
	posts, _ = decodeData[[]model.Post](t, w)
	assert.Len(t, posts, 1)

	w = api.do(http.MethodGet, "/posts?category=other", "", nil)
	posts, _ = decodeData[[]model.Post](t, w)
	assert.Empty(t, posts)

	w = api.do(http.MethodGet, "/posts/hello-world", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got, _ := decodeData[model.Post](t, w)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "Go Lang", got.Categories[0].Name)

	w = api.do(http.MethodGet, "/posts/"+draft.Slug, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Owners see drafts in the admin listing.
	w = api.do(http.MethodGet, "/admin/posts?status=draft", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts, _ = decodeData[[]model.Post](t, w)
	require.Len(t, posts, 1)
	assert.Equal(t, draft.ID, posts[0].ID)

	w = api.do(http.MethodGet, "/admin/posts?status=deleted", ownerToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPosts_StatusAndErrors(t *testing.T) {
	api := newTestAPI(t)
	post := createPost(t, api, service.PostInput{Title: "Draft"})

	statusPath := fmt.Sprintf("/admin/posts/%d/status", post.ID)
	w := api.do(http.MethodPut, statusPath, ownerToken, StatusRequest{Status: model.StatusArchived})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPut, statusPath, ownerToken, StatusRequest{Status: model.StatusPublished})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeError(t, w).Details, "status")

	for _, in := range []service.PostInput{
		{Title: "Draft"},
		{Title: "Again", Slug: post.Slug},
	} {
		w = api.do(http.MethodPost, "/admin/posts", ownerToken, in)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeError(t, w).Details, "slug")
	}

	w = api.do(http.MethodPost, "/admin/posts", ownerToken, service.PostInput{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeError(t, w).Details, "title")

	req := strings.NewReader("{not json")
	w = api.serve(newRawRequest(http.MethodPost, "/admin/posts", req), ownerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodDelete, fmt.Sprintf("/admin/posts/%d", post.ID), ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(http.MethodGet, fmt.Sprintf("/admin/posts/%d", post.ID), ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPosts_ImageUpload(t *testing.T) {
	api := newTestAPI(t)
	post := createPost(t, api, service.PostInput{Title: "With pictures"})
	path := fmt.Sprintf("/admin/posts/%d/images", post.ID)

	w := api.upload(path, ownerToken, testPNG(t, 64, 32))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	up, _ := decodeData[service.Upload](t, w)
	assert.True(t, strings.HasPrefix(up.URL, fmt.Sprintf("/uploads/post-images/%d/", post.ID)), up.URL)
	assert.Equal(t, 64, up.Width)

	w = api.upload(path, ownerToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeError(t, w).Details, "file")

	w = api.upload(path, ownerToken, []byte("not an image"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.upload("/admin/posts/999/images", ownerToken, testPNG(t, 8, 8))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
