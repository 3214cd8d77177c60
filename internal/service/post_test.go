// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fauzinoor/kalam/internal/events"
	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/testutil"
)

var postNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newPostFixture(t *testing.T) (*PostService, *recordingEmitter) {
	t.Helper()
	rec := &recordingEmitter{}
	svc := NewPostService(newTestStore(t), rec, testutil.TestLoggerSilent())
	svc.clock = fixedClock(postNow)
	return svc, rec
}

func TestPostService_CreateDraft(t *testing.T) {
	svc, rec := newPostFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, testAuthor, PostInput{
		Title:        "Hello World",
		Description:  "First post",
		Content:      `<p>Hi</p><script>alert(1)</script>`,
		MetaKeywords: []string{"go", " go ", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, model.StatusDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
	assert.Equal(t, "Hello World", p.MetaTitle, "meta title defaults to title")
	assert.Equal(t, "First post", p.MetaDescription, "meta description defaults to description")
	assert.Equal(t, []string{"go"}, p.MetaKeywords)
	assert.NotContains(t, p.Content, "script")
	assert.True(t, p.EnableComments)
	assert.Equal(t, testAuthor, p.AuthorID)
	assert.Empty(t, rec.emitted())

	_, err = svc.Create(ctx, testAuthor, PostInput{Title: "Hello World"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestPostService_CreatePublishedStampsAndEmits(t *testing.T) {
	svc, rec := newPostFixture(t)

	p, err := svc.Create(context.Background(), testAuthor, PostInput{Title: "Live", Status: model.StatusPublished})
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt)
	assert.True(t, p.PublishedAt.Equal(postNow))
	assert.Equal(t, []string{events.PostPublished}, rec.emitted())
}

func TestPostService_CreateValidation(t *testing.T) {
	svc, _ := newPostFixture(t)
	ctx := context.Background()
	var verr *ValidationError

	_, err := svc.Create(ctx, testAuthor, PostInput{})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")

	_, err = svc.Create(ctx, testAuthor, PostInput{Title: "x", Status: "deleted"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")

	_, err = svc.Create(ctx, testAuthor, PostInput{Title: "x", CategoryIDs: []int64{99}})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category_ids")

	_, err = svc.Create(ctx, testAuthor, PostInput{Title: "x", Status: model.StatusArchived})
	assert.NoError(t, err, "archiving straight away is a valid transition from draft")
}

func TestPostService_StatusLifecycle(t *testing.T) {
	svc, rec := newPostFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, testAuthor, PostInput{Title: "Lifecycle"})
	require.NoError(t, err)

	p, err = svc.SetStatus(ctx, testAuthor, p.ID, model.StatusPublished)
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt)
	first := *p.PublishedAt

	svc.clock = fixedClock(postNow.Add(time.Hour))
	p, err = svc.SetStatus(ctx, testAuthor, p.ID, model.StatusDraft)
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt, "unpublishing keeps published_at")
	assert.True(t, p.PublishedAt.Equal(first))

	p, err = svc.SetStatus(ctx, testAuthor, p.ID, model.StatusArchived)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, testAuthor, p.ID, model.StatusPublished)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	p, err = svc.SetStatus(ctx, testAuthor, p.ID, model.StatusDraft)
	require.NoError(t, err)
	p, err = svc.SetStatus(ctx, testAuthor, p.ID, model.StatusPublished)
	require.NoError(t, err)
	assert.True(t, p.PublishedAt.Equal(postNow.Add(time.Hour)), "republish restamps")

	stored, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, stored.Status)

	assert.Equal(t, []string{events.PostPublished, events.PostUnpublished, events.PostPublished}, rec.emitted())

	_, err = svc.SetStatus(ctx, otherUser, p.ID, model.StatusDraft)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPostService_UpdateTermsAndSlug(t *testing.T) {
	svc, _ := newPostFixture(t)
	ctx := context.Background()

	goCat, err := svc.CreateCategory(ctx, CategoryInput{Name: "Go"})
	require.NoError(t, err)
	news, err := svc.CreateCategory(ctx, CategoryInput{Name: "News"})
	require.NoError(t, err)
	tag, err := svc.CreateTag(ctx, TagInput{Name: "Concurrency"})
	require.NoError(t, err)

	p, err := svc.Create(ctx, testAuthor, PostInput{Title: "Channels", CategoryIDs: []int64{goCat.ID}, TagIDs: []int64{tag.ID}})
	require.NoError(t, err)
	require.Len(t, p.Categories, 1)
	require.Len(t, p.Tags, 1)

	// Nil ids keep the links; an explicit slug survives a title change.
	p, err = svc.Update(ctx, testAuthor, p.ID, PostInput{Title: "Channels in Depth", Slug: "channels"})
	require.NoError(t, err)
	assert.Equal(t, "channels", p.Slug)
	assert.Len(t, p.Categories, 1)
	assert.Len(t, p.Tags, 1)

	p, err = svc.Update(ctx, testAuthor, p.ID, PostInput{Title: "Channels in Depth", Slug: "channels", CategoryIDs: []int64{news.ID}})
	require.NoError(t, err)
	require.Len(t, p.Categories, 1)
	assert.Equal(t, news.ID, p.Categories[0].ID)
	assert.Len(t, p.Tags, 1, "tags untouched when only categories change")

	_, err = svc.Update(ctx, otherUser, p.ID, PostInput{Title: "Hijack"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, testAuthor, 4040, PostInput{Title: "Missing"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPostService_ListPublishedFilters(t *testing.T) {
	svc, _ := newPostFixture(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, CategoryInput{Name: "Tutorials"})
	require.NoError(t, err)
	tag, err := svc.CreateTag(ctx, TagInput{Name: "Beginner"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, testAuthor, PostInput{Title: "One", Status: model.StatusPublished, CategoryIDs: []int64{cat.ID}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, testAuthor, PostInput{Title: "Two", Status: model.StatusPublished, TagIDs: []int64{tag.ID}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, testAuthor, PostInput{Title: "Three"})
	require.NoError(t, err)

	page, err := svc.ListPublished(ctx, PostQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Posts, 2)
	assert.Equal(t, DefaultPerPage, page.PerPage)

	page, err = svc.ListPublished(ctx, PostQuery{CategorySlug: cat.Slug})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "One", page.Posts[0].Title)
	require.Len(t, page.Posts[0].Categories, 1)

	page, err = svc.ListPublished(ctx, PostQuery{TagSlug: tag.Slug})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Two", page.Posts[0].Title)

	page, err = svc.ListPublished(ctx, PostQuery{PerPage: 1, Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 1)
	assert.EqualValues(t, 2, page.Total)

	mine, err := svc.ListByAuthor(ctx, testAuthor, PostQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, mine.Total)

	_, err = svc.GetBySlug(ctx, "three")
	assert.ErrorIs(t, err, model.ErrNotFound, "drafts are not public")
	one, err := svc.GetBySlug(ctx, "one")
	require.NoError(t, err)
	assert.Len(t, one.Categories, 1)
}

func TestPostService_PublishDue(t *testing.T) {
	svc, rec := newPostFixture(t)
	ctx := context.Background()

	past := postNow.Add(-time.Minute)
	future := postNow.Add(time.Hour)
	due, err := svc.Create(ctx, testAuthor, PostInput{Title: "Due", ScheduledAt: &past})
	require.NoError(t, err)
	_, err = svc.Create(ctx, testAuthor, PostInput{Title: "Later", ScheduledAt: &future})
	require.NoError(t, err)

	n, err := svc.PublishDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p, err := svc.GetByID(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, p.Status)
	require.NotNil(t, p.PublishedAt)
	assert.True(t, p.PublishedAt.Equal(postNow))
	assert.Nil(t, p.ScheduledAt)
	assert.Equal(t, []string{events.PostPublished}, rec.emitted())

	n, err = svc.PublishDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostService_Taxonomy(t *testing.T) {
	svc, _ := newPostFixture(t)
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryInput{Name: "Rust Lang"})
	require.NoError(t, err)
	assert.Equal(t, "rust-lang", c.Slug)
	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Rust Lang"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	c, err = svc.UpdateCategory(ctx, c.ID, CategoryInput{Name: "Rust", Slug: "rust"})
	require.NoError(t, err)
	assert.Equal(t, "rust", c.Slug)

	tag, err := svc.CreateTag(ctx, TagInput{Name: "Web Dev"})
	require.NoError(t, err)
	tag, err = svc.UpdateTag(ctx, tag.ID, TagInput{Name: "Web"})
	require.NoError(t, err)
	assert.Equal(t, "web", tag.Slug)

	require.NoError(t, svc.DeleteTag(ctx, tag.ID))
	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, c.ID), model.ErrNotFound)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestPostService_Delete(t *testing.T) {
	svc, _ := newPostFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, testAuthor, PostInput{Title: "Bye"})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, otherUser, p.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, testAuthor, p.ID))
	_, err = svc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
