// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/testutil"
)

func newPortfolioFixture(t *testing.T) *PortfolioService {
	t.Helper()
	media, _ := newTestMedia(t)
	return NewPortfolioService(newTestStore(t), media, testutil.TestLoggerSilent())
}

func TestPortfolioService_CreateRendersMarkdown(t *testing.T) {
	svc := newPortfolioFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, testAuthor, PortfolioInput{
		Title:       "Compiler",
		Description: "A **fast** compiler <script>x</script>",
		LinkURL:     "https://example.com/compiler",
		IsPublished: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PortfolioProject, p.Category)
	assert.Equal(t, 1, p.DisplayOrder)
	assert.Contains(t, p.DescriptionHTML, "<strong>fast</strong>")
	assert.NotContains(t, p.DescriptionHTML, "<script>")

	second, err := svc.Create(ctx, testAuthor, PortfolioInput{Title: "Talk", Category: model.PortfolioPresentation})
	require.NoError(t, err)
	assert.Equal(t, 2, second.DisplayOrder)

	public, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.NotEmpty(t, public[0].DescriptionHTML)

	mine, err := svc.ListByUser(ctx, testAuthor)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestPortfolioService_Validation(t *testing.T) {
	svc := newPortfolioFixture(t)
	var verr *ValidationError

	_, err := svc.Create(context.Background(), testAuthor, PortfolioInput{Title: "x", Category: "hobby"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category")

	_, err = svc.Create(context.Background(), testAuthor, PortfolioInput{Title: "x", LinkURL: "not a url"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "link_url")
}

func TestPortfolioService_UpdateReorderDelete(t *testing.T) {
	svc := newPortfolioFixture(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, testAuthor, PortfolioInput{Title: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, testAuthor, PortfolioInput{Title: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.Reorder(ctx, []int64{b.ID, a.ID}))
	mine, err := svc.ListByUser(ctx, testAuthor)
	require.NoError(t, err)
	assert.Equal(t, b.ID, mine[0].ID)

	_, err = svc.Update(ctx, otherUser, a.ID, PortfolioInput{Title: "Stolen"})
	assert.ErrorIs(t, err, ErrForbidden)

	a, err = svc.Update(ctx, testAuthor, a.ID, PortfolioInput{Title: "A+", Featured: true})
	require.NoError(t, err)
	assert.Equal(t, "A+", a.Title)
	assert.True(t, a.Featured)
	assert.Equal(t, 2, a.DisplayOrder)

	a, err = svc.SetCover(ctx, testAuthor, a.ID, bytes.NewReader(testPNG(t, 20, 20)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a.CoverImage, "/uploads/portfolio-covers/"))

	require.NoError(t, svc.Delete(ctx, testAuthor, a.ID))
	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
