// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fauzinoor/kalam/internal/middleware"
)

// Routes returns the /api/v1 router. Public routes accept an optional bearer
// token; everything under /admin requires one, and when ownerID is set the
// token's subject must match it. A nil limiter leaves comment submission
// unthrottled.
func (h *Handler) Routes(verifier middleware.TokenVerifier, ownerID string, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", h.Health)

	// Public
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuthenticate(verifier))

		r.Get("/menus/{slug}", h.GetMenuTree)

		r.Get("/posts", h.ListPublishedPosts)
		r.Get("/posts/{slug}", h.GetPostBySlug)
		r.Get("/posts/{id}/comments", h.ListPostComments)
		submit := http.HandlerFunc(h.SubmitComment)
		if limiter != nil {
			r.With(limiter.Middleware()).Post("/posts/{id}/comments", submit)
		} else {
			r.Post("/posts/{id}/comments", submit)
		}

		r.Get("/categories", h.ListCategories)
		r.Get("/tags", h.ListTags)

		r.Get("/ebooks", h.ListPublishedEbooks)
		r.Get("/ebooks/{slug}", h.GetEbookBySlug)
		r.Get("/ebook-categories", h.ListEbookCategories)

		r.Get("/portfolios", h.ListPublishedPortfolios)
		r.Get("/profile", h.GetPublicProfile)
	})

	// Owner only
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(verifier))
		r.Use(middleware.RequireOwner(ownerID, h.logger))

		r.Route("/menus", func(r chi.Router) {
			r.Get("/", h.ListMenus)
			r.Post("/", h.CreateMenu)
			r.Get("/{id}", h.GetMenu)
			r.Put("/{id}", h.UpdateMenu)
			r.Delete("/{id}", h.DeleteMenu)
			r.Get("/{id}/tree", h.GetAdminMenuTree)
			r.Post("/{id}/reorder", h.ReorderMenuItems)
			r.Get("/{id}/items", h.ListMenuItems)
			r.Post("/{id}/items", h.CreateMenuItem)
			r.Put("/{id}/items/{itemID}", h.UpdateMenuItem)
			r.Delete("/{id}/items/{itemID}", h.DeleteMenuItem)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.ListPosts)
			r.Post("/", h.CreatePost)
			r.Get("/{id}", h.GetPost)
			r.Put("/{id}", h.UpdatePost)
			r.Delete("/{id}", h.DeletePost)
			r.Put("/{id}/status", h.SetPostStatus)
			r.Post("/{id}/images", h.UploadPostImage)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Put("/{id}", h.UpdateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.ListTags)
			r.Post("/", h.CreateTag)
			r.Put("/{id}", h.UpdateTag)
			r.Delete("/{id}", h.DeleteTag)
		})

		r.Route("/ebooks", func(r chi.Router) {
			r.Get("/", h.ListEbooks)
			r.Post("/", h.CreateEbook)
			r.Post("/reorder", h.ReorderEbooks)
			r.Get("/{id}", h.GetEbook)
			r.Put("/{id}", h.UpdateEbook)
			r.Delete("/{id}", h.DeleteEbook)
			r.Put("/{id}/status", h.SetEbookStatus)
			r.Post("/{id}/cover", h.SetEbookCover)
		})

		r.Route("/ebook-categories", func(r chi.Router) {
			r.Get("/", h.ListEbookCategories)
			r.Post("/", h.CreateEbookCategory)
			r.Put("/{id}", h.UpdateEbookCategory)
			r.Delete("/{id}", h.DeleteEbookCategory)
		})

		r.Route("/portfolios", func(r chi.Router) {
			r.Get("/", h.ListPortfolios)
			r.Post("/", h.CreatePortfolio)
			r.Post("/reorder", h.ReorderPortfolios)
			r.Get("/{id}", h.GetPortfolio)
			r.Put("/{id}", h.UpdatePortfolio)
			r.Delete("/{id}", h.DeletePortfolio)
			r.Post("/{id}/cover", h.SetPortfolioCover)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", h.ListComments)
			r.Post("/{id}/approve", h.ApproveComment)
			r.Post("/{id}/reject", h.RejectComment)
			r.Delete("/{id}", h.DeleteComment)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.GetProfile)
			r.Put("/", h.UpdateProfile)
			r.Put("/socials", h.UpdateSocials)
			r.Put("/notifications", h.UpdateNotifications)
			r.Post("/avatar", h.UploadAvatar)
			r.Delete("/avatar", h.DeleteAvatar)
		})

		r.Get("/events", h.ListEvents)

		r.Get("/jobs", h.ListJobs)
		r.Get("/cache", h.GetCacheStats)
		r.Delete("/cache", h.ClearCache)
		r.Post("/jobs/{name}/run", h.RunJob)
	})

	return r
}
