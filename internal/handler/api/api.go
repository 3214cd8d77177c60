// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers for kalam.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fauzinoor/kalam/internal/cache"
	"github.com/fauzinoor/kalam/internal/imaging"
	"github.com/fauzinoor/kalam/internal/model"
	"github.com/fauzinoor/kalam/internal/scheduler"
	"github.com/fauzinoor/kalam/internal/service"
	"github.com/fauzinoor/kalam/internal/store"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// EventLister reads the persistent event log.
type EventLister interface {
	ListEvents(ctx context.Context, level string, limit, offset int) ([]model.Event, error)
}

// JobRunner lists and triggers the scheduled maintenance jobs.
type JobRunner interface {
	List() []scheduler.JobInfo
	TriggerNow(ctx context.Context, name string) error
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	menus      *service.MenuService
	posts      *service.PostService
	ebooks     *service.EbookService
	portfolios *service.PortfolioService
	comments   *service.CommentService
	profiles   *service.ProfileService
	media      *service.MediaService
	events     EventLister
	jobs       JobRunner
	health     *HealthChecker

	cache        cache.Cacher
	cacheBackend string

	maxUploadBytes int64
	logger         *slog.Logger
}

// Deps are the services the handlers call into.
type Deps struct {
	Menus      *service.MenuService
	Posts      *service.PostService
	Ebooks     *service.EbookService
	Portfolios *service.PortfolioService
	Comments   *service.CommentService
	Profiles   *service.ProfileService
	Media      *service.MediaService
	Events     EventLister
	Jobs       JobRunner
	Health     *HealthChecker

	// Cache is reported and cleared by the admin cache endpoints.
	Cache        cache.Cacher
	CacheBackend string

	// MaxUploadBytes caps multipart upload bodies.
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 5 << 20
	}
	return &Handler{
		menus:          d.Menus,
		posts:          d.Posts,
		ebooks:         d.Ebooks,
		portfolios:     d.Portfolios,
		comments:       d.Comments,
		profiles:       d.Profiles,
		media:          d.Media,
		events:         d.Events,
		jobs:           d.Jobs,
		health:         d.Health,
		cache:          d.Cache,
		cacheBackend:   d.CacheBackend,
		maxUploadBytes: d.MaxUploadBytes,
		logger:         d.Logger,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages,omitempty"`
}

// newMeta fills in the page count.
func newMeta(total int64, page, perPage int) *Meta {
	pages := 0
	if perPage > 0 {
		pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return &Meta{Total: total, Page: page, PerPage: perPage, Pages: pages}
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteNoContent writes a 204 No Content response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// writeServiceError maps a service or store error onto an HTTP response.
// what names the entity for not-found and internal error messages.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, what string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, verr.Fields)
	case errors.Is(err, model.ErrNotFound):
		WriteNotFound(w, capitalizeFirst(what)+" not found")
	case errors.Is(err, scheduler.ErrJobNotFound):
		WriteNotFound(w, capitalizeFirst(what)+" not found")
	case errors.Is(err, service.ErrSlugTaken):
		WriteValidationError(w, map[string]string{"slug": "Slug already exists"})
	case errors.Is(err, model.ErrInvalidTransition):
		WriteValidationError(w, map[string]string{"status": err.Error()})
	case errors.Is(err, service.ErrInvalidParent):
		WriteValidationError(w, map[string]string{"parent_id": err.Error()})
	case errors.Is(err, service.ErrItemNotInMenu):
		WriteValidationError(w, map[string]string{"ids": err.Error()})
	case errors.Is(err, service.ErrCategoryInUse):
		WriteError(w, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, service.ErrForbidden):
		WriteForbidden(w, "You do not own this "+what)
	case errors.Is(err, service.ErrCommentsDisabled):
		WriteForbidden(w, "Comments are disabled for this post")
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		WriteValidationError(w, map[string]string{"file": "must be a JPEG, PNG, GIF or WebP image"})
	case errors.Is(err, imaging.ErrTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "Image exceeds the size limit", nil)
	case store.IsUniqueViolation(err):
		WriteError(w, http.StatusConflict, "conflict", capitalizeFirst(what)+" already exists", nil)
	default:
		h.logger.Error("request failed",
			"entity", what,
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		WriteInternalError(w, "Failed to process "+what)
	}
}

// decodeJSON decodes the request body into dst. On failure it writes a 400
// response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", map[string]string{"body": err.Error()})
		return false
	}
	return true
}

// parseIDParam parses a positive int64 URL parameter. On failure it writes a
// 400 response and returns false.
func parseIDParam(w http.ResponseWriter, r *http.Request, name, what string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, "Invalid "+what+" ID", nil)
		return 0, false
	}
	return id, true
}

// parsePage reads the page and per_page query parameters. Bad values fall
// back to the service defaults.
func parsePage(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	return page, perPage
}

// parseBool reads a boolean query parameter.
func parseBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// StatusRequest is the body of the status change endpoints.
type StatusRequest struct {
	Status model.Status `json:"status"`
}

// ReorderRequest is the body of the reorder endpoints.
type ReorderRequest struct {
	IDs []int64 `json:"ids"`
}
