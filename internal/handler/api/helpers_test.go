// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/fauzinoor/kalam/internal/auth"
	"github.com/fauzinoor/kalam/internal/cache"
	"github.com/fauzinoor/kalam/internal/imaging"
	"github.com/fauzinoor/kalam/internal/middleware"
	"github.com/fauzinoor/kalam/internal/scheduler"
	"github.com/fauzinoor/kalam/internal/service"
	"github.com/fauzinoor/kalam/internal/storage"
	"github.com/fauzinoor/kalam/internal/store"
	"github.com/fauzinoor/kalam/internal/testutil"
)

const (
	ownerID   = "7d3f4b8e-2c1a-4f5e-9b6d-0a1b2c3d4e5f"
	visitorID = "11111111-2222-4333-8444-555555555555"

	ownerToken   = "owner-token"
	visitorToken = "visitor-token"
)

// stubVerifier accepts the tokens in its map, keyed by token.
type stubVerifier map[string]string

func (s stubVerifier) Verify(token string) (*auth.Claims, error) {
	sub, ok := s[token]
	if !ok {
		return nil, auth.ErrUnauthorized
	}
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}, nil
}

// testAPI is a fully wired /api/v1 router over a temp SQLite database.
type testAPI struct {
	t      *testing.T
	router http.Handler
	store  *store.Store
	local  *storage.LocalStorage
}

type apiOption func(*apiConfig)

type apiConfig struct {
	limiter *middleware.RateLimiter
}

func withLimiter(l *middleware.RateLimiter) apiOption {
	return func(c *apiConfig) { c.limiter = l }
}

func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()
	var cfg apiConfig
	for _, o := range opts {
		o(&cfg)
	}

	logger := testutil.TestLoggerSilent()
	db := testutil.TestDB(t)
	st := store.NewStore(db, store.DialectSQLite)

	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	mc := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = mc.Close() })

	media := service.NewMediaService(imaging.NewProcessor(5<<20, 1024), local, logger)
	menus := service.NewMenuService(st, mc, time.Minute, logger)
	posts := service.NewPostService(st, nil, logger)

	sched := scheduler.New(scheduler.Config{Posts: posts, Menus: menus}, logger)
	require.NoError(t, sched.Start())
	t.Cleanup(sched.Stop)

	h := NewHandler(Deps{
		Menus:      menus,
		Posts:      posts,
		Ebooks:     service.NewEbookService(st, media, nil, logger),
		Portfolios: service.NewPortfolioService(st, media, logger),
		Comments:   service.NewCommentService(st, nil, logger),
		Profiles:   service.NewProfileService(st, media, ownerID, logger),
		Media:      media,
		Events:     st,
		Jobs:       sched.Registry(),
		Health:     NewHealthChecker("test", map[string]Pinger{"database": db}),
		Logger:     logger,

		Cache:        mc,
		CacheBackend: "memory",
	})

	verifier := stubVerifier{ownerToken: ownerID, visitorToken: visitorID}
	return &testAPI{
		t:      t,
		router: h.Routes(verifier, ownerID, cfg.limiter),
		store:  st,
		local:  local,
	}
}

// do sends a JSON request. body may be nil.
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.serve(req, token)
}

// upload sends a multipart request with data in the "file" field.
func (a *testAPI) upload(path, token string, data []byte) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if data != nil {
		fw, err := mw.CreateFormFile("file", "image.png")
		require.NoError(a.t, err)
		_, err = fw.Write(data)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.serve(req, token)
}

func (a *testAPI) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// envelope mirrors Response with a typed payload.
type envelope[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta"`
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) (T, *Meta) {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env.Data, env.Meta
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp.Error
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newRawRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}
