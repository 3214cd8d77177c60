// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/fauzinoor/kalam/internal/cache"
	"github.com/fauzinoor/kalam/internal/imaging"
	"github.com/fauzinoor/kalam/internal/storage"
	"github.com/fauzinoor/kalam/internal/store"
	"github.com/fauzinoor/kalam/internal/testutil"
)

const (
	testAuthor = "7d3f4b8e-2c1a-4f5e-9b6d-0a1b2c3d4e5f"
	otherUser  = "11111111-2222-4333-8444-555555555555"
)

// recordingEmitter collects emitted event types.
type recordingEmitter struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingEmitter) Emit(_ context.Context, eventType string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, eventType)
}

func (r *recordingEmitter) emitted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

func fixedClock(t time.Time) clock {
	return func() time.Time { return t }
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return testutil.TestStore(t)
}

func newMemoryCache(t *testing.T) *cache.MemoryCache {
	t.Helper()
	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func newTestMedia(t *testing.T) (*MediaService, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return NewMediaService(imaging.NewProcessor(5<<20, 512), local, testutil.TestLoggerSilent()), local
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func boolPtr(b bool) *bool { return &b }
