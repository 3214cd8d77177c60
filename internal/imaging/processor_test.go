// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strconv"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcess_FitsLargeImage(t *testing.T) {
	p := NewProcessor(10<<20, 100)

	res, err := p.Process(bytes.NewReader(encodePNG(t, createTestImage(400, 200))))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 100 || res.Height != 50 {
		t.Errorf("got %dx%d, want 100x50", res.Width, res.Height)
	}
	if res.MimeType != MimeTypePNG || res.Ext != "png" {
		t.Errorf("got %s/%s, want image/png/png", res.MimeType, res.Ext)
	}
	if _, err := png.Decode(bytes.NewReader(res.Data)); err != nil {
		t.Errorf("output is not a PNG: %v", err)
	}
}

func TestProcess_KeepsSmallImage(t *testing.T) {
	p := NewProcessor(10<<20, 1000)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(40, 30), nil); err != nil {
		t.Fatal(err)
	}
	res, err := p.Process(&buf)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 40 || res.Height != 30 {
		t.Errorf("got %dx%d, want 40x30", res.Width, res.Height)
	}
	if res.Ext != "jpg" || res.MimeType != MimeTypeJPEG {
		t.Errorf("got %s/%s", res.MimeType, res.Ext)
	}
}

func TestProcess_Rejects(t *testing.T) {
	p := NewProcessor(1024, 100)

	if _, err := p.Process(bytes.NewReader([]byte("plain text, not an image"))); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}

	big := encodePNG(t, createTestImage(200, 200))
	if len(big) <= 1024 {
		t.Skip("test image unexpectedly small")
	}
	if _, err := p.Process(bytes.NewReader(big)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatToMimeType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"jpeg", MimeTypeJPEG},
		{"jpg", MimeTypeJPEG},
		{"png", MimeTypePNG},
		{"gif", MimeTypeGIF},
		{"webp", MimeTypeWebP},
		{"unknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := formatToMimeType(tt.format); got != tt.want {
				t.Errorf("formatToMimeType(%q) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	for _, orientation := range []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9} {
		t.Run("orientation_"+strconv.Itoa(orientation), func(t *testing.T) {
			result := applyOrientation(createTestImage(20, 10), orientation)
			b := result.Bounds()
			switch orientation {
			case 5, 6, 7, 8:
				if b.Dx() != 10 || b.Dy() != 20 {
					t.Errorf("expected rotated 10x20, got %dx%d", b.Dx(), b.Dy())
				}
			default:
				if b.Dx() != 20 || b.Dy() != 10 {
					t.Errorf("expected 20x10, got %dx%d", b.Dx(), b.Dy())
				}
			}
		})
	}
}
