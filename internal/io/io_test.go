package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file", "normal-file"},
		{"file:with:colons", "file_with_colons"},
		{"file<with>brackets", "file_with_brackets"},
		{"file/with\\slashes", "file_with_slashes"},
		{"file?with*wildcards", "file_with_wildcards"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.jpg")

	if IsFile(path) {
		t.Error("IsFile() should be false for a missing file")
	}
	if IsFile(dir) {
		t.Error("IsFile() should be false for a directory")
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !IsFile(path) {
		t.Error("IsFile() should be true for an existing file")
	}
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestNormalizeCover(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, testImage(40, 20), nil); err != nil {
		t.Fatal(err)
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, testImage(40, 20)); err != nil {
		t.Fatal(err)
	}

	t.Run("jpeg unchanged", func(t *testing.T) {
		got, err := svc.NormalizeCover(ctx, jpegBuf.Bytes(), 0)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, jpegBuf.Bytes()) {
			t.Error("JPEG cover should be returned as is")
		}
	})

	t.Run("png converted", func(t *testing.T) {
		got, err := svc.NormalizeCover(ctx, pngBuf.Bytes(), 0)
		if err != nil {
			t.Fatal(err)
		}
		if !IsJPEG(got) {
			t.Error("PNG cover should be converted to JPEG")
		}
	})

	t.Run("resized", func(t *testing.T) {
		got, err := svc.NormalizeCover(ctx, pngBuf.Bytes(), 10)
		if err != nil {
			t.Fatal(err)
		}
		img, err := jpeg.Decode(bytes.NewReader(got))
		if err != nil {
			t.Fatal(err)
		}
		if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
			t.Errorf("resized to %dx%d, want 10x5", b.Dx(), b.Dy())
		}
	})
}
