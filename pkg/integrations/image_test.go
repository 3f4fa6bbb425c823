package integrations

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Yui007/MangaForge/pkg/config"
)

// writeTestPage writes a real image file; the encoder is picked from
// the filename extension.
func writeTestPage(t *testing.T, dir, name string, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(40 + x), G: uint8(80 + y%100), B: 160, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch filepath.Ext(name) {
	case ".png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		t.Fatalf("encoding test image: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("writing test image: %v", err)
	}
	return path
}

func writeCorruptPage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("this is not an image"), 0644); err != nil {
		t.Fatalf("writing corrupt image: %v", err)
	}
	return path
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	jpg := writeTestPage(t, dir, "page.jpg", 40, 60)
	pngPath := writeTestPage(t, dir, "page.png", 30, 50)

	p := NewImageProcessor(config.Default())

	raw, width, height, err := p.ProcessFile(jpg)
	if err != nil {
		t.Fatalf("ProcessFile(jpg) failed: %v", err)
	}
	if width != 40 || height != 60 {
		t.Errorf("Expected 40x60, got %dx%d", width, height)
	}
	if _, err := jpeg.Decode(bytes.NewReader(raw)); err != nil {
		t.Errorf("Output is not valid JPEG: %v", err)
	}

	// PNG input comes out as JPEG too
	raw, width, height, err = p.ProcessFile(pngPath)
	if err != nil {
		t.Fatalf("ProcessFile(png) failed: %v", err)
	}
	if width != 30 || height != 50 {
		t.Errorf("Expected 30x50, got %dx%d", width, height)
	}
	if _, err := jpeg.Decode(bytes.NewReader(raw)); err != nil {
		t.Errorf("Output is not valid JPEG: %v", err)
	}
}

func TestProcessFileGrayscale(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPage(t, dir, "page.jpg", 20, 20)

	cfg := config.Default()
	cfg.Output.Grayscale = true

	raw, _, _, err := NewImageProcessor(cfg).ProcessFile(path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Output is not valid JPEG: %v", err)
	}

	r, g, b, _ := img.At(10, 10).RGBA()
	if r != g || g != b {
		t.Errorf("Expected gray pixel, got r=%d g=%d b=%d", r, g, b)
	}
}

func TestProcessFileRespectsCaps(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPage(t, dir, "page.jpg", 100, 200)

	cfg := config.Default()
	cfg.Output.MaxWidth = 50

	_, width, height, err := NewImageProcessor(cfg).ProcessFile(path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if width != 50 || height != 100 {
		t.Errorf("Expected 50x100, got %dx%d", width, height)
	}
}

func TestProcessFileCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := writeCorruptPage(t, dir, "bad.jpg")

	if _, _, _, err := NewImageProcessor(config.Default()).ProcessFile(path); err == nil {
		t.Error("Expected error for corrupt image")
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name                string
		maxW, maxH          int
		width, height       int
		expWidth, expHeight int
	}{
		{"no caps", 0, 0, 100, 200, 100, 200},
		{"under caps", 500, 500, 100, 200, 100, 200},
		{"width cap", 50, 0, 100, 200, 50, 100},
		{"height cap", 0, 50, 100, 200, 25, 50},
		{"both caps, tighter wins", 80, 50, 100, 200, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ImageProcessor{maxWidth: tt.maxW, maxHeight: tt.maxH}
			w, h := p.fitDimensions(tt.width, tt.height)
			if w != tt.expWidth || h != tt.expHeight {
				t.Errorf("fitDimensions(%d, %d) = %dx%d, expected %dx%d",
					tt.width, tt.height, w, h, tt.expWidth, tt.expHeight)
			}
		})
	}
}

func BenchmarkImageProcessor_ProcessFile(b *testing.B) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 1200))
	for y := 0; y < 1200; y++ {
		for x := 0; x < 800; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		b.Fatal(err)
	}
	path := filepath.Join(b.TempDir(), "page.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		b.Fatal(err)
	}

	cfg := config.Default()
	cfg.Output.Grayscale = true
	cfg.Output.MaxWidth = 758
	cfg.Output.MaxHeight = 1024
	processor := NewImageProcessor(cfg)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, _, err := processor.ProcessFile(path); err != nil {
			b.Fatalf("ProcessFile() failed: %v", err)
		}
	}
}
