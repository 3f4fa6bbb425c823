package integrations

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Yui007/MangaForge/pkg/config"
)

func TestEPUBBuild(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Test Series", "Chapter 1")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writeTestPage(t, dir, "001.jpg", 20, 30)
	writeTestPage(t, dir, "002.jpg", 20, 30)

	out, err := NewEPUBBuilder(config.Default()).Build(dir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if out != dir+".epub" {
		t.Errorf("Expected book at %s, got %s", dir+".epub", out)
	}

	// an EPUB is a zip with a fixed mimetype entry
	reader, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("Book is not a readable zip: %v", err)
	}
	defer reader.Close()

	var sawMimetype, sawPage bool
	for _, file := range reader.File {
		if file.Name == "mimetype" {
			sawMimetype = true
			rc, err := file.Open()
			if err != nil {
				t.Fatal(err)
			}
			raw, _ := io.ReadAll(rc)
			rc.Close()
			if string(raw) != "application/epub+zip" {
				t.Errorf("Unexpected mimetype: %q", raw)
			}
		}
		if strings.HasSuffix(file.Name, "001.jpg") {
			sawPage = true
		}
	}
	if !sawMimetype {
		t.Error("EPUB is missing its mimetype entry")
	}
	if !sawPage {
		t.Error("EPUB does not contain the chapter pages")
	}
}

func TestEPUBNoImages(t *testing.T) {
	_, err := NewEPUBBuilder(config.Default()).Build(t.TempDir())
	if !errors.Is(err, ErrNoImages) {
		t.Fatalf("Expected ErrNoImages, got %v", err)
	}
}

func TestBookTitle(t *testing.T) {
	tests := []struct {
		dir      string
		expected string
	}{
		{filepath.Join("downloads", "One Piece", "Chapter 1"), "One Piece - Chapter 1"},
		{filepath.Join("One Piece", "Chapter 2 - Arrival"), "One Piece - Chapter 2 - Arrival"},
		{"Chapter 1", "Chapter 1"},
	}

	for _, tt := range tests {
		if got := bookTitle(tt.dir); got != tt.expected {
			t.Errorf("bookTitle(%q) = %q, expected %q", tt.dir, got, tt.expected)
		}
	}
}
