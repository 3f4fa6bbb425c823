package integrations

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CBZBuilder packs a chapter directory into a comic book archive: a
// ZIP whose entries are the page files by bare name, deflate
// compressed, in filename order.
type CBZBuilder struct{}

func NewCBZBuilder() *CBZBuilder { return &CBZBuilder{} }

func (b *CBZBuilder) Extension() string { return ".cbz" }

func (b *CBZBuilder) Build(dir string) (string, error) {
	images, err := listImages(dir)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", fmt.Errorf("%s: %w", dir, ErrNoImages)
	}

	out := archivePath(dir, b.Extension())
	if err := b.write(out, images); err != nil {
		os.Remove(out)
		return "", err
	}
	return out, nil
}

func (b *CBZBuilder) write(out string, images []string) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, path := range images {
		if err := addZipEntry(zw, path); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return f.Close()
}

func addZipEntry(zw *zip.Writer, path string) error {
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:   filepath.Base(path),
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("creating entry for %s: %w", filepath.Base(path), err)
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer src.Close()

	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
