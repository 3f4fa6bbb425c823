package integrations

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"

	"github.com/Yui007/MangaForge/pkg/config"
)

// pdfMargin is the whitespace around each page image, in points.
const pdfMargin = 10.0

// PDFBuilder renders a chapter directory as a PDF with one page per
// image, each page sized to that image's pixel dimensions plus a fixed
// margin. Pages that cannot be decoded are skipped with a warning.
type PDFBuilder struct {
	processor *ImageProcessor
}

func NewPDFBuilder(cfg *config.Config) *PDFBuilder {
	return &PDFBuilder{processor: NewImageProcessor(cfg)}
}

func (b *PDFBuilder) Extension() string { return ".pdf" }

func (b *PDFBuilder) Build(dir string) (string, error) {
	images, err := listImages(dir)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", fmt.Errorf("%s: %w", dir, ErrNoImages)
	}

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)

	pages := 0
	for i, path := range images {
		// every page is decoded and re-encoded here so a corrupt
		// file never reaches the document writer
		raw, width, height, err := b.processor.ProcessFile(path)
		if err != nil {
			logrus.WithError(err).WithField("image", filepath.Base(path)).Warn("Skipping unreadable page")
			continue
		}

		name := fmt.Sprintf("page-%03d", i+1)
		opts := fpdf.ImageOptions{ImageType: "JPEG"}
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))

		doc.AddPageFormat("P", fpdf.SizeType{
			Wd: float64(width) + 2*pdfMargin,
			Ht: float64(height) + 2*pdfMargin,
		})
		doc.ImageOptions(name, pdfMargin, pdfMargin, float64(width), float64(height), false, opts, 0, "")
		pages++
	}

	if pages == 0 {
		return "", fmt.Errorf("%s: no readable pages: %w", dir, ErrNoImages)
	}

	out := archivePath(dir, b.Extension())
	if err := doc.OutputFileAndClose(out); err != nil {
		os.Remove(out)
		return "", fmt.Errorf("writing PDF: %w", err)
	}
	return out, nil
}
