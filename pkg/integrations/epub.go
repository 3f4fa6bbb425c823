package integrations

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"

	"github.com/Yui007/MangaForge/pkg/config"
)

// EPUBBuilder packs a chapter directory into an EPUB with one section
// holding every page image in filename order.
type EPUBBuilder struct {
	language string
}

func NewEPUBBuilder(cfg *config.Config) *EPUBBuilder {
	return &EPUBBuilder{language: cfg.Sources.Language}
}

func (b *EPUBBuilder) Extension() string { return ".epub" }

func (b *EPUBBuilder) Build(dir string) (string, error) {
	images, err := listImages(dir)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", fmt.Errorf("%s: %w", dir, ErrNoImages)
	}

	e, err := epub.NewEpub(bookTitle(dir))
	if err != nil {
		return "", fmt.Errorf("creating EPUB: %w", err)
	}
	e.SetLang(b.language)

	chapterTitle := filepath.Base(filepath.Clean(dir))
	var body strings.Builder
	body.WriteString(fmt.Sprintf("<h1>%s</h1>\n", chapterTitle))

	for i, path := range images {
		internalPath, err := e.AddImage(path, "")
		if err != nil {
			return "", fmt.Errorf("adding image %s: %w", filepath.Base(path), err)
		}
		body.WriteString(fmt.Sprintf(
			`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>%s`,
			internalPath, i+1, "\n",
		))
	}

	if _, err := e.AddSection(body.String(), chapterTitle, "", ""); err != nil {
		return "", fmt.Errorf("adding section: %w", err)
	}

	out := archivePath(dir, b.Extension())
	if err := e.Write(out); err != nil {
		os.Remove(out)
		return "", fmt.Errorf("writing EPUB: %w", err)
	}
	return out, nil
}

// bookTitle folds the series directory into the EPUB title when the
// chapter directory has a parent, e.g. "One Piece - Chapter 1".
func bookTitle(dir string) string {
	chapter := filepath.Base(filepath.Clean(dir))
	series := filepath.Base(filepath.Dir(filepath.Clean(dir)))
	if series == "." || series == string(filepath.Separator) {
		return chapter
	}
	return series + " - " + chapter
}
