package integrations

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Yui007/MangaForge/pkg/config"
)

// Converter runs archive builders against chapter directories in the
// order and with the cleanup behavior the output format demands.
type Converter struct {
	builders     map[string]Archiver
	deleteImages bool
}

func NewConverter(cfg *config.Config) *Converter {
	return &Converter{
		builders: map[string]Archiver{
			"cbz":  NewCBZBuilder(),
			"pdf":  NewPDFBuilder(cfg),
			"epub": NewEPUBBuilder(cfg),
		},
		deleteImages: cfg.Output.DeleteImages,
	}
}

// Convert packages one chapter directory into the requested format and
// returns the archives written. "images" leaves the directory alone.
// "both" builds the CBZ first, then the PDF; the source directory is
// only removed after every requested archive exists.
func (c *Converter) Convert(dir, format string) ([]string, error) {
	var formats []string
	switch format {
	case "", "images":
		return nil, nil
	case "both":
		formats = []string{"cbz", "pdf"}
	case "cbz", "pdf", "epub":
		formats = []string{format}
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}

	archives := make([]string, 0, len(formats))
	for _, name := range formats {
		path, err := c.builders[name].Build(dir)
		if err != nil {
			return archives, fmt.Errorf("building %s: %w", name, err)
		}
		logrus.WithFields(logrus.Fields{
			"archive": filepath.Base(path),
			"format":  name,
		}).Info("Archive written")
		archives = append(archives, path)
	}

	if c.deleteImages {
		if err := os.RemoveAll(dir); err != nil {
			// best effort, the archives are already on disk
			logrus.WithError(err).WithField("dir", dir).Warn("Could not remove source directory")
		}
	}
	return archives, nil
}

// imageExtensions are the file types a chapter directory may contain.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// listImages returns the full paths of the image files in dir, sorted
// by filename. Page order always comes from this sort, never from
// download completion order.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

// archivePath swaps the directory name for an archive filename beside
// it: ".../Chapter 1" and ".cbz" give ".../Chapter 1.cbz".
func archivePath(dir, extension string) string {
	return filepath.Clean(dir) + extension
}
