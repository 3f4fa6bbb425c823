package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Yui007/MangaForge/pkg/config"
	"github.com/Yui007/MangaForge/pkg/data"
	"github.com/Yui007/MangaForge/pkg/sources"
	"github.com/Yui007/MangaForge/pkg/utils"
)

// ChapterDir is one successfully downloaded chapter on disk.
type ChapterDir struct {
	Chapter data.Chapter
	Dir     string
	// Images is how many pages actually made it to disk.
	Images int
}

// Downloader fetches chapters through two bounded worker pools: one
// across chapters and one across the images inside a chapter. Pool
// sizes are fixed at construction. Progress streams out on a channel;
// consumers that fall behind lose events rather than stalling workers.
type Downloader struct {
	chapterWorkers int
	imageWorkers   int

	progress  chan Progress
	closeOnce sync.Once
}

// NewDownloader sizes the worker pools from config. A pool size below
// one is a caller bug and rejected up front.
func NewDownloader(cfg *config.Config) (*Downloader, error) {
	if cfg.Download.ChapterWorkers < 1 {
		return nil, fmt.Errorf("chapter workers must be at least 1, got %d", cfg.Download.ChapterWorkers)
	}
	if cfg.Download.ImageWorkers < 1 {
		return nil, fmt.Errorf("image workers must be at least 1, got %d", cfg.Download.ImageWorkers)
	}

	return &Downloader{
		chapterWorkers: cfg.Download.ChapterWorkers,
		imageWorkers:   cfg.Download.ImageWorkers,
		progress:       make(chan Progress, 100),
	}, nil
}

// Progress returns the event stream for this downloader.
func (d *Downloader) Progress() <-chan Progress {
	return d.progress
}

// Close closes the progress channel. Call once the last batch has
// settled; in-flight work is never cancelled, only waited out.
func (d *Downloader) Close() {
	d.closeOnce.Do(func() { close(d.progress) })
}

// DownloadChapters fetches every chapter into its own directory under
// outputRoot/<series>/ and returns the chapters that succeeded, in
// completion order. A failed chapter is logged and skipped; the batch
// never fails because one item did.
func (d *Downloader) DownloadChapters(source sources.Source, info *data.SeriesInfo, chapters []data.Chapter, outputRoot string) ([]ChapterDir, error) {
	if info == nil {
		return nil, fmt.Errorf("series info cannot be nil")
	}

	seriesDir := filepath.Join(outputRoot, utils.SanitizeFilename(info.Title))
	if err := os.MkdirAll(seriesDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating series directory: %w", err)
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, d.chapterWorkers)
	results := make(chan ChapterDir, len(chapters))

	// finished guards the batch counter and keeps chapter events in
	// increasing order on the channel.
	var batchMu sync.Mutex
	finished := 0

	for _, chapter := range chapters {
		wg.Add(1)
		go func(chapter data.Chapter) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			dir, images, err := d.downloadChapter(source, info, chapter, seriesDir)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"series":  info.Title,
					"chapter": chapter.Number,
				}).Error("Chapter download failed")
			} else {
				results <- ChapterDir{Chapter: chapter, Dir: dir, Images: images}
			}

			batchMu.Lock()
			finished++
			d.send(Progress{
				Kind:          ProgressChapter,
				SeriesTitle:   info.Title,
				ChapterID:     chapter.ID,
				ChapterNumber: chapter.Number,
				Current:       finished,
				Total:         len(chapters),
				Err:           err,
			})
			batchMu.Unlock()
		}(chapter)
	}

	wg.Wait()
	close(results)

	dirs := make([]ChapterDir, 0, len(chapters))
	for result := range results {
		dirs = append(dirs, result)
	}
	return dirs, nil
}

// downloadChapter fetches one chapter's pages into a fresh directory.
// Individual page failures are logged and skipped, so the directory
// ends up with whichever pages succeeded.
func (d *Downloader) downloadChapter(source sources.Source, info *data.SeriesInfo, chapter data.Chapter, seriesDir string) (string, int, error) {
	dir := filepath.Join(seriesDir, utils.ChapterDirName(chapter.Number, chapter.Volume, chapter.Title))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("creating chapter directory: %w", err)
	}

	urls, err := source.GetChapterImages(chapter.ID)
	if err != nil {
		return "", 0, fmt.Errorf("listing images: %w", err)
	}
	if len(urls) == 0 {
		// nothing to fetch, the chapter still counts as complete
		return dir, 0, nil
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, d.imageWorkers)

	// completed guards the page counters and keeps image events in
	// increasing order on the channel.
	var mu sync.Mutex
	completed, saved := 0, 0

	for i, url := range urls {
		wg.Add(1)
		go func(page int, url string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			path := filepath.Join(dir, fmt.Sprintf("%03d.jpg", page))
			err := d.downloadImage(source, url, path)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"chapter": chapter.Number,
					"page":    page,
				}).Warn("Page download failed")
			}

			mu.Lock()
			completed++
			if err == nil {
				saved++
			}
			d.send(Progress{
				Kind:          ProgressImage,
				SeriesTitle:   info.Title,
				ChapterID:     chapter.ID,
				ChapterNumber: chapter.Number,
				Current:       completed,
				Total:         len(urls),
				Err:           err,
			})
			mu.Unlock()
		}(i+1, url)
	}

	wg.Wait()
	return dir, saved, nil
}

func (d *Downloader) downloadImage(source sources.Source, url, path string) error {
	raw, err := source.DownloadImage(url)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// send delivers a progress event without ever blocking a worker.
func (d *Downloader) send(p Progress) {
	select {
	case d.progress <- p:
	default:
	}
}
