package services

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yui007/MangaForge/pkg/config"
	"github.com/Yui007/MangaForge/pkg/data"
	"github.com/Yui007/MangaForge/pkg/integrations"
	"github.com/Yui007/MangaForge/pkg/sources"
)

// TestE2E_FullDownloadPipeline drives the whole pipeline on the mock
// source: pick a series, select chapters by range, download pages,
// record them in the library, then package both archive formats.
func TestE2E_FullDownloadPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	cfg := config.Default()
	cfg.Download.Directory = filepath.Join(t.TempDir(), "downloads")
	cfg.Download.LibraryPath = filepath.Join(t.TempDir(), "library.db")
	cfg.Output.DeleteImages = true

	source := sources.NewMock()

	var (
		info     *data.SeriesInfo
		selected []data.Chapter
		dirs     []ChapterDir
	)

	t.Run("Fetch series", func(t *testing.T) {
		var err error
		info, err = source.GetSeriesInfo("mock-1")
		require.NoError(t, err)
		assert.Equal(t, "Mock Adventure", info.Title)
	})

	t.Run("Select chapters by range", func(t *testing.T) {
		chapters, err := source.GetChapters(info.SeriesID)
		require.NoError(t, err)
		require.Len(t, chapters, 12)

		selected, err = data.ParseChapterRange("1-2,10.5", chapters)
		require.NoError(t, err)
		require.Len(t, selected, 3)
		assert.Equal(t, "1", selected[0].Number)
		assert.Equal(t, "2", selected[1].Number)
		assert.Equal(t, "10.5", selected[2].Number)
	})

	t.Run("Download", func(t *testing.T) {
		d, err := NewDownloader(cfg)
		require.NoError(t, err)
		defer d.Close()

		dirs, err = d.DownloadChapters(source, info, selected, cfg.Download.Directory)
		require.NoError(t, err)
		require.Len(t, dirs, 3)

		for _, dir := range dirs {
			assert.Equal(t, 3, dir.Images)
			for page := 1; page <= 3; page++ {
				assert.FileExists(t, filepath.Join(dir.Dir, fmt.Sprintf("%03d.jpg", page)))
			}
		}
	})

	t.Run("Record in library", func(t *testing.T) {
		repo, err := data.NewRepository(cfg.Download.LibraryPath)
		require.NoError(t, err)
		defer repo.Close()

		libraryID, err := repo.SaveSeries(info)
		require.NoError(t, err)

		for _, dir := range dirs {
			chapter := dir.Chapter
			require.NoError(t, repo.SaveChapter(libraryID, &chapter))
			require.NoError(t, repo.UpdateChapterStatus(chapter.ID, true, dir.Dir))
		}

		count, err := repo.DownloadedCount(libraryID)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("Package both formats", func(t *testing.T) {
		converter := integrations.NewConverter(cfg)
		for _, dir := range dirs {
			archives, err := converter.Convert(dir.Dir, "both")
			require.NoError(t, err)
			require.Len(t, archives, 2)

			assert.FileExists(t, dir.Dir+".cbz")
			assert.FileExists(t, dir.Dir+".pdf")
			_, err = os.Stat(dir.Dir)
			assert.True(t, os.IsNotExist(err), "pages should be cleaned up after both archives")
		}
	})
}
