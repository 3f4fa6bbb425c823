package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 3, cfg.Download.ChapterWorkers)
	assert.Equal(t, 10, cfg.Download.ImageWorkers)
	assert.Equal(t, "cbz", cfg.Output.Format)
	assert.True(t, cfg.Output.DeleteImages)
	assert.Equal(t, 95, cfg.Output.ImageQuality)
	assert.Equal(t, "en", cfg.Sources.Language)
	assert.Equal(t, 30, cfg.Network.TimeoutSeconds)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
download:
  directory: /tmp/manga
  chapter_workers: 5
output:
  format: pdf
  delete_images_after: false
sources:
  language: ja
  rate_limits:
    mangadex: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/manga", cfg.Download.Directory)
	assert.Equal(t, 5, cfg.Download.ChapterWorkers)
	// Values absent from the file keep their defaults
	assert.Equal(t, 10, cfg.Download.ImageWorkers)
	assert.Equal(t, "pdf", cfg.Output.Format)
	assert.False(t, cfg.Output.DeleteImages)
	assert.Equal(t, "ja", cfg.Sources.Language)
	assert.Equal(t, 0.5, cfg.RateLimit("mangadex"))
	assert.Equal(t, 1.0, cfg.RateLimit("mangapill"))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Download.ChapterWorkers)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MANGAFORGE_CHAPTER_WORKERS", "7")
	t.Setenv("MANGAFORGE_FORMAT", "both")
	t.Setenv("MANGAFORGE_DOWNLOAD_DIR", "/data/manga")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Download.ChapterWorkers)
	assert.Equal(t, "both", cfg.Output.Format)
	assert.Equal(t, "/data/manga", cfg.Download.Directory)
}

func TestWorkerBoundsClamped(t *testing.T) {
	t.Setenv("MANGAFORGE_CHAPTER_WORKERS", "99")
	t.Setenv("MANGAFORGE_IMAGE_WORKERS", "0")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Download.ChapterWorkers)
	assert.Equal(t, 1, cfg.Download.ImageWorkers)
}

func TestNegativeDimensionCapsClearedToZero(t *testing.T) {
	t.Setenv("MANGAFORGE_MAX_WIDTH", "-1")
	t.Setenv("MANGAFORGE_MAX_HEIGHT", "-300")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Output.MaxWidth)
	assert.Equal(t, 0, cfg.Output.MaxHeight)
}

func TestUnknownFormatFallsBack(t *testing.T) {
	t.Setenv("MANGAFORGE_FORMAT", "tarball")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "cbz", cfg.Output.Format)
}

func TestSourceEnabled(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.SourceEnabled("mangadex"))

	cfg.Sources.Enabled = []string{"mock"}
	assert.True(t, cfg.SourceEnabled("mock"))
	assert.False(t, cfg.SourceEnabled("mangadex"))
}

func TestBadYAMLIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
