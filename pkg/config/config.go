package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings. Values come from defaults, then an
// optional YAML file, then environment overrides, in that order.
type Config struct {
	Download DownloadConfig `yaml:"download"`
	Output   OutputConfig   `yaml:"output"`
	Sources  SourcesConfig  `yaml:"sources"`
	Network  NetworkConfig  `yaml:"network"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DownloadConfig struct {
	Directory      string `yaml:"directory"       env:"MANGAFORGE_DOWNLOAD_DIR"`
	ChapterWorkers int    `yaml:"chapter_workers" env:"MANGAFORGE_CHAPTER_WORKERS"`
	ImageWorkers   int    `yaml:"image_workers"   env:"MANGAFORGE_IMAGE_WORKERS"`
	LibraryPath    string `yaml:"library_path"    env:"MANGAFORGE_LIBRARY_PATH"`
}

type OutputConfig struct {
	Format       string `yaml:"format"              env:"MANGAFORGE_FORMAT"`
	DeleteImages bool   `yaml:"delete_images_after" env:"MANGAFORGE_DELETE_IMAGES"`
	ImageQuality int    `yaml:"image_quality"       env:"MANGAFORGE_IMAGE_QUALITY"`
	Grayscale    bool   `yaml:"grayscale"           env:"MANGAFORGE_GRAYSCALE"`
	// MaxWidth and MaxHeight cap page dimensions when re-encoding
	// for PDF output. Zero means keep the original size.
	MaxWidth  int `yaml:"max_width"  env:"MANGAFORGE_MAX_WIDTH"`
	MaxHeight int `yaml:"max_height" env:"MANGAFORGE_MAX_HEIGHT"`
}

type SourcesConfig struct {
	Enabled  []string `yaml:"enabled"  env:"MANGAFORGE_SOURCES"`
	Language string   `yaml:"language" env:"MANGAFORGE_LANGUAGE"`
	// RateLimits maps source id to allowed requests per second.
	RateLimits map[string]float64 `yaml:"rate_limits"`
}

type NetworkConfig struct {
	TimeoutSeconds int    `yaml:"timeout"        env:"MANGAFORGE_TIMEOUT"`
	RetryAttempts  int    `yaml:"retry_attempts" env:"MANGAFORGE_RETRIES"`
	UserAgent      string `yaml:"user_agent"     env:"MANGAFORGE_USER_AGENT"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"MANGAFORGE_LOG_LEVEL"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

func Default() *Config {
	libraryPath := "mangaforge.db"
	if home, err := os.UserHomeDir(); err == nil {
		libraryPath = filepath.Join(home, ".mangaforge", "library.db")
	}

	return &Config{
		Download: DownloadConfig{
			Directory:      "downloads",
			ChapterWorkers: 3,
			ImageWorkers:   10,
			LibraryPath:    libraryPath,
		},
		Output: OutputConfig{
			Format:       "cbz",
			DeleteImages: true,
			ImageQuality: 95,
		},
		Sources: SourcesConfig{
			Language:   "en",
			RateLimits: map[string]float64{"default": 1.0},
		},
		Network: NetworkConfig{
			TimeoutSeconds: 30,
			RetryAttempts:  3,
			UserAgent:      defaultUserAgent,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from path, or from the default locations
// when path is empty. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if found := findConfigFile(path); found != "" {
		raw, err := os.ReadFile(found)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", found, err)
		}
		logrus.WithField("path", found).Debug("Loaded configuration file")
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment overrides: %w", err)
	}

	cfg.clamp()
	return cfg, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		logrus.WithField("path", explicit).Warn("Config file not found, using defaults")
		return ""
	}

	candidates := []string{
		filepath.Join("config", "settings.yaml"),
		"settings.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".mangaforge", "settings.yaml"))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// clamp pulls out-of-range values back into their allowed bounds instead
// of rejecting the whole config.
func (c *Config) clamp() {
	c.Download.ChapterWorkers = clampInt(c.Download.ChapterWorkers, 1, 10)
	c.Download.ImageWorkers = clampInt(c.Download.ImageWorkers, 1, 50)

	if c.Output.ImageQuality < 1 || c.Output.ImageQuality > 100 {
		c.Output.ImageQuality = 95
	}
	if c.Output.MaxWidth < 0 {
		c.Output.MaxWidth = 0
	}
	if c.Output.MaxHeight < 0 {
		c.Output.MaxHeight = 0
	}

	switch c.Output.Format {
	case "images", "cbz", "pdf", "epub", "both":
	default:
		logrus.WithField("format", c.Output.Format).Warn("Unknown output format, falling back to cbz")
		c.Output.Format = "cbz"
	}

	if c.Sources.Language == "" {
		c.Sources.Language = "en"
	}
	if c.Network.RetryAttempts < 1 {
		c.Network.RetryAttempts = 1
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RateLimit returns the allowed requests per second for a source.
func (c *Config) RateLimit(sourceID string) float64 {
	if v, ok := c.Sources.RateLimits[sourceID]; ok {
		return v
	}
	if v, ok := c.Sources.RateLimits["default"]; ok {
		return v
	}
	return 1.0
}

// SourceEnabled reports whether a source should be registered. An empty
// enabled list means every source is available.
func (c *Config) SourceEnabled(id string) bool {
	if len(c.Sources.Enabled) == 0 {
		return true
	}
	return slices.Contains(c.Sources.Enabled, id)
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Network.TimeoutSeconds) * time.Second
}
