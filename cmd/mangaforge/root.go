package cmd

import (
	"fmt"
	"os"

	"github.com/Yui007/MangaForge/pkg/config"
	"github.com/Yui007/MangaForge/pkg/sources"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mangaforge",
	Short: "Download manga and package it for reading",
	Long:  "Search manga sites, download chapters in parallel and package them as CBZ, PDF or EPUB",
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a configuration file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig builds the runtime configuration for one command run and
// applies the configured log level.
func loadConfig(cmd *cobra.Command) *config.Config {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		cobra.CheckErr(fmt.Errorf("loading configuration: %w", err))
	}
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logrus.SetLevel(level)
	}
	return cfg
}

// resolveSource picks the site for a command argument. Pasted URLs route
// to the matching source, anything else uses the --source flag.
func resolveSource(reg *sources.Registry, arg, sourceID string) (sources.Source, error) {
	if src, ok := reg.FromURL(arg); ok {
		return src, nil
	}
	return reg.Get(sourceID)
}
