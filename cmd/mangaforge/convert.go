package cmd

import (
	"fmt"

	"github.com/Yui007/MangaForge/pkg/integrations"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [chapter-dir]",
	Short: "Package an already downloaded chapter",
	Long: `Package a directory of downloaded pages into a reading format.

Examples:
  mangaforge convert "downloads/One Piece/Chapter 1" --format cbz
  mangaforge convert "downloads/One Piece/Chapter 1" --format both --keep-images`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		keep, _ := cmd.Flags().GetBool("keep-images")

		cfg := loadConfig(cmd)
		if format != "" {
			cfg.Output.Format = format
		}
		if keep {
			cfg.Output.DeleteImages = false
		}

		converter := integrations.NewConverter(cfg)
		archives, err := converter.Convert(args[0], cfg.Output.Format)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("packaging failed: %w", err))
		}

		if len(archives) == 0 {
			fmt.Println("ℹ️  Nothing to package for this format.")
			return
		}
		for _, archive := range archives {
			fmt.Printf("📦 %s\n", archive)
		}
	},
}

func init() {
	convertCmd.Flags().StringP("format", "f", "", "Output format: cbz, pdf, epub or both (default from config)")
	convertCmd.Flags().Bool("keep-images", false, "Keep the page images after packaging")

	rootCmd.AddCommand(convertCmd)
}
