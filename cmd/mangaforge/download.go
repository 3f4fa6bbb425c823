package cmd

import (
	"fmt"
	"strings"

	"github.com/Yui007/MangaForge/pkg/app"
	"github.com/Yui007/MangaForge/pkg/app/components"
	"github.com/Yui007/MangaForge/pkg/config"
	"github.com/Yui007/MangaForge/pkg/data"
	"github.com/Yui007/MangaForge/pkg/integrations"
	"github.com/Yui007/MangaForge/pkg/services"
	"github.com/Yui007/MangaForge/pkg/sources"
	"github.com/Yui007/MangaForge/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download [series-id, URL or library title]",
	Short: "Download chapters of a series",
	Long: `Download chapters of a series and package them for reading.

Chapters are fetched in parallel and packaged according to the output
format (cbz, pdf, epub, both or images).

Examples:
  mangaforge download 32d76d19-8a05-4db0-9fc2-e0b0648fe9d0 --chapters 1-10
  mangaforge download https://mangapill.com/manga/2/one-piece --format pdf
  mangaforge download "One Piece" --chapters 1,3,5-8 --format epub`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sourceID, _ := cmd.Flags().GetString("source")
		rangeExpr, _ := cmd.Flags().GetString("chapters")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		plain, _ := cmd.Flags().GetBool("plain")

		cfg := loadConfig(cmd)
		if format != "" {
			cfg.Output.Format = format
		}
		if output != "" {
			cfg.Download.Directory = output
		}

		reg := sources.NewRegistry(cfg)

		// A bare name can refer to something already in the library.
		target := args[0]
		if repo, err := data.NewRepository(cfg.Download.LibraryPath); err == nil {
			if entries, err := repo.ListSeries(); err == nil {
				for _, entry := range entries {
					if strings.EqualFold(entry.Series.Title, target) {
						fmt.Printf("📚 Found '%s' in library\n", entry.Series.Title)
						sourceID = entry.Series.SourceID
						target = entry.Series.SeriesID
						break
					}
				}
			}
			repo.Close()
		}

		source, err := resolveSource(reg, target, sourceID)
		if err != nil {
			cobra.CheckErr(err)
		}

		fmt.Printf("🔍 Fetching series from %s...\n", source.Name())
		info, err := source.GetSeriesInfo(target)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("fetching series info: %w", err))
		}
		fmt.Printf("📖 %s\n", info.Title)

		chapters, err := source.GetChapters(info.SeriesID)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("fetching chapters: %w", err))
		}
		if rangeExpr != "" {
			chapters, err = data.ParseChapterRange(rangeExpr, chapters)
			if err != nil {
				cobra.CheckErr(err)
			}
		}
		if len(chapters) == 0 {
			fmt.Println("❌ No chapters to download.")
			return
		}

		fmt.Printf("📥 Downloading %d chapters to %s...\n", len(chapters), cfg.Download.Directory)

		downloader, err := services.NewDownloader(cfg)
		if err != nil {
			cobra.CheckErr(err)
		}

		type batchResult struct {
			dirs []services.ChapterDir
			err  error
		}
		done := make(chan batchResult, 1)
		go func() {
			dirs, err := downloader.DownloadChapters(source, info, chapters, cfg.Download.Directory)
			downloader.Close()
			done <- batchResult{dirs: dirs, err: err}
		}()

		if plain {
			printProgress(downloader.Progress())
		} else if err := app.RunDownloadView(info.Title, downloader.Progress()); err != nil {
			// Terminals that cannot run the view fall back to plain lines.
			printProgress(downloader.Progress())
		}

		result := <-done
		if result.err != nil {
			cobra.CheckErr(fmt.Errorf("download failed: %w", result.err))
		}

		// Sum sizes before packaging, which may delete the image dirs.
		var totalSize int64
		for _, chDir := range result.dirs {
			if size, err := utils.DirSize(chDir.Dir); err == nil {
				totalSize += size
			}
		}

		fmt.Printf("✅ Downloaded %d/%d chapters (%s)\n", len(result.dirs), len(chapters), utils.FormatBytes(totalSize))
		if failed := len(chapters) - len(result.dirs); failed > 0 {
			fmt.Printf("⚠️  %d chapters failed, rerun the same command to retry them\n", failed)
		}

		converter := integrations.NewConverter(cfg)
		archives := 0
		chapterPaths := make(map[string]string, len(result.dirs))
		for _, chDir := range result.dirs {
			chapterPaths[chDir.Chapter.ID] = chDir.Dir
			outs, err := converter.Convert(chDir.Dir, cfg.Output.Format)
			if err != nil {
				fmt.Printf("⚠️  Packaging chapter %s failed: %v\n", chDir.Chapter.Number, err)
				continue
			}
			if len(outs) > 0 {
				chapterPaths[chDir.Chapter.ID] = outs[0]
			}
			archives += len(outs)
		}
		if archives > 0 {
			fmt.Printf("📦 Wrote %d archives\n", archives)
		}

		recordDownloads(cfg, info, result.dirs, chapterPaths)
		fmt.Println("💡 See your collection with: mangaforge library")
	},
}

// printProgress mirrors the interactive view with plain lines for logs
// and non-interactive terminals.
func printProgress(events <-chan services.Progress) {
	for event := range events {
		switch event.Kind {
		case services.ProgressImage:
			fmt.Printf("  Chapter %s: %d/%d pages\n", event.ChapterNumber, event.Current, event.Total)
		case services.ProgressChapter:
			if event.Err != nil {
				fmt.Printf("⚠️  Chapter %s failed: %v\n", event.ChapterNumber, event.Err)
			} else {
				fmt.Printf("📄 %s Chapters %d/%d done\n",
					components.SimpleProgress(event.Current, event.Total, 20), event.Current, event.Total)
			}
		}
	}
}

// recordDownloads tracks finished chapters in the library so later runs
// can list what is already on disk. The files are safe either way, so
// library trouble only warns.
func recordDownloads(cfg *config.Config, info *data.SeriesInfo, dirs []services.ChapterDir, paths map[string]string) {
	repo, err := data.NewRepository(cfg.Download.LibraryPath)
	if err != nil {
		logrus.WithError(err).Warn("Library unavailable, downloads are not recorded")
		return
	}
	defer repo.Close()

	libraryID, err := repo.SaveSeries(info)
	if err != nil {
		logrus.WithError(err).Warn("Could not record series in library")
		return
	}
	for _, chDir := range dirs {
		ch := chDir.Chapter
		if err := repo.SaveChapter(libraryID, &ch); err != nil {
			logrus.WithError(err).Warnf("Could not record chapter %s", ch.Number)
			continue
		}
		if err := repo.UpdateChapterStatus(ch.ID, true, paths[ch.ID]); err != nil {
			logrus.WithError(err).Warnf("Could not record chapter %s", ch.Number)
		}
	}
}

func init() {
	downloadCmd.Flags().StringP("source", "s", "mangadex", "Source to download from when the argument is not a URL")
	downloadCmd.Flags().StringP("chapters", "c", "", "Chapter selection (e.g. 1-10 or 1,3,5-8)")
	downloadCmd.Flags().StringP("format", "f", "", "Output format: cbz, pdf, epub, both or images (default from config)")
	downloadCmd.Flags().StringP("output", "o", "", "Download directory (default from config)")
	downloadCmd.Flags().Bool("plain", false, "Print progress lines instead of the interactive view")

	rootCmd.AddCommand(downloadCmd)
}
