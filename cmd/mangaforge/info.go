package cmd

import (
	"fmt"
	"strings"

	"github.com/Yui007/MangaForge/pkg/app/styles"
	"github.com/Yui007/MangaForge/pkg/sources"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [series-id or URL]",
	Short: "Show details for a series",
	Long:  "Fetch series metadata from a source and display it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sourceID, _ := cmd.Flags().GetString("source")

		cfg := loadConfig(cmd)
		reg := sources.NewRegistry(cfg)
		source, err := resolveSource(reg, args[0], sourceID)
		if err != nil {
			cobra.CheckErr(err)
		}

		info, err := source.GetSeriesInfo(args[0])
		if err != nil {
			cobra.CheckErr(fmt.Errorf("fetching series info: %w", err))
		}

		var b strings.Builder
		b.WriteString(styles.TitleStyle.Render("📖 "+info.Title) + "\n")
		if len(info.AltTitles) > 0 {
			b.WriteString(styles.SubtitleStyle.Render("Also known as: "+strings.Join(info.AltTitles, ", ")) + "\n")
		}
		b.WriteString("\n")
		b.WriteString(infoLine("Source", source.Name()))
		b.WriteString(styles.MutedStyle.Render("Status:") + " " + styles.StatusStyle(info.Status).Render(info.Status) + "\n")
		if info.Year > 0 {
			b.WriteString(infoLine("Year", fmt.Sprintf("%d", info.Year)))
		}
		if len(info.Authors) > 0 {
			b.WriteString(infoLine("Authors", strings.Join(info.Authors, ", ")))
		}
		if len(info.Artists) > 0 {
			b.WriteString(infoLine("Artists", strings.Join(info.Artists, ", ")))
		}
		if len(info.Genres) > 0 {
			b.WriteString(infoLine("Genres", strings.Join(info.Genres, ", ")))
		}
		if info.Description != "" {
			b.WriteString("\n" + styles.TextStyle.Render(info.Description) + "\n")
		}

		fmt.Println(styles.CardStyle.Render(strings.TrimRight(b.String(), "\n")))
		fmt.Printf("💡 List chapters with: mangaforge chapters %s --source %s\n", info.SeriesID, source.ID())
	},
}

func infoLine(label, value string) string {
	return styles.MutedStyle.Render(label+":") + " " + styles.TextStyle.Render(value) + "\n"
}

func init() {
	infoCmd.Flags().StringP("source", "s", "mangadex", "Source to query when the argument is not a URL")

	rootCmd.AddCommand(infoCmd)
}
