package cmd

import (
	"fmt"

	"github.com/Yui007/MangaForge/pkg/sources"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters [series-id or URL]",
	Short: "List the chapters of a series",
	Long:  "Fetch the full chapter list of a series and display it in reading order",
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

		chapters, err := source.GetChapters(info.SeriesID)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("fetching chapters: %w", err))
		}

		if len(chapters) == 0 {
			fmt.Println("No chapters found.")
			return
		}

		columns := []table.Column{
			{Title: "#", Width: 6},
			{Title: "Chapter", Width: 10},
			{Title: "Title", Width: 40},
			{Title: "Volume", Width: 8},
			{Title: "Published", Width: 12},
		}

		rows := []table.Row{}
		for i, ch := range chapters {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", i+1),
				ch.Number,
				truncateString(ch.Title, 38),
				ch.Volume,
				ch.Published,
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n📖 %s (%d chapters)\n\n", info.Title, len(chapters))
		fmt.Println(t.View())
		fmt.Printf("💡 Download with: mangaforge download %s --source %s --chapters 1-5\n", info.SeriesID, source.ID())
	},
}

func init() {
	chaptersCmd.Flags().StringP("source", "s", "mangadex", "Source to query when the argument is not a URL")

	rootCmd.AddCommand(chaptersCmd)
}
