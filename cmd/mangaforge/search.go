package cmd

import (
	"fmt"
	"strings"

	"github.com/Yui007/MangaForge/pkg/sources"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for a series",
	Long:  "Search a source for series matching the query and display the results in a table",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")
		sourceID, _ := cmd.Flags().GetString("source")
		page, _ := cmd.Flags().GetInt("page")

		cfg := loadConfig(cmd)
		reg := sources.NewRegistry(cfg)
		source, err := reg.Get(sourceID)
		if err != nil {
			cobra.CheckErr(err)
		}

		fmt.Printf("🔍 Searching for '%s' on %s...\n", query, source.Name())

		results, hasNext, err := source.Search(query, page)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("search failed: %w", err))
		}

		if len(results) == 0 {
			fmt.Println("No results found.")
			return
		}

		var (
			purple = lipgloss.Color("99")

			headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
			cellStyle   = lipgloss.NewStyle().Padding(0, 1)
		)

		t := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(purple)).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				default:
					return cellStyle
				}
			}).
			Headers("#", "Title", "ID")

		for i, result := range results {
			t.Row(fmt.Sprintf("%d", i+1), truncateString(result.Title, 58), result.SeriesID)
		}

		fmt.Println(t)

		if hasNext {
			fmt.Printf("💡 More results available, rerun with --page %d\n", page+1)
		}
	},
}

func truncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func init() {
	searchCmd.Flags().StringP("source", "s", "mangadex", "Source to search (see 'mangaforge sources')")
	searchCmd.Flags().IntP("page", "p", 1, "Result page")

	rootCmd.AddCommand(searchCmd)
}
