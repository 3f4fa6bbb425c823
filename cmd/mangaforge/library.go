package cmd

import (
	"fmt"
	"strings"

	"github.com/Yui007/MangaForge/pkg/data"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List downloaded series",
	Long:  "Display every series recorded in the local library",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		repo, err := data.NewRepository(cfg.Download.LibraryPath)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("opening library: %w", err))
		}
		defer repo.Close()

		entries, err := repo.ListSeries()
		if err != nil {
			cobra.CheckErr(err)
		}

		if len(entries) == 0 {
			fmt.Println("📚 Library is empty. Use 'mangaforge download' to fetch a series.")
			return
		}

		columns := []table.Column{
			{Title: "Title", Width: 40},
			{Title: "Source", Width: 10},
			{Title: "Downloaded", Width: 12},
			{Title: "Added", Width: 12},
		}

		rows := []table.Row{}
		for _, entry := range entries {
			downloaded, _ := repo.DownloadedCount(entry.ID)
			rows = append(rows, table.Row{
				truncateString(entry.Series.Title, 38),
				entry.Series.SourceID,
				fmt.Sprintf("%d", downloaded),
				entry.AddedAt.Format("2006-01-02"),
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

		fmt.Printf("\n📚 Library (%d series)\n\n", len(entries))
		fmt.Println(t.View())
	},
}

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove [title or id]",
	Short: "Remove a series from the library",
	Long:  "Delete a series and its chapter records from the library. Downloaded files stay on disk.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		needle := strings.Join(args, " ")

		cfg := loadConfig(cmd)
		repo, err := data.NewRepository(cfg.Download.LibraryPath)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("opening library: %w", err))
		}
		defer repo.Close()

		entries, err := repo.ListSeries()
		if err != nil {
			cobra.CheckErr(err)
		}

		for _, entry := range entries {
			if entry.ID == needle || strings.EqualFold(entry.Series.Title, needle) {
				if err := repo.DeleteSeries(entry.ID); err != nil {
					cobra.CheckErr(fmt.Errorf("removing series: %w", err))
				}
				fmt.Printf("🗑️  Removed '%s' from the library\n", entry.Series.Title)
				return
			}
		}

		fmt.Printf("❌ No library entry matches '%s'.\n", needle)
	},
}

func init() {
	libraryCmd.AddCommand(libraryRemoveCmd)

	rootCmd.AddCommand(libraryCmd)
}
