package cmd

import (
	"fmt"

	"github.com/Yui007/MangaForge/pkg/sources"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available sources",
	Long:  "Display the content sources enabled in the configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		reg := sources.NewRegistry(cfg)

		all := reg.List()
		if len(all) == 0 {
			fmt.Println("❌ No sources enabled, check the sources.enabled setting.")
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
			Headers("ID", "Name", "URL", "Rate limit")

		for _, source := range all {
			t.Row(source.ID(), source.Name(), source.BaseURL(), fmt.Sprintf("%.1f req/s", cfg.RateLimit(source.ID())))
		}

		fmt.Println(t)
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
