package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/awcjack/joplin-expenses-sub001/internal/adapters/sqlite"
)

var (
	reportYear  string
	reportMonth int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Sum indexed expenses per category",
	Long: `Print per-category totals from the local SQLite index. Run sync
first to bring the index up to date.

Examples:
  expenses report
  expenses report --year 2024 --month 7`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		year := reportYear
		if year == "" {
			year = time.Now().Format("2006")
		}

		idx := sqlite.NewIndex()
		if err := idx.Open(cfg.Index.Path); err != nil {
			return err
		}
		defer idx.Close()

		totals, err := idx.SumByCategory(year, reportMonth)
		if err != nil {
			return err
		}
		if len(totals) == 0 {
			fmt.Println("No indexed entries; run sync first")
			return nil
		}

		categories := make([]string, 0, len(totals))
		for category := range totals {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		for _, category := range categories {
			name := category
			if name == "" {
				name = "(uncategorized)"
			}
			fmt.Printf("%-20s %s\n", name, totals[category].StringFixed(2))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportYear, "year", "", "year to report on (default current)")
	reportCmd.Flags().IntVar(&reportMonth, "month", 0, "month 1-12, 0 for the whole year")
}
