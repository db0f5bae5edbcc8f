package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/awcjack/joplin-expenses-sub001/internal/adapters/sqlite"
	"github.com/awcjack/joplin-expenses-sub001/internal/application/commands"
)

var syncYear string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the local SQLite index from the month notes",
	Long: `Re-read every month note of a year and replace the local SQLite
index with the parsed entries.

Examples:
  expenses sync
  expenses sync --year 2024`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		year := syncYear
		if year == "" {
			year = time.Now().Format("2006")
		}

		idx := sqlite.NewIndex()
		if err := idx.Open(cfg.Index.Path); err != nil {
			return err
		}
		defer idx.Close()

		syncCmd := commands.NewSyncIndexCommand(svc, idx, year)
		result, err := syncCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVar(&syncYear, "year", "", "year to index (default current)")
}
