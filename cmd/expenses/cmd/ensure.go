package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/awcjack/joplin-expenses-sub001/internal/application/commands"
)

var ensureCmd = &cobra.Command{
	Use:   "ensure [year]",
	Short: "Create the folder and note structure for a year",
	Long: `Create the year folder, twelve month notes, annual summary, and
utility notes. Defaults to the current year when no year is given.

Examples:
  expenses ensure
  expenses ensure 2024`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year := time.Now().Format("2006")
		if len(args) == 1 {
			year = args[0]
		}

		ensureCmd := commands.NewEnsureStructureCommand(svc, year)
		result, err := ensureCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ensureCmd)
}
