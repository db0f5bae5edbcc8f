package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awcjack/joplin-expenses-sub001/internal/application/commands"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Validate the hierarchy and rebuild what is missing",
	Long: `Check the expense hierarchy for the current year and create any
missing folders or notes. Safe to run repeatedly.

Examples:
  expenses init`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		initCmd := commands.NewInitializeCommand(svc)
		result, err := initCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
