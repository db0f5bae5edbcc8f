package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awcjack/joplin-expenses-sub001/internal/application/commands"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache and lock table statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		statusCmd := commands.NewStatusCommand(svc)
		result, err := statusCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
