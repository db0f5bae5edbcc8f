package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awcjack/joplin-expenses-sub001/internal/application/commands"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the hierarchy without modifying anything",
	Long: `Run the read-only integrity check: root folder, current year
folder, and utility notes. Exits non-zero when the structure is
damaged.

Examples:
  expenses validate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		validateCmd := commands.NewValidateStructureCommand(svc)
		result, err := validateCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		if !result.Valid {
			return fmt.Errorf("structure validation failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
