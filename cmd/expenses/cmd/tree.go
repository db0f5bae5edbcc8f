package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awcjack/joplin-expenses-sub001/internal/application/commands"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the expense hierarchy as a tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		treeCmd := commands.NewTreeCommand(svc, svc.RootFolderTitle())
		result, err := treeCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
