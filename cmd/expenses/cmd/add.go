package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awcjack/joplin-expenses-sub001/internal/application/commands"
)

var (
	addPrice       string
	addDescription string
	addCategory    string
	addDate        string
	addShop        string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append an expense to the matching month note",
	Long: `Append an expense row to the month note matching the entry date,
creating the year structure first if needed.

Examples:
  expenses add --price 12.50 --description "lunch" --category food
  expenses add --price 899 --description "laptop" --date 2025-03-14 --shop "web store"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addCmd := commands.NewAddExpenseCommand(svc, addPrice, addDescription, addCategory, addDate, addShop)
		result, err := addCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addPrice, "price", "", "amount spent, decimal string")
	addCmd.Flags().StringVar(&addDescription, "description", "", "what the expense was for")
	addCmd.Flags().StringVar(&addCategory, "category", "", "expense category")
	addCmd.Flags().StringVar(&addDate, "date", "", "date as YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&addShop, "shop", "", "where the expense happened")
	addCmd.MarkFlagRequired("price")
	addCmd.MarkFlagRequired("description")
}
