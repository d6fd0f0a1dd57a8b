package cmd

import (
	"tandem/pkg/number"

	"github.com/spf13/cobra"
)

// command for granting the pool account an allowance over a holder's funds
var approveCmd = &cobra.Command{
	Use:   "approve <owner> <asset> <amount>",
	Short: "approve the pool account to spend a holder's funds",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		owner, assetID := args[0], args[1]
		amount := number.Decimal(args[2])
		if amount.IsNegative() {
			cmd.PrintErrln("amount must not be negative")
			return
		}

		tokens := provideTokenStore(database)
		if err := tokens.Approve(ctx, owner, cfg.App.PoolAccountID, assetID, amount); err != nil {
			cmd.PrintErrln("approve error:", err)
			return
		}

		cmd.Println("approved")
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)
}
