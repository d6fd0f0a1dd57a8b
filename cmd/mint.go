package cmd

import (
	"fmt"

	"tandem/pkg/number"

	"github.com/spf13/cobra"
)

// command for crediting a token ledger account, local deployments only
var mintCmd = &cobra.Command{
	Use:   "mint <account> <asset> <amount>",
	Short: "credit a token ledger account",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		account, assetID := args[0], args[1]
		amount := number.Decimal(args[2])
		if !amount.IsPositive() {
			cmd.PrintErrln("amount must be positive")
			return
		}

		tokens := provideTokenStore(database)
		if err := tokens.Mint(ctx, account, assetID, amount); err != nil {
			cmd.PrintErrln("mint error:", err)
			return
		}

		balance, err := tokens.BalanceOf(ctx, account, assetID)
		if err != nil {
			cmd.PrintErrln("query balance error:", err)
			return
		}

		cmd.Println(fmt.Sprintf("%s %s balance %s", account, assetID, balance))
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)
}
