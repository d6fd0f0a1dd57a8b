package cmd

import (
	"tandem/core"

	"github.com/spf13/cobra"
)

// command for seeding risk and rate parameters before the first loan
var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "write risk and rate parameters",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		paramStore := provideParamStore(database)

		risk := &core.RiskParams{}
		risk.LtvBps, _ = cmd.Flags().GetInt64("ltv")
		risk.LiquidationThresholdMarkupBps, _ = cmd.Flags().GetInt64("threshold-markup")
		risk.LiquidationThresholdCapBps, _ = cmd.Flags().GetInt64("threshold-cap")
		risk.LiquidationFeeBps, _ = cmd.Flags().GetInt64("fee")
		risk.LiquidationMaxSlippageBps, _ = cmd.Flags().GetInt64("max-slippage")

		if err := paramStore.SaveRiskParams(ctx, risk); err != nil {
			cmd.PrintErrln("save risk params error:", err)
			return
		}

		rate := &core.RateParams{}
		rate.MinRateBps, _ = cmd.Flags().GetInt64("min-rate")
		rate.OptimalRateBps, _ = cmd.Flags().GetInt64("optimal-rate")
		rate.MaxRateBps, _ = cmd.Flags().GetInt64("max-rate")
		rate.OptimalUtilizationBps, _ = cmd.Flags().GetInt64("optimal-utilization")

		if err := paramStore.SaveRateParams(ctx, rate); err != nil {
			cmd.PrintErrln("save rate params error:", err)
			return
		}

		cmd.Println("params saved")
	},
}

func init() {
	rootCmd.AddCommand(paramsCmd)

	paramsCmd.Flags().Int64("ltv", 8000, "loan to value in bps")
	paramsCmd.Flags().Int64("threshold-markup", 11000, "liquidation threshold markup in bps")
	paramsCmd.Flags().Int64("threshold-cap", 9000, "liquidation threshold cap in bps")
	paramsCmd.Flags().Int64("fee", 500, "liquidator reward in bps")
	paramsCmd.Flags().Int64("max-slippage", 500, "liquidation max slippage in bps")
	paramsCmd.Flags().Int64("min-rate", 200, "rate at zero utilization in bps")
	paramsCmd.Flags().Int64("optimal-rate", 800, "rate at optimal utilization in bps")
	paramsCmd.Flags().Int64("max-rate", 1500, "rate at full utilization in bps")
	paramsCmd.Flags().Int64("optimal-utilization", 8000, "optimal utilization in bps")
}
