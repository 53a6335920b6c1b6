package cmd

import (
	"github.com/spf13/cobra"
)

var liquidateCmd = &cobra.Command{
	Use:   "liquidate",
	Short: "liquidate an unhealthy position",
	Long: `flags->
	liquidator: liquidator user id
	user: position owner
	collateral: collateral reserve id
	debt: debt reserve id
	amount: debt to cover, or "max"`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		reserveStore := provideReserveStore(database)
		positionStore := providePositionStore(database)
		eventStore := provideEventStore(database)

		hubService := provideHubService(database, providePoolStore(database), eventStore)
		oracleService := provideOracleService(database, providePriceStore(database), eventStore)
		accountService := provideAccountService(database, reserveStore, positionStore, hubService, oracleService, eventStore)

		liquidationService := provideLiquidationService(
			database,
			eventStore,
			provideLiquidationConfigStore(providePropertyStore(database)),
			accountService,
		)

		liquidator, _ := cmd.Flags().GetString("liquidator")
		user, _ := cmd.Flags().GetString("user")
		collateralReserveID, _ := cmd.Flags().GetUint64("collateral")
		debtReserveID, _ := cmd.Flags().GetUint64("debt")

		result, err := liquidationService.Liquidate(ctx, liquidator, collateralReserveID, debtReserveID, user, amountFlag(cmd, "amount"))
		if err != nil {
			panic(err)
		}

		printStruct(cmd, result)
	},
}

func init() {
	rootCmd.AddCommand(liquidateCmd)

	liquidateCmd.Flags().String("liquidator", "", "liquidator user id")
	liquidateCmd.Flags().String("user", "", "position owner")
	liquidateCmd.Flags().Uint64("collateral", 0, "collateral reserve id")
	liquidateCmd.Flags().Uint64("debt", 0, "debt reserve id")
	liquidateCmd.Flags().String("amount", "0", `debt to cover, or "max"`)
}
