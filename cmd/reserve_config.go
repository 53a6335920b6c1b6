package cmd

import (
	"colend/core"

	"github.com/spf13/cobra"
)

var addReserveConfigCmd = &cobra.Command{
	Use:     "add-reserve-config",
	Aliases: []string{"arc"},
	Short:   "add a new reserve config version",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		reserveService := provideReserveService(database, provideReserveStore(database), provideEventStore(database))

		reserveID, _ := cmd.Flags().GetUint64("reserve")
		config := &core.ReserveConfig{
			CollateralFactor: decimalFlag(cmd, "cf"),
			LiquidationBonus: decimalFlag(cmd, "bonus"),
			LiquidationFee:   decimalFlag(cmd, "fee"),
		}

		config, err := reserveService.AddConfigVersion(ctx, reserveID, config)
		if err != nil {
			panic(err)
		}

		printStruct(cmd, config)
	},
}

var updateReserveConfigCmd = &cobra.Command{
	Use:     "update-reserve-config",
	Aliases: []string{"urc"},
	Short:   "update the collateral factor of an existing config version",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		reserveService := provideReserveService(database, provideReserveStore(database), provideEventStore(database))

		reserveID, _ := cmd.Flags().GetUint64("reserve")
		key, _ := cmd.Flags().GetUint16("key")

		if err := reserveService.UpdateConfigVersion(ctx, reserveID, key, decimalFlag(cmd, "cf")); err != nil {
			panic(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(addReserveConfigCmd)
	rootCmd.AddCommand(updateReserveConfigCmd)

	addReserveConfigCmd.Flags().Uint64("reserve", 0, "reserve id")
	addReserveConfigCmd.Flags().String("cf", "0", "collateral factor")
	addReserveConfigCmd.Flags().String("bonus", "1", "max liquidation bonus")
	addReserveConfigCmd.Flags().String("fee", "0", "liquidation fee share")

	updateReserveConfigCmd.Flags().Uint64("reserve", 0, "reserve id")
	updateReserveConfigCmd.Flags().Uint16("key", 0, "config version key")
	updateReserveConfigCmd.Flags().String("cf", "0", "collateral factor")
}
