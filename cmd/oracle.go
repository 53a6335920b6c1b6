package cmd

import (
	"github.com/spf13/cobra"
)

var setPriceCmd = &cobra.Command{
	Use:     "set-price",
	Aliases: []string{"sp"},
	Short:   "set the oracle price of a reserve",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		oracleService := provideOracleService(database, providePriceStore(database), provideEventStore(database))

		reserveID, _ := cmd.Flags().GetUint64("reserve")
		if err := oracleService.SetReservePrice(ctx, reserveID, decimalFlag(cmd, "price")); err != nil {
			panic(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(setPriceCmd)

	setPriceCmd.Flags().Uint64("reserve", 0, "reserve id")
	setPriceCmd.Flags().String("price", "0", "price in base currency")
}
