package cmd

import (
	"github.com/spf13/cobra"
)

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "show the pool of an asset",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		hubService := provideHubService(database, providePoolStore(database), provideEventStore(database))

		assetID, _ := cmd.Flags().GetString("asset")
		pool, err := hubService.Pool(ctx, assetID)
		if err != nil {
			panic(err)
		}

		printStruct(cmd, pool)
	},
}

var accrueCmd = &cobra.Command{
	Use:   "accrue",
	Short: "accrue interest on the drawn side of a pool",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		hubService := provideHubService(database, providePoolStore(database), provideEventStore(database))

		assetID, _ := cmd.Flags().GetString("asset")
		if err := hubService.Accrue(ctx, assetID, decimalFlag(cmd, "interest")); err != nil {
			panic(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(poolCmd)
	rootCmd.AddCommand(accrueCmd)

	poolCmd.Flags().String("asset", "", "asset uuid")

	accrueCmd.Flags().String("asset", "", "asset uuid")
	accrueCmd.Flags().String("interest", "0", "interest amount")
}
