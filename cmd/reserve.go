package cmd

import (
	"strings"

	"colend/core"

	"github.com/fatih/structs"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var listReserveCmd = &cobra.Command{
	Use:     "list-reserve",
	Aliases: []string{"lr"},
	Short:   "list a new reserve",
	Long: `flags->
	asset: asset uuid
	symbol: reserve symbol
	decimals: asset decimals
	borrowable: whether the reserve can be drawn
	risk: collateral risk rate
	cf: collateral factor
	bonus: max liquidation bonus
	fee: liquidation fee share`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		reserveService := provideReserveService(database, provideReserveStore(database), provideEventStore(database))

		assetID, _ := cmd.Flags().GetString("asset")
		symbol, _ := cmd.Flags().GetString("symbol")
		if assetID == "" || symbol == "" {
			panic("no asset or symbol")
		}

		decimals, _ := cmd.Flags().GetInt32("decimals")
		borrowable, _ := cmd.Flags().GetBool("borrowable")

		reserve := &core.Reserve{
			AssetID:        assetID,
			Symbol:         strings.ToUpper(symbol),
			Decimals:       decimals,
			Borrowable:     borrowable,
			CollateralRisk: decimalFlag(cmd, "risk"),
		}
		config := &core.ReserveConfig{
			CollateralFactor: decimalFlag(cmd, "cf"),
			LiquidationBonus: decimalFlag(cmd, "bonus"),
			LiquidationFee:   decimalFlag(cmd, "fee"),
		}

		reserve, err := reserveService.ListReserve(ctx, reserve, config)
		if err != nil {
			panic(err)
		}

		printStruct(cmd, reserve)
	},
}

var updateReserveFlagsCmd = &cobra.Command{
	Use:     "update-reserve-flags",
	Aliases: []string{"urf"},
	Short:   "update reserve paused/frozen/borrowable flags",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		reserveService := provideReserveService(database, provideReserveStore(database), provideEventStore(database))

		reserveID, _ := cmd.Flags().GetUint64("reserve")
		paused, _ := cmd.Flags().GetBool("paused")
		frozen, _ := cmd.Flags().GetBool("frozen")
		borrowable, _ := cmd.Flags().GetBool("borrowable")

		if err := reserveService.UpdateFlags(ctx, reserveID, paused, frozen, borrowable); err != nil {
			panic(err)
		}
	},
}

var setCollateralRiskCmd = &cobra.Command{
	Use:     "set-collateral-risk",
	Aliases: []string{"scr"},
	Short:   "set reserve collateral risk rate",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		reserveService := provideReserveService(database, provideReserveStore(database), provideEventStore(database))

		reserveID, _ := cmd.Flags().GetUint64("reserve")
		if err := reserveService.SetCollateralRisk(ctx, reserveID, decimalFlag(cmd, "risk")); err != nil {
			panic(err)
		}
	},
}

func decimalFlag(cmd *cobra.Command, name string) decimal.Decimal {
	value, _ := cmd.Flags().GetString(name)
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic("invalid " + name)
	}
	return d
}

func printStruct(cmd *cobra.Command, v interface{}) {
	s := structs.New(v)
	for _, field := range s.Fields() {
		if !field.IsExported() {
			continue
		}
		name := field.Tag("json")
		if name == "" {
			name = field.Name()
		}
		cmd.Println(name+":", cast.ToString(field.Value()))
	}
}

func init() {
	rootCmd.AddCommand(listReserveCmd)
	rootCmd.AddCommand(updateReserveFlagsCmd)
	rootCmd.AddCommand(setCollateralRiskCmd)

	listReserveCmd.Flags().String("asset", "", "asset uuid")
	listReserveCmd.Flags().String("symbol", "", "reserve symbol")
	listReserveCmd.Flags().Int32("decimals", 8, "asset decimals")
	listReserveCmd.Flags().Bool("borrowable", true, "whether the reserve can be drawn")
	listReserveCmd.Flags().String("risk", "0", "collateral risk rate")
	listReserveCmd.Flags().String("cf", "0", "collateral factor")
	listReserveCmd.Flags().String("bonus", "1", "max liquidation bonus")
	listReserveCmd.Flags().String("fee", "0", "liquidation fee share")

	updateReserveFlagsCmd.Flags().Uint64("reserve", 0, "reserve id")
	updateReserveFlagsCmd.Flags().Bool("paused", false, "pause the reserve")
	updateReserveFlagsCmd.Flags().Bool("frozen", false, "freeze new exposure")
	updateReserveFlagsCmd.Flags().Bool("borrowable", true, "whether the reserve can be drawn")

	setCollateralRiskCmd.Flags().Uint64("reserve", 0, "reserve id")
	setCollateralRiskCmd.Flags().String("risk", "0", "collateral risk rate")
}
