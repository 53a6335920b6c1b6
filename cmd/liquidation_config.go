package cmd

import (
	"colend/core"

	"github.com/spf13/cobra"
)

var liquidationConfigCmd = &cobra.Command{
	Use:     "liquidation-config",
	Aliases: []string{"lc"},
	Short:   "show the global liquidation config",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		configStore := provideLiquidationConfigStore(providePropertyStore(database))
		config, err := configStore.Get(ctx)
		if err != nil {
			panic(err)
		}

		printStruct(cmd, config)
	},
}

var setLiquidationConfigCmd = &cobra.Command{
	Use:     "set-liquidation-config",
	Aliases: []string{"slc"},
	Short:   "set the global liquidation config",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		config := &core.LiquidationConfig{
			CloseFactor:             decimalFlag(cmd, "close-factor"),
			HealthFactorForMaxBonus: decimalFlag(cmd, "hf-max-bonus"),
			BonusFactor:             decimalFlag(cmd, "bonus-factor"),
		}
		if err := config.Validate(); err != nil {
			panic(err)
		}

		configStore := provideLiquidationConfigStore(providePropertyStore(database))
		if err := configStore.Set(ctx, config); err != nil {
			panic(err)
		}

		printStruct(cmd, config)
	},
}

func init() {
	rootCmd.AddCommand(liquidationConfigCmd)
	rootCmd.AddCommand(setLiquidationConfigCmd)

	setLiquidationConfigCmd.Flags().String("close-factor", "1.05", "target health factor a liquidation restores")
	setLiquidationConfigCmd.Flags().String("hf-max-bonus", "0.95", "health factor at which the bonus saturates")
	setLiquidationConfigCmd.Flags().String("bonus-factor", "1", "bonus scale in [0, 1]")
}
