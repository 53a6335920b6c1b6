package cmd

import (
	"colend/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// ledger entry commands. The caller acts for itself unless --on-behalf-of
// names a user who approved it as position manager.

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "supply assets to a reserve",
	Run: func(cmd *cobra.Command, args []string) {
		runPositionAction(cmd, func(srv core.IPositionService, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error {
			return srv.Supply(cmd.Context(), caller, reserveID, amount, onBehalfOf)
		})
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "withdraw supplied assets from a reserve",
	Run: func(cmd *cobra.Command, args []string) {
		runPositionAction(cmd, func(srv core.IPositionService, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error {
			return srv.Withdraw(cmd.Context(), caller, reserveID, amount, onBehalfOf)
		})
	},
}

var borrowCmd = &cobra.Command{
	Use:   "borrow",
	Short: "borrow assets from a reserve",
	Run: func(cmd *cobra.Command, args []string) {
		runPositionAction(cmd, func(srv core.IPositionService, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error {
			return srv.Borrow(cmd.Context(), caller, reserveID, amount, onBehalfOf)
		})
	},
}

var repayCmd = &cobra.Command{
	Use:   "repay",
	Short: "repay drawn assets and premium debt",
	Run: func(cmd *cobra.Command, args []string) {
		runPositionAction(cmd, func(srv core.IPositionService, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error {
			return srv.Repay(cmd.Context(), caller, reserveID, amount, onBehalfOf)
		})
	},
}

var setCollateralCmd = &cobra.Command{
	Use:   "set-collateral",
	Short: "enable or disable a reserve as collateral",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		positionService := buildPositionService(database)

		caller, _ := cmd.Flags().GetString("user")
		reserveID, _ := cmd.Flags().GetUint64("reserve")
		use, _ := cmd.Flags().GetBool("use")
		onBehalfOf, _ := cmd.Flags().GetString("on-behalf-of")

		if err := positionService.SetUsingAsCollateral(ctx, caller, reserveID, use, onBehalfOf); err != nil {
			panic(err)
		}
	},
}

var approveManagerCmd = &cobra.Command{
	Use:   "approve-manager",
	Short: "grant or revoke a position manager approval",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		positionService := buildPositionService(database)

		user, _ := cmd.Flags().GetString("user")
		manager, _ := cmd.Flags().GetString("manager")
		active, _ := cmd.Flags().GetBool("active")

		if err := positionService.ApprovePositionManager(ctx, user, manager, active); err != nil {
			panic(err)
		}
	},
}

func buildPositionService(database *db.DB) core.IPositionService {
	reserveStore := provideReserveStore(database)
	positionStore := providePositionStore(database)
	eventStore := provideEventStore(database)

	hubService := provideHubService(database, providePoolStore(database), eventStore)
	oracleService := provideOracleService(database, providePriceStore(database), eventStore)
	accountService := provideAccountService(database, reserveStore, positionStore, hubService, oracleService, eventStore)

	return providePositionService(database, reserveStore, positionStore, provideApprovalStore(database), eventStore, accountService)
}

func runPositionAction(cmd *cobra.Command, action func(srv core.IPositionService, caller string, reserveID uint64, amount decimal.Decimal, onBehalfOf string) error) {
	database := provideDatabase()
	defer database.Close()

	positionService := buildPositionService(database)

	caller, _ := cmd.Flags().GetString("user")
	reserveID, _ := cmd.Flags().GetUint64("reserve")
	onBehalfOf, _ := cmd.Flags().GetString("on-behalf-of")

	if err := action(positionService, caller, reserveID, amountFlag(cmd, "amount"), onBehalfOf); err != nil {
		panic(err)
	}
}

// amountFlag parses a decimal amount; "max" requests the full balance.
func amountFlag(cmd *cobra.Command, name string) decimal.Decimal {
	value, _ := cmd.Flags().GetString(name)
	if value == "max" {
		return core.MaxAmount
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic("invalid " + name)
	}
	return d
}

func init() {
	for _, c := range []*cobra.Command{supplyCmd, withdrawCmd, borrowCmd, repayCmd} {
		rootCmd.AddCommand(c)
		c.Flags().String("user", "", "acting user id")
		c.Flags().Uint64("reserve", 0, "reserve id")
		c.Flags().String("amount", "0", `amount, or "max"`)
		c.Flags().String("on-behalf-of", "", "position owner if different from user")
	}

	rootCmd.AddCommand(setCollateralCmd)
	setCollateralCmd.Flags().String("user", "", "acting user id")
	setCollateralCmd.Flags().Uint64("reserve", 0, "reserve id")
	setCollateralCmd.Flags().Bool("use", true, "use as collateral")
	setCollateralCmd.Flags().String("on-behalf-of", "", "position owner if different from user")

	rootCmd.AddCommand(approveManagerCmd)
	approveManagerCmd.Flags().String("user", "", "position owner")
	approveManagerCmd.Flags().String("manager", "", "manager user id")
	approveManagerCmd.Flags().Bool("active", true, "grant or revoke")
}
