package cmd

import (
	"github.com/spf13/cobra"
)

var refreshAccountCmd = &cobra.Command{
	Use:     "refresh-account",
	Aliases: []string{"ra"},
	Short:   "re-pin a user's positions and rewrite their premium debt",
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

		user, _ := cmd.Flags().GetString("user")
		if user == "" {
			panic("no user")
		}

		data, err := accountService.RefreshUserAccountData(ctx, user)
		if err != nil {
			panic(err)
		}

		printStruct(cmd, data)
	},
}

func init() {
	rootCmd.AddCommand(refreshAccountCmd)

	refreshAccountCmd.Flags().String("user", "", "user id")
}
