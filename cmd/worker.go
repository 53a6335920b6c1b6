package cmd

import (
	"colend/worker"
	"colend/worker/sentinel"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "colend job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		reserveStore := provideReserveStore(database)
		positionStore := providePositionStore(database)
		eventStore := provideEventStore(database)
		poolStore := providePoolStore(database)
		priceStore := providePriceStore(database)

		hubService := provideHubService(database, poolStore, eventStore)
		oracleService := provideOracleService(database, priceStore, eventStore)
		accountService := provideAccountService(database, reserveStore, positionStore, hubService, oracleService, eventStore)

		jobs := []worker.IJob{
			sentinel.New(database, cfg.App.Location, cfg.App.SentinelInterval, positionStore, eventStore, accountService),
		}

		for _, job := range jobs {
			if err := job.Start(); err != nil {
				log.Errorln("start job error:", err)
				return
			}
		}

		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			for _, job := range jobs {
				job.Stop()
			}
			close(done)
		})

		log.Infoln("worker started")
		<-done
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
