package sentinel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"colend/core"
	"colend/pkg/concurrency"
	"colend/pkg/id"
	"colend/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Worker sentinel worker. Walks every user with outstanding debt and
// journals the ones whose health factor dropped below one so liquidators
// can pick them up.
type Worker struct {
	worker.BaseJob

	DB            *db.DB
	PositionStore core.IPositionStore
	EventStore    core.IEventStore
	AccountSrv    core.IAccountService
}

// New new sentinel worker
func New(database *db.DB, location, spec string, positionStr core.IPositionStore, eventStr core.IEventStore, accountSrv core.IAccountService) *Worker {
	job := Worker{
		DB:            database,
		PositionStore: positionStr,
		EventStore:    eventStr,
		AccountSrv:    accountSrv,
	}

	l, _ := time.LoadLocation(location)
	job.Cron = cron.New(cron.WithLocation(l))
	if spec == "" {
		spec = "@every 1m"
	}
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "sentinel")

	users, err := w.PositionStore.Borrowers(ctx)
	if err != nil {
		log.Errorln("fetch borrowers error:", err)
		return err
	}

	golimit := concurrency.NewGoLimit(32)
	wg := sync.WaitGroup{}
	for _, user := range users {
		golimit.Add()
		wg.Add(1)

		go func(userID string) {
			defer wg.Done()
			defer golimit.Done()

			w.checkUser(ctx, userID)
		}(user)
	}
	wg.Wait()

	return nil
}

func (w *Worker) checkUser(ctx context.Context, userID string) {
	log := logger.FromContext(ctx).WithField("worker", "sentinel")

	data, err := w.AccountSrv.GetUserAccountData(ctx, userID)
	if err != nil {
		log.WithField("user", userID).Errorln("compute account data error:", err)
		return
	}

	if data.HealthFactor.GreaterThanOrEqual(decimal.New(1, 0)) {
		return
	}

	log.WithField("user", userID).
		WithField("health_factor", data.HealthFactor).
		Infoln("unhealthy account")

	// one journal entry per user per hour, no matter how often the scan runs
	traceID := id.UUIDFromString(fmt.Sprintf("sentinel-%s-%s", userID, time.Now().Format("2006010215")))
	event := &core.Event{
		TraceID: traceID,
		UserID:  userID,
		Action:  core.EventUnhealthyAccount,
	}
	event.SetData(data)

	if err := w.EventStore.Save(ctx, w.DB, event); err != nil {
		log.WithField("user", userID).Errorln("journal unhealthy account error:", err)
	}
}
