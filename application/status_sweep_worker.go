package application

import (
	"context"
	"fmt"
	"time"

	"swertres/domain/schedule"
	"swertres/domain/services"

	log "github.com/sirupsen/logrus"
)

// sweepInterval bounds how long a draw can stay open past its cutoff.
const sweepInterval = 60 * time.Second

// StatusSweepWorker closes open draws whose cutoff has passed.
type StatusSweepWorker struct {
	uowFactory UnitOfWorkFactory
	calendar   *schedule.Calendar
	now        func() time.Time
}

// NewStatusSweepWorker creates a new status sweep worker. now may be nil, in
// which case the wall clock is used.
func NewStatusSweepWorker(uowFactory UnitOfWorkFactory, calendar *schedule.Calendar, now func() time.Time) *StatusSweepWorker {
	if now == nil {
		now = time.Now
	}
	return &StatusSweepWorker{
		uowFactory: uowFactory,
		calendar:   calendar,
		now:        now,
	}
}

// Start begins the status sweep worker. The first sweep runs immediately so a
// restart never leaves expired draws open for a full interval.
func (w *StatusSweepWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("Status sweep worker started")

		for {
			if err := w.sweepOnce(ctx); err != nil {
				log.Errorf("Error during status sweep: %v", err)
			}

			select {
			case <-ctx.Done():
				log.Info("Status sweep worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Status sweep worker shutting down (stop requested)...")
				return
			case <-time.After(sweepInterval):
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// sweepOnce closes all expired draws in a single transaction.
func (w *StatusSweepWorker) sweepOnce(ctx context.Context) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	drawService := services.NewDrawService(uow.DrawRepository(), nil, w.calendar, w.now)

	closed, err := drawService.SweepStatuses(ctx, w.now())
	if err != nil {
		return fmt.Errorf("failed to sweep draw statuses: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if closed > 0 {
		log.WithField("closed", closed).Info("Closed expired draws")
	}

	return nil
}
