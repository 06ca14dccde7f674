package application

import (
	"context"
	"fmt"
	"time"

	"swertres/domain/interfaces"
	"swertres/domain/schedule"
	"swertres/domain/services"

	log "github.com/sirupsen/logrus"
)

// maintenanceInterval is how often the maintenance pass re-runs after the
// initial pass at startup.
const maintenanceInterval = 24 * time.Hour

// DrawMaintenanceWorker keeps the draw horizon populated: every (date, slot)
// pair from today through the horizon gets a draw row.
type DrawMaintenanceWorker struct {
	uowFactory  UnitOfWorkFactory
	calendar    *schedule.Calendar
	horizonDays int
	now         func() time.Time
}

// NewDrawMaintenanceWorker creates a new draw maintenance worker. now may be
// nil, in which case the wall clock is used.
func NewDrawMaintenanceWorker(uowFactory UnitOfWorkFactory, calendar *schedule.Calendar, horizonDays int, now func() time.Time) *DrawMaintenanceWorker {
	if now == nil {
		now = time.Now
	}
	return &DrawMaintenanceWorker{
		uowFactory:  uowFactory,
		calendar:    calendar,
		horizonDays: horizonDays,
		now:         now,
	}
}

// Start begins the draw maintenance worker. The first pass runs immediately.
func (w *DrawMaintenanceWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("Draw maintenance worker started")

		for {
			summary, err := w.RunOnce(ctx)
			if err != nil {
				log.Errorf("Error during draw maintenance: %v", err)
			} else {
				log.WithFields(log.Fields{
					"created":      summary.Created,
					"skipped":      summary.Skipped,
					"horizon_days": w.horizonDays,
				}).Info("Draw maintenance pass completed")
			}

			select {
			case <-ctx.Done():
				log.Info("Draw maintenance worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Draw maintenance worker shutting down (stop requested)...")
				return
			case <-time.After(maintenanceInterval):
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// RunOnce executes a single maintenance pass. Each day of the horizon runs in
// its own transaction: a statement failure aborts the surrounding Postgres
// transaction, so sharing one across the horizon would roll back every draw
// created before the failure and poison the inserts after it. A failed day is
// logged and the pass continues with the remaining days.
func (w *DrawMaintenanceWorker) RunOnce(ctx context.Context) (*interfaces.EnsureDrawsSummary, error) {
	start := w.calendar.DateOf(w.now())
	summary := &interfaces.EnsureDrawsSummary{}

	var firstErr error
	for day := 0; day < w.horizonDays; day++ {
		date := start.AddDate(0, 0, day)
		daySummary, err := w.ensureDay(ctx, date)
		if err != nil {
			log.WithField("date", date.Format("2006-01-02")).WithError(err).Error("Draw maintenance failed for day")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		summary.Created += daySummary.Created
		summary.Skipped += daySummary.Skipped
	}

	if summary.Created == 0 && summary.Skipped == 0 && firstErr != nil {
		return nil, firstErr
	}
	return summary, nil
}

// ensureDay materializes one day's draws in its own transaction.
func (w *DrawMaintenanceWorker) ensureDay(ctx context.Context, date time.Time) (*interfaces.EnsureDrawsSummary, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	drawService := services.NewDrawService(uow.DrawRepository(), nil, w.calendar, w.now)
	daySummary, err := drawService.EnsureDrawsExist(ctx, date, 1)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return daySummary, nil
}
