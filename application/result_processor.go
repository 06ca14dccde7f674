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

// ResultProcessor posts a winning number against a closed draw and settles
// its tickets. The whole operation (status transition, winner crediting,
// winning records) runs in one transaction; notifications go out only after
// the commit succeeds.
type ResultProcessor struct {
	uowFactory UnitOfWorkFactory
	publisher  interfaces.EventPublisher
	calendar   *schedule.Calendar
	now        func() time.Time
}

// NewResultProcessor creates a new result processor. now may be nil, in which
// case the wall clock is used.
func NewResultProcessor(uowFactory UnitOfWorkFactory, publisher interfaces.EventPublisher, calendar *schedule.Calendar, now func() time.Time) *ResultProcessor {
	if now == nil {
		now = time.Now
	}
	return &ResultProcessor{
		uowFactory: uowFactory,
		publisher:  publisher,
		calendar:   calendar,
		now:        now,
	}
}

// ProcessResult settles the draw with the given winning number and dispatches
// the resulting notifications.
func (p *ResultProcessor) ProcessResult(ctx context.Context, drawID int64, winningNumber string) (*interfaces.SettlementSummary, error) {
	uow := p.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settlementService := services.NewSettlementService(
		uow.TicketRepository(),
		uow.WinningRecordRepository(),
		uow.AccountRepository(),
		uow.BalanceHistoryRepository(),
		uow.PayoutConfigRepository(),
	)
	drawService := services.NewDrawService(uow.DrawRepository(), settlementService, p.calendar, p.now)

	summary, err := drawService.PostResult(ctx, drawID, winningNumber)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// The settlement is durable at this point; notification delivery
	// failures must not undo or fail it.
	dispatchEvents(p.publisher, summary.Events)

	log.WithFields(log.Fields{
		"draw_id":        summary.DrawID,
		"winning_number": summary.WinningNumber,
		"tickets":        summary.TicketsScanned,
		"winners":        summary.WinnerCount,
		"total_payout":   summary.TotalPayout,
	}).Info("Draw result processed")

	return summary, nil
}
