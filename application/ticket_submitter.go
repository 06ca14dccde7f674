package application

import (
	"context"
	"fmt"
	"time"

	"swertres/domain/entities"
	"swertres/domain/interfaces"
	"swertres/domain/schedule"
	"swertres/domain/services"

	log "github.com/sirupsen/logrus"
)

// TicketSubmitter accepts ticket submissions. Validation, exposure
// reservation, balance deduction and ticket creation happen in one
// transaction; a failure at any step leaves no trace.
type TicketSubmitter struct {
	uowFactory UnitOfWorkFactory
	publisher  interfaces.EventPublisher
	calendar   *schedule.Calendar
	limits     services.IntakeLimits
	now        func() time.Time
}

// NewTicketSubmitter creates a new ticket submitter. now may be nil, in which
// case the wall clock is used.
func NewTicketSubmitter(uowFactory UnitOfWorkFactory, publisher interfaces.EventPublisher, calendar *schedule.Calendar, limits services.IntakeLimits, now func() time.Time) *TicketSubmitter {
	if now == nil {
		now = time.Now
	}
	return &TicketSubmitter{
		uowFactory: uowFactory,
		publisher:  publisher,
		calendar:   calendar,
		limits:     limits,
		now:        now,
	}
}

// Submit validates and accepts a multi-wager ticket for the given draw.
func (t *TicketSubmitter) Submit(ctx context.Context, drawID, accountID int64, wagers []entities.WagerInput) (*interfaces.SubmitResult, error) {
	uow := t.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ledgerService := services.NewLedgerService(
		uow.AccountRepository(),
		uow.TicketRepository(),
		uow.BalanceHistoryRepository(),
	)
	intakeService := services.NewIntakeService(
		uow.DrawRepository(),
		uow.ExposureRepository(),
		ledgerService,
		t.calendar,
		t.limits,
		t.now,
	)

	result, err := intakeService.Submit(ctx, drawID, accountID, wagers)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	dispatchEvents(t.publisher, result.Events)

	log.WithFields(log.Fields{
		"ticket_number": result.Ticket.TicketNumber,
		"account_id":    accountID,
		"draw_id":       drawID,
		"wager_count":   len(wagers),
		"total_stake":   result.Ticket.TotalStake,
	}).Info("Ticket accepted")

	return result, nil
}
