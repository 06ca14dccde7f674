package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"swertres/domain/entities"
	"swertres/domain/events"
)

// EnsureDrawsSummary reports the outcome of a draw maintenance sweep.
type EnsureDrawsSummary struct {
	Created int
	Skipped int
}

// SettlementSummary reports the outcome of settling one draw.
// Events carries the notifications produced during settlement; the caller
// dispatches them after the settlement transaction commits.
type SettlementSummary struct {
	DrawID         int64
	WinningNumber  string
	TicketsScanned int
	WinnerCount    int
	TotalPayout    decimal.Decimal
	Events         []events.Event
}

// SubmitResult is returned on a successful ticket submission.
type SubmitResult struct {
	Ticket           *entities.Ticket
	RemainingBalance decimal.Decimal
	Events           []events.Event
}

// DrawService owns the draw lifecycle: creation of future draws, the
// open -> closed status sweep, and result posting.
type DrawService interface {
	// EnsureDrawsExist materializes a draw for every (date, slot) pair in
	// the horizon starting at from. Idempotent.
	EnsureDrawsExist(ctx context.Context, from time.Time, horizonDays int) (*EnsureDrawsSummary, error)

	// SweepStatuses closes every open draw whose cutoff has passed.
	SweepStatuses(ctx context.Context, now time.Time) (int64, error)

	// PostResult transitions a closed draw to settled with the given winning
	// number and settles all of its tickets.
	PostResult(ctx context.Context, drawID int64, winningNumber string) (*SettlementSummary, error)
}

// SettlementService scores a settled draw's tickets against the posted result.
type SettlementService interface {
	// Settle scans the draw's pending tickets, credits winners, writes
	// winning records and returns the summary with pending events.
	Settle(ctx context.Context, draw *entities.Draw, winningNumber string) (*SettlementSummary, error)

	// WinnersForDraw re-reads the winners of an already settled draw without
	// side effects.
	WinnersForDraw(ctx context.Context, drawID int64) ([]*entities.WinningRecord, error)
}

// IntakeService validates and accepts ticket submissions.
type IntakeService interface {
	// Submit validates a proposed multi-wager ticket and, when every check
	// passes, deducts the total stake and creates the ticket atomically.
	Submit(ctx context.Context, drawID, accountID int64, wagers []entities.WagerInput) (*SubmitResult, error)
}

// LedgerService performs the atomic deduct-balance-and-create-ticket
// operation within the caller's unit of work.
type LedgerService interface {
	DeductAndCreateTicket(ctx context.Context, accountID, drawID int64, wagers []entities.WagerInput) (*SubmitResult, error)
}
