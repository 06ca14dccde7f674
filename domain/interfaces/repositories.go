package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"swertres/domain/entities"
	"swertres/domain/events"
)

// DrawRepository defines data access for draws.
// Lookups return (nil, nil) when no row matches.
type DrawRepository interface {
	// GetByID retrieves a draw by its ID
	GetByID(ctx context.Context, id int64) (*entities.Draw, error)

	// GetByIDForUpdate retrieves a draw by ID with a row lock for update
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Draw, error)

	// GetByDateSlot retrieves the draw for a (date, slot) pair
	GetByDateSlot(ctx context.Context, date time.Time, slot entities.DrawSlot) (*entities.Draw, error)

	// CreateIfAbsent inserts a draw unless one already exists for its
	// (date, slot) pair. Returns true when a row was created.
	CreateIfAbsent(ctx context.Context, draw *entities.Draw) (bool, error)

	// CloseExpired transitions every open draw whose cutoff has passed to
	// closed and returns how many rows changed.
	CloseExpired(ctx context.Context, now time.Time) (int64, error)

	// MarkSettled performs the conditional closed -> settled transition,
	// recording the winning number and settlement time. Returns false when
	// the draw was not in closed status (single-writer guard).
	MarkSettled(ctx context.Context, drawID int64, winningNumber string, settledAt time.Time) (bool, error)
}

// TicketRepository defines data access for tickets and their wagers.
type TicketRepository interface {
	// Create inserts a ticket and its wagers, populating generated IDs
	Create(ctx context.Context, ticket *entities.Ticket) error

	// GetByID retrieves a ticket with its wagers
	GetByID(ctx context.Context, id int64) (*entities.Ticket, error)

	// GetPendingByDraw returns all pending tickets for a draw with wagers loaded
	GetPendingByDraw(ctx context.Context, drawID int64) ([]*entities.Ticket, error)

	// UpdateStatus updates a ticket's status
	UpdateStatus(ctx context.Context, ticketID int64, status entities.TicketStatus) error
}

// WinningRecordRepository defines data access for winning records.
type WinningRecordRepository interface {
	// Create inserts a winning record; at most one exists per (ticket, draw)
	Create(ctx context.Context, record *entities.WinningRecord) error

	// GetByDraw returns all winning records for a draw
	GetByDraw(ctx context.Context, drawID int64) ([]*entities.WinningRecord, error)
}

// ExposureRepository defines data access for per-number exposure totals.
type ExposureRepository interface {
	// Reserve atomically adds stake to the (draw, wager type, combination)
	// total if the result stays within ceiling, marking the triple sold out
	// when it reaches the ceiling exactly. Fails with entities.ErrSoldOut or
	// entities.ErrLimitExceeded without mutating the total.
	Reserve(ctx context.Context, drawID int64, wagerType entities.WagerType, combination string, stake, ceiling decimal.Decimal) error

	// Get returns the current total for a triple, or (nil, nil) if nothing
	// has been staked on it yet
	Get(ctx context.Context, drawID int64, wagerType entities.WagerType, combination string) (*entities.ExposureTotal, error)
}

// AccountRepository defines data access for selling accounts.
type AccountRepository interface {
	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id int64) (*entities.Account, error)

	// GetByIDForUpdate retrieves an account with a row lock for update
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error)

	// Create creates a new account with the initial balance
	Create(ctx context.Context, username string, initialBalance decimal.Decimal) (*entities.Account, error)

	// UpdateBalance sets an account's balance
	UpdateBalance(ctx context.Context, accountID int64, newBalance decimal.Decimal) error
}

// BalanceHistoryRepository defines the account ledger log.
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByAccount returns recent history for an account
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error)
}

// PayoutConfigRepository defines access to the payout schedule.
type PayoutConfigRepository interface {
	// GetActive returns the active payout config, or (nil, nil) when none
	// is configured; callers fall back to the default schedule.
	GetActive(ctx context.Context) (*entities.PayoutConfig, error)
}

// EventPublisher defines the interface for publishing notification events.
// Delivery is fire-and-forget; failures must never fail the operation that
// produced the event.
type EventPublisher interface {
	Publish(event events.Event) error
}
