package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketStatus represents a ticket's settlement state.
type TicketStatus string

const (
	// TicketStatusPending means the draw has not been settled, or the ticket did not win.
	TicketStatusPending TicketStatus = "pending"

	// TicketStatusValidated means at least one wager on the ticket won after settlement.
	TicketStatusValidated TicketStatus = "validated"

	// TicketStatusCancelled means the ticket was explicitly refunded.
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Ticket is a purchase event: one or more wagers against one draw by one account.
// TotalStake equals the sum of the wager stakes at creation and never changes.
type Ticket struct {
	ID           int64           `db:"id"`
	TicketNumber string          `db:"ticket_number"` // Externally visible, unique
	AccountID    int64           `db:"account_id"`
	DrawID       int64           `db:"draw_id"`
	TotalStake   decimal.Decimal `db:"total_stake"`
	Status       TicketStatus    `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`

	// Wagers is populated by queries that join the wager rows.
	Wagers []*Wager `db:"-"`
}

// IsPending returns true if the ticket has not been validated or cancelled.
func (t *Ticket) IsPending() bool {
	return t.Status == TicketStatusPending
}

// WinningWagers returns the wagers on this ticket that match the posted result.
func (t *Ticket) WinningWagers(result string) []*Wager {
	var winners []*Wager
	for _, w := range t.Wagers {
		if w.IsWinner(result) {
			winners = append(winners, w)
		}
	}
	return winners
}

// NewTicketNumber generates an externally visible ticket number.
// Uppercased uuid-derived, short enough to read over the phone.
func NewTicketNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:12])
}

// SumStakes returns the total stake across a set of proposed wagers.
func SumStakes(wagers []WagerInput) decimal.Decimal {
	total := decimal.Zero
	for _, w := range wagers {
		total = total.Add(w.Stake)
	}
	return total
}
