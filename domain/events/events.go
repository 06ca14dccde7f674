package events

import (
	"time"

	"github.com/shopspring/decimal"

	"swertres/domain/entities"
)

// EventType represents the different notification events the engine emits.
type EventType string

const (
	EventTypeTicketWon     EventType = "ticket_won"
	EventTypeDrawSettled   EventType = "draw_settled"
	EventTypeBalanceChange EventType = "balance_change"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
}

// AccountEvent is implemented by events addressed to a specific account
// rather than broadcast. The publisher routes on the target.
type AccountEvent interface {
	Event
	TargetAccountID() int64
}

// WinningWagerInfo describes one winning wager on a notified ticket.
type WinningWagerInfo struct {
	Combination string
	WagerType   entities.WagerType
	Stake       decimal.Decimal
	Prize       decimal.Decimal
}

// TicketWonEvent notifies an account (the seller, or their upline) that a
// ticket won after settlement.
type TicketWonEvent struct {
	AccountID     int64 // Recipient: ticket owner or upline
	OwnerID       int64 // Ticket owner, differs from AccountID for upline copies
	TicketNumber  string
	DrawID        int64
	WinningNumber string
	WinningWagers []WinningWagerInfo
	PrizeAmount   decimal.Decimal
}

func (e TicketWonEvent) Type() EventType        { return EventTypeTicketWon }
func (e TicketWonEvent) TargetAccountID() int64 { return e.AccountID }

// DrawSettledEvent is broadcast once per settled draw.
type DrawSettledEvent struct {
	DrawID        int64
	DrawDate      time.Time
	Slot          entities.DrawSlot
	WinningNumber string
	WinnerCount   int
	TotalPayout   decimal.Decimal
}

func (e DrawSettledEvent) Type() EventType { return EventTypeDrawSettled }

// BalanceChangeEvent notifies an account of a ledger movement.
type BalanceChangeEvent struct {
	AccountID       int64
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	ChangeAmount    decimal.Decimal
	TransactionType entities.TransactionType
}

func (e BalanceChangeEvent) Type() EventType        { return EventTypeBalanceChange }
func (e BalanceChangeEvent) TargetAccountID() int64 { return e.AccountID }
