package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// WinningRecord is one payout record per winning ticket for a settled draw.
// Created at most once per (ticket, draw); the prize amount is the sum of the
// winning wagers' individual prizes and is always strictly positive.
type WinningRecord struct {
	ID          int64           `db:"id"`
	TicketID    int64           `db:"ticket_id"`
	DrawID      int64           `db:"draw_id"`
	PrizeAmount decimal.Decimal `db:"prize_amount"`
	CreatedAt   time.Time       `db:"created_at"`
}
