package entities

import (
	"time"
)

// DrawSlot identifies one of the three fixed daily draw times.
type DrawSlot string

const (
	DrawSlot2PM DrawSlot = "2pm"
	DrawSlot5PM DrawSlot = "5pm"
	DrawSlot9PM DrawSlot = "9pm"
)

// AllDrawSlots returns the slots in chronological order.
func AllDrawSlots() []DrawSlot {
	return []DrawSlot{DrawSlot2PM, DrawSlot5PM, DrawSlot9PM}
}

// IsValid returns true if the slot is one of the three known slots.
func (s DrawSlot) IsValid() bool {
	switch s {
	case DrawSlot2PM, DrawSlot5PM, DrawSlot9PM:
		return true
	}
	return false
}

// DrawStatus represents a draw's position in its lifecycle.
// Status only moves forward: open -> closed -> settled.
type DrawStatus string

const (
	DrawStatusOpen    DrawStatus = "open"
	DrawStatusClosed  DrawStatus = "closed"
	DrawStatusSettled DrawStatus = "settled"
)

// Draw represents a single betting event for one (date, slot) pair.
// Exactly one draw exists per pair; the maintenance sweep keeps a rolling
// window of future draws materialized.
type Draw struct {
	ID            int64      `db:"id"`
	DrawDate      time.Time  `db:"draw_date"` // Calendar date in the lottery timezone, midnight
	Slot          DrawSlot   `db:"slot"`
	CutoffAt      time.Time  `db:"cutoff_at"` // Last instant bets are accepted
	Status        DrawStatus `db:"status"`
	WinningNumber *string    `db:"winning_number"` // NULL until settled, immutable afterward
	SettledAt     *time.Time `db:"settled_at"`     // NULL until settled
	CreatedAt     time.Time  `db:"created_at"`
}

// IsOpen returns true if the draw is still accepting tickets (status only;
// callers must additionally check the betting window against the clock).
func (d *Draw) IsOpen() bool {
	return d.Status == DrawStatusOpen
}

// IsClosed returns true if the draw is past cutoff but not yet settled.
func (d *Draw) IsClosed() bool {
	return d.Status == DrawStatusClosed
}

// IsSettled returns true if a result has been posted for the draw.
func (d *Draw) IsSettled() bool {
	return d.Status == DrawStatusSettled
}

// Close transitions the draw from open to closed.
func (d *Draw) Close() error {
	if d.Status != DrawStatusOpen {
		return ErrInvalidDrawState
	}
	d.Status = DrawStatusClosed
	return nil
}

// Settle transitions the draw from closed to settled, recording the winning
// number and the settlement time. A result cannot be posted to an open draw
// (bets may still be in flight) or re-posted to a settled one.
func (d *Draw) Settle(winningNumber string, at time.Time) error {
	if !combinationPattern.MatchString(winningNumber) {
		return ErrMalformedCombination
	}
	if d.Status != DrawStatusClosed {
		return ErrInvalidDrawState
	}
	d.Status = DrawStatusSettled
	d.WinningNumber = &winningNumber
	d.SettledAt = &at
	return nil
}
