// Package schedule computes draw slot times, cutoffs and betting windows.
// Everything here is a pure function of a caller-supplied reference time; the
// lottery timezone is explicit and load-bearing, never the host-local zone.
package schedule

import (
	"time"

	"swertres/domain/entities"
)

const (
	// MaintenanceHorizonDays is the rolling number of future days that must
	// always have draws materialized.
	MaintenanceHorizonDays = 14

	// CutoffLead is how long before slot time betting stops.
	CutoffLead = 5 * time.Minute
)

// slotHour maps each slot to its draw hour in the lottery timezone.
var slotHour = map[entities.DrawSlot]int{
	entities.DrawSlot2PM: 14,
	entities.DrawSlot5PM: 17,
	entities.DrawSlot9PM: 21,
}

// Window is a half-open betting interval [OpensAt, ClosesAt).
// ClosesAt is the cutoff: a wager arriving at or after it is rejected.
type Window struct {
	OpensAt  time.Time
	ClosesAt time.Time
}

// Contains reports whether now falls inside the window.
func (w Window) Contains(now time.Time) bool {
	return !now.Before(w.OpensAt) && now.Before(w.ClosesAt)
}

// Calendar computes slot times for a fixed lottery timezone.
type Calendar struct {
	loc *time.Location
}

// NewCalendar creates a calendar pinned to the given timezone.
func NewCalendar(loc *time.Location) *Calendar {
	return &Calendar{loc: loc}
}

// Location returns the calendar's timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DateOf truncates a reference time to midnight of its calendar date in the
// lottery timezone.
func (c *Calendar) DateOf(now time.Time) time.Time {
	local := now.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
}

// SlotTime returns the draw time for a slot on a calendar date. The date is
// read by its own year/month/day, not re-zoned: a DATE column comes back from
// the database as midnight UTC, and shifting it into the lottery timezone
// would land on the previous day for any zone west of UTC.
func (c *Calendar) SlotTime(slot entities.DrawSlot, date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, slotHour[slot], 0, 0, 0, c.loc)
}

// CutoffAt returns the betting cutoff for a slot on a calendar date,
// exactly CutoffLead before slot time.
func (c *Calendar) CutoffAt(slot entities.DrawSlot, date time.Time) time.Time {
	return c.SlotTime(slot, date).Add(-CutoffLead)
}

// BettingWindow returns the window during which wagers are accepted for a
// slot on a date. The 2pm window opens the previous evening after the 9pm
// draw and spans midnight; the 5pm and 9pm windows open at the preceding
// slot's draw time. The three windows never overlap, so at most one slot is
// open at any instant.
func (c *Calendar) BettingWindow(slot entities.DrawSlot, date time.Time) Window {
	var opensAt time.Time
	switch slot {
	case entities.DrawSlot2PM:
		opensAt = c.SlotTime(entities.DrawSlot9PM, date.AddDate(0, 0, -1))
	case entities.DrawSlot5PM:
		opensAt = c.SlotTime(entities.DrawSlot2PM, date)
	case entities.DrawSlot9PM:
		opensAt = c.SlotTime(entities.DrawSlot5PM, date)
	}
	return Window{OpensAt: opensAt, ClosesAt: c.CutoffAt(slot, date)}
}

// IsOpenForBetting reports whether wagers for a slot on a date are accepted
// at the reference time.
func (c *Calendar) IsOpenForBetting(slot entities.DrawSlot, date time.Time, now time.Time) bool {
	return c.BettingWindow(slot, date).Contains(now.In(c.loc))
}

// OpenSlot returns the slot and calendar date whose betting window contains
// now, if any. Windows are disjoint so at most one slot matches.
func (c *Calendar) OpenSlot(now time.Time) (entities.DrawSlot, time.Time, bool) {
	local := now.In(c.loc)
	today := c.DateOf(local)
	for _, slot := range entities.AllDrawSlots() {
		if c.IsOpenForBetting(slot, today, local) {
			return slot, today, true
		}
	}
	// The 2pm window of the next day opens at 21:00 tonight.
	tomorrow := today.AddDate(0, 0, 1)
	if c.IsOpenForBetting(entities.DrawSlot2PM, tomorrow, local) {
		return entities.DrawSlot2PM, tomorrow, true
	}
	return "", time.Time{}, false
}
