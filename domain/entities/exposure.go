package entities

import (
	"github.com/shopspring/decimal"
)

// ExposureTotal is the running staked amount for one (draw, wager type,
// combination) triple. The cumulative amount only increases while the draw is
// open; a reservation that would push it past the ceiling is rejected before
// being applied.
type ExposureTotal struct {
	DrawID      int64           `db:"draw_id"`
	WagerType   WagerType       `db:"wager_type"`
	Combination string          `db:"combination"`
	Cumulative  decimal.Decimal `db:"cumulative"`
	SoldOut     bool            `db:"sold_out"`
}

// Remaining returns how much more stake the triple can absorb under ceiling.
func (e *ExposureTotal) Remaining(ceiling decimal.Decimal) decimal.Decimal {
	remaining := ceiling.Sub(e.Cumulative)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
