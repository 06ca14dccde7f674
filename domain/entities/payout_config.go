package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutConfig holds the per-wager-type prize multipliers. The active row is
// loaded once per settlement; when no active row exists the hard-coded default
// schedule applies. Multipliers are decimal to keep prize arithmetic exact.
type PayoutConfig struct {
	ID                     int64           `db:"id"`
	StraightMultiplier     decimal.Decimal `db:"straight_multiplier"`
	RambolMultiplier       decimal.Decimal `db:"rambol_multiplier"`        // 3 distinct digits
	RambolDoubleMultiplier decimal.Decimal `db:"rambol_double_multiplier"` // exactly 2 distinct digits
	Active                 bool            `db:"active"`
	CreatedAt              time.Time       `db:"created_at"`
}

// DefaultPayoutConfig returns the standard schedule: 450x straight,
// 75x rambol, 150x rambol double.
func DefaultPayoutConfig() *PayoutConfig {
	return &PayoutConfig{
		StraightMultiplier:     decimal.NewFromInt(450),
		RambolMultiplier:       decimal.NewFromInt(75),
		RambolDoubleMultiplier: decimal.NewFromInt(150),
		Active:                 true,
	}
}

// Prize computes the payout for a winning wager. A rambol triple should never
// reach this point because validation rejects it; it pays zero if it does.
func (c *PayoutConfig) Prize(wagerType WagerType, combination string, stake decimal.Decimal) decimal.Decimal {
	switch wagerType {
	case WagerTypeStraight:
		return stake.Mul(c.StraightMultiplier)
	case WagerTypeRambol:
		switch DistinctDigits(combination) {
		case 3:
			return stake.Mul(c.RambolMultiplier)
		case 2:
			return stake.Mul(c.RambolDoubleMultiplier)
		}
	}
	return decimal.Zero
}
