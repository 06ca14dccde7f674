package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a selling account that owns tickets. UplineID points at the
// coordinator above the seller; uplines receive a copy of win notifications.
// The full hierarchy model lives outside this engine.
type Account struct {
	ID        int64           `db:"id"`
	Username  string          `db:"username"`
	Balance   decimal.Decimal `db:"balance"`
	UplineID  *int64          `db:"upline_id"`
	CreatedAt time.Time       `db:"created_at"`
}

// HasUpline returns true if the account has a coordinator above it.
func (a *Account) HasUpline() bool {
	return a.UplineID != nil
}

// CanAfford returns true if the balance covers the given amount.
func (a *Account) CanAfford(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
