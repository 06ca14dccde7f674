package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of balance change.
type TransactionType string

const (
	TransactionTypeTicketPurchase TransactionType = "ticket_purchase"
	TransactionTypeTicketWin      TransactionType = "ticket_win"
	TransactionTypeTicketRefund   TransactionType = "ticket_refund"
	TransactionTypeInitial        TransactionType = "initial"
)

// IsCredit returns true for transaction types that add to the balance.
func (t TransactionType) IsCredit() bool {
	return t == TransactionTypeTicketWin || t == TransactionTypeTicketRefund || t == TransactionTypeInitial
}

// BalanceHistory is one row of the account ledger log: every deduction and
// credit the engine performs records before/after amounts and the reason.
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	AccountID           int64           `db:"account_id"`
	BalanceBefore       decimal.Decimal `db:"balance_before"`
	BalanceAfter        decimal.Decimal `db:"balance_after"`
	ChangeAmount        decimal.Decimal `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	RelatedTicketID     *int64          `db:"related_ticket_id"`
	CreatedAt           time.Time       `db:"created_at"`
}

// Validate performs basic consistency checks on the entry.
func (bh *BalanceHistory) Validate() error {
	if bh.ChangeAmount.IsZero() {
		return errors.New("change amount cannot be zero")
	}
	if !bh.BalanceAfter.Equal(bh.BalanceBefore.Add(bh.ChangeAmount)) {
		return errors.New("balance calculation is inconsistent")
	}
	return nil
}
