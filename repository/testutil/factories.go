package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"swertres/domain/entities"
)

// CreateTestDraw creates an open draw for a (date, slot) pair with the cutoff
// five minutes before the slot time.
func CreateTestDraw(date time.Time, slot entities.DrawSlot) *entities.Draw {
	slotHours := map[entities.DrawSlot]int{
		entities.DrawSlot2PM: 14,
		entities.DrawSlot5PM: 17,
		entities.DrawSlot9PM: 21,
	}
	slotTime := time.Date(date.Year(), date.Month(), date.Day(), slotHours[slot], 0, 0, 0, date.Location())
	return &entities.Draw{
		DrawDate: date,
		Slot:     slot,
		CutoffAt: slotTime.Add(-5 * time.Minute),
		Status:   entities.DrawStatusOpen,
	}
}

// CreateTestTicket creates a pending ticket with a single straight wager.
func CreateTestTicket(accountID, drawID int64, combination string, stake int64) *entities.Ticket {
	amount := decimal.NewFromInt(stake)
	return &entities.Ticket{
		TicketNumber: entities.NewTicketNumber(),
		AccountID:    accountID,
		DrawID:       drawID,
		TotalStake:   amount,
		Status:       entities.TicketStatusPending,
		Wagers: []*entities.Wager{
			{Combination: combination, WagerType: entities.WagerTypeStraight, Stake: amount},
		},
	}
}

// CreateTestBalanceHistory creates a balance history entry with round amounts.
func CreateTestBalanceHistory(accountID int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   decimal.NewFromInt(1000),
		BalanceAfter:    decimal.NewFromInt(990),
		ChangeAmount:    decimal.NewFromInt(-10),
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}
