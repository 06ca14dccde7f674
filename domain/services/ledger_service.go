package services

import (
	"context"
	"fmt"

	"swertres/domain/entities"
	"swertres/domain/events"
	"swertres/domain/interfaces"
)

// ledgerService performs the atomic deduct-balance-and-create-ticket
// operation. It runs inside the caller's unit of work; the account row lock
// serializes concurrent submissions by the same account.
type ledgerService struct {
	accountRepo        interfaces.AccountRepository
	ticketRepo         interfaces.TicketRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	accountRepo interfaces.AccountRepository,
	ticketRepo interfaces.TicketRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
) interfaces.LedgerService {
	return &ledgerService{
		accountRepo:        accountRepo,
		ticketRepo:         ticketRepo,
		balanceHistoryRepo: balanceHistoryRepo,
	}
}

// DeductAndCreateTicket locks the account, verifies the balance covers the
// total stake, debits it, creates the ticket with its wagers, and records the
// ledger entry. All-or-nothing within the surrounding transaction.
func (s *ledgerService) DeductAndCreateTicket(ctx context.Context, accountID, drawID int64, wagers []entities.WagerInput) (*interfaces.SubmitResult, error) {
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %d not found", accountID)
	}

	total := entities.SumStakes(wagers)
	if !account.CanAfford(total) {
		return nil, entities.ErrInsufficientBalance
	}

	newBalance := account.Balance.Sub(total)
	if err := s.accountRepo.UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to deduct balance: %w", err)
	}

	ticket := &entities.Ticket{
		TicketNumber: entities.NewTicketNumber(),
		AccountID:    account.ID,
		DrawID:       drawID,
		TotalStake:   total,
		Status:       entities.TicketStatusPending,
	}
	for _, w := range wagers {
		ticket.Wagers = append(ticket.Wagers, &entities.Wager{
			Combination: w.Combination,
			WagerType:   w.WagerType,
			Stake:       w.Stake,
		})
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	history := &entities.BalanceHistory{
		AccountID:       account.ID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    total.Neg(),
		TransactionType: entities.TransactionTypeTicketPurchase,
		TransactionMetadata: map[string]any{
			"draw_id":       drawID,
			"ticket_number": ticket.TicketNumber,
			"wager_count":   len(wagers),
		},
		RelatedTicketID: &ticket.ID,
	}
	if err := s.balanceHistoryRepo.Record(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	return &interfaces.SubmitResult{
		Ticket:           ticket,
		RemainingBalance: newBalance,
		Events: []events.Event{
			events.BalanceChangeEvent{
				AccountID:       account.ID,
				BalanceBefore:   account.Balance,
				BalanceAfter:    newBalance,
				ChangeAmount:    total.Neg(),
				TransactionType: entities.TransactionTypeTicketPurchase,
			},
		},
	}, nil
}
