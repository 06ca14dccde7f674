package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"swertres/domain/entities"
	"swertres/domain/events"
	"swertres/domain/interfaces"
)

// settlementService scores a draw's tickets against the posted result,
// credits winners and records one winning record per winning ticket.
// Notification events are collected on the summary and dispatched by the
// caller after the surrounding transaction commits, so delivery failures can
// never roll back settlement.
type settlementService struct {
	ticketRepo         interfaces.TicketRepository
	winningRecordRepo  interfaces.WinningRecordRepository
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	payoutConfigRepo   interfaces.PayoutConfigRepository
}

// NewSettlementService creates a new settlement service.
func NewSettlementService(
	ticketRepo interfaces.TicketRepository,
	winningRecordRepo interfaces.WinningRecordRepository,
	accountRepo interfaces.AccountRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	payoutConfigRepo interfaces.PayoutConfigRepository,
) interfaces.SettlementService {
	return &settlementService{
		ticketRepo:         ticketRepo,
		winningRecordRepo:  winningRecordRepo,
		accountRepo:        accountRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		payoutConfigRepo:   payoutConfigRepo,
	}
}

// Settle scans every pending ticket on the draw. A ticket with at least one
// winning wager gets the sum of its winning wagers' prizes credited to its
// account, one winning record, and status validated. Losing tickets are left
// pending.
func (s *settlementService) Settle(ctx context.Context, draw *entities.Draw, winningNumber string) (*interfaces.SettlementSummary, error) {
	payoutCfg, err := s.loadPayoutConfig(ctx)
	if err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.GetPendingByDraw(ctx, draw.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for draw %d: %w", draw.ID, err)
	}

	summary := &interfaces.SettlementSummary{
		DrawID:         draw.ID,
		WinningNumber:  winningNumber,
		TicketsScanned: len(tickets),
		TotalPayout:    decimal.Zero,
	}

	for _, ticket := range tickets {
		winningWagers := ticket.WinningWagers(winningNumber)
		if len(winningWagers) == 0 {
			continue
		}

		prize := decimal.Zero
		wagerInfos := make([]events.WinningWagerInfo, 0, len(winningWagers))
		for _, w := range winningWagers {
			wagerPrize := payoutCfg.Prize(w.WagerType, w.Combination, w.Stake)
			prize = prize.Add(wagerPrize)
			wagerInfos = append(wagerInfos, events.WinningWagerInfo{
				Combination: w.Combination,
				WagerType:   w.WagerType,
				Stake:       w.Stake,
				Prize:       wagerPrize,
			})
		}

		account, err := s.creditWinner(ctx, ticket, prize, winningNumber)
		if err != nil {
			return nil, err
		}

		if err := s.winningRecordRepo.Create(ctx, &entities.WinningRecord{
			TicketID:    ticket.ID,
			DrawID:      draw.ID,
			PrizeAmount: prize,
		}); err != nil {
			return nil, fmt.Errorf("failed to create winning record for ticket %d: %w", ticket.ID, err)
		}

		if err := s.ticketRepo.UpdateStatus(ctx, ticket.ID, entities.TicketStatusValidated); err != nil {
			return nil, fmt.Errorf("failed to validate ticket %d: %w", ticket.ID, err)
		}

		wonEvent := events.TicketWonEvent{
			AccountID:     ticket.AccountID,
			OwnerID:       ticket.AccountID,
			TicketNumber:  ticket.TicketNumber,
			DrawID:        draw.ID,
			WinningNumber: winningNumber,
			WinningWagers: wagerInfos,
			PrizeAmount:   prize,
		}
		summary.Events = append(summary.Events, wonEvent)
		if account != nil && account.HasUpline() {
			uplineEvent := wonEvent
			uplineEvent.AccountID = *account.UplineID
			summary.Events = append(summary.Events, uplineEvent)
		}

		summary.WinnerCount++
		summary.TotalPayout = summary.TotalPayout.Add(prize)
	}

	summary.Events = append(summary.Events, events.DrawSettledEvent{
		DrawID:        draw.ID,
		DrawDate:      draw.DrawDate,
		Slot:          draw.Slot,
		WinningNumber: winningNumber,
		WinnerCount:   summary.WinnerCount,
		TotalPayout:   summary.TotalPayout,
	})

	return summary, nil
}

// WinnersForDraw re-reads the winners of an already settled draw. Read-only;
// safe to call any number of times.
func (s *settlementService) WinnersForDraw(ctx context.Context, drawID int64) ([]*entities.WinningRecord, error) {
	records, err := s.winningRecordRepo.GetByDraw(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winning records for draw %d: %w", drawID, err)
	}
	return records, nil
}

// creditWinner adds the prize to the ticket owner's balance and records the
// ledger entry. Returns the account so the caller can address upline copies.
func (s *settlementService) creditWinner(ctx context.Context, ticket *entities.Ticket, prize decimal.Decimal, winningNumber string) (*entities.Account, error) {
	account, err := s.accountRepo.GetByIDForUpdate(ctx, ticket.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", ticket.AccountID, err)
	}
	if account == nil {
		// Ticket rows reference accounts by foreign key, so this only
		// happens on data corruption. Skip the credit but keep settling.
		log.WithFields(log.Fields{
			"ticket_id":  ticket.ID,
			"account_id": ticket.AccountID,
		}).Error("winning ticket references missing account")
		return nil, nil
	}

	newBalance := account.Balance.Add(prize)
	if err := s.accountRepo.UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to credit account %d: %w", account.ID, err)
	}

	history := &entities.BalanceHistory{
		AccountID:       account.ID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    prize,
		TransactionType: entities.TransactionTypeTicketWin,
		TransactionMetadata: map[string]any{
			"draw_id":        ticket.DrawID,
			"ticket_number":  ticket.TicketNumber,
			"winning_number": winningNumber,
		},
		RelatedTicketID: &ticket.ID,
	}
	if err := s.balanceHistoryRepo.Record(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to record winner balance change: %w", err)
	}

	account.Balance = newBalance
	return account, nil
}

// loadPayoutConfig returns the active payout schedule, falling back to the
// documented default when none is configured.
func (s *settlementService) loadPayoutConfig(ctx context.Context) (*entities.PayoutConfig, error) {
	cfg, err := s.payoutConfigRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payout config: %w", err)
	}
	if cfg == nil {
		return entities.DefaultPayoutConfig(), nil
	}
	return cfg, nil
}
