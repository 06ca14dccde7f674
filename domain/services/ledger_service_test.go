package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swertres/domain/entities"
	"swertres/domain/events"
	"swertres/domain/testhelpers"
)

func TestLedgerService_DeductAndCreateTicket(t *testing.T) {
	t.Parallel()

	t.Run("deducts balance and creates the ticket", func(t *testing.T) {
		t.Parallel()

		accountRepo := new(testhelpers.MockAccountRepository)
		ticketRepo := new(testhelpers.MockTicketRepository)
		historyRepo := new(testhelpers.MockBalanceHistoryRepository)
		service := NewLedgerService(accountRepo, ticketRepo, historyRepo)

		account := &entities.Account{ID: 10, Username: "agent1", Balance: decimal.NewFromInt(100)}
		wagers := []entities.WagerInput{
			{Combination: "123", WagerType: entities.WagerTypeStraight, Stake: decimal.NewFromInt(10)},
			{Combination: "456", WagerType: entities.WagerTypeRambol, Stake: decimal.NewFromInt(5)},
		}

		accountRepo.On("GetByIDForUpdate", mock.Anything, int64(10)).Return(account, nil)
		accountRepo.On("UpdateBalance", mock.Anything, int64(10), mock.MatchedBy(func(b decimal.Decimal) bool {
			return b.Equal(decimal.NewFromInt(85))
		})).Return(nil)
		ticketRepo.On("Create", mock.Anything, mock.MatchedBy(func(ticket *entities.Ticket) bool {
			return ticket.AccountID == 10 &&
				ticket.DrawID == 7 &&
				ticket.Status == entities.TicketStatusPending &&
				ticket.TotalStake.Equal(decimal.NewFromInt(15)) &&
				len(ticket.Wagers) == 2 &&
				ticket.TicketNumber != ""
		})).Return(nil)
		historyRepo.On("Record", mock.Anything, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
			return h.AccountID == 10 &&
				h.TransactionType == entities.TransactionTypeTicketPurchase &&
				h.ChangeAmount.Equal(decimal.NewFromInt(-15)) &&
				h.BalanceAfter.Equal(decimal.NewFromInt(85))
		})).Return(nil)

		result, err := service.DeductAndCreateTicket(context.Background(), 10, 7, wagers)

		require.NoError(t, err)
		assert.True(t, result.RemainingBalance.Equal(decimal.NewFromInt(85)))
		require.Len(t, result.Events, 1)
		change, ok := result.Events[0].(events.BalanceChangeEvent)
		require.True(t, ok)
		assert.Equal(t, int64(10), change.AccountID)
		assert.True(t, change.ChangeAmount.Equal(decimal.NewFromInt(-15)))

		accountRepo.AssertExpectations(t)
		ticketRepo.AssertExpectations(t)
		historyRepo.AssertExpectations(t)
	})

	t.Run("insufficient balance leaves no trace", func(t *testing.T) {
		t.Parallel()

		accountRepo := new(testhelpers.MockAccountRepository)
		ticketRepo := new(testhelpers.MockTicketRepository)
		historyRepo := new(testhelpers.MockBalanceHistoryRepository)
		service := NewLedgerService(accountRepo, ticketRepo, historyRepo)

		account := &entities.Account{ID: 10, Balance: decimal.NewFromInt(5)}
		accountRepo.On("GetByIDForUpdate", mock.Anything, int64(10)).Return(account, nil)

		_, err := service.DeductAndCreateTicket(context.Background(), 10, 7,
			singleWager("123", entities.WagerTypeStraight, 10))

		assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
		accountRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
		ticketRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("balance exactly covering the stake is accepted", func(t *testing.T) {
		t.Parallel()

		accountRepo := new(testhelpers.MockAccountRepository)
		ticketRepo := new(testhelpers.MockTicketRepository)
		historyRepo := new(testhelpers.MockBalanceHistoryRepository)
		service := NewLedgerService(accountRepo, ticketRepo, historyRepo)

		account := &entities.Account{ID: 10, Balance: decimal.NewFromInt(10)}
		accountRepo.On("GetByIDForUpdate", mock.Anything, int64(10)).Return(account, nil)
		accountRepo.On("UpdateBalance", mock.Anything, int64(10), mock.MatchedBy(func(b decimal.Decimal) bool {
			return b.IsZero()
		})).Return(nil)
		ticketRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		historyRepo.On("Record", mock.Anything, mock.Anything).Return(nil)

		result, err := service.DeductAndCreateTicket(context.Background(), 10, 7,
			singleWager("123", entities.WagerTypeStraight, 10))

		require.NoError(t, err)
		assert.True(t, result.RemainingBalance.IsZero())
	})

	t.Run("unknown account", func(t *testing.T) {
		t.Parallel()

		accountRepo := new(testhelpers.MockAccountRepository)
		ticketRepo := new(testhelpers.MockTicketRepository)
		historyRepo := new(testhelpers.MockBalanceHistoryRepository)
		service := NewLedgerService(accountRepo, ticketRepo, historyRepo)

		accountRepo.On("GetByIDForUpdate", mock.Anything, int64(404)).Return(nil, nil)

		_, err := service.DeductAndCreateTicket(context.Background(), 404, 7,
			singleWager("123", entities.WagerTypeStraight, 10))

		assert.Error(t, err)
	})
}
