package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swertres/domain/entities"
	"swertres/domain/events"
	"swertres/domain/testhelpers"
)

// setupSettlementMocks creates all the mock repositories needed for
// settlement service tests.
func setupSettlementMocks() (
	*testhelpers.MockTicketRepository,
	*testhelpers.MockWinningRecordRepository,
	*testhelpers.MockAccountRepository,
	*testhelpers.MockBalanceHistoryRepository,
	*testhelpers.MockPayoutConfigRepository,
) {
	return new(testhelpers.MockTicketRepository),
		new(testhelpers.MockWinningRecordRepository),
		new(testhelpers.MockAccountRepository),
		new(testhelpers.MockBalanceHistoryRepository),
		new(testhelpers.MockPayoutConfigRepository)
}

func settledTestDraw(id int64) *entities.Draw {
	number := "123"
	settledAt := time.Date(2024, 3, 15, 17, 2, 0, 0, time.UTC)
	return &entities.Draw{
		ID:            id,
		DrawDate:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Slot:          entities.DrawSlot5PM,
		Status:        entities.DrawStatusSettled,
		WinningNumber: &number,
		SettledAt:     &settledAt,
	}
}

func TestSettlementService_Settle_NoTickets(t *testing.T) {
	t.Parallel()

	ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo := setupSettlementMocks()
	service := NewSettlementService(ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo)

	payoutRepo.On("GetActive", mock.Anything).Return(nil, nil)
	ticketRepo.On("GetPendingByDraw", mock.Anything, int64(7)).Return([]*entities.Ticket{}, nil)

	summary, err := service.Settle(context.Background(), settledTestDraw(7), "123")

	require.NoError(t, err)
	assert.Equal(t, 0, summary.TicketsScanned)
	assert.Equal(t, 0, summary.WinnerCount)
	assert.True(t, summary.TotalPayout.IsZero())

	// Even a winnerless draw announces its settlement.
	require.Len(t, summary.Events, 1)
	settled, ok := summary.Events[0].(events.DrawSettledEvent)
	require.True(t, ok)
	assert.Equal(t, int64(7), settled.DrawID)
	assert.Equal(t, "123", settled.WinningNumber)
}

func TestSettlementService_Settle_LosingTicketStaysPending(t *testing.T) {
	t.Parallel()

	ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo := setupSettlementMocks()
	service := NewSettlementService(ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo)

	loser := &entities.Ticket{
		ID:        1,
		AccountID: 10,
		DrawID:    7,
		Wagers: []*entities.Wager{
			{Combination: "456", WagerType: entities.WagerTypeStraight, Stake: decimal.NewFromInt(10)},
		},
	}

	payoutRepo.On("GetActive", mock.Anything).Return(nil, nil)
	ticketRepo.On("GetPendingByDraw", mock.Anything, int64(7)).Return([]*entities.Ticket{loser}, nil)

	summary, err := service.Settle(context.Background(), settledTestDraw(7), "123")

	require.NoError(t, err)
	assert.Equal(t, 1, summary.TicketsScanned)
	assert.Equal(t, 0, summary.WinnerCount)

	ticketRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	winnerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	accountRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementService_Settle_WinningTicket(t *testing.T) {
	t.Parallel()

	ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo := setupSettlementMocks()
	service := NewSettlementService(ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo)

	// Straight and rambol on the drawn digits plus one loser on the same ticket.
	winner := &entities.Ticket{
		ID:           2,
		TicketNumber: "AB12CD34EF56",
		AccountID:    10,
		DrawID:       7,
		Wagers: []*entities.Wager{
			{ID: 21, Combination: "123", WagerType: entities.WagerTypeStraight, Stake: decimal.NewFromInt(10)},
			{ID: 22, Combination: "321", WagerType: entities.WagerTypeRambol, Stake: decimal.NewFromInt(4)},
			{ID: 23, Combination: "888", WagerType: entities.WagerTypeStraight, Stake: decimal.NewFromInt(5)},
		},
	}
	account := &entities.Account{ID: 10, Username: "agent1", Balance: decimal.NewFromInt(100)}

	payoutRepo.On("GetActive", mock.Anything).Return(nil, nil)
	ticketRepo.On("GetPendingByDraw", mock.Anything, int64(7)).Return([]*entities.Ticket{winner}, nil)
	accountRepo.On("GetByIDForUpdate", mock.Anything, int64(10)).Return(account, nil)

	// 10 * 450 straight + 4 * 75 rambol = 4800
	wantPrize := decimal.NewFromInt(4800)
	accountRepo.On("UpdateBalance", mock.Anything, int64(10), mock.MatchedBy(func(b decimal.Decimal) bool {
		return b.Equal(decimal.NewFromInt(4900))
	})).Return(nil)
	historyRepo.On("Record", mock.Anything, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.AccountID == 10 &&
			h.TransactionType == entities.TransactionTypeTicketWin &&
			h.ChangeAmount.Equal(wantPrize)
	})).Return(nil)
	winnerRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *entities.WinningRecord) bool {
		return r.TicketID == 2 && r.DrawID == 7 && r.PrizeAmount.Equal(wantPrize)
	})).Return(nil)
	ticketRepo.On("UpdateStatus", mock.Anything, int64(2), entities.TicketStatusValidated).Return(nil)

	summary, err := service.Settle(context.Background(), settledTestDraw(7), "123")

	require.NoError(t, err)
	assert.Equal(t, 1, summary.WinnerCount)
	assert.True(t, summary.TotalPayout.Equal(wantPrize))

	// One ticket-won notification plus the final draw-settled broadcast.
	require.Len(t, summary.Events, 2)
	won, ok := summary.Events[0].(events.TicketWonEvent)
	require.True(t, ok)
	assert.Equal(t, int64(10), won.AccountID)
	assert.Equal(t, "AB12CD34EF56", won.TicketNumber)
	assert.Len(t, won.WinningWagers, 2)
	assert.True(t, won.PrizeAmount.Equal(wantPrize))

	ticketRepo.AssertExpectations(t)
	winnerRepo.AssertExpectations(t)
	accountRepo.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
}

func TestSettlementService_Settle_UplineGetsCopy(t *testing.T) {
	t.Parallel()

	ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo := setupSettlementMocks()
	service := NewSettlementService(ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo)

	upline := int64(99)
	account := &entities.Account{ID: 10, Balance: decimal.NewFromInt(0), UplineID: &upline}
	winner := &entities.Ticket{
		ID:        2,
		AccountID: 10,
		DrawID:    7,
		Wagers: []*entities.Wager{
			{Combination: "123", WagerType: entities.WagerTypeStraight, Stake: decimal.NewFromInt(1)},
		},
	}

	payoutRepo.On("GetActive", mock.Anything).Return(nil, nil)
	ticketRepo.On("GetPendingByDraw", mock.Anything, int64(7)).Return([]*entities.Ticket{winner}, nil)
	accountRepo.On("GetByIDForUpdate", mock.Anything, int64(10)).Return(account, nil)
	accountRepo.On("UpdateBalance", mock.Anything, int64(10), mock.Anything).Return(nil)
	historyRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	winnerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	ticketRepo.On("UpdateStatus", mock.Anything, int64(2), entities.TicketStatusValidated).Return(nil)

	summary, err := service.Settle(context.Background(), settledTestDraw(7), "123")

	require.NoError(t, err)

	// Owner copy, upline copy, then the broadcast.
	require.Len(t, summary.Events, 3)
	ownerCopy := summary.Events[0].(events.TicketWonEvent)
	uplineCopy := summary.Events[1].(events.TicketWonEvent)
	assert.Equal(t, int64(10), ownerCopy.AccountID)
	assert.Equal(t, int64(99), uplineCopy.AccountID)
	assert.Equal(t, int64(10), uplineCopy.OwnerID)
	assert.True(t, ownerCopy.PrizeAmount.Equal(uplineCopy.PrizeAmount))
}

func TestSettlementService_Settle_ConfiguredMultipliers(t *testing.T) {
	t.Parallel()

	ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo := setupSettlementMocks()
	service := NewSettlementService(ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo)

	cfg := &entities.PayoutConfig{
		StraightMultiplier:     decimal.NewFromInt(500),
		RambolMultiplier:       decimal.NewFromInt(80),
		RambolDoubleMultiplier: decimal.NewFromInt(160),
		Active:                 true,
	}
	winner := &entities.Ticket{
		ID:        3,
		AccountID: 10,
		DrawID:    7,
		Wagers: []*entities.Wager{
			{Combination: "122", WagerType: entities.WagerTypeRambol, Stake: decimal.NewFromInt(2)},
		},
	}

	payoutRepo.On("GetActive", mock.Anything).Return(cfg, nil)
	ticketRepo.On("GetPendingByDraw", mock.Anything, int64(7)).Return([]*entities.Ticket{winner}, nil)
	accountRepo.On("GetByIDForUpdate", mock.Anything, int64(10)).
		Return(&entities.Account{ID: 10, Balance: decimal.Zero}, nil)
	accountRepo.On("UpdateBalance", mock.Anything, int64(10), mock.Anything).Return(nil)
	historyRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	winnerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	ticketRepo.On("UpdateStatus", mock.Anything, int64(3), entities.TicketStatusValidated).Return(nil)

	summary, err := service.Settle(context.Background(), settledTestDraw(7), "212")

	require.NoError(t, err)
	// Double digits at the configured 160x: 2 * 160 = 320
	assert.True(t, summary.TotalPayout.Equal(decimal.NewFromInt(320)), "got %s", summary.TotalPayout)
}

func TestSettlementService_WinnersForDraw(t *testing.T) {
	t.Parallel()

	ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo := setupSettlementMocks()
	service := NewSettlementService(ticketRepo, winnerRepo, accountRepo, historyRepo, payoutRepo)

	records := []*entities.WinningRecord{
		{ID: 1, TicketID: 2, DrawID: 7, PrizeAmount: decimal.NewFromInt(450)},
	}
	winnerRepo.On("GetByDraw", mock.Anything, int64(7)).Return(records, nil)

	got, err := service.WinnersForDraw(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, records, got)
}
