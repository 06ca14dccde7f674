package testhelpers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"swertres/domain/entities"
	"swertres/domain/events"
	"swertres/domain/interfaces"
)

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) GetByID(ctx context.Context, id int64) (*entities.Draw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Draw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByDateSlot(ctx context.Context, date time.Time, slot entities.DrawSlot) (*entities.Draw, error) {
	args := m.Called(ctx, date, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) CreateIfAbsent(ctx context.Context, draw *entities.Draw) (bool, error) {
	args := m.Called(ctx, draw)
	return args.Bool(0), args.Error(1)
}

func (m *MockDrawRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDrawRepository) MarkSettled(ctx context.Context, drawID int64, winningNumber string, settledAt time.Time) (bool, error) {
	args := m.Called(ctx, drawID, winningNumber, settledAt)
	return args.Bool(0), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetPendingByDraw(ctx context.Context, drawID int64) ([]*entities.Ticket, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) UpdateStatus(ctx context.Context, ticketID int64, status entities.TicketStatus) error {
	args := m.Called(ctx, ticketID, status)
	return args.Error(0)
}

// MockWinningRecordRepository is a mock implementation of WinningRecordRepository
type MockWinningRecordRepository struct {
	mock.Mock
}

func (m *MockWinningRecordRepository) Create(ctx context.Context, record *entities.WinningRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockWinningRecordRepository) GetByDraw(ctx context.Context, drawID int64) ([]*entities.WinningRecord, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WinningRecord), args.Error(1)
}

// MockExposureRepository is a mock implementation of ExposureRepository
type MockExposureRepository struct {
	mock.Mock
}

func (m *MockExposureRepository) Reserve(ctx context.Context, drawID int64, wagerType entities.WagerType, combination string, stake, ceiling decimal.Decimal) error {
	args := m.Called(ctx, drawID, wagerType, combination, stake, ceiling)
	return args.Error(0)
}

func (m *MockExposureRepository) Get(ctx context.Context, drawID int64, wagerType entities.WagerType, combination string) (*entities.ExposureTotal, error) {
	args := m.Called(ctx, drawID, wagerType, combination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ExposureTotal), args.Error(1)
}

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, username string, initialBalance decimal.Decimal) (*entities.Account, error) {
	args := m.Called(ctx, username, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, accountID int64, newBalance decimal.Decimal) error {
	args := m.Called(ctx, accountID, newBalance)
	return args.Error(0)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

// MockPayoutConfigRepository is a mock implementation of PayoutConfigRepository
type MockPayoutConfigRepository struct {
	mock.Mock
}

func (m *MockPayoutConfigRepository) GetActive(ctx context.Context) (*entities.PayoutConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PayoutConfig), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockSettlementService is a mock implementation of SettlementService
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Settle(ctx context.Context, draw *entities.Draw, winningNumber string) (*interfaces.SettlementSummary, error) {
	args := m.Called(ctx, draw, winningNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.SettlementSummary), args.Error(1)
}

func (m *MockSettlementService) WinnersForDraw(ctx context.Context, drawID int64) ([]*entities.WinningRecord, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WinningRecord), args.Error(1)
}

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) DeductAndCreateTicket(ctx context.Context, accountID, drawID int64, wagers []entities.WagerInput) (*interfaces.SubmitResult, error) {
	args := m.Called(ctx, accountID, drawID, wagers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.SubmitResult), args.Error(1)
}
