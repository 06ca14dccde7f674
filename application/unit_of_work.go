package application

import (
	"context"

	"swertres/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// Every repository getter returns a repository bound to the same transaction.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	DrawRepository() interfaces.DrawRepository
	TicketRepository() interfaces.TicketRepository
	WinningRecordRepository() interfaces.WinningRecordRepository
	ExposureRepository() interfaces.ExposureRepository
	AccountRepository() interfaces.AccountRepository
	BalanceHistoryRepository() interfaces.BalanceHistoryRepository
	PayoutConfigRepository() interfaces.PayoutConfigRepository
}

// UnitOfWorkFactory creates UnitOfWork instances.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
