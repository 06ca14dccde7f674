package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"swertres/application"
	"swertres/database"
	"swertres/domain/interfaces"
)

// unitOfWork implements the application.UnitOfWork interface over a single
// pgx transaction.
type unitOfWork struct {
	db  *database.DB
	tx  pgx.Tx
	ctx context.Context

	drawRepo           interfaces.DrawRepository
	ticketRepo         interfaces.TicketRepository
	winningRecordRepo  interfaces.WinningRecordRepository
	exposureRepo       interfaces.ExposureRepository
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	payoutConfigRepo   interfaces.PayoutConfigRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory.
func NewUnitOfWorkFactory(db *database.DB) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// Create creates a new UnitOfWork instance.
func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{db: f.db}
}

// Begin starts a new transaction and binds the repositories to it.
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.drawRepo = NewDrawRepository(tx)
	u.ticketRepo = NewTicketRepository(tx)
	u.winningRecordRepo = NewWinningRecordRepository(tx)
	u.exposureRepo = NewExposureRepository(tx)
	u.accountRepo = NewAccountRepository(tx)
	u.balanceHistoryRepo = NewBalanceHistoryRepository(tx)
	u.payoutConfigRepo = NewPayoutConfigRepository(tx)

	return nil
}

// Commit commits the transaction.
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil
	return nil
}

// Rollback rolls back the transaction. Safe to call after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	u.tx = nil
	return nil
}

func (u *unitOfWork) DrawRepository() interfaces.DrawRepository {
	return u.drawRepo
}

func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	return u.ticketRepo
}

func (u *unitOfWork) WinningRecordRepository() interfaces.WinningRecordRepository {
	return u.winningRecordRepo
}

func (u *unitOfWork) ExposureRepository() interfaces.ExposureRepository {
	return u.exposureRepo
}

func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	return u.accountRepo
}

func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.balanceHistoryRepo
}

func (u *unitOfWork) PayoutConfigRepository() interfaces.PayoutConfigRepository {
	return u.payoutConfigRepo
}
