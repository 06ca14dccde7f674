package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"swertres/domain/entities"
)

// AccountRepository implements selling-account data access.
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(q Queryable) *AccountRepository {
	return &AccountRepository{q: q}
}

const accountColumns = `id, username, balance, upline_id, created_at`

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var a entities.Account
	err := row.Scan(&a.ID, &a.Username, &a.Balance, &a.UplineID, &a.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	account, err := scanAccount(r.q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get account by ID %d: %w", id, err)
	}
	return account, nil
}

// GetByIDForUpdate retrieves an account with a row lock for update. The lock
// serializes balance mutations for the account.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	account, err := scanAccount(r.q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get account for update by ID %d: %w", id, err)
	}
	return account, nil
}

// Create creates a new account with the initial balance.
func (r *AccountRepository) Create(ctx context.Context, username string, initialBalance decimal.Decimal) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (username, balance)
		VALUES ($1, $2)
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, username, initialBalance))
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", username, err)
	}
	return account, nil
}

// UpdateBalance sets an account's balance.
func (r *AccountRepository) UpdateBalance(ctx context.Context, accountID int64, newBalance decimal.Decimal) error {
	result, err := r.q.Exec(ctx, `UPDATE accounts SET balance = $2 WHERE id = $1`, accountID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account with ID %d not found", accountID)
	}
	return nil
}
