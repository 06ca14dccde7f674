package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"swertres/domain/entities"
)

// ExposureRepository implements per-number exposure tracking. The reserve
// path is a single conditional upsert so concurrent wagers on the same
// combination are serialized by the row lock and can never push the
// cumulative total past the ceiling.
type ExposureRepository struct {
	q Queryable
}

// NewExposureRepository creates a new exposure repository.
func NewExposureRepository(q Queryable) *ExposureRepository {
	return &ExposureRepository{q: q}
}

// Reserve atomically adds stake to the (draw, wager type, combination) total.
// The update only applies while the new total stays within ceiling; when it
// reaches the ceiling exactly the triple is flagged sold out. On rejection
// the total is left untouched and the error distinguishes sold-out from
// over-limit.
func (r *ExposureRepository) Reserve(ctx context.Context, drawID int64, wagerType entities.WagerType, combination string, stake, ceiling decimal.Decimal) error {
	if stake.GreaterThan(ceiling) {
		return entities.ErrLimitExceeded
	}

	query := `
		INSERT INTO exposure_totals (draw_id, wager_type, combination, cumulative, sold_out)
		VALUES ($1, $2, $3, $4, $4 >= $5)
		ON CONFLICT (draw_id, wager_type, combination) DO UPDATE
		SET cumulative = exposure_totals.cumulative + EXCLUDED.cumulative,
		    sold_out   = exposure_totals.cumulative + EXCLUDED.cumulative >= $5
		WHERE NOT exposure_totals.sold_out
		  AND exposure_totals.cumulative + EXCLUDED.cumulative <= $5
		RETURNING cumulative
	`

	var cumulative decimal.Decimal
	err := r.q.QueryRow(ctx, query, drawID, wagerType, combination, stake, ceiling).Scan(&cumulative)
	if err == pgx.ErrNoRows {
		// The conditional update refused the increment. Read the row to
		// report the precise reason.
		current, getErr := r.Get(ctx, drawID, wagerType, combination)
		if getErr != nil {
			return getErr
		}
		if current != nil && current.SoldOut {
			return entities.ErrSoldOut
		}
		return entities.ErrLimitExceeded
	}
	if err != nil {
		return fmt.Errorf("failed to reserve exposure for draw %d %s %s: %w", drawID, wagerType, combination, err)
	}
	return nil
}

// Get returns the current total for a triple, or (nil, nil) if nothing has
// been staked on it yet.
func (r *ExposureRepository) Get(ctx context.Context, drawID int64, wagerType entities.WagerType, combination string) (*entities.ExposureTotal, error) {
	query := `
		SELECT draw_id, wager_type, combination, cumulative, sold_out
		FROM exposure_totals
		WHERE draw_id = $1
		  AND wager_type = $2
		  AND combination = $3
	`

	var total entities.ExposureTotal
	err := r.q.QueryRow(ctx, query, drawID, wagerType, combination).Scan(
		&total.DrawID,
		&total.WagerType,
		&total.Combination,
		&total.Cumulative,
		&total.SoldOut,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exposure total for draw %d %s %s: %w", drawID, wagerType, combination, err)
	}
	return &total, nil
}
