package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"swertres/domain/entities"
)

// PayoutConfigRepository implements payout schedule access.
type PayoutConfigRepository struct {
	q Queryable
}

// NewPayoutConfigRepository creates a new payout config repository.
func NewPayoutConfigRepository(q Queryable) *PayoutConfigRepository {
	return &PayoutConfigRepository{q: q}
}

// GetActive returns the most recent active payout config, or (nil, nil) when
// none is configured. Callers fall back to the default schedule.
func (r *PayoutConfigRepository) GetActive(ctx context.Context) (*entities.PayoutConfig, error) {
	query := `
		SELECT id, straight_multiplier, rambol_multiplier, rambol_double_multiplier, active, created_at
		FROM payout_configs
		WHERE active
		ORDER BY created_at DESC
		LIMIT 1
	`

	var cfg entities.PayoutConfig
	err := r.q.QueryRow(ctx, query).Scan(
		&cfg.ID,
		&cfg.StraightMultiplier,
		&cfg.RambolMultiplier,
		&cfg.RambolDoubleMultiplier,
		&cfg.Active,
		&cfg.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active payout config: %w", err)
	}
	return &cfg, nil
}
