package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"swertres/domain/entities"
)

// DrawRepository implements draw data access.
type DrawRepository struct {
	q Queryable
}

// NewDrawRepository creates a new draw repository.
func NewDrawRepository(q Queryable) *DrawRepository {
	return &DrawRepository{q: q}
}

const drawColumns = `id, draw_date, slot, cutoff_at, status, winning_number, settled_at, created_at`

func scanDraw(row pgx.Row) (*entities.Draw, error) {
	var draw entities.Draw
	err := row.Scan(
		&draw.ID,
		&draw.DrawDate,
		&draw.Slot,
		&draw.CutoffAt,
		&draw.Status,
		&draw.WinningNumber,
		&draw.SettledAt,
		&draw.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// GetByID retrieves a draw by its ID.
func (r *DrawRepository) GetByID(ctx context.Context, id int64) (*entities.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE id = $1`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get draw by ID %d: %w", id, err)
	}
	return draw, nil
}

// GetByIDForUpdate retrieves a draw by ID with a row lock for update.
func (r *DrawRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE id = $1 FOR UPDATE`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get draw for update by ID %d: %w", id, err)
	}
	return draw, nil
}

// GetByDateSlot retrieves the draw for a (date, slot) pair.
func (r *DrawRepository) GetByDateSlot(ctx context.Context, date time.Time, slot entities.DrawSlot) (*entities.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE draw_date = $1 AND slot = $2`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, date, slot))
	if err != nil {
		return nil, fmt.Errorf("failed to get draw for %s %s: %w", date.Format("2006-01-02"), slot, err)
	}
	return draw, nil
}

// CreateIfAbsent inserts a draw unless one already exists for its (date, slot)
// pair. The unique constraint makes concurrent maintenance sweeps safe.
func (r *DrawRepository) CreateIfAbsent(ctx context.Context, draw *entities.Draw) (bool, error) {
	query := `
		INSERT INTO draws (draw_date, slot, cutoff_at, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (draw_date, slot) DO NOTHING
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, draw.DrawDate, draw.Slot, draw.CutoffAt, draw.Status).
		Scan(&draw.ID, &draw.CreatedAt)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create draw for %s %s: %w", draw.DrawDate.Format("2006-01-02"), draw.Slot, err)
	}
	return true, nil
}

// CloseExpired transitions every open draw whose cutoff has passed to closed.
// One conditional update; never regresses a later status.
func (r *DrawRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE draws
		SET status = $1
		WHERE status = $2
		  AND cutoff_at <= $3
	`

	result, err := r.q.Exec(ctx, query, entities.DrawStatusClosed, entities.DrawStatusOpen, now)
	if err != nil {
		return 0, fmt.Errorf("failed to close expired draws: %w", err)
	}
	return result.RowsAffected(), nil
}

// MarkSettled performs the conditional closed -> settled transition. Returns
// false when the draw was not in closed status, so concurrent result posts
// for the same draw cannot both succeed.
func (r *DrawRepository) MarkSettled(ctx context.Context, drawID int64, winningNumber string, settledAt time.Time) (bool, error) {
	query := `
		UPDATE draws
		SET status = $2,
		    winning_number = $3,
		    settled_at = $4
		WHERE id = $1
		  AND status = $5
	`

	result, err := r.q.Exec(ctx, query, drawID, entities.DrawStatusSettled, winningNumber, settledAt, entities.DrawStatusClosed)
	if err != nil {
		return false, fmt.Errorf("failed to mark draw %d settled: %w", drawID, err)
	}
	return result.RowsAffected() == 1, nil
}
