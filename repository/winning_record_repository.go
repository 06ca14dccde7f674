package repository

import (
	"context"
	"fmt"

	"swertres/domain/entities"
)

// WinningRecordRepository implements winning record data access.
type WinningRecordRepository struct {
	q Queryable
}

// NewWinningRecordRepository creates a new winning record repository.
func NewWinningRecordRepository(q Queryable) *WinningRecordRepository {
	return &WinningRecordRepository{q: q}
}

// Create inserts a winning record. The unique constraint on
// (ticket_id, draw_id) enforces at-most-once per pair.
func (r *WinningRecordRepository) Create(ctx context.Context, record *entities.WinningRecord) error {
	query := `
		INSERT INTO winning_records (ticket_id, draw_id, prize_amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, record.TicketID, record.DrawID, record.PrizeAmount).
		Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create winning record for ticket %d: %w", record.TicketID, err)
	}
	return nil
}

// GetByDraw returns all winning records for a draw.
func (r *WinningRecordRepository) GetByDraw(ctx context.Context, drawID int64) ([]*entities.WinningRecord, error) {
	query := `
		SELECT id, ticket_id, draw_id, prize_amount, created_at
		FROM winning_records
		WHERE draw_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winning records for draw %d: %w", drawID, err)
	}
	defer rows.Close()

	var records []*entities.WinningRecord
	for rows.Next() {
		var rec entities.WinningRecord
		if err := rows.Scan(&rec.ID, &rec.TicketID, &rec.DrawID, &rec.PrizeAmount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan winning record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
