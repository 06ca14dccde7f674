package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"swertres/domain/entities"
)

// TicketRepository implements ticket and wager data access.
type TicketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(q Queryable) *TicketRepository {
	return &TicketRepository{q: q}
}

// Create inserts a ticket and its wagers, populating generated IDs and
// timestamps on the passed entities.
func (r *TicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	query := `
		INSERT INTO tickets (ticket_number, account_id, draw_id, total_stake, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.AccountID,
		ticket.DrawID,
		ticket.TotalStake,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	wagerQuery := `
		INSERT INTO wagers (ticket_id, combination, wager_type, stake)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	for _, w := range ticket.Wagers {
		w.TicketID = ticket.ID
		err := r.q.QueryRow(ctx, wagerQuery, w.TicketID, w.Combination, w.WagerType, w.Stake).
			Scan(&w.ID, &w.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create wager on ticket %d: %w", ticket.ID, err)
		}
	}

	return nil
}

const ticketColumns = `id, ticket_number, account_id, draw_id, total_stake, status, created_at`

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var t entities.Ticket
	err := row.Scan(
		&t.ID,
		&t.TicketNumber,
		&t.AccountID,
		&t.DrawID,
		&t.TotalStake,
		&t.Status,
		&t.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID retrieves a ticket with its wagers.
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket by ID %d: %w", id, err)
	}
	if ticket == nil {
		return nil, nil
	}

	if err := r.attachWagers(ctx, []*entities.Ticket{ticket}); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetPendingByDraw returns all pending tickets for a draw with wagers loaded.
func (r *TicketRepository) GetPendingByDraw(ctx context.Context, drawID int64) ([]*entities.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE draw_id = $1
		  AND status = $2
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, drawID, entities.TicketStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending tickets for draw %d: %w", drawID, err)
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		var t entities.Ticket
		if err := rows.Scan(&t.ID, &t.TicketNumber, &t.AccountID, &t.DrawID, &t.TotalStake, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	if err := r.attachWagers(ctx, tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// UpdateStatus updates a ticket's status.
func (r *TicketRepository) UpdateStatus(ctx context.Context, ticketID int64, status entities.TicketStatus) error {
	query := `UPDATE tickets SET status = $2 WHERE id = $1`

	result, err := r.q.Exec(ctx, query, ticketID, status)
	if err != nil {
		return fmt.Errorf("failed to update ticket %d status: %w", ticketID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket with ID %d not found", ticketID)
	}
	return nil
}

// attachWagers loads the wager rows for the given tickets in one query.
func (r *TicketRepository) attachWagers(ctx context.Context, tickets []*entities.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(tickets))
	byID := make(map[int64]*entities.Ticket, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}

	query := `
		SELECT id, ticket_id, combination, wager_type, stake, created_at
		FROM wagers
		WHERE ticket_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to get wagers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w entities.Wager
		if err := rows.Scan(&w.ID, &w.TicketID, &w.Combination, &w.WagerType, &w.Stake, &w.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan wager: %w", err)
		}
		if t, ok := byID[w.TicketID]; ok {
			t.Wagers = append(t.Wagers, &w)
		}
	}
	return rows.Err()
}
