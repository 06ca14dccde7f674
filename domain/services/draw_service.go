package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"swertres/domain/entities"
	"swertres/domain/interfaces"
	"swertres/domain/schedule"
)

// drawService owns the draw lifecycle: materializing future draws, the
// open -> closed status sweep, and result posting.
type drawService struct {
	drawRepo   interfaces.DrawRepository
	settlement interfaces.SettlementService
	calendar   *schedule.Calendar
	now        func() time.Time
}

// NewDrawService creates a new draw lifecycle service. now may be nil, in
// which case the wall clock is used.
func NewDrawService(
	drawRepo interfaces.DrawRepository,
	settlement interfaces.SettlementService,
	calendar *schedule.Calendar,
	now func() time.Time,
) interfaces.DrawService {
	if now == nil {
		now = time.Now
	}
	return &drawService{
		drawRepo:   drawRepo,
		settlement: settlement,
		calendar:   calendar,
		now:        now,
	}
}

// EnsureDrawsExist creates a draw for every (date, slot) pair in the horizon
// that does not already have one. Idempotent: re-running never duplicates or
// mutates existing rows. The first pair failure is returned immediately: a
// failed statement aborts the caller's transaction, so the remaining pairs
// could not succeed inside it anyway. Callers that need failure isolation
// across the horizon run each day in its own transaction.
func (s *drawService) EnsureDrawsExist(ctx context.Context, from time.Time, horizonDays int) (*interfaces.EnsureDrawsSummary, error) {
	summary := &interfaces.EnsureDrawsSummary{}
	start := s.calendar.DateOf(from)

	for day := 0; day < horizonDays; day++ {
		date := start.AddDate(0, 0, day)
		for _, slot := range entities.AllDrawSlots() {
			draw := &entities.Draw{
				DrawDate: date,
				Slot:     slot,
				CutoffAt: s.calendar.CutoffAt(slot, date),
				Status:   entities.DrawStatusOpen,
			}
			created, err := s.drawRepo.CreateIfAbsent(ctx, draw)
			if err != nil {
				return nil, fmt.Errorf("failed to ensure draw %s %s exists: %w", date.Format("2006-01-02"), slot, err)
			}
			if created {
				summary.Created++
			} else {
				summary.Skipped++
			}
		}
	}

	return summary, nil
}

// SweepStatuses closes every open draw whose cutoff has passed. The whole
// sweep is one conditional update, so it is safe to run concurrently with
// submissions and with itself.
func (s *drawService) SweepStatuses(ctx context.Context, now time.Time) (int64, error) {
	closed, err := s.drawRepo.CloseExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to close expired draws: %w", err)
	}
	return closed, nil
}

// PostResult transitions a closed draw to settled and settles its tickets.
// The transition uses a conditional update that only succeeds while the draw
// is still closed, so a concurrent PostResult for the same draw loses cleanly.
// Callers run this inside a single transaction; a settlement failure rolls
// back the status transition.
func (s *drawService) PostResult(ctx context.Context, drawID int64, winningNumber string) (*interfaces.SettlementSummary, error) {
	if err := entities.ValidateCombination(entities.WagerTypeStraight, winningNumber); err != nil {
		return nil, err
	}

	draw, err := s.drawRepo.GetByIDForUpdate(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw %d: %w", drawID, err)
	}
	if draw == nil {
		return nil, entities.ErrDrawNotFound
	}
	if !draw.IsClosed() {
		return nil, entities.ErrInvalidDrawState
	}

	settledAt := s.now()
	ok, err := s.drawRepo.MarkSettled(ctx, drawID, winningNumber, settledAt)
	if err != nil {
		return nil, fmt.Errorf("failed to settle draw %d: %w", drawID, err)
	}
	if !ok {
		return nil, entities.ErrInvalidDrawState
	}
	if err := draw.Settle(winningNumber, settledAt); err != nil {
		return nil, err
	}

	summary, err := s.settlement.Settle(ctx, draw, winningNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to settle tickets for draw %d: %w", drawID, err)
	}

	log.WithFields(log.Fields{
		"draw_id":        drawID,
		"winning_number": winningNumber,
		"winner_count":   summary.WinnerCount,
		"total_payout":   summary.TotalPayout,
	}).Info("draw settled")

	return summary, nil
}
