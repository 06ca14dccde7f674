package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"swertres/domain/entities"
	"swertres/domain/interfaces"
	"swertres/domain/schedule"
)

// IntakeLimits carries the per-wager-type exposure ceilings.
type IntakeLimits struct {
	StraightCeiling decimal.Decimal
	RambolCeiling   decimal.Decimal
}

// intakeService validates a proposed multi-wager ticket and hands the
// accepted submission to the ledger. Exposure reservations happen after all
// pure validations and inside the caller's transaction, so a failure at any
// later step (including insufficient balance) rolls them back; no
// compensation path is needed.
type intakeService struct {
	drawRepo     interfaces.DrawRepository
	exposureRepo interfaces.ExposureRepository
	ledger       interfaces.LedgerService
	calendar     *schedule.Calendar
	limits       IntakeLimits
	now          func() time.Time
}

// NewIntakeService creates a new ticket intake service. now may be nil, in
// which case the wall clock is used.
func NewIntakeService(
	drawRepo interfaces.DrawRepository,
	exposureRepo interfaces.ExposureRepository,
	ledger interfaces.LedgerService,
	calendar *schedule.Calendar,
	limits IntakeLimits,
	now func() time.Time,
) interfaces.IntakeService {
	if now == nil {
		now = time.Now
	}
	return &intakeService{
		drawRepo:     drawRepo,
		exposureRepo: exposureRepo,
		ledger:       ledger,
		calendar:     calendar,
		limits:       limits,
		now:          now,
	}
}

// Submit runs the full acceptance sequence: draw status, betting window,
// per-wager rule checks, in-ticket duplicate check, exposure reservation,
// then the atomic balance deduction and ticket creation.
func (s *intakeService) Submit(ctx context.Context, drawID, accountID int64, wagers []entities.WagerInput) (*interfaces.SubmitResult, error) {
	if len(wagers) == 0 {
		return nil, errors.New("ticket must contain at least one wager")
	}

	// Locking the draw row keeps the status stable against the sweep for
	// the rest of the transaction: a submission that loses the race to the
	// cutoff sweep sees the closed status here.
	draw, err := s.drawRepo.GetByIDForUpdate(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw %d: %w", drawID, err)
	}
	if draw == nil {
		return nil, entities.ErrDrawNotFound
	}
	if !draw.IsOpen() {
		return nil, entities.ErrDrawNotOpen
	}

	// The status sweep can lag the clock by up to its interval, so the
	// window is checked against the clock as well.
	if !s.calendar.IsOpenForBetting(draw.Slot, draw.DrawDate, s.now()) {
		return nil, entities.ErrBettingWindowClosed
	}

	seen := make(map[string]bool, len(wagers))
	for i, w := range wagers {
		if !w.WagerType.IsValid() {
			return nil, fmt.Errorf("wager %d: unknown wager type %q", i+1, w.WagerType)
		}
		if err := entities.ValidateCombination(w.WagerType, w.Combination); err != nil {
			return nil, fmt.Errorf("wager %d: %w", i+1, err)
		}
		if !w.Stake.IsPositive() {
			return nil, fmt.Errorf("wager %d: stake must be positive", i+1)
		}
		key := w.Combination + "|" + string(w.WagerType)
		if seen[key] {
			return nil, fmt.Errorf("wager %d: %w", i+1, entities.ErrDuplicateWager)
		}
		seen[key] = true
	}

	// Reservations take a fixed (combination, type) order: two concurrent
	// tickets naming the same combinations in opposite orders would otherwise
	// lock the exposure rows in conflicting order and deadlock in Postgres.
	order := make([]int, len(wagers))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		wa, wb := wagers[order[a]], wagers[order[b]]
		if wa.Combination != wb.Combination {
			return wa.Combination < wb.Combination
		}
		return wa.WagerType < wb.WagerType
	})

	for _, i := range order {
		w := wagers[i]
		if err := s.exposureRepo.Reserve(ctx, drawID, w.WagerType, w.Combination, w.Stake, s.ceilingFor(w.WagerType)); err != nil {
			if errors.Is(err, entities.ErrLimitExceeded) || errors.Is(err, entities.ErrSoldOut) {
				return nil, fmt.Errorf("wager %d: %w", i+1, err)
			}
			return nil, fmt.Errorf("failed to reserve exposure for wager %d: %w", i+1, err)
		}
	}

	result, err := s.ledger.DeductAndCreateTicket(ctx, accountID, drawID, wagers)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *intakeService) ceilingFor(wagerType entities.WagerType) decimal.Decimal {
	if wagerType == entities.WagerTypeRambol {
		return s.limits.RambolCeiling
	}
	return s.limits.StraightCeiling
}
