package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"swertres/domain/entities"
	"swertres/domain/interfaces"
	"swertres/domain/schedule"
	"swertres/domain/testhelpers"
)

func testCalendar(t *testing.T) *schedule.Calendar {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)
	return schedule.NewCalendar(loc)
}

// Helper to create a test draw with common defaults
func createTestDraw(id int64, status entities.DrawStatus, opts ...func(*entities.Draw)) *entities.Draw {
	draw := &entities.Draw{
		ID:       id,
		DrawDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Slot:     entities.DrawSlot5PM,
		Status:   status,
	}
	for _, opt := range opts {
		opt(draw)
	}
	return draw
}

func TestDrawService_EnsureDrawsExist(t *testing.T) {
	t.Parallel()

	t.Run("creates one draw per date and slot pair", func(t *testing.T) {
		t.Parallel()

		drawRepo := new(testhelpers.MockDrawRepository)
		cal := testCalendar(t)
		service := NewDrawService(drawRepo, nil, cal, nil)

		var created []*entities.Draw
		drawRepo.On("CreateIfAbsent", mock.Anything, mock.AnythingOfType("*entities.Draw")).
			Run(func(args mock.Arguments) {
				created = append(created, args.Get(1).(*entities.Draw))
			}).
			Return(true, nil)

		from := time.Date(2024, 3, 15, 9, 30, 0, 0, cal.Location())
		summary, err := service.EnsureDrawsExist(context.Background(), from, 2)

		require.NoError(t, err)
		assert.Equal(t, 6, summary.Created)
		assert.Equal(t, 0, summary.Skipped)
		require.Len(t, created, 6)

		// First pair is today's 2pm with its cutoff five minutes early.
		first := created[0]
		assert.Equal(t, entities.DrawSlot2PM, first.Slot)
		assert.Equal(t, entities.DrawStatusOpen, first.Status)
		wantCutoff := time.Date(2024, 3, 15, 13, 55, 0, 0, cal.Location())
		assert.True(t, first.CutoffAt.Equal(wantCutoff), "want %v, got %v", wantCutoff, first.CutoffAt)

		// Last pair is tomorrow's 9pm.
		last := created[5]
		assert.Equal(t, entities.DrawSlot9PM, last.Slot)
		assert.Equal(t, 16, last.DrawDate.Day())

		drawRepo.AssertExpectations(t)
	})

	t.Run("existing draws are skipped not recreated", func(t *testing.T) {
		t.Parallel()

		drawRepo := new(testhelpers.MockDrawRepository)
		service := NewDrawService(drawRepo, nil, testCalendar(t), nil)

		drawRepo.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(false, nil)

		summary, err := service.EnsureDrawsExist(context.Background(), time.Now(), 1)

		require.NoError(t, err)
		assert.Equal(t, 0, summary.Created)
		assert.Equal(t, 3, summary.Skipped)
	})

	t.Run("first failure stops the pass", func(t *testing.T) {
		t.Parallel()

		// A failed insert aborts the surrounding transaction, so pressing on
		// with the remaining pairs would only pile up abort errors. Failure
		// isolation across days is the maintenance worker's job.
		drawRepo := new(testhelpers.MockDrawRepository)
		service := NewDrawService(drawRepo, nil, testCalendar(t), nil)

		var attempted []entities.DrawSlot
		drawRepo.On("CreateIfAbsent", mock.Anything, mock.AnythingOfType("*entities.Draw")).
			Run(func(args mock.Arguments) {
				attempted = append(attempted, args.Get(1).(*entities.Draw).Slot)
			}).
			Return(false, errors.New("connection reset")).Once()

		_, err := service.EnsureDrawsExist(context.Background(), time.Now(), 1)

		require.Error(t, err)
		assert.ErrorContains(t, err, "connection reset")
		assert.Equal(t, []entities.DrawSlot{entities.DrawSlot2PM}, attempted)
	})
}

func TestDrawService_SweepStatuses(t *testing.T) {
	t.Parallel()

	drawRepo := new(testhelpers.MockDrawRepository)
	service := NewDrawService(drawRepo, nil, testCalendar(t), nil)

	now := time.Now()
	drawRepo.On("CloseExpired", mock.Anything, now).Return(int64(3), nil)

	closed, err := service.SweepStatuses(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, int64(3), closed)
	drawRepo.AssertExpectations(t)
}

func TestDrawService_PostResult(t *testing.T) {
	t.Parallel()

	settledAt := time.Date(2024, 3, 15, 17, 2, 0, 0, time.UTC)
	fixedNow := func() time.Time { return settledAt }

	t.Run("settles a closed draw and runs settlement", func(t *testing.T) {
		t.Parallel()

		drawRepo := new(testhelpers.MockDrawRepository)
		settlement := new(testhelpers.MockSettlementService)
		service := NewDrawService(drawRepo, settlement, testCalendar(t), fixedNow)

		draw := createTestDraw(7, entities.DrawStatusClosed)
		drawRepo.On("GetByIDForUpdate", mock.Anything, int64(7)).Return(draw, nil)
		drawRepo.On("MarkSettled", mock.Anything, int64(7), "042", settledAt).Return(true, nil)

		settlement.On("Settle", mock.Anything, mock.MatchedBy(func(d *entities.Draw) bool {
			return d.IsSettled() && d.WinningNumber != nil && *d.WinningNumber == "042" &&
				d.SettledAt != nil && d.SettledAt.Equal(settledAt)
		}), "042").Return(&interfaces.SettlementSummary{
			DrawID:        7,
			WinningNumber: "042",
			WinnerCount:   2,
		}, nil)

		summary, err := service.PostResult(context.Background(), 7, "042")

		require.NoError(t, err)
		assert.Equal(t, int64(7), summary.DrawID)
		assert.Equal(t, 2, summary.WinnerCount)
		drawRepo.AssertExpectations(t)
		settlement.AssertExpectations(t)
	})

	t.Run("malformed winning number rejected before any lookup", func(t *testing.T) {
		t.Parallel()

		drawRepo := new(testhelpers.MockDrawRepository)
		service := NewDrawService(drawRepo, nil, testCalendar(t), fixedNow)

		_, err := service.PostResult(context.Background(), 7, "42")

		assert.ErrorIs(t, err, entities.ErrMalformedCombination)
		drawRepo.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("unknown draw", func(t *testing.T) {
		t.Parallel()

		drawRepo := new(testhelpers.MockDrawRepository)
		service := NewDrawService(drawRepo, nil, testCalendar(t), fixedNow)

		drawRepo.On("GetByIDForUpdate", mock.Anything, int64(99)).Return(nil, nil)

		_, err := service.PostResult(context.Background(), 99, "042")

		assert.ErrorIs(t, err, entities.ErrDrawNotFound)
	})

	t.Run("open draw cannot take a result", func(t *testing.T) {
		t.Parallel()

		drawRepo := new(testhelpers.MockDrawRepository)
		service := NewDrawService(drawRepo, nil, testCalendar(t), fixedNow)

		drawRepo.On("GetByIDForUpdate", mock.Anything, int64(7)).
			Return(createTestDraw(7, entities.DrawStatusOpen), nil)

		_, err := service.PostResult(context.Background(), 7, "042")

		assert.ErrorIs(t, err, entities.ErrInvalidDrawState)
		drawRepo.AssertNotCalled(t, "MarkSettled", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("settled draw cannot take a second result", func(t *testing.T) {
		t.Parallel()

		drawRepo := new(testhelpers.MockDrawRepository)
		service := NewDrawService(drawRepo, nil, testCalendar(t), fixedNow)

		drawRepo.On("GetByIDForUpdate", mock.Anything, int64(7)).
			Return(createTestDraw(7, entities.DrawStatusSettled), nil)

		_, err := service.PostResult(context.Background(), 7, "042")

		assert.ErrorIs(t, err, entities.ErrInvalidDrawState)
	})

	t.Run("losing the conditional update race is reported as invalid state", func(t *testing.T) {
		t.Parallel()

		drawRepo := new(testhelpers.MockDrawRepository)
		settlement := new(testhelpers.MockSettlementService)
		service := NewDrawService(drawRepo, settlement, testCalendar(t), fixedNow)

		drawRepo.On("GetByIDForUpdate", mock.Anything, int64(7)).
			Return(createTestDraw(7, entities.DrawStatusClosed), nil)
		drawRepo.On("MarkSettled", mock.Anything, int64(7), "042", settledAt).Return(false, nil)

		_, err := service.PostResult(context.Background(), 7, "042")

		assert.ErrorIs(t, err, entities.ErrInvalidDrawState)
		settlement.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything)
	})
}
