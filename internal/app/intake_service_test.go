package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutcoach/internal/app"
	"cutcoach/internal/domain"
)

func TestRecordEvent_Validation(t *testing.T) {
	svc := app.NewIntakeService(&mockIntakeRepo{}, nil, time.UTC)

	tests := []struct {
		name   string
		kind   domain.IntakeKind
		amount float64
	}{
		{"unknown kind", "sodium", 10},
		{"zero", domain.IntakeWater, 0},
		{"too much water", domain.IntakeWater, 300},
		{"too much protein removed", domain.IntakeProtein, -600},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordEvent(context.Background(), 1, tc.kind, tc.amount)
			assert.ErrorIs(t, err, app.ErrValidation)
		})
	}
}

func TestRecordEvent_Stores(t *testing.T) {
	var gotKind domain.IntakeKind
	var gotAt time.Time
	repo := &mockIntakeRepo{
		addFn: func(_ context.Context, _ int64, kind domain.IntakeKind, _ float64, at time.Time) (int64, error) {
			gotKind, gotAt = kind, at
			return 11, nil
		},
	}
	inv := &recordingInvalidator{}
	svc := app.NewIntakeService(repo, inv, time.UTC)
	svc.SetClock(fixedClock(testNow))

	id, err := svc.RecordEvent(context.Background(), 3, domain.IntakeCarbs, -20)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.Equal(t, domain.IntakeCarbs, gotKind)
	assert.Equal(t, testNow, gotAt)
	assert.Equal(t, []int64{3}, inv.calls())
}

func TestIntakeGetToday(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	repo := &mockIntakeRepo{
		dayFn: func(_ context.Context, _ int64, day string, loc *time.Location) (domain.DailyTracking, error) {
			return domain.DailyTracking{Day: day, WaterOz: 64}, nil
		},
	}
	svc := app.NewIntakeService(repo, nil, ny)
	// 02:00 UTC is still the previous evening in New York.
	svc.SetClock(fixedClock(time.Date(2026, 3, 5, 2, 0, 0, 0, time.UTC)))

	got, err := svc.GetToday(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04", got.Day)
	assert.Equal(t, 64.0, got.WaterOz)
}

func TestIntakeUndoLast(t *testing.T) {
	t.Run("nothing to undo", func(t *testing.T) {
		inv := &recordingInvalidator{}
		svc := app.NewIntakeService(&mockIntakeRepo{}, inv, time.UTC)
		ok, _, err := svc.UndoLast(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, inv.calls())
	})
	t.Run("deletes newest", func(t *testing.T) {
		var deleted int64
		repo := &mockIntakeRepo{
			listFn: func(_ context.Context, _ int64, limit int) ([]domain.IntakeEvent, error) {
				assert.Equal(t, 1, limit)
				return []domain.IntakeEvent{{ID: 9}}, nil
			},
			deleteFn: func(_ context.Context, _, id int64) error {
				deleted = id
				return nil
			},
		}
		inv := &recordingInvalidator{}
		svc := app.NewIntakeService(repo, inv, time.UTC)
		ok, id, err := svc.UndoLast(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(9), id)
		assert.Equal(t, int64(9), deleted)
		assert.Len(t, inv.calls(), 1)
	})
	t.Run("delete fails", func(t *testing.T) {
		repo := &mockIntakeRepo{
			listFn: func(context.Context, int64, int) ([]domain.IntakeEvent, error) {
				return []domain.IntakeEvent{{ID: 9}}, nil
			},
			deleteFn: func(context.Context, int64, int64) error { return errors.New("boom") },
		}
		svc := app.NewIntakeService(repo, nil, time.UTC)
		_, _, err := svc.UndoLast(context.Background(), 1)
		assert.Error(t, err)
	})
}
