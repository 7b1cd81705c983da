package app_test

import (
	"context"
	"sync"
	"time"

	"cutcoach/internal/domain"
)

type mockWeightRepo struct {
	addFn          func(ctx context.Context, e domain.WeightLogEntry) (int64, error)
	updateFn       func(ctx context.Context, userID, id int64, p domain.WeightLogPatch) (*domain.WeightLogEntry, error)
	deleteFn       func(ctx context.Context, userID, id int64) (bool, error)
	deleteLatestFn func(ctx context.Context, userID int64) (bool, error)
	latestFn       func(ctx context.Context, userID int64, day string, loc *time.Location) (*domain.WeightLogEntry, error)
	listFn         func(ctx context.Context, userID int64, limit int) ([]domain.WeightLogEntry, error)
	sinceFn        func(ctx context.Context, userID int64, since time.Time) ([]domain.WeightLogEntry, error)
}

func (m *mockWeightRepo) AddWeightLog(ctx context.Context, e domain.WeightLogEntry) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, e)
	}
	return 1, nil
}

func (m *mockWeightRepo) UpdateWeightLog(ctx context.Context, userID, id int64, p domain.WeightLogPatch) (*domain.WeightLogEntry, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, p)
	}
	return nil, nil
}

func (m *mockWeightRepo) DeleteWeightLog(ctx context.Context, userID, id int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return false, nil
}

func (m *mockWeightRepo) DeleteLatestWeightLog(ctx context.Context, userID int64) (bool, error) {
	if m.deleteLatestFn != nil {
		return m.deleteLatestFn(ctx, userID)
	}
	return false, nil
}

func (m *mockWeightRepo) LatestWeightForLocalDay(ctx context.Context, userID int64, day string, loc *time.Location) (*domain.WeightLogEntry, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, userID, day, loc)
	}
	return nil, nil
}

func (m *mockWeightRepo) ListRecentWeightLogs(ctx context.Context, userID int64, limit int) ([]domain.WeightLogEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockWeightRepo) ListWeightLogsSince(ctx context.Context, userID int64, since time.Time) ([]domain.WeightLogEntry, error) {
	if m.sinceFn != nil {
		return m.sinceFn(ctx, userID, since)
	}
	return nil, nil
}

type mockIntakeRepo struct {
	addFn    func(ctx context.Context, userID int64, kind domain.IntakeKind, amount float64, at time.Time) (int64, error)
	deleteFn func(ctx context.Context, userID, id int64) error
	listFn   func(ctx context.Context, userID int64, limit int) ([]domain.IntakeEvent, error)
	dayFn    func(ctx context.Context, userID int64, day string, loc *time.Location) (domain.DailyTracking, error)
}

func (m *mockIntakeRepo) AddIntakeEvent(ctx context.Context, userID int64, kind domain.IntakeKind, amount float64, at time.Time) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, userID, kind, amount, at)
	}
	return 1, nil
}

func (m *mockIntakeRepo) DeleteIntakeEvent(ctx context.Context, userID, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

func (m *mockIntakeRepo) ListRecentIntakeEvents(ctx context.Context, userID int64, limit int) ([]domain.IntakeEvent, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockIntakeRepo) IntakeForLocalDay(ctx context.Context, userID int64, day string, loc *time.Location) (domain.DailyTracking, error) {
	if m.dayFn != nil {
		return m.dayFn(ctx, userID, day, loc)
	}
	return domain.DailyTracking{Day: day}, nil
}

type mockProfileRepo struct {
	getFn    func(ctx context.Context, userID int64) (*domain.AthleteProfile, error)
	upsertFn func(ctx context.Context, p domain.AthleteProfile) error
}

func (m *mockProfileRepo) GetProfile(ctx context.Context, userID int64) (*domain.AthleteProfile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepo) UpsertProfile(ctx context.Context, p domain.AthleteProfile) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p)
	}
	return nil
}

type recordingInvalidator struct {
	mu    sync.Mutex
	users []int64
}

func (r *recordingInvalidator) Invalidate(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
}

func (r *recordingInvalidator) calls() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.users...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
