package app_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"cutcoach/internal/app"
	"cutcoach/internal/domain"
)

var testNow = time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)

func newWeightService(repo domain.WeightLogRepository, inv app.Invalidator) *app.WeightService {
	svc := app.NewWeightService(repo, inv, time.UTC)
	svc.SetClock(fixedClock(testNow))
	return svc
}

func TestAddLog_Validation(t *testing.T) {
	inv := &recordingInvalidator{}
	svc := newWeightService(&mockWeightRepo{}, inv)

	neg := -5
	sleep := 30.0
	tests := []struct {
		name string
		in   app.AddLogInput
	}{
		{"zero value", app.AddLogInput{Value: 0}},
		{"negative value", app.AddLogInput{Value: -5, Unit: "kg"}},
		{"bad unit", app.AddLogInput{Value: 80, Unit: "stones"}},
		{"too heavy", app.AddLogInput{Value: 1200}},
		{"bad type", app.AddLogInput{Value: 150, Type: "lunch"}},
		{"negative duration", app.AddLogInput{Value: 150, Type: domain.LogPostPractice, DurationMinutes: &neg}},
		{"too much sleep", app.AddLogInput{Value: 150, Type: domain.LogMorning, SleepHours: &sleep}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddLog(context.Background(), 1, tc.in)
			if !errors.Is(err, app.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
	if len(inv.calls()) != 0 {
		t.Errorf("rejected input must not invalidate, got %v", inv.calls())
	}
}

func TestAddLog_ConvertsAndDefaults(t *testing.T) {
	var stored domain.WeightLogEntry
	repo := &mockWeightRepo{
		addFn: func(_ context.Context, e domain.WeightLogEntry) (int64, error) {
			stored = e
			return 42, nil
		},
	}
	inv := &recordingInvalidator{}
	svc := newWeightService(repo, inv)

	e, err := svc.AddLog(context.Background(), 7, app.AddLogInput{Value: 60, Unit: "kg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID != 42 || e.UserID != 7 {
		t.Errorf("unexpected entry %+v", e)
	}
	if math.Abs(stored.WeightLbs-132.277357308) > 1e-6 {
		t.Errorf("expected kg to be stored as lbs, got %v", stored.WeightLbs)
	}
	if stored.Type != domain.LogCheckIn {
		t.Errorf("expected default type check-in, got %q", stored.Type)
	}
	if !stored.Timestamp.Equal(testNow) {
		t.Errorf("expected timestamp %s, got %s", testNow, stored.Timestamp)
	}
	if got := inv.calls(); len(got) != 1 || got[0] != 7 {
		t.Errorf("expected one invalidation for user 7, got %v", got)
	}
}

func TestAddLog_ExplicitTimestamp(t *testing.T) {
	var stored domain.WeightLogEntry
	repo := &mockWeightRepo{
		addFn: func(_ context.Context, e domain.WeightLogEntry) (int64, error) {
			stored = e
			return 1, nil
		},
	}
	svc := newWeightService(repo, nil)

	ts := time.Date(2026, 3, 4, 22, 0, 0, 0, time.FixedZone("CST", -6*3600))
	mins := 90
	_, err := svc.AddLog(context.Background(), 1, app.AddLogInput{
		Value: 141.2, Type: domain.LogPostPractice, Timestamp: &ts, DurationMinutes: &mins,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Timestamp.Location() != time.UTC || !stored.Timestamp.Equal(ts) {
		t.Errorf("expected timestamp stored as UTC, got %s", stored.Timestamp)
	}
	if stored.DurationMinutes == nil || *stored.DurationMinutes != 90 {
		t.Errorf("expected duration 90, got %v", stored.DurationMinutes)
	}
}

func TestEditLog(t *testing.T) {
	v := 140.0
	t.Run("nothing to update", func(t *testing.T) {
		svc := newWeightService(&mockWeightRepo{}, nil)
		_, err := svc.EditLog(context.Background(), 1, 5, app.EditLogInput{})
		if !errors.Is(err, app.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
	t.Run("missing log", func(t *testing.T) {
		svc := newWeightService(&mockWeightRepo{}, nil)
		_, err := svc.EditLog(context.Background(), 1, 5, app.EditLogInput{Value: &v})
		if !errors.Is(err, app.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
	t.Run("updates weight", func(t *testing.T) {
		repo := &mockWeightRepo{
			updateFn: func(_ context.Context, userID, id int64, p domain.WeightLogPatch) (*domain.WeightLogEntry, error) {
				if p.WeightLbs == nil || *p.WeightLbs != 140 || p.Timestamp != nil {
					t.Errorf("unexpected patch %+v", p)
				}
				return &domain.WeightLogEntry{ID: id, UserID: userID, WeightLbs: *p.WeightLbs}, nil
			},
		}
		inv := &recordingInvalidator{}
		svc := newWeightService(repo, inv)
		e, err := svc.EditLog(context.Background(), 1, 5, app.EditLogInput{Value: &v})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.ID != 5 || len(inv.calls()) != 1 {
			t.Errorf("expected edited log 5 and one invalidation, got %+v %v", e, inv.calls())
		}
	})
}

func TestDeleteLog(t *testing.T) {
	svc := newWeightService(&mockWeightRepo{}, nil)
	if err := svc.DeleteLog(context.Background(), 1, 99); !errors.Is(err, app.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	inv := &recordingInvalidator{}
	repo := &mockWeightRepo{
		deleteFn: func(_ context.Context, _, _ int64) (bool, error) { return true, nil },
	}
	svc = newWeightService(repo, inv)
	if err := svc.DeleteLog(context.Background(), 1, 99); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inv.calls()) != 1 {
		t.Errorf("expected one invalidation, got %v", inv.calls())
	}
}

func TestUndoLast(t *testing.T) {
	repo := &mockWeightRepo{
		deleteLatestFn: func(_ context.Context, _ int64) (bool, error) { return true, nil },
		latestFn: func(_ context.Context, _ int64, day string, _ *time.Location) (*domain.WeightLogEntry, error) {
			if day != "2026-03-05" {
				t.Errorf("expected today's day, got %q", day)
			}
			return &domain.WeightLogEntry{ID: 3, WeightLbs: 150}, nil
		},
	}
	inv := &recordingInvalidator{}
	svc := newWeightService(repo, inv)

	deleted, entry, day, err := svc.UndoLast(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted || entry == nil || entry.ID != 3 || day != "2026-03-05" {
		t.Errorf("unexpected result deleted=%v entry=%+v day=%s", deleted, entry, day)
	}
	if len(inv.calls()) != 1 {
		t.Errorf("expected one invalidation, got %v", inv.calls())
	}
}

func TestListRecent_ClampsLimit(t *testing.T) {
	var got []int
	repo := &mockWeightRepo{
		listFn: func(_ context.Context, _ int64, limit int) ([]domain.WeightLogEntry, error) {
			got = append(got, limit)
			return nil, nil
		},
	}
	svc := newWeightService(repo, nil)
	for _, l := range []int{0, 10, 10000} {
		_, _ = svc.ListRecent(context.Background(), 1, l)
	}
	want := []int{50, 10, 500}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("limit %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}
