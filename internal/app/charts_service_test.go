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

func newChartsService(wr domain.WeightLogRepository, ir domain.IntakeRepository) *app.ChartsService {
	svc := app.NewChartsService(wr, ir, time.UTC)
	svc.SetClock(fixedClock(testNow))
	return svc
}

func TestGetDaily_BadInput(t *testing.T) {
	svc := newChartsService(&mockWeightRepo{}, &mockIntakeRepo{})
	if _, err := svc.GetDaily(context.Background(), 1, 7, "stones"); !errors.Is(err, app.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad unit, got %v", err)
	}
	if _, err := svc.GetDaily(context.Background(), 1, 0, "lb"); !errors.Is(err, app.ErrValidation) {
		t.Fatalf("expected ErrValidation for zero days, got %v", err)
	}
}

func TestGetDaily_Success(t *testing.T) {
	wr := &mockWeightRepo{
		latestFn: func(_ context.Context, _ int64, day string, _ *time.Location) (*domain.WeightLogEntry, error) {
			if day == "2026-03-04" {
				return nil, nil
			}
			return &domain.WeightLogEntry{ID: 1, WeightLbs: 150, Type: domain.LogMorning}, nil
		},
	}
	ir := &mockIntakeRepo{
		dayFn: func(_ context.Context, _ int64, day string, _ *time.Location) (domain.DailyTracking, error) {
			return domain.DailyTracking{Day: day, WaterOz: 80, CarbsG: 200}, nil
		},
	}

	svc := newChartsService(wr, ir)
	points, err := svc.GetDaily(context.Background(), 1, 3, "lb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	wantDays := []string{"2026-03-03", "2026-03-04", "2026-03-05"}
	for i, p := range points {
		if p.Day != wantDays[i] {
			t.Errorf("point %d: expected day %s, got %s", i, wantDays[i], p.Day)
		}
		if p.WaterOz != 80 || p.CarbsG != 200 {
			t.Errorf("unexpected intake %+v", p)
		}
		if math.Abs(p.WaterLiters-80/33.8140227) > 1e-9 {
			t.Errorf("point %d: water liters %v", i, p.WaterLiters)
		}
	}
	if points[1].Weight != nil {
		t.Errorf("expected no weight on %s, got %+v", points[1].Day, points[1].Weight)
	}
	if points[2].Weight == nil || points[2].Weight.Value != 150 || points[2].Weight.Type != domain.LogMorning {
		t.Errorf("unexpected weight %+v", points[2].Weight)
	}
}

func TestGetDaily_ConvertUnit(t *testing.T) {
	wr := &mockWeightRepo{
		latestFn: func(_ context.Context, _ int64, _ string, _ *time.Location) (*domain.WeightLogEntry, error) {
			return &domain.WeightLogEntry{ID: 1, WeightLbs: 220.46226218}, nil
		},
	}
	svc := newChartsService(wr, &mockIntakeRepo{})
	points, err := svc.GetDaily(context.Background(), 1, 1, "kg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(points[0].Weight.Value-100) > 0.001 {
		t.Errorf("expected ~100 kg, got %v", points[0].Weight.Value)
	}
	if points[0].Weight.Unit != "kg" {
		t.Errorf("expected unit kg, got %s", points[0].Weight.Unit)
	}
}

func TestGetDaily_RepoError(t *testing.T) {
	ir := &mockIntakeRepo{
		dayFn: func(context.Context, int64, string, *time.Location) (domain.DailyTracking, error) {
			return domain.DailyTracking{}, errors.New("db down")
		},
	}
	svc := newChartsService(&mockWeightRepo{}, ir)
	if _, err := svc.GetDaily(context.Background(), 1, 7, "lb"); err == nil {
		t.Fatal("expected error")
	}
}
