package app

import (
	"context"
	"fmt"
	"time"

	"cutcoach/internal/domain"
)

// Per-event bounds. Negative amounts are corrections.
var intakeLimits = map[domain.IntakeKind]float64{
	domain.IntakeWater:   256, // fl oz
	domain.IntakeCarbs:   1000,
	domain.IntakeProtein: 500,
}

// IntakeService encapsulates daily water, carbohydrate and protein tracking.
type IntakeService struct {
	repo  domain.IntakeRepository
	inv   Invalidator
	zones zones
	clock func() time.Time
}

// NewIntakeService creates an IntakeService backed by the given repository.
func NewIntakeService(repo domain.IntakeRepository, inv Invalidator, loc *time.Location) *IntakeService {
	if loc == nil {
		loc = time.UTC
	}
	return &IntakeService{repo: repo, inv: orNoop(inv), zones: zones{fallback: loc}, clock: time.Now}
}

// WithProfiles buckets days in each athlete's profile zone.
func (s *IntakeService) WithProfiles(pr domain.ProfileRepository) *IntakeService {
	s.zones.profiles = pr
	return s
}

// GetToday returns the running totals for the current local day.
func (s *IntakeService) GetToday(ctx context.Context, userID int64) (domain.DailyTracking, error) {
	loc, err := s.zones.location(ctx, userID)
	if err != nil {
		return domain.DailyTracking{}, err
	}
	today := s.clock().In(loc).Format(dayLayout)
	return s.repo.IntakeForLocalDay(ctx, userID, today, loc)
}

// RecordEvent validates and stores an intake event.
func (s *IntakeService) RecordEvent(ctx context.Context, userID int64, kind domain.IntakeKind, amount float64) (int64, error) {
	limit, ok := intakeLimits[kind]
	if !ok {
		return 0, fmt.Errorf("%w: kind must be water, carbs or protein", ErrValidation)
	}
	if amount == 0 || amount < -limit || amount > limit {
		return 0, fmt.Errorf("%w: amount must be non-zero and within [-%g, %g]", ErrValidation, limit, limit)
	}
	id, err := s.repo.AddIntakeEvent(ctx, userID, kind, amount, s.clock())
	if err != nil {
		return 0, err
	}
	s.inv.Invalidate(userID)
	return id, nil
}

// ListRecent returns the most recent intake events up to limit.
func (s *IntakeService) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.IntakeEvent, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.repo.ListRecentIntakeEvents(ctx, userID, min(limit, maxRecentLimit))
}

// UndoLast deletes the most recent intake event.
func (s *IntakeService) UndoLast(ctx context.Context, userID int64) (bool, int64, error) {
	items, err := s.repo.ListRecentIntakeEvents(ctx, userID, 1)
	if err != nil {
		return false, 0, err
	}
	if len(items) == 0 {
		return false, 0, nil
	}
	if err := s.repo.DeleteIntakeEvent(ctx, userID, items[0].ID); err != nil {
		return false, 0, err
	}
	s.inv.Invalidate(userID)
	return true, items[0].ID, nil
}
