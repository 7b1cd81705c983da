package app

import (
	"context"
	"fmt"
	"time"

	"cutcoach/internal/domain"
)

const (
	maxWeightLbs       = 1000
	maxSessionMinutes  = 600
	maxSleepHours      = 24
	defaultRecentLimit = 50
	maxRecentLimit     = 500
)

// WeightService encapsulates weight-log use cases.
type WeightService struct {
	repo  domain.WeightLogRepository
	inv   Invalidator
	zones zones
	clock func() time.Time
}

// NewWeightService creates a WeightService backed by the given repository.
// Days are bucketed in loc; inv is notified after every change.
func NewWeightService(repo domain.WeightLogRepository, inv Invalidator, loc *time.Location) *WeightService {
	if loc == nil {
		loc = time.UTC
	}
	return &WeightService{repo: repo, inv: orNoop(inv), zones: zones{fallback: loc}, clock: time.Now}
}

// WithProfiles buckets days in each athlete's profile zone.
func (s *WeightService) WithProfiles(pr domain.ProfileRepository) *WeightService {
	s.zones.profiles = pr
	return s
}

// AddLogInput is a new weight log as entered by the athlete.
type AddLogInput struct {
	Value           float64
	Unit            string
	Type            domain.LogType
	Timestamp       *time.Time
	DurationMinutes *int
	SleepHours      *float64
}

// AddLog validates and stores a weight log. Weights are stored in pounds.
func (s *WeightService) AddLog(ctx context.Context, userID int64, in AddLogInput) (*domain.WeightLogEntry, error) {
	if in.Unit == "" {
		in.Unit = domain.UnitLb
	}
	if in.Type == "" {
		in.Type = domain.LogCheckIn
	}
	lbs, err := validateWeight(in.Value, in.Unit)
	if err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown log type %q", ErrValidation, in.Type)
	}
	if d := in.DurationMinutes; d != nil && (*d < 0 || *d > maxSessionMinutes) {
		return nil, fmt.Errorf("%w: durationMinutes must be within [0, %d]", ErrValidation, maxSessionMinutes)
	}
	if h := in.SleepHours; h != nil && (*h < 0 || *h > maxSleepHours) {
		return nil, fmt.Errorf("%w: sleepHours must be within [0, %d]", ErrValidation, maxSleepHours)
	}

	ts := s.clock()
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}
	e := domain.WeightLogEntry{
		UserID:          userID,
		Timestamp:       ts.UTC(),
		WeightLbs:       lbs,
		Type:            in.Type,
		DurationMinutes: in.DurationMinutes,
		SleepHours:      in.SleepHours,
	}
	id, err := s.repo.AddWeightLog(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = id
	s.inv.Invalidate(userID)
	return &e, nil
}

// EditLogInput changes the weight and/or time of an existing log.
type EditLogInput struct {
	Value     *float64
	Unit      string
	Timestamp *time.Time
}

// EditLog applies a partial update to one log.
func (s *WeightService) EditLog(ctx context.Context, userID, id int64, in EditLogInput) (*domain.WeightLogEntry, error) {
	if in.Value == nil && in.Timestamp == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	var patch domain.WeightLogPatch
	if in.Value != nil {
		unit := in.Unit
		if unit == "" {
			unit = domain.UnitLb
		}
		lbs, err := validateWeight(*in.Value, unit)
		if err != nil {
			return nil, err
		}
		patch.WeightLbs = &lbs
	}
	if in.Timestamp != nil {
		ts := in.Timestamp.UTC()
		patch.Timestamp = &ts
	}
	e, err := s.repo.UpdateWeightLog(ctx, userID, id, patch)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("weight log %d: %w", id, ErrNotFound)
	}
	s.inv.Invalidate(userID)
	return e, nil
}

// DeleteLog removes one log.
func (s *WeightService) DeleteLog(ctx context.Context, userID, id int64) error {
	ok, err := s.repo.DeleteWeightLog(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("weight log %d: %w", id, ErrNotFound)
	}
	s.inv.Invalidate(userID)
	return nil
}

// GetToday returns the latest log of the current local day, or nil.
func (s *WeightService) GetToday(ctx context.Context, userID int64) (*domain.WeightLogEntry, string, error) {
	loc, err := s.zones.location(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	today := s.clock().In(loc).Format(dayLayout)
	e, err := s.repo.LatestWeightForLocalDay(ctx, userID, today, loc)
	return e, today, err
}

// ListRecent returns the newest logs first. limit is clamped to a sane range.
func (s *WeightService) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.WeightLogEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	limit = min(limit, maxRecentLimit)
	return s.repo.ListRecentWeightLogs(ctx, userID, limit)
}

// UndoLast deletes the most recent log and returns the new latest entry for
// today.
func (s *WeightService) UndoLast(ctx context.Context, userID int64) (bool, *domain.WeightLogEntry, string, error) {
	loc, err := s.zones.location(ctx, userID)
	if err != nil {
		return false, nil, "", err
	}
	today := s.clock().In(loc).Format(dayLayout)
	deleted, err := s.repo.DeleteLatestWeightLog(ctx, userID)
	if err != nil {
		return false, nil, today, err
	}
	if deleted {
		s.inv.Invalidate(userID)
	}
	entry, err := s.repo.LatestWeightForLocalDay(ctx, userID, today, loc)
	if err != nil {
		return deleted, nil, today, err
	}
	return deleted, entry, today, nil
}

func validateWeight(value float64, unit string) (float64, error) {
	if !domain.ValidWeightUnit(unit) {
		return 0, fmt.Errorf("%w: unit must be \"kg\" or \"lb\"", ErrValidation)
	}
	lbs := domain.ToLbs(value, unit)
	if lbs <= 0 || lbs > maxWeightLbs {
		return 0, fmt.Errorf("%w: weight must be > 0 and at most %d lbs", ErrValidation, maxWeightLbs)
	}
	return lbs, nil
}
