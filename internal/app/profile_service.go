package app

import (
	"context"
	"fmt"
	"time"

	"cutcoach/internal/domain"
)

const maxPracticeMinutes = 300

// ProfileService reads and updates the athlete profile that drives insights.
type ProfileService struct {
	repo  domain.ProfileRepository
	inv   Invalidator
	loc   *time.Location
	clock func() time.Time
}

// NewProfileService creates a ProfileService. loc is the zone given to
// profiles that do not name one.
func NewProfileService(repo domain.ProfileRepository, inv Invalidator, loc *time.Location) *ProfileService {
	if loc == nil {
		loc = time.UTC
	}
	return &ProfileService{repo: repo, inv: orNoop(inv), loc: loc, clock: time.Now}
}

// Get returns the user's profile, or ErrNotFound before the first save.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*domain.AthleteProfile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("profile: %w", ErrNotFound)
	}
	return p, nil
}

// Save validates and stores the profile. A profile may be saved before it is
// complete enough to compute insights; only malformed values are rejected.
func (s *ProfileService) Save(ctx context.Context, p domain.AthleteProfile) (*domain.AthleteProfile, error) {
	if p.TimeZone == "" {
		p.TimeZone = s.loc.String()
	}
	if p.WeighInTime == "" {
		p.WeighInTime = domain.DefaultWeighInTime
	}
	if p.PracticeMinutes == 0 {
		p.PracticeMinutes = domain.DefaultPracticeMinutes
	}
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.clock().UTC()
	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	s.inv.Invalidate(p.UserID)
	return &p, nil
}

func validateProfile(p domain.AthleteProfile) error {
	switch {
	case p.CurrentWeightLbs < 0 || p.CurrentWeightLbs > maxWeightLbs:
		return fmt.Errorf("%w: currentWeightLbs out of range", ErrValidation)
	case p.TargetWeightClassLbs < 0 || p.TargetWeightClassLbs > maxWeightLbs:
		return fmt.Errorf("%w: targetWeightClassLbs out of range", ErrValidation)
	case p.Protocol != 0 && !p.Protocol.Valid():
		return fmt.Errorf("%w: unknown protocol %d", ErrValidation, p.Protocol)
	case p.PracticeMinutes < 0 || p.PracticeMinutes > maxPracticeMinutes:
		return fmt.Errorf("%w: practiceMinutes must be within [0, %d]", ErrValidation, maxPracticeMinutes)
	}
	if _, err := time.LoadLocation(p.TimeZone); err != nil {
		return fmt.Errorf("%w: unknown time zone %q", ErrValidation, p.TimeZone)
	}
	if _, err := time.Parse("15:04", p.WeighInTime); err != nil {
		return fmt.Errorf("%w: weighInTime must be HH:MM", ErrValidation)
	}
	if p.WeighInDate != "" {
		if _, err := time.Parse(dayLayout, p.WeighInDate); err != nil {
			return fmt.Errorf("%w: weighInDate must be YYYY-MM-DD", ErrValidation)
		}
	}
	for _, d := range p.PracticeDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: practice day %d out of range", ErrValidation, d)
		}
	}
	return nil
}
