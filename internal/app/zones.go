package app

import (
	"context"
	"fmt"
	"time"

	"cutcoach/internal/domain"
)

// zones resolves the zone a user's local days are bucketed in: the athlete
// profile's zone when set, else the server default. Insights use the same
// rule, so "today" means one calendar day everywhere.
type zones struct {
	profiles domain.ProfileRepository
	fallback *time.Location
}

func (z zones) location(ctx context.Context, userID int64) (*time.Location, error) {
	if z.profiles == nil {
		return z.fallback, nil
	}
	p, err := z.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile zone: %w", err)
	}
	if p == nil || p.TimeZone == "" {
		return z.fallback, nil
	}
	return p.Location(), nil
}
