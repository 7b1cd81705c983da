package app

import (
	"context"
	"fmt"
	"time"

	"cutcoach/internal/domain"
)

const maxChartDays = 366

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	weightRepo domain.WeightLogRepository
	intakeRepo domain.IntakeRepository
	zones      zones
	clock      func() time.Time
}

// NewChartsService creates a ChartsService backed by the given repositories.
func NewChartsService(wr domain.WeightLogRepository, ir domain.IntakeRepository, loc *time.Location) *ChartsService {
	if loc == nil {
		loc = time.UTC
	}
	return &ChartsService{weightRepo: wr, intakeRepo: ir, zones: zones{fallback: loc}, clock: time.Now}
}

// WithProfiles buckets days in each athlete's profile zone.
func (s *ChartsService) WithProfiles(pr domain.ProfileRepository) *ChartsService {
	s.zones.profiles = pr
	return s
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day         string       `json:"day"`
	WaterOz     float64      `json:"waterOz"`
	WaterLiters float64      `json:"waterLiters"`
	CarbsG      float64      `json:"carbsG"`
	ProteinG    float64      `json:"proteinG"`
	Weight      *WeightPoint `json:"weight"`
}

// WeightPoint is the optional weight value within a DayPoint.
type WeightPoint struct {
	Value float64        `json:"value"`
	Unit  string         `json:"unit"`
	Type  domain.LogType `json:"type"`
}

// GetDaily returns per-day chart data for the last days days, oldest first,
// with weights converted to the requested unit.
func (s *ChartsService) GetDaily(ctx context.Context, userID int64, days int, unit string) ([]DayPoint, error) {
	if !domain.ValidWeightUnit(unit) {
		return nil, fmt.Errorf("%w: unit must be \"kg\" or \"lb\"", ErrValidation)
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrValidation)
	}
	days = min(days, maxChartDays)

	loc, err := s.zones.location(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.clock().In(loc)
	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		dayStr := today.AddDate(0, 0, -i).Format(dayLayout)

		tracking, err := s.intakeRepo.IntakeForLocalDay(ctx, userID, dayStr, loc)
		if err != nil {
			return nil, err
		}
		entry, err := s.weightRepo.LatestWeightForLocalDay(ctx, userID, dayStr, loc)
		if err != nil {
			return nil, err
		}

		var wp *WeightPoint
		if entry != nil {
			wp = &WeightPoint{
				Value: domain.ConvertWeight(entry.WeightLbs, domain.UnitLb, unit),
				Unit:  unit,
				Type:  entry.Type,
			}
		}
		points = append(points, DayPoint{
			Day:         dayStr,
			WaterOz:     tracking.WaterOz,
			WaterLiters: domain.FluidOzToLiters(tracking.WaterOz),
			CarbsG:      tracking.CarbsG,
			ProteinG:    tracking.ProteinG,
			Weight:      wp,
		})
	}
	return points, nil
}
