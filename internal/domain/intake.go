package domain

import (
	"context"
	"time"
)

// IntakeKind is what an intake event measures.
type IntakeKind string

const (
	IntakeWater   IntakeKind = "water"   // fluid ounces
	IntakeCarbs   IntakeKind = "carbs"   // grams
	IntakeProtein IntakeKind = "protein" // grams
)

// Valid reports whether k is a known intake kind.
func (k IntakeKind) Valid() bool {
	return k == IntakeWater || k == IntakeCarbs || k == IntakeProtein
}

// IntakeEvent is a single consumption (or correction, when negative) event.
type IntakeEvent struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Kind      IntakeKind `json:"kind"`
	Amount    float64    `json:"amount"`
	CreatedAt time.Time  `json:"createdAt"`
}

// DailyTracking is what the athlete consumed on one local calendar day.
type DailyTracking struct {
	Day      string  `json:"day" yaml:"day"`
	WaterOz  float64 `json:"waterOz" yaml:"waterOz"`
	CarbsG   float64 `json:"carbsG" yaml:"carbsG"`
	ProteinG float64 `json:"proteinG" yaml:"proteinG"`
}

// Add folds one event into the day's totals.
func (d *DailyTracking) Add(kind IntakeKind, amount float64) {
	switch kind {
	case IntakeWater:
		d.WaterOz += amount
	case IntakeCarbs:
		d.CarbsG += amount
	case IntakeProtein:
		d.ProteinG += amount
	}
}

// IntakeRepository is the port for intake persistence.
type IntakeRepository interface {
	AddIntakeEvent(ctx context.Context, userID int64, kind IntakeKind, amount float64, createdAt time.Time) (int64, error)
	DeleteIntakeEvent(ctx context.Context, userID int64, id int64) error
	ListRecentIntakeEvents(ctx context.Context, userID int64, limit int) ([]IntakeEvent, error)
	IntakeForLocalDay(ctx context.Context, userID int64, localDay string, loc *time.Location) (DailyTracking, error)
}
