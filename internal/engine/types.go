// Package engine turns an athlete's profile and weight-log history into a
// projected weigh-in weight, day-specific guidance and a readiness score.
//
// Everything in this package is a pure function of its inputs. The caller
// supplies "now", so a simulated date works the same as the wall clock, and
// no result is cached here.
package engine

import (
	"time"

	"cutcoach/internal/domain"
)

// Config holds the tunable estimator parameters.
type Config struct {
	// Decay is the per-day EMA weight applied to older samples.
	Decay float64
	// WindowDays bounds how far back samples are considered.
	WindowDays int
	// MaxDriftSpan is the longest bed-to-morning gap accepted as one night.
	MaxDriftSpan time.Duration
	// MaxSweatRate is the upper end of the plausible sweat band, lbs/hr.
	MaxSweatRate float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Decay:        0.88,
		WindowDays:   14,
		MaxDriftSpan: 16 * time.Hour,
		MaxSweatRate: 4.0,
	}
}

// Input is everything a single computation needs. Logs may be in any order.
type Input struct {
	Profile  domain.AthleteProfile   `yaml:"profile"`
	Logs     []domain.WeightLogEntry `yaml:"logs"`
	Tracking *domain.DailyTracking   `yaml:"tracking"`
	Now      time.Time               `yaml:"now"`
}

// Insights is the serialisable result of Engine.Compute.
type Insights struct {
	Configured bool             `json:"configured"`
	ComputedAt time.Time        `json:"computedAt"`
	Metrics    DerivedMetrics   `json:"metrics"`
	Phase      PhaseTargets     `json:"phase"`
	Guidance   GuidancePlan     `json:"guidance"`
	Score      CutScore         `json:"cutScore"`
	Safety     SafetyAssessment `json:"safety"`
	Notes      []DataNote       `json:"notes"`
}

// DerivedMetrics are recomputed on every call. Nil rates mean there was not
// enough data to estimate them, never zero.
type DerivedMetrics struct {
	CurrentWeightLbs          float64  `json:"currentWeightLbs"`
	TargetWeightLbs           float64  `json:"targetWeightLbs"`
	WeightToLoseLbs           float64  `json:"weightToLoseLbs"`
	OvernightDriftLbs         *float64 `json:"overnightDriftLbs"`
	SessionSweatRateLbsPerHr  *float64 `json:"sessionSweatRateLbsPerHr"`
	DriftSamples              int      `json:"driftSamples"`
	SweatSamples              int      `json:"sweatSamples"`
	DaysUntilWeighIn          int      `json:"daysUntilWeighIn"`
	Window                    Window   `json:"window"`
	ProjectedWeighInWeightLbs float64  `json:"projectedWeighInWeightLbs"`
	ProjectedGapLbs           float64  `json:"projectedGapLbs"`
	NaiveProjection           bool     `json:"naiveProjection"`
	IsOnTrack                 bool     `json:"isOnTrack"`
	IsAtWeight                bool     `json:"isAtWeight"`
}

// Cutoff is when an allowance ends. Label is either a keyword ("now",
// "bedtime", "weigh-in", "after weigh-in") or a local clock time "15:04";
// At is set only for clock times and "now".
type Cutoff struct {
	Label string     `json:"label"`
	At    *time.Time `json:"at"`
}

// WorkoutPrescription is an extra session needed to close the projected gap.
type WorkoutPrescription struct {
	Minutes         int     `json:"minutes"`
	ExpectedLossLbs float64 `json:"expectedLossLbs"`
}

// GuidancePlan fields are nil when they do not apply.
type GuidancePlan struct {
	FluidAllowanceOz *int                 `json:"fluidAllowanceOz"`
	FluidCutoff      *Cutoff              `json:"fluidCutoff"`
	FoodCeilingLbs   *float64             `json:"foodCeilingLbs"`
	FoodCutoff       *Cutoff              `json:"foodCutoff"`
	Workout          *WorkoutPrescription `json:"workout"`
	TradeoffNote     *string              `json:"tradeoffNote"`
}

// DataNote records a sample excluded from rate estimation.
type DataNote struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Note kinds.
const (
	NoteDriftSpan       = "drift_span"
	NoteSessionDay      = "session_day"
	NoteSessionDuration = "session_duration"
	NoteSweatRateBand   = "sweat_rate_band"
)

func ptr[T any](v T) *T { return &v }
