package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"cutcoach/internal/domain"
)

// ErrNotConfigured means the profile lacks what a projection needs. Missing
// log data is never an error.
var ErrNotConfigured = errors.New("profile not configured")

// ProfileError names the profile field that stopped the computation.
type ProfileError struct {
	Field  string
	Reason string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrNotConfigured, e.Field, e.Reason)
}

func (e *ProfileError) Unwrap() error { return ErrNotConfigured }

// ValidateProfile checks the fields the engine cannot work without.
func ValidateProfile(p domain.AthleteProfile) error {
	if p.TargetWeightClassLbs <= 0 {
		return &ProfileError{Field: "targetWeightClassLbs", Reason: "must be positive"}
	}
	if _, ok := p.WeighInAt(); !ok {
		return &ProfileError{Field: "weighInDate", Reason: "is missing or invalid"}
	}
	if !p.Protocol.Valid() {
		return &ProfileError{Field: "protocol", Reason: fmt.Sprintf("%d is not a known protocol", p.Protocol)}
	}
	return nil
}

// DaysUntil counts whole days from now to the weigh-in. Less than 24h out is
// 0; after the weigh-in it is negative.
func DaysUntil(weighIn, now time.Time) int {
	return int(math.Floor(weighIn.Sub(now).Hours() / 24))
}

const sleepLookback = 24 * time.Hour

// Engine computes insights with a fixed Config. It holds no other state and
// is safe for concurrent use.
type Engine struct {
	cfg Config
}

// New returns an Engine. Zero or out-of-range settings fall back to the
// defaults.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Decay <= 0 || cfg.Decay >= 1 {
		cfg.Decay = def.Decay
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = def.WindowDays
	}
	if cfg.MaxDriftSpan <= 0 {
		cfg.MaxDriftSpan = def.MaxDriftSpan
	}
	if cfg.MaxSweatRate <= 0 {
		cfg.MaxSweatRate = def.MaxSweatRate
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Compute derives metrics, guidance, score and safety for one athlete at
// in.Now. It returns a *ProfileError when the profile is unusable; sparse or
// noisy logs only degrade the result. The input is never modified.
func (e *Engine) Compute(in Input) (*Insights, error) {
	p := in.Profile
	if err := ValidateProfile(p); err != nil {
		return nil, err
	}
	weighIn, _ := p.WeighInAt()
	loc := p.Location()
	now := in.Now.In(loc)

	logs := sortedLogs(in.Logs, now)
	current := p.CurrentWeightLbs
	if len(logs) > 0 {
		current = logs[len(logs)-1].WeightLbs
	}
	if current <= 0 {
		return nil, &ProfileError{Field: "currentWeightLbs", Reason: "no weight logged and none on the profile"}
	}

	days := DaysUntil(weighIn, now)
	rates := EstimateRates(e.cfg, logs, now, loc)
	phase := ClassifyPhase(p.Protocol, days)

	proj := Project(ProjectionParams{
		CurrentWeightLbs: current,
		MorningWeightLbs: latestWeightOf(logs, domain.LogMorning),
		TargetLbs:        p.TargetWeightClassLbs,
		DaysUntil:        days,
		DriftLbs:         rates.DriftLbs,
		SweatRate:        rates.SweatRateLbsPerHr,
		Today:            now,
		PracticesOn:      p.PracticesOn,
		PracticeMinutes:  p.SessionMinutes(),
		PracticedToday:   loggedToday(logs, domain.LogPostPractice, now, loc),
	})

	plan := Guide(GuidanceParams{
		DaysUntil:    days,
		Now:          now,
		WeighIn:      weighIn.In(loc),
		CurrentLbs:   current,
		TargetLbs:    p.TargetWeightClassLbs,
		ProjectedLbs: proj.WeightLbs,
		GapLbs:       proj.GapLbs,
		SweatRate:    rates.SweatRateLbsPerHr,
		Phase:        phase,
	})

	sp := ScoreParams{
		Phase:      phase,
		GapLbs:     proj.GapLbs,
		SleepHours: recentSleep(logs, now),
		DriftLbs:   rates.DriftLbs,
		CurrentLbs: current,
	}
	if plan.Workout != nil {
		sp.WorkoutMinutes = plan.Workout.Minutes
	}
	if t := in.Tracking; t != nil {
		sp.WaterOz, sp.CarbsG, sp.ProteinG = ptr(t.WaterOz), ptr(t.CarbsG), ptr(t.ProteinG)
	}

	notes := rates.Notes
	if notes == nil {
		notes = []DataNote{}
	}

	return &Insights{
		Configured: true,
		ComputedAt: in.Now,
		Metrics: DerivedMetrics{
			CurrentWeightLbs:          current,
			TargetWeightLbs:           p.TargetWeightClassLbs,
			WeightToLoseLbs:           math.Max(0, current-p.TargetWeightClassLbs),
			OvernightDriftLbs:         rates.DriftLbs,
			SessionSweatRateLbsPerHr:  rates.SweatRateLbsPerHr,
			DriftSamples:              rates.DriftSamples,
			SweatSamples:              rates.SweatSamples,
			DaysUntilWeighIn:          days,
			Window:                    proj.Window,
			ProjectedWeighInWeightLbs: proj.WeightLbs,
			ProjectedGapLbs:           proj.GapLbs,
			NaiveProjection:           proj.Naive,
			IsOnTrack:                 proj.GapLbs <= 0 && plan.Workout == nil,
			IsAtWeight:                current <= p.TargetWeightClassLbs,
		},
		Phase:    phase,
		Guidance: plan,
		Score:    ScoreCut(sp),
		Safety:   AssessSafety(current, p.TargetWeightClassLbs, days),
		Notes:    notes,
	}, nil
}

// latestWeightOf expects logs sorted oldest first.
func latestWeightOf(logs []domain.WeightLogEntry, t domain.LogType) *float64 {
	for i := len(logs) - 1; i >= 0; i-- {
		if logs[i].Type == t {
			return ptr(logs[i].WeightLbs)
		}
	}
	return nil
}

func loggedToday(logs []domain.WeightLogEntry, t domain.LogType, now time.Time, loc *time.Location) bool {
	for i := len(logs) - 1; i >= 0; i-- {
		if !sameLocalDay(logs[i].Timestamp, now, loc) {
			return false
		}
		if logs[i].Type == t {
			return true
		}
	}
	return false
}

// recentSleep is the newest sleep duration logged in the last day.
func recentSleep(logs []domain.WeightLogEntry, now time.Time) *float64 {
	for i := len(logs) - 1; i >= 0; i-- {
		if now.Sub(logs[i].Timestamp) > sleepLookback {
			return nil
		}
		if logs[i].SleepHours != nil {
			return ptr(*logs[i].SleepHours)
		}
	}
	return nil
}
