package engine

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"cutcoach/internal/domain"
)

// RateEstimate is the output of EstimateRates.
type RateEstimate struct {
	DriftLbs          *float64
	SweatRateLbsPerHr *float64
	DriftSamples      int
	SweatSamples      int
	Notes             []DataNote
}

// ema accumulates a recency-weighted mean.
type ema struct {
	decay    float64
	num, den float64
	n        int
}

func (e *ema) add(v, ageDays float64) {
	w := math.Pow(e.decay, ageDays)
	e.num += w * v
	e.den += w
	e.n++
}

func (e *ema) value() *float64 {
	if e.n == 0 || e.den == 0 {
		return nil
	}
	return ptr(e.num / e.den)
}

// sortedLogs returns a time-ordered copy of the logs at or before now. The
// caller's slice is never reordered.
func sortedLogs(logs []domain.WeightLogEntry, now time.Time) []domain.WeightLogEntry {
	out := slices.Clone(logs)
	out = slices.DeleteFunc(out, func(e domain.WeightLogEntry) bool {
		return e.Timestamp.After(now)
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// nextOfType finds the first log after index i with type want, giving up if
// another log of type opener shows up first (that one starts a newer pair).
func nextOfType(logs []domain.WeightLogEntry, i int, want, opener domain.LogType) int {
	for j := i + 1; j < len(logs); j++ {
		switch logs[j].Type {
		case want:
			return j
		case opener:
			return -1
		}
	}
	return -1
}

func sameLocalDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// EstimateRates computes the recency-weighted overnight drift and session
// sweat rate. Pairs that fail plausibility checks are left out and reported
// as notes.
func EstimateRates(cfg Config, logs []domain.WeightLogEntry, now time.Time, loc *time.Location) RateEstimate {
	var (
		est   RateEstimate
		drift = ema{decay: cfg.Decay}
		sweat = ema{decay: cfg.Decay}
	)
	sorted := sortedLogs(logs, now)
	oldest := now.AddDate(0, 0, -cfg.WindowDays)

	note := func(kind string, at time.Time, format string, args ...any) {
		est.Notes = append(est.Notes, DataNote{Kind: kind, Message: fmt.Sprintf(format, args...), At: at})
	}
	age := func(t time.Time) float64 {
		return now.Sub(t).Hours() / 24
	}

	for i, open := range sorted {
		var closeType domain.LogType
		switch open.Type {
		case domain.LogBeforeBed:
			closeType = domain.LogMorning
		case domain.LogPrePractice:
			closeType = domain.LogPostPractice
		case domain.LogExtraBefore:
			closeType = domain.LogExtraAfter
		default:
			continue
		}
		j := nextOfType(sorted, i, closeType, open.Type)
		if j < 0 {
			continue
		}
		closing := sorted[j]
		if closing.Timestamp.Before(oldest) {
			continue
		}

		if open.Type == domain.LogBeforeBed {
			span := closing.Timestamp.Sub(open.Timestamp)
			if span <= 0 || span > cfg.MaxDriftSpan {
				note(NoteDriftSpan, closing.Timestamp, "bed-to-morning span of %s excluded", span.Round(time.Minute))
				continue
			}
			drift.add(open.WeightLbs-closing.WeightLbs, age(closing.Timestamp))
			continue
		}

		if !sameLocalDay(open.Timestamp, closing.Timestamp, loc) {
			note(NoteSessionDay, closing.Timestamp, "%s/%s pair spans two days", open.Type, closing.Type)
			continue
		}
		minutes := sessionMinutes(open, closing)
		if minutes <= 0 {
			note(NoteSessionDuration, closing.Timestamp, "session duration %.0f min excluded", minutes)
			continue
		}
		rate := (open.WeightLbs - closing.WeightLbs) / domain.Hours(minutes)
		if rate < 0 || rate > cfg.MaxSweatRate {
			note(NoteSweatRateBand, closing.Timestamp, "sweat rate %.2f lbs/hr outside 0-%.1f", rate, cfg.MaxSweatRate)
			continue
		}
		sweat.add(rate, age(closing.Timestamp))
	}

	est.DriftLbs, est.DriftSamples = drift.value(), drift.n
	est.SweatRateLbsPerHr, est.SweatSamples = sweat.value(), sweat.n
	return est
}

// sessionMinutes prefers an explicit duration on the closing log, then the
// opening log, then the gap between the two timestamps.
func sessionMinutes(open, closing domain.WeightLogEntry) float64 {
	if closing.DurationMinutes != nil {
		return float64(*closing.DurationMinutes)
	}
	if open.DurationMinutes != nil {
		return float64(*open.DurationMinutes)
	}
	return closing.Timestamp.Sub(open.Timestamp).Minutes()
}
