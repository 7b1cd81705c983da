package engine

import (
	"math"
	"time"
)

// Window is which projection branch applies.
type Window string

const (
	// WindowLoading is three or more days out.
	WindowLoading Window = "loading"
	// WindowCut is one or two days out.
	WindowCut Window = "cut"
	// WindowWeighIn is the final day or later; nothing is projected.
	WindowWeighIn Window = "weigh-in"
)

func windowFor(days int) Window {
	switch {
	case days >= 3:
		return WindowLoading
	case days >= 1:
		return WindowCut
	default:
		return WindowWeighIn
	}
}

// ProjectionParams feeds Project.
type ProjectionParams struct {
	CurrentWeightLbs float64
	MorningWeightLbs *float64
	TargetLbs        float64
	DaysUntil        int
	DriftLbs         *float64
	SweatRate        *float64
	// Today is the local "now"; remaining days are counted from it.
	Today           time.Time
	PracticesOn     func(time.Weekday) bool
	PracticeMinutes int
	// PracticedToday suppresses today's practice term once a post-practice
	// log exists.
	PracticedToday bool
}

// Projection is the projected weigh-in weight and the gap to target.
type Projection struct {
	Window    Window
	WeightLbs float64
	GapLbs    float64
	Naive     bool
}

// Project estimates the weigh-in weight.
//
// Loading days project from the latest morning weight and cut days from the
// latest weight of any kind; both subtract one night of drift per remaining
// day plus expected sweat loss on scheduled practice days. The temporary
// weight bump of water loading is not modeled: the projection assumes net
// loss every day. With no rates at all the current weight is used as-is.
func Project(p ProjectionParams) Projection {
	pr := Projection{Window: windowFor(p.DaysUntil)}
	switch {
	case pr.Window == WindowWeighIn:
		pr.WeightLbs = p.CurrentWeightLbs
	case p.DriftLbs == nil && p.SweatRate == nil:
		pr.WeightLbs = p.CurrentWeightLbs
		pr.Naive = true
	default:
		base := p.CurrentWeightLbs
		if pr.Window == WindowLoading && p.MorningWeightLbs != nil {
			base = *p.MorningWeightLbs
		}
		pr.WeightLbs = base - remainingLoss(p)
	}
	pr.GapLbs = math.Max(0, pr.WeightLbs-p.TargetLbs)
	return pr
}

func remainingLoss(p ProjectionParams) float64 {
	var loss float64
	for d := 0; d < p.DaysUntil; d++ {
		if p.DriftLbs != nil {
			loss += *p.DriftLbs
		}
		if p.SweatRate == nil || p.PracticesOn == nil {
			continue
		}
		if d == 0 && p.PracticedToday {
			continue
		}
		if p.PracticesOn(p.Today.AddDate(0, 0, d).Weekday()) {
			loss += *p.SweatRate * float64(p.PracticeMinutes) / 60
		}
	}
	return loss
}
