package engine

import "math"

// PillarWeights are percentages and sum to 100.
type PillarWeights struct {
	Weight     int `json:"weight"`
	Recovery   int `json:"recovery"`
	Compliance int `json:"compliance"`
}

var pillarWeights = map[Phase]PillarWeights{
	PhaseLoad:    {60, 25, 15},
	PhasePrep:    {60, 20, 20},
	PhaseCut:     {70, 20, 10},
	PhaseCompete: {80, 20, 0},
	PhaseRecover: {60, 30, 10},
}

// WeightsFor returns the pillar weights used in phase.
func WeightsFor(phase Phase) PillarWeights {
	if w, ok := pillarWeights[phase]; ok {
		return w
	}
	return pillarWeights[PhasePrep]
}

// CutScore is the 0-100 readiness composite and its pillars.
type CutScore struct {
	Score      int           `json:"score"`
	Weight     float64       `json:"weight"`
	Recovery   float64       `json:"recovery"`
	Compliance float64       `json:"compliance"`
	Weights    PillarWeights `json:"weights"`
}

const (
	sleepTargetHours = 7.0
	driftBandLow     = 0.5
	driftBandHigh    = 2.0
	gapPenaltyPerLb  = 20.0
)

// ScoreParams feeds ScoreCut.
type ScoreParams struct {
	Phase          PhaseTargets
	GapLbs         float64
	WorkoutMinutes int
	SleepHours     *float64
	DriftLbs       *float64
	CurrentLbs     float64
	// Tracking amounts for the day; nil when nothing was tracked.
	WaterOz, CarbsG, ProteinG *float64
}

// ScoreCut weights the three pillars for the current phase. Each pillar is
// kept within [0, 100] before weighting and the composite is rounded.
func ScoreCut(p ScoreParams) CutScore {
	w := WeightsFor(p.Phase.Phase)
	s := CutScore{
		Weight:     weightPillar(p.GapLbs, p.WorkoutMinutes),
		Recovery:   recoveryPillar(p.SleepHours, p.DriftLbs),
		Compliance: compliancePillar(p),
		Weights:    w,
	}
	total := (float64(w.Weight)*s.Weight +
		float64(w.Recovery)*s.Recovery +
		float64(w.Compliance)*s.Compliance) / 100
	s.Score = int(math.Round(clamp(total, 0, 100)))
	return s
}

func weightPillar(gap float64, workoutMinutes int) float64 {
	score := 100.0
	if gap > 0 {
		score -= gapPenaltyPerLb * gap
	}
	score -= float64(workoutMinutes) / 2
	return clamp(score, 0, 100)
}

func recoveryPillar(sleep, drift *float64) float64 {
	sleepHalf := 25.0
	if sleep != nil {
		sleepHalf = 50 * math.Min(*sleep/sleepTargetHours, 1)
	}
	driftHalf := 25.0
	if drift != nil {
		var dist float64
		switch d := *drift; {
		case d < driftBandLow:
			dist = driftBandLow - d
		case d > driftBandHigh:
			dist = d - driftBandHigh
		}
		driftHalf = math.Max(0, 50-25*dist)
	}
	return sleepHalf + driftHalf
}

func compliancePillar(p ScoreParams) float64 {
	if p.WaterOz == nil || p.CarbsG == nil || p.ProteinG == nil {
		return 50
	}
	sum := adherence(*p.WaterOz, p.Phase.WaterTargetOz(p.CurrentLbs)) +
		adherence(*p.CarbsG, p.Phase.CarbsTargetG(p.CurrentLbs)) +
		adherence(*p.ProteinG, p.Phase.ProteinTargetG(p.CurrentLbs))
	return sum / 3 * 100
}

// adherence is 1 on target, falling off linearly either side. With a zero
// target anything up to a cup is partially forgiven.
func adherence(actual, target float64) float64 {
	if target <= 0 {
		return math.Max(0, 1-actual/16)
	}
	return clamp(1-math.Abs(actual-target)/target, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
