package engine

import "cutcoach/internal/domain"

// Phase names where the athlete is in the cut cycle.
type Phase string

const (
	PhaseLoad    Phase = "load"
	PhasePrep    Phase = "prep"
	PhaseCut     Phase = "cut"
	PhaseCompete Phase = "compete"
	PhaseRecover Phase = "recover"
)

// PhaseTargets are the intake multipliers for one day bucket. Per-pound
// values scale with current body weight.
type PhaseTargets struct {
	Phase         Phase   `json:"name"`
	WaterOzPerLb  float64 `json:"waterOzPerLb"`
	SodiumMg      float64 `json:"sodiumMg"`
	CarbsGPerLb   float64 `json:"carbsGPerLb"`
	ProteinGPerLb float64 `json:"proteinGPerLb"`
}

// WaterTargetOz is the day's fluid target for an athlete weighing lbs.
func (t PhaseTargets) WaterTargetOz(lbs float64) float64 { return t.WaterOzPerLb * lbs }

// CarbsTargetG is the day's carbohydrate target.
func (t PhaseTargets) CarbsTargetG(lbs float64) float64 { return t.CarbsGPerLb * lbs }

// ProteinTargetG is the day's protein target.
func (t PhaseTargets) ProteinTargetG(lbs float64) float64 { return t.ProteinGPerLb * lbs }

var (
	load     = PhaseTargets{PhaseLoad, 1.5, 5000, 2.0, 1.0}
	prep     = PhaseTargets{PhasePrep, 0.75, 2300, 2.0, 1.0}
	cutDay2  = PhaseTargets{PhaseCut, 0.25, 1000, 1.0, 0.8}
	cutDay1  = PhaseTargets{PhaseCut, 0.08, 500, 0.5, 0.6}
	compete  = PhaseTargets{PhaseCompete, 0, 0, 0, 0}
	recovery = PhaseTargets{PhaseRecover, 0.75, 3000, 2.5, 1.0}
)

// Day buckets run from minBucket (past the weigh-in) to maxBucket (a week
// or more out); anything outside is clamped to the nearest end.
const (
	minBucket = -1
	maxBucket = 7
)

type schedule [maxBucket - minBucket + 1]PhaseTargets

var (
	makeWeightSchedule = schedule{recovery, compete, cutDay1, cutDay2, load, load, load, prep, prep}
	tournamentSchedule = schedule{recovery, compete, cutDay1, cutDay2, load, load, prep, prep, prep}
	steadySchedule     = schedule{recovery, compete, prep, prep, prep, prep, prep, prep, prep}
	recoverySchedule   = schedule{recovery, recovery, recovery, recovery, recovery, recovery, recovery, recovery, recovery}
)

func scheduleFor(p domain.Protocol) *schedule {
	switch p {
	case domain.ProtocolMakeWeight:
		return &makeWeightSchedule
	case domain.ProtocolTournament:
		return &tournamentSchedule
	case domain.ProtocolRecovery:
		return &recoverySchedule
	default:
		return &steadySchedule
	}
}

// ClassifyPhase maps (protocol, days until weigh-in) to the day's phase
// targets. It is total: unknown protocols use the steady schedule and days
// are clamped into the defined buckets.
func ClassifyPhase(p domain.Protocol, days int) PhaseTargets {
	days = max(minBucket, min(maxBucket, days))
	return scheduleFor(p)[days-minBucket]
}
