package engine

import (
	"fmt"
	"math"
	"time"

	"cutcoach/internal/domain"
)

// Cutoff keywords.
const (
	CutoffNow          = "now"
	CutoffBedtime      = "bedtime"
	CutoffWeighIn      = "weigh-in"
	CutoffAfterWeighIn = "after weigh-in"
)

// Food and workout policy. Ceilings are pounds of food mass.
const (
	foodDay1Ceiling        = 0.5
	foodDay1MaxToLose      = 2.0
	foodDay1MaxGap         = 0.5
	foodDay2OnTrack        = 1.5
	foodDay2SmallGap       = 1.0
	foodDay2SmallGapLimit  = 1.0
	foodDay2Ceiling        = 0.5
	foodLoadingCeiling     = 3.0
	foodLoadingHeavyCut    = 2.5
	foodLoadingHeavyToLose = 5.0

	fluidDay1Offset = 12 * time.Hour
	fluidDay2Offset = 8 * time.Hour
	foodDay1Offset  = 10 * time.Hour
	foodDay2Offset  = 13 * time.Hour

	shortSessionMinutes = 30
	tradeoffMinFluidLbs = 0.5
	tradeoffMinSnackLbs = 0.25
)

// GuidanceParams feeds Guide.
type GuidanceParams struct {
	DaysUntil    int
	Now          time.Time // local
	WeighIn      time.Time
	CurrentLbs   float64
	TargetLbs    float64
	ProjectedLbs float64
	GapLbs       float64
	SweatRate    *float64
	Phase        PhaseTargets
}

func (g GuidanceParams) weightToLose() float64 { return g.CurrentLbs - g.TargetLbs }

// Guide builds the day's fluid, food and workout guidance.
//
// The final day always restricts fluid and food to zero. Otherwise an athlete
// already at weight, or past the weigh-in, gets no guidance at all.
func Guide(g GuidanceParams) GuidancePlan {
	var plan GuidancePlan
	switch {
	case g.DaysUntil < 0:
		return plan
	case g.DaysUntil == 0:
		plan.FluidAllowanceOz = ptr(0)
		plan.FluidCutoff = &Cutoff{Label: CutoffWeighIn}
		plan.FoodCeilingLbs = ptr(0.0)
		plan.FoodCutoff = &Cutoff{Label: CutoffAfterWeighIn}
		plan.Workout = prescribeWorkout(g.GapLbs, g.SweatRate)
		return plan
	case g.weightToLose() <= 0:
		return plan
	}

	plan.FluidAllowanceOz, plan.FluidCutoff = fluids(g)
	plan.FoodCeilingLbs, plan.FoodCutoff = food(g)
	plan.Workout = prescribeWorkout(g.GapLbs, g.SweatRate)
	plan.TradeoffNote = tradeoff(g, *plan.FluidAllowanceOz, *plan.FoodCeilingLbs)
	return plan
}

func fluids(g GuidanceParams) (*int, *Cutoff) {
	if g.DaysUntil >= 3 {
		oz := int(math.Floor(g.Phase.WaterTargetOz(g.CurrentLbs)))
		return &oz, &Cutoff{Label: CutoffBedtime}
	}

	buffer := g.TargetLbs - g.ProjectedLbs
	day2 := clockCutoff(g.Now, g.WeighIn, g.DaysUntil, fluidDay2Offset)
	if buffer >= 0 {
		oz := domain.LbsToFluidOz(buffer)
		if g.DaysUntil == 1 {
			return &oz, clockCutoff(g.Now, g.WeighIn, g.DaysUntil, fluidDay1Offset)
		}
		return &oz, day2
	}
	if g.DaysUntil == 1 {
		return ptr(0), nowCutoff(g.Now)
	}
	return ptr(0), day2
}

func food(g GuidanceParams) (*float64, *Cutoff) {
	switch g.DaysUntil {
	case 1:
		if g.weightToLose() >= foodDay1MaxToLose || g.GapLbs > foodDay1MaxGap {
			return ptr(0.0), &Cutoff{Label: CutoffAfterWeighIn}
		}
		return ptr(foodDay1Ceiling), clockCutoff(g.Now, g.WeighIn, g.DaysUntil, foodDay1Offset)
	case 2:
		cutoff := clockCutoff(g.Now, g.WeighIn, g.DaysUntil, foodDay2Offset)
		switch {
		case g.GapLbs <= 0:
			return ptr(foodDay2OnTrack), cutoff
		case g.GapLbs <= foodDay2SmallGapLimit:
			return ptr(foodDay2SmallGap), cutoff
		default:
			return ptr(foodDay2Ceiling), cutoff
		}
	default:
		if g.weightToLose() > foodLoadingHeavyToLose {
			return ptr(foodLoadingHeavyCut), &Cutoff{Label: CutoffBedtime}
		}
		return ptr(foodLoadingCeiling), &Cutoff{Label: CutoffBedtime}
	}
}

// prescribeWorkout picks the shortest session expected to close the gap.
// No rate means no prescription.
func prescribeWorkout(gap float64, sweatRate *float64) *WorkoutPrescription {
	if gap <= 0 || sweatRate == nil {
		return nil
	}
	sr := *sweatRate
	minutes := 60
	switch {
	case gap <= sr*0.5*1.2:
		minutes = 30
	case gap <= sr*0.75:
		minutes = 45
	}
	return &WorkoutPrescription{
		Minutes:         minutes,
		ExpectedLossLbs: sr * domain.Hours(float64(minutes)),
	}
}

// tradeoff suggests a short session when it would buy fluid or food back on
// the last two days. The note always states the glycogen cost.
func tradeoff(g GuidanceParams, fluidOz int, foodLbs float64) *string {
	if g.DaysUntil < 1 || g.DaysUntil > 2 || g.SweatRate == nil {
		return nil
	}
	loss := *g.SweatRate * domain.Hours(shortSessionMinutes)
	surplus := loss - g.GapLbs

	switch {
	case fluidOz == 0 && surplus >= tradeoffMinFluidLbs:
		return ptr(fmt.Sprintf(
			"A %d-min session (~%.1f lbs) would free about %d oz of fluid before the cutoff. "+
				"Glycogen repletion is slow, so expect to carry that fatigue into the weigh-in.",
			shortSessionMinutes, loss, domain.LbsToFluidOz(surplus)))
	case foodLbs == 0 && surplus >= tradeoffMinSnackLbs:
		return ptr(fmt.Sprintf(
			"A %d-min session (~%.1f lbs) would buy a snack of about %.2f lbs. "+
				"Glycogen repletion is slow, so the energy spent may not come back before you compete.",
			shortSessionMinutes, loss, surplus))
	}
	return nil
}

// clockCutoff anchors the cutoff on the weigh-in instant: days-1 whole days
// before it, less offset. The result does not depend on which side of
// midnight now falls. A cutoff that has already passed collapses to "now".
func clockCutoff(now, weighIn time.Time, days int, offset time.Duration) *Cutoff {
	at := weighIn.Add(-time.Duration(days-1)*24*time.Hour - offset).In(now.Location())
	if at.Before(now) {
		return nowCutoff(now)
	}
	return &Cutoff{Label: at.Format("15:04"), At: &at}
}

func nowCutoff(now time.Time) *Cutoff {
	return &Cutoff{Label: CutoffNow, At: ptr(now)}
}
