package engine

import "fmt"

// SafetyLevel grades how aggressive the remaining cut is.
type SafetyLevel string

const (
	SafetySafe    SafetyLevel = "safe"
	SafetyCaution SafetyLevel = "caution"
	SafetyWarning SafetyLevel = "warning"
	SafetyDanger  SafetyLevel = "danger"
)

// SafetyAssessment is advisory; it never changes the guidance plan.
type SafetyAssessment struct {
	Level       SafetyLevel `json:"level"`
	Message     string      `json:"message"`
	DeltaLbs    float64     `json:"deltaLbs"`
	PercentOver float64     `json:"percentOver"`
}

type threshold struct {
	dangerLbs, dangerPct   float64
	warningLbs, warningPct float64
	cautionLbs             float64
}

var (
	finalDay      = threshold{5, 4, 3, 2.5, 1.5}
	lastDays      = threshold{8, 6, 5, 4, 3}
	finalWeek     = threshold{12, 8, 8, 6, 5}
	weeklyDanger  = 3.0
	weeklyWarning = 2.0
	weeklyCaution = 1.5
)

// AssessSafety grades the remaining cut from current weight, target and days
// left. It looks at nothing else.
func AssessSafety(current, target float64, days int) SafetyAssessment {
	delta := current - target
	a := SafetyAssessment{Level: SafetySafe, DeltaLbs: delta}
	if target > 0 {
		a.PercentOver = delta / target * 100
	}
	switch {
	case delta <= 0:
		a.Message = "At or under weight."
		return a
	case days < 0:
		a.Message = "Weigh-in has passed."
		return a
	case days > 7:
		weekly := delta / (float64(days) / 7)
		switch {
		case weekly > weeklyDanger:
			a.Level = SafetyDanger
		case weekly > weeklyWarning:
			a.Level = SafetyWarning
		case weekly > weeklyCaution:
			a.Level = SafetyCaution
		}
		a.Message = weeklyMessage(a.Level, weekly)
		return a
	}

	t := finalWeek
	switch {
	case days <= 1:
		t = finalDay
	case days <= 3:
		t = lastDays
	}
	switch {
	case delta > t.dangerLbs || a.PercentOver > t.dangerPct:
		a.Level = SafetyDanger
	case delta > t.warningLbs || a.PercentOver > t.warningPct:
		a.Level = SafetyWarning
	case delta > t.cautionLbs:
		a.Level = SafetyCaution
	}
	a.Message = cutMessage(a.Level, delta, days)
	return a
}

func cutMessage(level SafetyLevel, delta float64, days int) string {
	switch level {
	case SafetyDanger:
		return fmt.Sprintf("%.1f lbs in %s is not a safe cut. Talk to your coach about moving up a class.", delta, dayWord(days))
	case SafetyWarning:
		return fmt.Sprintf("%.1f lbs in %s is aggressive. Follow the plan closely and stay supervised.", delta, dayWord(days))
	case SafetyCaution:
		return fmt.Sprintf("%.1f lbs in %s is manageable with discipline.", delta, dayWord(days))
	default:
		return fmt.Sprintf("%.1f lbs in %s is on a normal pace.", delta, dayWord(days))
	}
}

func weeklyMessage(level SafetyLevel, weekly float64) string {
	switch level {
	case SafetyDanger:
		return fmt.Sprintf("Losing %.1f lbs/week is too fast to stay healthy.", weekly)
	case SafetyWarning:
		return fmt.Sprintf("Losing %.1f lbs/week is aggressive.", weekly)
	case SafetyCaution:
		return fmt.Sprintf("Losing %.1f lbs/week needs steady discipline.", weekly)
	default:
		return fmt.Sprintf("Losing %.1f lbs/week is a sustainable pace.", weekly)
	}
}

func dayWord(days int) string {
	if days == 1 {
		return "1 day"
	}
	if days == 0 {
		return "the final hours"
	}
	return fmt.Sprintf("%d days", days)
}
