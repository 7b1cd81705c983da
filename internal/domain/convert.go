package domain

import "math"

// Exact conversion factors shared by the engine and the adapters. Nothing
// else in the module should re-derive these.
const (
	// LbsPerKg is the international avoirdupois pound definition.
	LbsPerKg = 2.2046226218
	// FluidOzPerLb treats one pound of water as 16 US fluid ounces, the
	// convention used for every fluid allowance.
	FluidOzPerLb = 16.0
	// FluidOzPerLiter converts US fluid ounces to liters.
	FluidOzPerLiter = 33.8140227
	// MinutesPerHour is used for session-rate math.
	MinutesPerHour = 60.0
)

// Weight units accepted at the edges of the system.
const (
	UnitKg = "kg"
	UnitLb = "lb"
)

// ValidWeightUnit reports whether u is a unit ConvertWeight understands.
func ValidWeightUnit(u string) bool {
	return u == UnitKg || u == UnitLb
}

// ConvertWeight converts a weight value between "kg" and "lb".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitKg && to == UnitLb {
		return v * LbsPerKg
	}
	if from == UnitLb && to == UnitKg {
		return v / LbsPerKg
	}
	return v
}

// ToLbs normalises a measurement in unit u to pounds.
func ToLbs(v float64, u string) float64 {
	return ConvertWeight(v, u, UnitLb)
}

// LbsToFluidOz converts a mass of water in pounds to whole fluid ounces,
// rounding down so an allowance never exceeds the available buffer.
func LbsToFluidOz(lbs float64) int {
	if lbs <= 0 {
		return 0
	}
	return int(math.Floor(lbs * FluidOzPerLb))
}

// FluidOzToLiters converts US fluid ounces to liters.
func FluidOzToLiters(oz float64) float64 {
	return oz / FluidOzPerLiter
}

// Hours converts a duration in minutes to fractional hours.
func Hours(minutes float64) float64 {
	return minutes / MinutesPerHour
}
