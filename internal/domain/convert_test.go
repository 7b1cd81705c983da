package domain_test

import (
	"math"
	"testing"

	"cutcoach/internal/domain"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestConvertWeight(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to string
		want     float64
	}{
		{"kg to lb", 100.0, "kg", "lb", 220.46226218},
		{"lb to kg", 220.46226218, "lb", "kg", 100.0},
		{"same unit kg", 80.0, "kg", "kg", 80.0},
		{"same unit lb", 180.0, "lb", "lb", 180.0},
		{"unknown units", 50.0, "st", "kg", 50.0},
		{"zero value", 0, "kg", "lb", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ConvertWeight(tc.value, tc.from, tc.to)
			if !almostEqual(got, tc.want, 0.001) {
				t.Errorf("ConvertWeight(%v, %q, %q) = %v; want %v",
					tc.value, tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestLbsToFluidOz(t *testing.T) {
	tests := []struct {
		name string
		lbs  float64
		want int
	}{
		{"whole pound", 1, 16},
		{"rounds down", 0.99, 15},
		{"quarter pound", 0.25, 4},
		{"zero", 0, 0},
		{"negative clamps", -1.5, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.LbsToFluidOz(tc.lbs); got != tc.want {
				t.Errorf("LbsToFluidOz(%v) = %d; want %d", tc.lbs, got, tc.want)
			}
		})
	}
}

func TestFluidAndTimeConversions(t *testing.T) {
	if got := domain.FluidOzToLiters(33.8140227); !almostEqual(got, 1, 1e-9) {
		t.Errorf("FluidOzToLiters = %v; want 1", got)
	}
	if got := domain.Hours(45); !almostEqual(got, 0.75, 1e-9) {
		t.Errorf("Hours(45) = %v; want 0.75", got)
	}
}
