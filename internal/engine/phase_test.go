package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cutcoach/internal/domain"
	"cutcoach/internal/engine"
)

func TestClassifyPhase(t *testing.T) {
	tests := []struct {
		protocol domain.Protocol
		days     int
		want     engine.Phase
	}{
		{domain.ProtocolMakeWeight, 10, engine.PhasePrep},
		{domain.ProtocolMakeWeight, 5, engine.PhaseLoad},
		{domain.ProtocolMakeWeight, 3, engine.PhaseLoad},
		{domain.ProtocolMakeWeight, 2, engine.PhaseCut},
		{domain.ProtocolMakeWeight, 1, engine.PhaseCut},
		{domain.ProtocolMakeWeight, 0, engine.PhaseCompete},
		{domain.ProtocolMakeWeight, -3, engine.PhaseRecover},
		{domain.ProtocolTournament, 5, engine.PhasePrep},
		{domain.ProtocolTournament, 4, engine.PhaseLoad},
		{domain.ProtocolFatLoss, 2, engine.PhasePrep},
		{domain.ProtocolHoldWeight, 0, engine.PhaseCompete},
		{domain.ProtocolBuild, 30, engine.PhasePrep},
		{domain.ProtocolRecovery, 0, engine.PhaseRecover},
	}
	for _, tc := range tests {
		got := engine.ClassifyPhase(tc.protocol, tc.days)
		assert.Equal(t, tc.want, got.Phase, "%s at %d days", tc.protocol, tc.days)
	}
}

func TestClassifyPhase_CutDaysTighten(t *testing.T) {
	day2 := engine.ClassifyPhase(domain.ProtocolMakeWeight, 2)
	day1 := engine.ClassifyPhase(domain.ProtocolMakeWeight, 1)
	assert.Equal(t, 0.25, day2.WaterOzPerLb)
	assert.Equal(t, 0.08, day1.WaterOzPerLb)
	assert.Greater(t, day2.SodiumMg, day1.SodiumMg)
}

func TestClassifyPhase_Total(t *testing.T) {
	for p := domain.Protocol(0); p <= 7; p++ {
		for days := -400; days <= 400; days++ {
			got := engine.ClassifyPhase(p, days)
			assert.NotEmpty(t, got.Phase)
			w := engine.WeightsFor(got.Phase)
			assert.Equal(t, 100, w.Weight+w.Recovery+w.Compliance)
		}
	}
}
