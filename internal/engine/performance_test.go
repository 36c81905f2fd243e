package engine_test

import (
	"testing"

	"github.com/darsh-legal/negotiation-sim/internal/database"
	"github.com/darsh-legal/negotiation-sim/internal/engine"
)

func performanceSim() *database.Simulation {
	return &database.Simulation{
		ID:                     "sim-1",
		TotalRounds:            6,
		PlaintiffMinAcceptable: 100000,
		PlaintiffIdeal:         300000,
		DefendantMaxAcceptable: 250000,
		DefendantIdeal:         50000,
	}
}

func TestComputePerformanceBounds(t *testing.T) {
	w := engine.DefaultPerformanceWeights()

	in := engine.PerformanceInputs{
		Sim: performanceSim(),
		Rounds: []database.NegotiationRound{
			{RoundNumber: 1, Status: database.RoundCompleted},
			{RoundNumber: 2, Status: database.RoundCompleted},
			{RoundNumber: 3, Status: database.RoundCompleted},
		},
		Offers: []database.SettlementOffer{
			{Team: database.TeamPlaintiff, RoundNumber: 1, Amount: 300000, FinalQualityScore: 125, NonMonetaryTerms: "confidentiality; apology; reference; training; policy review; audit"},
			{Team: database.TeamDefendant, RoundNumber: 1, Amount: 50000, FinalQualityScore: 125},
			{Team: database.TeamPlaintiff, RoundNumber: 2, Amount: 250000, FinalQualityScore: 125},
			{Team: database.TeamDefendant, RoundNumber: 2, Amount: 150000, FinalQualityScore: 125},
			{Team: database.TeamPlaintiff, RoundNumber: 3, Amount: 200000, FinalQualityScore: 125},
			{Team: database.TeamDefendant, RoundNumber: 3, Amount: 210000, FinalQualityScore: 125},
		},
		SettledAmount: 205000,
		Settled:       true,
		SettledRound:  3,
		Collaboration: 20,
	}

	for _, team := range []database.Team{database.TeamPlaintiff, database.TeamDefendant} {
		c := engine.ComputePerformance(in, team, w)

		checks := map[string][2]int{
			"settlement_quality": {c.SettlementQuality, 40},
			"legal_strategy":     {c.LegalStrategy, 30},
			"collaboration":      {c.Collaboration, 20},
			"efficiency":         {c.Efficiency, 10},
			"speed_bonus":        {c.SpeedBonus, 10},
			"creative_terms":     {c.CreativeTerms, 10},
		}
		for name, pair := range checks {
			if pair[0] < 0 || pair[0] > pair[1] {
				t.Errorf("%s %s = %d, want within [0, %d]", team, name, pair[0], pair[1])
			}
		}
		if total := c.Total(); total < 0 || total > 120 {
			t.Errorf("%s total = %d, want within [0, 120]", team, total)
		}
	}
}

func TestComputePerformanceSpeedBonus(t *testing.T) {
	w := engine.DefaultPerformanceWeights()

	tests := []struct {
		name         string
		settled      bool
		settledRound int
		want         int
	}{
		{"Settled round 1 of 6", true, 1, 10},
		{"Settled final round", true, 6, 0},
		{"Never settled", false, 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := engine.PerformanceInputs{
				Sim:           performanceSim(),
				Settled:       tt.settled,
				SettledRound:  tt.settledRound,
				SettledAmount: 200000,
			}
			c := engine.ComputePerformance(in, database.TeamPlaintiff, w)
			if c.SpeedBonus != tt.want {
				t.Errorf("speed bonus = %d, want %d", c.SpeedBonus, tt.want)
			}
		})
	}
}

func TestComputePerformanceEfficiencyPenalty(t *testing.T) {
	w := engine.PerformanceWeights{EfficiencyPenaltyPerMiss: 4, PointsPerCreativeTerm: 2}

	in := engine.PerformanceInputs{
		Sim: performanceSim(),
		Rounds: []database.NegotiationRound{
			{RoundNumber: 1, Status: database.RoundCompleted},
			{RoundNumber: 2, Status: database.RoundCompleted},
		},
		Offers: []database.SettlementOffer{
			// Plaintiff offered both rounds, defendant only round 1
			{Team: database.TeamPlaintiff, RoundNumber: 1, Amount: 300000},
			{Team: database.TeamDefendant, RoundNumber: 1, Amount: 50000},
			{Team: database.TeamPlaintiff, RoundNumber: 2, Amount: 280000},
		},
		Settled:       false,
		SettledAmount: 150000,
		Outcome:       &database.ArbitrationOutcome{AwardAmount: 150000},
	}

	p := engine.ComputePerformance(in, database.TeamPlaintiff, w)
	d := engine.ComputePerformance(in, database.TeamDefendant, w)

	if p.Efficiency != 10 {
		t.Errorf("plaintiff efficiency = %d, want 10 with no misses", p.Efficiency)
	}
	if d.Efficiency != 6 {
		t.Errorf("defendant efficiency = %d, want 6 after one missed round", d.Efficiency)
	}
}

func TestMemberComponentsScaling(t *testing.T) {
	team := engine.PerformanceComponents{
		SettlementQuality: 40,
		LegalStrategy:     30,
		Collaboration:     20,
		Efficiency:        10,
		SpeedBonus:        10,
		CreativeTerms:     10,
	}

	half := engine.MemberComponents(team, 0.5)
	if half.SettlementQuality != 20 || half.LegalStrategy != 15 {
		t.Errorf("half contribution = %+v, want components halved", half)
	}

	// No contribution signal inherits the team score
	full := engine.MemberComponents(team, 0)
	if full != team {
		t.Errorf("zero contribution = %+v, want team components unchanged", full)
	}
}

func TestAdjustedTotalClamps(t *testing.T) {
	tests := []struct {
		name       string
		computed   int
		adjustment int
		want       int
	}{
		{"Positive within range", 100, 20, 120},
		{"Clamped at 130", 120, 50, 130},
		{"Negative within range", 50, -30, 20},
		{"Clamped at zero", 10, -40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.AdjustedTotal(tt.computed, tt.adjustment); got != tt.want {
				t.Errorf("AdjustedTotal(%d, %d) = %d, want %d", tt.computed, tt.adjustment, got, tt.want)
			}
		})
	}
}
