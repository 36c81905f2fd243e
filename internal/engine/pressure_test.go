package engine_test

import (
	"math/rand"
	"testing"

	"github.com/darsh-legal/negotiation-sim/internal/database"
	"github.com/darsh-legal/negotiation-sim/internal/engine"
)

func pressureSim(rate database.EscalationRate) *database.Simulation {
	return &database.Simulation{
		ID:                     "sim-1",
		PlaintiffMinAcceptable: 100000,
		PlaintiffIdeal:         300000,
		DefendantMaxAcceptable: 250000,
		DefendantIdeal:         50000,
		PressureEscalationRate: rate,
	}
}

func TestDrawPressureEventOddsByRate(t *testing.T) {
	const draws = 2000
	counts := map[database.EscalationRate]int{}

	for _, rate := range []database.EscalationRate{
		database.EscalationLow, database.EscalationModerate, database.EscalationHigh,
	} {
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < draws; i++ {
			if draw := engine.DrawPressureEvent(pressureSim(rate), rng); draw != nil {
				counts[rate]++
			}
		}
	}

	if counts[database.EscalationLow] >= counts[database.EscalationModerate] ||
		counts[database.EscalationModerate] >= counts[database.EscalationHigh] {
		t.Errorf("draw counts not ordered by escalation rate: low=%d moderate=%d high=%d",
			counts[database.EscalationLow], counts[database.EscalationModerate], counts[database.EscalationHigh])
	}
	if counts[database.EscalationLow] == 0 {
		t.Error("low escalation never drew an event in 2000 attempts")
	}
}

func TestDrawPressureEventAlwaysTowardSettlement(t *testing.T) {
	rng := rand.New(rand.NewSource(9))

	for i := 0; i < 500; i++ {
		sim := pressureSim(database.EscalationHigh)
		draw := engine.DrawPressureEvent(sim, rng)
		if draw == nil {
			continue
		}
		if draw.Adjustment <= 0 {
			t.Fatalf("adjustment = %f, want positive", draw.Adjustment)
		}

		before := *sim
		engine.ApplyPressure(sim, draw)

		switch draw.Target {
		case database.TeamPlaintiff:
			if sim.PlaintiffIdeal > before.PlaintiffIdeal || sim.PlaintiffMinAcceptable > before.PlaintiffMinAcceptable {
				t.Fatal("plaintiff pressure must move expectations down, never up")
			}
		case database.TeamDefendant:
			if sim.DefendantIdeal < before.DefendantIdeal || sim.DefendantMaxAcceptable < before.DefendantMaxAcceptable {
				t.Fatal("defendant pressure must move willingness up, never down")
			}
		default:
			t.Fatalf("unexpected target team %q", draw.Target)
		}

		// The settlement range invariant survives every application
		if sim.PlaintiffMinAcceptable > sim.DefendantMaxAcceptable {
			t.Fatal("pressure widened the settlement gap")
		}
		if sim.PlaintiffMinAcceptable < 0 {
			t.Fatal("plaintiff minimum went negative")
		}
	}
}

func TestApplyPressureClampsWithinRange(t *testing.T) {
	sim := pressureSim(database.EscalationHigh)
	sim.PlaintiffMinAcceptable = 1000
	sim.PlaintiffIdeal = 2000

	engine.ApplyPressure(sim, &engine.PressureDraw{
		EventType:  "trial_cost_estimate",
		Target:     database.TeamPlaintiff,
		Adjustment: 50000,
	})

	if sim.PlaintiffMinAcceptable != 0 {
		t.Errorf("plaintiff minimum = %f, want clamped to 0", sim.PlaintiffMinAcceptable)
	}
	if sim.PlaintiffIdeal < sim.PlaintiffMinAcceptable {
		t.Error("plaintiff ideal fell below its minimum")
	}
}
