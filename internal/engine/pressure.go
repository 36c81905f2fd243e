package engine

import (
	"fmt"
	"math/rand"

	"github.com/darsh-legal/negotiation-sim/internal/database"
)

// pressureProfile defines per-escalation-rate draw odds and shift magnitude
// as a fraction of the current gap between the sides' ideals
type pressureProfile struct {
	chance    float64
	magnitude float64
}

var pressureProfiles = map[database.EscalationRate]pressureProfile{
	database.EscalationLow:      {chance: 0.20, magnitude: 0.03},
	database.EscalationModerate: {chance: 0.45, magnitude: 0.06},
	database.EscalationHigh:     {chance: 0.70, magnitude: 0.10},
}

type pressureEventType struct {
	name        string
	target      database.Team
	description string
}

var pressureEventTypes = []pressureEventType{
	{"damaging_disclosure", database.TeamPlaintiff, "A disclosed document undercuts a key plaintiff claim."},
	{"witness_wavers", database.TeamPlaintiff, "A plaintiff witness has become less certain under preparation."},
	{"trial_cost_estimate", database.TeamPlaintiff, "Counsel's updated trial cost estimate alarms the plaintiff."},
	{"media_scrutiny", database.TeamDefendant, "Press coverage of the dispute is hurting the defendant's reputation."},
	{"insurer_pressure", database.TeamDefendant, "The defendant's insurer is pushing hard to close the file."},
	{"adverse_ruling_risk", database.TeamDefendant, "A pretrial motion is trending against the defendant."},
}

// PressureDraw is the result of one per-round event draw
type PressureDraw struct {
	EventType   string
	Target      database.Team
	Adjustment  float64
	Description string
}

// DrawPressureEvent rolls for zero or one event for the round now becoming
// active. The adjustment always moves the target party toward settlement:
// the plaintiff's floor and ideal come down, the defendant's ceiling and
// ideal go up; an acceptable range is never widened away from the opponent.
func DrawPressureEvent(sim *database.Simulation, rng *rand.Rand) *PressureDraw {
	profile, ok := pressureProfiles[sim.PressureEscalationRate]
	if !ok {
		profile = pressureProfiles[database.EscalationModerate]
	}

	if rng.Float64() >= profile.chance {
		return nil
	}

	ev := pressureEventTypes[rng.Intn(len(pressureEventTypes))]

	gap := sim.PlaintiffIdeal - sim.DefendantIdeal
	if gap <= 0 {
		gap = sim.DefendantMaxAcceptable - sim.PlaintiffMinAcceptable
	}
	if gap <= 0 {
		return nil
	}

	return &PressureDraw{
		EventType:   ev.name,
		Target:      ev.target,
		Adjustment:  gap * profile.magnitude,
		Description: ev.description,
	}
}

// ApplyPressure mutates the simulation's ranges in place per the draw and
// returns a summary of the shift for the pressure_response feedback
func ApplyPressure(sim *database.Simulation, draw *PressureDraw) string {
	switch draw.Target {
	case database.TeamPlaintiff:
		sim.PlaintiffIdeal -= draw.Adjustment
		sim.PlaintiffMinAcceptable -= draw.Adjustment
		if sim.PlaintiffMinAcceptable < 0 {
			sim.PlaintiffMinAcceptable = 0
		}
		if sim.PlaintiffIdeal < sim.PlaintiffMinAcceptable {
			sim.PlaintiffIdeal = sim.PlaintiffMinAcceptable
		}
		return fmt.Sprintf("%s The client's expectations have come down by $%.0f.",
			draw.Description, draw.Adjustment)
	case database.TeamDefendant:
		sim.DefendantIdeal += draw.Adjustment
		sim.DefendantMaxAcceptable += draw.Adjustment
		if sim.DefendantIdeal > sim.DefendantMaxAcceptable {
			sim.DefendantIdeal = sim.DefendantMaxAcceptable
		}
		return fmt.Sprintf("%s The client is now willing to pay up to $%.0f more.",
			draw.Description, draw.Adjustment)
	}
	return draw.Description
}
