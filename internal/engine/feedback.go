package engine

import (
	"github.com/darsh-legal/negotiation-sim/internal/database"
)

// SideRange is one team's acceptable settlement range. For the plaintiff the
// client range runs [MinAcceptable, Ideal] with Ideal the higher figure; for
// the defendant it runs [Ideal, MaxAcceptable] with Ideal the lower figure.
type SideRange struct {
	Team database.Team
	// Plaintiff: minimum acceptable. Defendant: maximum acceptable.
	Bound float64
	Ideal float64
}

// FeedbackResult is the pure output of the client-feedback calculation
type FeedbackResult struct {
	SatisfactionScore int
	MoodLevel         database.MoodLevel
	FavorableMovement bool
}

// GenerateFeedback derives the client's reaction to an offer from its
// position within the team's acceptable range and its movement relative to
// the team's previous offer (nil when this is the first).
//
// Satisfaction maps linearly across the range: the ideal yields 100, the
// acceptable bound yields 0, positions beyond either end are clamped. Mood is
// bucketed in equal 20-point widths, biased up one level when the movement
// from the prior offer concedes toward the opponent.
func GenerateFeedback(offerAmount float64, side SideRange, previousAmount *float64) FeedbackResult {
	sat := satisfactionFor(offerAmount, side)

	favorable := false
	if previousAmount != nil {
		switch side.Team {
		case database.TeamPlaintiff:
			favorable = offerAmount < *previousAmount
		case database.TeamDefendant:
			favorable = offerAmount > *previousAmount
		}
	}

	mood := moodBucket(sat)
	if favorable {
		mood = bumpMood(mood)
	}

	return FeedbackResult{
		SatisfactionScore: sat,
		MoodLevel:         mood,
		FavorableMovement: favorable,
	}
}

func satisfactionFor(amount float64, side SideRange) int {
	span := side.Ideal - side.Bound
	if side.Team == database.TeamDefendant {
		// Defendant ideal is the low figure; a lower payout is better
		span = side.Bound - side.Ideal
	}
	if span <= 0 {
		// Degenerate range: only the exact ideal satisfies
		if amount == side.Ideal {
			return 100
		}
		return 0
	}

	var frac float64
	switch side.Team {
	case database.TeamPlaintiff:
		frac = (amount - side.Bound) / span
	case database.TeamDefendant:
		frac = (side.Bound - amount) / span
	}

	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return int(frac*100 + 0.5)
}

func moodBucket(satisfaction int) database.MoodLevel {
	switch {
	case satisfaction < 20:
		return database.MoodVeryUnhappy
	case satisfaction < 40:
		return database.MoodUnhappy
	case satisfaction < 60:
		return database.MoodNeutral
	case satisfaction < 80:
		return database.MoodSatisfied
	default:
		return database.MoodVerySatisfied
	}
}

func bumpMood(m database.MoodLevel) database.MoodLevel {
	switch m {
	case database.MoodVeryUnhappy:
		return database.MoodUnhappy
	case database.MoodUnhappy:
		return database.MoodNeutral
	case database.MoodNeutral:
		return database.MoodSatisfied
	case database.MoodSatisfied, database.MoodVerySatisfied:
		return database.MoodVerySatisfied
	}
	return m
}

// sideRangeFor builds the team's current range from the simulation record
func sideRangeFor(sim *database.Simulation, team database.Team) SideRange {
	if team == database.TeamPlaintiff {
		return SideRange{
			Team:  database.TeamPlaintiff,
			Bound: sim.PlaintiffMinAcceptable,
			Ideal: sim.PlaintiffIdeal,
		}
	}
	return SideRange{
		Team:  database.TeamDefendant,
		Bound: sim.DefendantMaxAcceptable,
		Ideal: sim.DefendantIdeal,
	}
}
