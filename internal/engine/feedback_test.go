package engine_test

import (
	"testing"

	"github.com/darsh-legal/negotiation-sim/internal/database"
	"github.com/darsh-legal/negotiation-sim/internal/engine"
)

func plaintiffRange() engine.SideRange {
	return engine.SideRange{
		Team:  database.TeamPlaintiff,
		Bound: 100000,
		Ideal: 300000,
	}
}

func defendantRange() engine.SideRange {
	return engine.SideRange{
		Team:  database.TeamDefendant,
		Bound: 250000,
		Ideal: 50000,
	}
}

func TestGenerateFeedbackSatisfaction(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		side     engine.SideRange
		wantSat  int
		wantMood database.MoodLevel
	}{
		{
			name:     "Plaintiff at ideal",
			amount:   300000,
			side:     plaintiffRange(),
			wantSat:  100,
			wantMood: database.MoodVerySatisfied,
		},
		{
			name:     "Plaintiff at acceptable bound",
			amount:   100000,
			side:     plaintiffRange(),
			wantSat:  0,
			wantMood: database.MoodVeryUnhappy,
		},
		{
			name:     "Plaintiff below acceptable bound clamps to zero",
			amount:   40000,
			side:     plaintiffRange(),
			wantSat:  0,
			wantMood: database.MoodVeryUnhappy,
		},
		{
			name:     "Plaintiff above ideal clamps to hundred",
			amount:   500000,
			side:     plaintiffRange(),
			wantSat:  100,
			wantMood: database.MoodVerySatisfied,
		},
		{
			name:     "Plaintiff midpoint",
			amount:   200000,
			side:     plaintiffRange(),
			wantSat:  50,
			wantMood: database.MoodNeutral,
		},
		{
			name:     "Defendant at ideal",
			amount:   50000,
			side:     defendantRange(),
			wantSat:  100,
			wantMood: database.MoodVerySatisfied,
		},
		{
			name:     "Defendant at maximum acceptable",
			amount:   250000,
			side:     defendantRange(),
			wantSat:  0,
			wantMood: database.MoodVeryUnhappy,
		},
		{
			name:     "Defendant midpoint",
			amount:   150000,
			side:     defendantRange(),
			wantSat:  50,
			wantMood: database.MoodNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.GenerateFeedback(tt.amount, tt.side, nil)
			if got.SatisfactionScore != tt.wantSat {
				t.Errorf("satisfaction = %d, want %d", got.SatisfactionScore, tt.wantSat)
			}
			if got.MoodLevel != tt.wantMood {
				t.Errorf("mood = %s, want %s", got.MoodLevel, tt.wantMood)
			}
		})
	}
}

func TestGenerateFeedbackMovementBias(t *testing.T) {
	prev := 250000.0

	// Plaintiff concedes from 250k to 200k: midpoint satisfaction, mood
	// biased up one bucket
	got := engine.GenerateFeedback(200000, plaintiffRange(), &prev)
	if !got.FavorableMovement {
		t.Error("expected concession to register as favorable movement")
	}
	if got.MoodLevel != database.MoodSatisfied {
		t.Errorf("mood = %s, want %s after favorable bias", got.MoodLevel, database.MoodSatisfied)
	}

	// Plaintiff raising its demand is not favorable
	got = engine.GenerateFeedback(280000, plaintiffRange(), &prev)
	if got.FavorableMovement {
		t.Error("raising the demand must not register as favorable")
	}

	// Defendant raising its offer is favorable
	dPrev := 100000.0
	got = engine.GenerateFeedback(150000, defendantRange(), &dPrev)
	if !got.FavorableMovement {
		t.Error("defendant raising its offer should register as favorable")
	}
	if got.MoodLevel != database.MoodSatisfied {
		t.Errorf("mood = %s, want %s after favorable bias", got.MoodLevel, database.MoodSatisfied)
	}
}

func TestGenerateFeedbackMoodCapped(t *testing.T) {
	// Already at the top bucket; favorable movement must not overflow it
	prev := 400000.0
	got := engine.GenerateFeedback(300000, plaintiffRange(), &prev)
	if got.MoodLevel != database.MoodVerySatisfied {
		t.Errorf("mood = %s, want %s", got.MoodLevel, database.MoodVerySatisfied)
	}
	if got.SatisfactionScore != 100 {
		t.Errorf("satisfaction = %d, want 100", got.SatisfactionScore)
	}
}
