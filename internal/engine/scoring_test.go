package engine_test

import (
	"strings"
	"testing"

	"github.com/darsh-legal/negotiation-sim/internal/database"
	"github.com/darsh-legal/negotiation-sim/internal/engine"
)

const richJustification = `Our client's position rests on clear precedent and the statute governing ` +
	`premises liability. The inspection report and the witness deposition both place the hazard ` +
	`in plain view for six weeks. Damages are well documented in the medical record. We have ` +
	`weighed the evidence carefully and believe this figure reflects genuine trial exposure. ` +
	`The defense's own expert conceded the duty of care in testimony. Settlement at this level ` +
	`spares both parties the cost and uncertainty of trial while fairly compensating the injury.`

func TestAlgorithmicQualityBounds(t *testing.T) {
	h := engine.DefaultHeuristics()

	tests := []struct {
		name  string
		offer database.SettlementOffer
		prev  *float64
	}{
		{
			name:  "Empty offer",
			offer: database.SettlementOffer{Team: database.TeamPlaintiff, Amount: 100000},
		},
		{
			name: "Rich offer with terms",
			offer: database.SettlementOffer{
				Team:             database.TeamPlaintiff,
				Amount:           200000,
				Justification:    richJustification,
				NonMonetaryTerms: "confidentiality clause; neutral reference; policy change commitment",
			},
			prev: float64Ptr(240000),
		},
		{
			name: "Terse shouting",
			offer: database.SettlementOffer{
				Team:          database.TeamDefendant,
				Amount:        50000,
				Justification: "Take it or leave it!!",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := engine.AlgorithmicQuality(&tt.offer, tt.prev, h)

			for name, score := range map[string]int{
				"legal_reasoning":    b.LegalReasoning,
				"factual_analysis":   b.FactualAnalysis,
				"strategic_thinking": b.StrategicThinking,
				"professionalism":    b.Professionalism,
				"creativity":         b.Creativity,
			} {
				if score < 0 || score > 25 {
					t.Errorf("%s = %d, want within [0, 25]", name, score)
				}
			}
			if total := b.Total(); total < 0 || total > 125 {
				t.Errorf("total = %d, want within [0, 125]", total)
			}
		})
	}
}

func TestAlgorithmicQualityRewardsSubstance(t *testing.T) {
	h := engine.DefaultHeuristics()

	weak := database.SettlementOffer{
		Team:          database.TeamPlaintiff,
		Amount:        200000,
		Justification: "Pay up.",
	}
	strong := database.SettlementOffer{
		Team:             database.TeamPlaintiff,
		Amount:           200000,
		Justification:    richJustification,
		NonMonetaryTerms: "confidentiality clause; neutral reference",
	}

	weakScore := engine.AlgorithmicQuality(&weak, nil, h).Total()
	strongScore := engine.AlgorithmicQuality(&strong, nil, h).Total()

	if strongScore <= weakScore {
		t.Errorf("strong justification scored %d, weak scored %d; want strong higher", strongScore, weakScore)
	}
}

func TestAlgorithmicQualityMovement(t *testing.T) {
	h := engine.DefaultHeuristics()
	prev := 300000.0

	tests := []struct {
		name   string
		amount float64
		team   database.Team
		want   int
	}{
		{"Measured concession", 270000, database.TeamPlaintiff, 25},
		{"Token concession", 297000, database.TeamPlaintiff, 15},
		{"Capitulation-sized jump", 150000, database.TeamPlaintiff, 10},
		{"Moving away from opponent", 350000, database.TeamPlaintiff, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := database.SettlementOffer{Team: tt.team, Amount: tt.amount}
			b := engine.AlgorithmicQuality(&offer, &prev, h)
			if b.StrategicThinking != tt.want {
				t.Errorf("strategic_thinking = %d, want %d", b.StrategicThinking, tt.want)
			}
		})
	}
}

func TestSplitTerms(t *testing.T) {
	tests := []struct {
		name  string
		terms string
		want  int
	}{
		{"Empty", "", 0},
		{"Whitespace only", "   ", 0},
		{"Semicolon separated", "confidentiality; apology; reference letter", 3},
		{"Duplicates collapse", "Apology; apology; APOLOGY", 1},
		{"Newline separated", "training program\npolicy review", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.SplitTerms(tt.terms)
			if len(got) != tt.want {
				t.Errorf("SplitTerms(%q) = %d terms, want %d", tt.terms, len(got), tt.want)
			}
			for _, term := range got {
				if term != strings.TrimSpace(term) {
					t.Errorf("term %q not trimmed", term)
				}
			}
		})
	}
}

func float64Ptr(f float64) *float64 {
	return &f
}
