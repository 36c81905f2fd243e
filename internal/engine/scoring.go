package engine

import (
	"strings"

	"github.com/darsh-legal/negotiation-sim/internal/database"
)

// QualityBreakdown is the 5x25 offer-quality rubric
type QualityBreakdown struct {
	LegalReasoning    int `json:"legal_reasoning"`
	FactualAnalysis   int `json:"factual_analysis"`
	StrategicThinking int `json:"strategic_thinking"`
	Professionalism   int `json:"professionalism"`
	Creativity        int `json:"creativity"`
}

// Total returns the 0-125 rubric total
func (b QualityBreakdown) Total() int {
	return b.LegalReasoning + b.FactualAnalysis + b.StrategicThinking +
		b.Professionalism + b.Creativity
}

// Heuristics parameterize the algorithmic fallback so the composition is
// swappable; the exact weighting is a reasonable default, not doctrine
type Heuristics struct {
	// Words of justification that earn full length credit
	FullCreditWords int
	// Keywords that signal legal grounding in the justification
	LegalKeywords []string
	// Keywords that signal factual grounding
	FactualKeywords []string
	// Concession fraction band (relative to the previous offer) rewarded
	// as consistent strategy
	MinConcessionFrac float64
	MaxConcessionFrac float64
	// Points per distinct non-monetary term
	PointsPerTerm int
}

// DefaultHeuristics returns the stock fallback weighting
func DefaultHeuristics() Heuristics {
	return Heuristics{
		FullCreditWords: 160,
		LegalKeywords: []string{
			"precedent", "statute", "liability", "negligence", "damages",
			"breach", "duty", "case law", "ruling",
		},
		FactualKeywords: []string{
			"evidence", "record", "testimony", "exhibit", "witness",
			"report", "deposition",
		},
		MinConcessionFrac: 0.05,
		MaxConcessionFrac: 0.30,
		PointsPerTerm:     8,
	}
}

// AlgorithmicQuality scores an offer on the 5x25 rubric without instructor
// input, from justification structure, cited non-monetary terms, and
// movement consistency against the team's previous offer (nil for the first)
func AlgorithmicQuality(offer *database.SettlementOffer, previousAmount *float64, h Heuristics) QualityBreakdown {
	words := strings.Fields(offer.Justification)
	lower := strings.ToLower(offer.Justification)
	sentences := countSentences(offer.Justification)

	return QualityBreakdown{
		LegalReasoning:    lengthScore(len(words), h.FullCreditWords) + keywordBonus(lower, h.LegalKeywords, 10),
		FactualAnalysis:   clampScore(sentences*3) + keywordBonus(lower, h.FactualKeywords, 10),
		StrategicThinking: movementScore(offer, previousAmount, h),
		Professionalism:   professionalismScore(offer.Justification, len(words)),
		Creativity:        creativityScore(offer.NonMonetaryTerms, h.PointsPerTerm),
	}
}

// lengthScore gives up to 15 points for a developed justification
func lengthScore(words, fullCredit int) int {
	if fullCredit <= 0 {
		fullCredit = 160
	}
	score := words * 15 / fullCredit
	if score > 15 {
		score = 15
	}
	return score
}

// keywordBonus gives up to max points, 2 per distinct keyword present
func keywordBonus(lower string, keywords []string, max int) int {
	bonus := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			bonus += 2
		}
	}
	if bonus > max {
		bonus = max
	}
	return bonus
}

func countSentences(text string) int {
	count := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	return count
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 15 {
		return 15
	}
	return score
}

// movementScore rewards concessions within the configured band; an initial
// offer with no prior scores a neutral baseline
func movementScore(offer *database.SettlementOffer, previousAmount *float64, h Heuristics) int {
	if previousAmount == nil || *previousAmount == 0 {
		return 15
	}

	moved := *previousAmount - offer.Amount
	if offer.Team == database.TeamDefendant {
		moved = offer.Amount - *previousAmount
	}
	frac := moved / *previousAmount
	if frac < 0 {
		frac = -frac
		// Moving away from the opponent reads as posturing
		if frac > 0.01 {
			return 5
		}
	}

	switch {
	case frac >= h.MinConcessionFrac && frac <= h.MaxConcessionFrac:
		return 25
	case frac > 0 && frac < h.MinConcessionFrac:
		return 15
	case frac > h.MaxConcessionFrac:
		// Capitulation-sized jumps suggest no plan
		return 10
	default:
		return 8
	}
}

func professionalismScore(text string, words int) int {
	score := 15
	if words < 20 {
		score -= 8
	} else if words >= 60 {
		score += 10
	} else if words >= 40 {
		score += 5
	}
	if strings.Contains(text, "!!") || strings.Contains(text, "??") {
		score -= 5
	}
	if score < 0 {
		score = 0
	}
	if score > 25 {
		score = 25
	}
	return score
}

func creativityScore(terms string, perTerm int) int {
	count := len(SplitTerms(terms))
	score := count * perTerm
	if score > 25 {
		score = 25
	}
	return score
}

// SplitTerms parses the free-text non-monetary-terms field into distinct
// entries, splitting on semicolons or newlines
func SplitTerms(terms string) []string {
	if strings.TrimSpace(terms) == "" {
		return nil
	}
	raw := strings.FieldsFunc(terms, func(r rune) bool {
		return r == ';' || r == '\n'
	})
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// InstructorScores carries the five instructor sub-scores; nil fields are
// left untouched on the offer
type InstructorScores struct {
	LegalReasoning    *int `json:"legal_reasoning"`
	FactualAnalysis   *int `json:"factual_analysis"`
	StrategicThinking *int `json:"strategic_thinking"`
	Professionalism   *int `json:"professionalism"`
	Creativity        *int `json:"creativity"`
}

// instructorTotal sums whatever sub-scores are present on the offer
func instructorTotal(o *database.SettlementOffer) int {
	total := 0
	for _, s := range []*int{
		o.LegalReasoningScore, o.FactualAnalysisScore, o.StrategicThinkingScore,
		o.ProfessionalismScore, o.CreativityScore,
	} {
		if s != nil {
			total += *s
		}
	}
	return total
}
