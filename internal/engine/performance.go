package engine

import (
	"math"

	"github.com/darsh-legal/negotiation-sim/internal/database"
)

// PerformanceWeights parameterize the post-hoc rollup; the efficiency
// penalty shape is configurable rather than hard-coded
type PerformanceWeights struct {
	EfficiencyPenaltyPerMiss int
	PointsPerCreativeTerm    int
}

// DefaultPerformanceWeights returns the stock rollup parameters
func DefaultPerformanceWeights() PerformanceWeights {
	return PerformanceWeights{
		EfficiencyPenaltyPerMiss: 4,
		PointsPerCreativeTerm:    2,
	}
}

// PerformanceInputs is the full round history a rollup consumes
type PerformanceInputs struct {
	Sim     *database.Simulation
	Rounds  []database.NegotiationRound
	Offers  []database.SettlementOffer
	Outcome *database.ArbitrationOutcome
	// SettledAmount is the resolution figure: the crossing midpoint when
	// settled, the award when arbitrated
	SettledAmount float64
	Settled       bool
	SettledRound  int
	// Opaque 0-20 input from the collaboration-signal provider
	Collaboration int
}

// PerformanceComponents is the bounded component set before any instructor
// adjustment; totals lie in [0, 120]
type PerformanceComponents struct {
	SettlementQuality int
	LegalStrategy     int
	Collaboration     int
	Efficiency        int
	SpeedBonus        int
	CreativeTerms     int
}

// Total sums the already-bounded components
func (c PerformanceComponents) Total() int {
	return c.SettlementQuality + c.LegalStrategy + c.Collaboration +
		c.Efficiency + c.SpeedBonus + c.CreativeTerms
}

// ComputePerformance rolls up one team's performance over the whole
// simulation
func ComputePerformance(in PerformanceInputs, team database.Team, w PerformanceWeights) PerformanceComponents {
	return PerformanceComponents{
		SettlementQuality: settlementQualityScore(in, team),
		LegalStrategy:     legalStrategyScore(in.Offers, team),
		Collaboration:     boundInt(in.Collaboration, 0, 20),
		Efficiency:        efficiencyScore(in, team, w),
		SpeedBonus:        speedBonus(in),
		CreativeTerms:     creativeTermsScore(in.Offers, team, w),
	}
}

// MemberComponents scales the team components by individual contribution
// weight; a zero weight reads as "no signal" and inherits the team score
func MemberComponents(team PerformanceComponents, contribution float64) PerformanceComponents {
	if contribution <= 0 {
		contribution = 1
	}
	if contribution > 1 {
		contribution = 1
	}
	scale := func(v int) int {
		return int(math.Round(float64(v) * contribution))
	}
	return PerformanceComponents{
		SettlementQuality: scale(team.SettlementQuality),
		LegalStrategy:     scale(team.LegalStrategy),
		Collaboration:     scale(team.Collaboration),
		Efficiency:        scale(team.Efficiency),
		SpeedBonus:        scale(team.SpeedBonus),
		CreativeTerms:     scale(team.CreativeTerms),
	}
}

// settlementQualityScore (0-40): closeness of the resolution figure to the
// team's ideal, relative to the distance between the two ideals
func settlementQualityScore(in PerformanceInputs, team database.Team) int {
	if !in.Settled && in.Outcome == nil {
		return 0
	}

	span := in.Sim.PlaintiffIdeal - in.Sim.DefendantIdeal
	if span <= 0 {
		span = in.Sim.DefendantMaxAcceptable - in.Sim.PlaintiffMinAcceptable
	}
	if span <= 0 {
		return 20
	}

	ideal := in.Sim.PlaintiffIdeal
	if team == database.TeamDefendant {
		ideal = in.Sim.DefendantIdeal
	}

	dist := math.Abs(in.SettledAmount-ideal) / span
	if dist > 1 {
		dist = 1
	}
	return int(math.Round(40 * (1 - dist)))
}

// legalStrategyScore (0-30): mean normalized final quality of the team's
// offers
func legalStrategyScore(offers []database.SettlementOffer, team database.Team) int {
	mean := meanQuality(offers, team)
	score := int(math.Round(mean / 125 * 30))
	return boundInt(score, 0, 30)
}

// efficiencyScore (0-10): starts full and loses a configurable penalty per
// round the team let lapse without submitting
func efficiencyScore(in PerformanceInputs, team database.Team, w PerformanceWeights) int {
	offered := make(map[int]bool)
	for _, o := range in.Offers {
		if o.Team == team {
			offered[o.RoundNumber] = true
		}
	}

	misses := 0
	for _, r := range in.Rounds {
		if r.Status == database.RoundCompleted && !offered[r.RoundNumber] {
			misses++
		}
	}

	return boundInt(10-misses*w.EfficiencyPenaltyPerMiss, 0, 10)
}

// speedBonus (0-10): rewarded for settling in fewer than total rounds
func speedBonus(in PerformanceInputs) int {
	if !in.Settled || in.SettledRound >= in.Sim.TotalRounds {
		return 0
	}
	if in.Sim.TotalRounds <= 1 {
		return 10
	}
	saved := in.Sim.TotalRounds - in.SettledRound
	score := int(math.Round(float64(saved) / float64(in.Sim.TotalRounds-1) * 10))
	return boundInt(score, 0, 10)
}

// creativeTermsScore (0-10): variety of distinct non-monetary terms across
// the team's offers
func creativeTermsScore(offers []database.SettlementOffer, team database.Team, w PerformanceWeights) int {
	distinct := make(map[string]bool)
	for _, o := range offers {
		if o.Team != team {
			continue
		}
		for _, t := range SplitTerms(o.NonMonetaryTerms) {
			distinct[t] = true
		}
	}
	return boundInt(len(distinct)*w.PointsPerCreativeTerm, 0, 10)
}

// AdjustedTotal applies an instructor adjustment on top of the computed
// total, clamped to [0, 130]; components are never blended
func AdjustedTotal(computed int, adjustment int) int {
	return boundInt(computed+adjustment, 0, 130)
}

func boundInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
