package engine

import (
	"math/rand"

	"github.com/darsh-legal/negotiation-sim/internal/database"
)

// ArbitrationInputs gathers everything the fallback calculator reads
type ArbitrationInputs struct {
	Sim      *database.Simulation
	Offers   []database.SettlementOffer
	Evidence []database.EvidenceRelease
}

// ArbitrationResult is the pure output of the award calculation
type ArbitrationResult struct {
	AwardAmount              float64
	OutcomeType              database.OutcomeType
	EvidenceStrengthFactor   float64
	ArgumentQualityFactor    float64
	NegotiationHistoryFactor float64
	RandomVariance           float64
}

// ComputeArbitration runs the fallback adjudication when all rounds elapse
// without settlement. The award blends the plaintiff's final offer with the
// settlement-range midpoint, shifts it by the three quality factors and a
// bounded variance term, and clamps to [0, plaintiff's highest ever demand].
func ComputeArbitration(in ArbitrationInputs, rng *rand.Rand) ArbitrationResult {
	evidence := evidenceStrengthFactor(in.Evidence)
	argument := argumentQualityFactor(in.Offers)
	history := negotiationHistoryFactor(in.Offers)
	variance := (rng.Float64() - 0.5) * 0.2 // [-0.1, 0.1]

	plaintiffFinal, plaintiffHighest := plaintiffOfferStats(in.Offers)
	midpoint := (in.Sim.PlaintiffMinAcceptable + in.Sim.DefendantMaxAcceptable) / 2

	base := 0.6*plaintiffFinal + 0.4*midpoint
	if plaintiffFinal == 0 {
		// Plaintiff never put a number on the table; the midpoint is all
		// the arbitrator has
		base = midpoint
	}

	shift := 0.4*(evidence-0.5) + 0.3*(argument-0.5) + 0.2*(history-0.5) + variance
	award := base * (1 + shift)

	if plaintiffHighest == 0 {
		plaintiffHighest = in.Sim.PlaintiffIdeal
	}
	if award < 0 {
		award = 0
	}
	if award > plaintiffHighest {
		award = plaintiffHighest
	}

	return ArbitrationResult{
		AwardAmount:              award,
		OutcomeType:              classifyOutcome(award, in.Sim),
		EvidenceStrengthFactor:   evidence,
		ArgumentQualityFactor:    argument,
		NegotiationHistoryFactor: history,
		RandomVariance:           variance,
	}
}

// evidenceStrengthFactor is the released-evidence weight favoring the
// plaintiff as a fraction of all released, attributed evidence; 0.5 when
// nothing released points either way
func evidenceStrengthFactor(releases []database.EvidenceRelease) float64 {
	var plaintiff, total float64
	for _, r := range releases {
		if r.ReleasedAt == nil || r.FavorsTeam == "" {
			continue
		}
		total += r.Weight
		if r.FavorsTeam == database.TeamPlaintiff {
			plaintiff += r.Weight
		}
	}
	if total == 0 {
		return 0.5
	}
	return plaintiff / total
}

// argumentQualityFactor compares the sides' mean final quality scores,
// normalized to [0,1] around 0.5
func argumentQualityFactor(offers []database.SettlementOffer) float64 {
	pMean := meanQuality(offers, database.TeamPlaintiff)
	dMean := meanQuality(offers, database.TeamDefendant)
	return clamp01(0.5 + (pMean-dMean)/125/2)
}

func meanQuality(offers []database.SettlementOffer, team database.Team) float64 {
	var sum float64
	var n int
	for _, o := range offers {
		if o.Team == team {
			sum += float64(o.FinalQualityScore)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// negotiationHistoryFactor measures concession trend: a plaintiff that moved
// in good faith while the defendant stonewalled is rewarded, and vice versa
func negotiationHistoryFactor(offers []database.SettlementOffer) float64 {
	pFirst, pLast := firstLastAmount(offers, database.TeamPlaintiff)
	dFirst, dLast := firstLastAmount(offers, database.TeamDefendant)

	var pConcede, dConcede float64
	if pFirst > 0 {
		pConcede = clamp01((pFirst - pLast) / pFirst)
	}
	if pFirst > 0 && dLast >= dFirst {
		dConcede = clamp01((dLast - dFirst) / pFirst)
	}

	return clamp01(0.5 + (pConcede-dConcede)/2)
}

func firstLastAmount(offers []database.SettlementOffer, team database.Team) (first, last float64) {
	firstRound, lastRound := 0, 0
	for _, o := range offers {
		if o.Team != team {
			continue
		}
		if firstRound == 0 || o.RoundNumber < firstRound {
			firstRound = o.RoundNumber
			first = o.Amount
		}
		if o.RoundNumber > lastRound {
			lastRound = o.RoundNumber
			last = o.Amount
		}
	}
	return first, last
}

func plaintiffOfferStats(offers []database.SettlementOffer) (final, highest float64) {
	lastRound := 0
	for _, o := range offers {
		if o.Team != database.TeamPlaintiff {
			continue
		}
		if o.Amount > highest {
			highest = o.Amount
		}
		if o.RoundNumber > lastRound {
			lastRound = o.RoundNumber
			final = o.Amount
		}
	}
	return final, highest
}

func classifyOutcome(award float64, sim *database.Simulation) database.OutcomeType {
	switch {
	case award == 0:
		return database.OutcomeNoAward
	case award >= sim.PlaintiffIdeal:
		return database.OutcomePlaintiffVictory
	case award <= sim.DefendantIdeal:
		return database.OutcomeDefendantVictory
	default:
		return database.OutcomeSplitDecision
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
