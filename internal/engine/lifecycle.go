package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/darsh-legal/negotiation-sim/internal/database"
)

// SimulationInput is the validated construction input for a simulation
type SimulationInput struct {
	CaseID                  string                  `json:"case_id"`
	TotalRounds             int                     `json:"total_rounds"`
	PlaintiffTeamID         string                  `json:"plaintiff_team_id"`
	DefendantTeamID         string                  `json:"defendant_team_id"`
	PlaintiffMinAcceptable  float64                 `json:"plaintiff_min_acceptable"`
	PlaintiffIdeal          float64                 `json:"plaintiff_ideal"`
	DefendantMaxAcceptable  float64                 `json:"defendant_max_acceptable"`
	DefendantIdeal          float64                 `json:"defendant_ideal"`
	PressureEscalationRate  database.EscalationRate `json:"pressure_escalation_rate"`
	AutoEventsEnabled       *bool                   `json:"auto_events_enabled"`
	ArgumentQualityRequired bool                    `json:"argument_quality_required"`
}

// OfferInput is a team's settlement offer submission
type OfferInput struct {
	Amount           float64 `json:"amount"`
	Justification    string  `json:"justification"`
	NonMonetaryTerms string  `json:"non_monetary_terms"`
}

// CreateSimulation validates and stores a new simulation in setup state.
// A construction whose settlement range is empty is rejected outright.
func (e *Engine) CreateSimulation(in SimulationInput) (*database.Simulation, error) {
	if in.PlaintiffMinAcceptable > in.DefendantMaxAcceptable {
		return nil, ErrSettlementRangeImpossible
	}
	if in.TotalRounds <= 0 {
		return nil, fmt.Errorf("%w: total_rounds must be positive", ErrInvalidState)
	}

	autoEvents := true
	if in.AutoEventsEnabled != nil {
		autoEvents = *in.AutoEventsEnabled
	}
	rate := in.PressureEscalationRate
	if rate == "" {
		rate = database.EscalationModerate
	}

	sim := &database.Simulation{
		ID:                      uuid.NewString(),
		CaseID:                  in.CaseID,
		Status:                  database.SimulationSetup,
		TotalRounds:             in.TotalRounds,
		PlaintiffTeamID:         in.PlaintiffTeamID,
		DefendantTeamID:         in.DefendantTeamID,
		PlaintiffMinAcceptable:  in.PlaintiffMinAcceptable,
		PlaintiffIdeal:          in.PlaintiffIdeal,
		DefendantMaxAcceptable:  in.DefendantMaxAcceptable,
		DefendantIdeal:          in.DefendantIdeal,
		PressureEscalationRate:  rate,
		AutoEventsEnabled:       autoEvents,
		ArgumentQualityRequired: in.ArgumentQualityRequired,
		Active:                  true,
	}

	if err := e.db.Create(sim).Error; err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}
	return sim, nil
}

// StartSimulation moves a setup simulation to active and opens round 1
func (e *Engine) StartSimulation(simulationID string) (*database.Simulation, error) {
	var sim database.Simulation
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sim, "id = ?", simulationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load simulation: %w", err)
		}

		if sim.Status != database.SimulationSetup {
			return fmt.Errorf("%w: cannot start simulation in status %s", ErrInvalidState, sim.Status)
		}
		if sim.PlaintiffTeamID == "" || sim.DefendantTeamID == "" {
			return fmt.Errorf("%w: both team assignments are required", ErrInvalidState)
		}
		if sim.PlaintiffMinAcceptable > sim.DefendantMaxAcceptable {
			return ErrSettlementRangeImpossible
		}

		now := e.clock.Now()
		sim.Status = database.SimulationActive
		sim.CurrentRound = 1
		sim.StartedAt = &now
		if err := tx.Save(&sim).Error; err != nil {
			return fmt.Errorf("failed to activate simulation: %w", err)
		}

		if err := e.openRound(tx, &sim, 1, now); err != nil {
			return err
		}

		return releaseScheduled(tx, sim.ID, 1, now)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Simulation started",
		"simulation_id", sim.ID,
		"total_rounds", sim.TotalRounds,
	)
	return &sim, nil
}

// openRound creates the next round directly in active state with a fresh
// deadline
func (e *Engine) openRound(tx *gorm.DB, sim *database.Simulation, number int, now time.Time) error {
	round := &database.NegotiationRound{
		ID:           uuid.NewString(),
		SimulationID: sim.ID,
		RoundNumber:  number,
		Status:       database.RoundActive,
		Deadline:     now.Add(e.roundDuration),
		StartedAt:    &now,
	}
	if err := tx.Create(round).Error; err != nil {
		return fmt.Errorf("failed to create round %d: %w", number, err)
	}
	return nil
}

// SubmitOffer records a team's offer for the current round, scoring it and
// generating client feedback. A concurrent writer that loses the round
// version check is retried once against the refreshed state; a duplicate
// offer from the same team is a business error, never a retry.
func (e *Engine) SubmitOffer(simulationID string, team database.Team, in OfferInput) (*database.SettlementOffer, error) {
	offer, err := e.submitOfferOnce(simulationID, team, in)
	if errors.Is(err, errConflict) {
		offer, err = e.submitOfferOnce(simulationID, team, in)
		if errors.Is(err, errConflict) {
			return nil, fmt.Errorf("%w: round changed during retry", ErrInvalidState)
		}
	}
	return offer, err
}

func (e *Engine) submitOfferOnce(simulationID string, team database.Team, in OfferInput) (*database.SettlementOffer, error) {
	var offer *database.SettlementOffer
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var sim database.Simulation
		if err := tx.First(&sim, "id = ?", simulationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load simulation: %w", err)
		}

		switch sim.Status {
		case database.SimulationPaused:
			return ErrSimulationPaused
		case database.SimulationActive:
			// proceed
		case database.SimulationSetup, database.SimulationCompleted, database.SimulationArbitration:
			return fmt.Errorf("%w: simulation is %s", ErrInvalidState, sim.Status)
		}

		var round database.NegotiationRound
		if err := tx.First(&round, "simulation_id = ? AND round_number = ?", sim.ID, sim.CurrentRound).Error; err != nil {
			return fmt.Errorf("failed to load current round: %w", err)
		}

		now := e.clock.Now()
		if now.After(round.Deadline) {
			return ErrDeadlineExpired
		}

		// Duplicate check before the state check so a double submission
		// reads as the business error it is
		var existing int64
		if err := tx.Model(&database.SettlementOffer{}).
			Where("round_id = ? AND team = ?", round.ID, team).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check existing offer: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateOffer
		}

		var nextStatus database.RoundStatus
		switch round.Status {
		case database.RoundActive:
			if team == database.TeamPlaintiff {
				nextStatus = database.RoundPlaintiffSubmitted
			} else {
				nextStatus = database.RoundDefendantSubmitted
			}
		case database.RoundPlaintiffSubmitted:
			if team != database.TeamDefendant {
				return fmt.Errorf("%w: round awaiting defendant", ErrInvalidState)
			}
			nextStatus = database.RoundBothSubmitted
		case database.RoundDefendantSubmitted:
			if team != database.TeamPlaintiff {
				return fmt.Errorf("%w: round awaiting plaintiff", ErrInvalidState)
			}
			nextStatus = database.RoundBothSubmitted
		case database.RoundPending, database.RoundBothSubmitted, database.RoundCompleted:
			return fmt.Errorf("%w: round is %s", ErrInvalidState, round.Status)
		}

		newOffer := &database.SettlementOffer{
			ID:               uuid.NewString(),
			RoundID:          round.ID,
			SimulationID:     sim.ID,
			Team:             team,
			RoundNumber:      round.RoundNumber,
			OfferType:        offerTypeFor(round.RoundNumber, sim.TotalRounds),
			Amount:           in.Amount,
			Justification:    in.Justification,
			NonMonetaryTerms: in.NonMonetaryTerms,
			SubmittedAt:      now,
		}

		prev, err := e.previousAmount(tx, sim.ID, team, round.RoundNumber)
		if err != nil {
			return err
		}

		breakdown := AlgorithmicQuality(newOffer, prev, e.heuristics)
		newOffer.AlgorithmicScore = breakdown.Total()
		newOffer.FinalQualityScore = breakdown.Total()

		if err := tx.Create(newOffer).Error; err != nil {
			return fmt.Errorf("failed to store offer: %w", err)
		}

		// Optimistic transition: a concurrent submitter that moved the
		// round first wins; we retry against the new state
		res := tx.Model(&database.NegotiationRound{}).
			Where("id = ? AND version = ?", round.ID, round.Version).
			Updates(map[string]interface{}{
				"status":  nextStatus,
				"version": round.Version + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to transition round: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errConflict
		}
		round.Status = nextStatus
		round.Version++

		fb := GenerateFeedback(newOffer.Amount, sideRangeFor(&sim, team), prev)
		if err := e.insertFeedback(tx, &sim, team, database.FeedbackOfferReaction, fb, round.RoundNumber, newOffer); err != nil {
			return err
		}

		if nextStatus == database.RoundBothSubmitted {
			if err := e.finalizeRound(tx, &sim, &round, now); err != nil {
				return err
			}
		}

		offer = newOffer
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Offer submitted",
		"simulation_id", simulationID,
		"team", string(team),
		"round", offer.RoundNumber,
		"amount", offer.Amount,
		"quality_score", offer.FinalQualityScore,
	)
	return offer, nil
}

func offerTypeFor(roundNumber, totalRounds int) database.OfferType {
	switch {
	case roundNumber == 1:
		return database.OfferInitialDemand
	case roundNumber == totalRounds:
		return database.OfferFinalOffer
	default:
		return database.OfferCounteroffer
	}
}

// previousAmount finds the team's immediately preceding offer amount in the
// simulation, nil when this is the first
func (e *Engine) previousAmount(tx *gorm.DB, simulationID string, team database.Team, beforeRound int) (*float64, error) {
	var prev database.SettlementOffer
	err := tx.Where("simulation_id = ? AND team = ? AND round_number < ?", simulationID, team, beforeRound).
		Order("round_number DESC").
		First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load previous offer: %w", err)
	}
	return &prev.Amount, nil
}

func (e *Engine) insertFeedback(tx *gorm.DB, sim *database.Simulation, team database.Team, ftype database.FeedbackType, fb FeedbackResult, roundNumber int, offer *database.SettlementOffer) error {
	fc := FeedbackContext{
		Team:              team,
		FeedbackType:      ftype,
		MoodLevel:         fb.MoodLevel,
		SatisfactionScore: fb.SatisfactionScore,
		RoundNumber:       roundNumber,
	}
	offerID := ""
	if offer != nil {
		fc.OfferAmount = offer.Amount
		offerID = offer.ID
	}

	record := &database.ClientFeedback{
		ID:                uuid.NewString(),
		SimulationID:      sim.ID,
		Team:              team,
		FeedbackType:      ftype,
		MoodLevel:         fb.MoodLevel,
		SatisfactionScore: fb.SatisfactionScore,
		TriggeredByRound:  roundNumber,
		OfferID:           offerID,
		Message:           e.generateText(fc),
	}
	if err := tx.Create(record).Error; err != nil {
		return fmt.Errorf("failed to store client feedback: %w", err)
	}
	return nil
}

// finalizeRound evaluates the settlement condition and either terminates the
// simulation or opens the next round. Runs inside the caller's transaction.
func (e *Engine) finalizeRound(tx *gorm.DB, sim *database.Simulation, round *database.NegotiationRound, now time.Time) error {
	var offers []database.SettlementOffer
	if err := tx.Where("round_id = ?", round.ID).Find(&offers).Error; err != nil {
		return fmt.Errorf("failed to load round offers: %w", err)
	}

	var pOffer, dOffer *database.SettlementOffer
	for i := range offers {
		switch offers[i].Team {
		case database.TeamPlaintiff:
			pOffer = &offers[i]
		case database.TeamDefendant:
			dOffer = &offers[i]
		}
	}

	if round.Status == database.RoundBothSubmitted && (pOffer == nil || dOffer == nil) {
		return fmt.Errorf("%w: round %d both_submitted with %d stored offers",
			ErrCorruptRound, round.RoundNumber, len(offers))
	}

	// Settlement iff the offers cross: plaintiff's ask at or below the
	// defendant's offer in the same round. A side that never submitted
	// cannot settle.
	settled := pOffer != nil && dOffer != nil && pOffer.Amount <= dOffer.Amount

	res := tx.Model(&database.NegotiationRound{}).
		Where("id = ? AND version = ?", round.ID, round.Version).
		Updates(map[string]interface{}{
			"status":       database.RoundCompleted,
			"completed_at": now,
			"version":      round.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to complete round: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errConflict
	}
	round.Status = database.RoundCompleted
	round.CompletedAt = &now
	round.Version++

	if settled {
		return e.settle(tx, sim, round, pOffer, dOffer, now)
	}

	if sim.CurrentRound < sim.TotalRounds {
		return e.advanceRound(tx, sim, now)
	}

	return e.enterArbitration(tx, sim, now)
}

// settle terminates the simulation as completed and scores performance
func (e *Engine) settle(tx *gorm.DB, sim *database.Simulation, round *database.NegotiationRound, pOffer, dOffer *database.SettlementOffer, now time.Time) error {
	sim.Status = database.SimulationCompleted
	sim.EndedAt = &now
	if err := tx.Save(sim).Error; err != nil {
		return fmt.Errorf("failed to complete simulation: %w", err)
	}

	settledAmount := (pOffer.Amount + dOffer.Amount) / 2

	for _, team := range []database.Team{database.TeamPlaintiff, database.TeamDefendant} {
		fb := GenerateFeedback(settledAmount, sideRangeFor(sim, team), nil)
		if err := e.insertFeedback(tx, sim, team, database.FeedbackSettlementSatisfaction, fb, round.RoundNumber, nil); err != nil {
			return err
		}
	}

	e.logger.Info("Settlement reached",
		"simulation_id", sim.ID,
		"round", round.RoundNumber,
		"plaintiff_offer", pOffer.Amount,
		"defendant_offer", dOffer.Amount,
	)

	return e.computePerformance(tx, sim, true, settledAmount, round.RoundNumber, nil)
}

// advanceRound opens the next round after injecting pressure and firing
// scheduled evidence
func (e *Engine) advanceRound(tx *gorm.DB, sim *database.Simulation, now time.Time) error {
	sim.CurrentRound++

	if sim.AutoEventsEnabled {
		var draw *PressureDraw
		e.withRand(func(rng *rand.Rand) {
			draw = DrawPressureEvent(sim, rng)
		})
		if draw != nil {
			summary := ApplyPressure(sim, draw)

			event := &database.SimulationEvent{
				ID:                 uuid.NewString(),
				SimulationID:       sim.ID,
				EventType:          draw.EventType,
				TriggerRound:       sim.CurrentRound,
				TargetTeam:         draw.Target,
				PressureAdjustment: draw.Adjustment,
				Automatic:          true,
				Description:        draw.Description,
			}
			if err := tx.Create(event).Error; err != nil {
				return fmt.Errorf("failed to store pressure event: %w", err)
			}

			fb := FeedbackResult{SatisfactionScore: 50, MoodLevel: database.MoodNeutral}
			fc := FeedbackContext{
				Team:              draw.Target,
				FeedbackType:      database.FeedbackPressureResponse,
				MoodLevel:         fb.MoodLevel,
				SatisfactionScore: fb.SatisfactionScore,
				RoundNumber:       sim.CurrentRound,
				EventDescription:  summary,
			}
			record := &database.ClientFeedback{
				ID:                uuid.NewString(),
				SimulationID:      sim.ID,
				Team:              draw.Target,
				FeedbackType:      database.FeedbackPressureResponse,
				MoodLevel:         fb.MoodLevel,
				SatisfactionScore: fb.SatisfactionScore,
				TriggeredByRound:  sim.CurrentRound,
				Message:           e.generateText(fc),
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to store pressure feedback: %w", err)
			}

			e.logger.Info("Pressure event injected",
				"simulation_id", sim.ID,
				"event_type", draw.EventType,
				"target", string(draw.Target),
				"adjustment", draw.Adjustment,
			)
		}
	}

	if err := tx.Save(sim).Error; err != nil {
		return fmt.Errorf("failed to advance simulation: %w", err)
	}

	if err := releaseScheduled(tx, sim.ID, sim.CurrentRound, now); err != nil {
		return err
	}

	return e.openRound(tx, sim, sim.CurrentRound, now)
}

// enterArbitration terminates the simulation into the arbitration fallback
func (e *Engine) enterArbitration(tx *gorm.DB, sim *database.Simulation, now time.Time) error {
	sim.Status = database.SimulationArbitration
	sim.EndedAt = &now
	if err := tx.Save(sim).Error; err != nil {
		return fmt.Errorf("failed to mark simulation for arbitration: %w", err)
	}

	outcome, err := e.computeArbitration(tx, sim, now)
	if err != nil {
		return err
	}

	e.logger.Info("Arbitration fallback invoked",
		"simulation_id", sim.ID,
		"award", outcome.AwardAmount,
		"outcome", string(outcome.OutcomeType),
	)

	return e.computePerformance(tx, sim, false, outcome.AwardAmount, sim.TotalRounds, outcome)
}

// computeArbitration runs the calculator exactly once; a stored outcome is
// returned untouched
func (e *Engine) computeArbitration(tx *gorm.DB, sim *database.Simulation, now time.Time) (*database.ArbitrationOutcome, error) {
	var existing database.ArbitrationOutcome
	err := tx.First(&existing, "simulation_id = ?", sim.ID).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check arbitration outcome: %w", err)
	}

	var offers []database.SettlementOffer
	if err := tx.Where("simulation_id = ?", sim.ID).Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("failed to load offers for arbitration: %w", err)
	}
	var releases []database.EvidenceRelease
	if err := tx.Where("simulation_id = ?", sim.ID).Find(&releases).Error; err != nil {
		return nil, fmt.Errorf("failed to load evidence for arbitration: %w", err)
	}

	var result ArbitrationResult
	e.withRand(func(rng *rand.Rand) {
		result = ComputeArbitration(ArbitrationInputs{
			Sim:      sim,
			Offers:   offers,
			Evidence: releases,
		}, rng)
	})

	outcome := &database.ArbitrationOutcome{
		ID:                       uuid.NewString(),
		SimulationID:             sim.ID,
		AwardAmount:              result.AwardAmount,
		OutcomeType:              result.OutcomeType,
		EvidenceStrengthFactor:   result.EvidenceStrengthFactor,
		ArgumentQualityFactor:    result.ArgumentQualityFactor,
		NegotiationHistoryFactor: result.NegotiationHistoryFactor,
		RandomVariance:           result.RandomVariance,
		DecidedAt:                now,
	}
	if err := tx.Create(outcome).Error; err != nil {
		return nil, fmt.Errorf("failed to store arbitration outcome: %w", err)
	}
	return outcome, nil
}

// computePerformance writes the team rollups and per-member rows
func (e *Engine) computePerformance(tx *gorm.DB, sim *database.Simulation, settled bool, settledAmount float64, settledRound int, outcome *database.ArbitrationOutcome) error {
	var rounds []database.NegotiationRound
	if err := tx.Where("simulation_id = ?", sim.ID).Find(&rounds).Error; err != nil {
		return fmt.Errorf("failed to load rounds for scoring: %w", err)
	}
	var offers []database.SettlementOffer
	if err := tx.Where("simulation_id = ?", sim.ID).Find(&offers).Error; err != nil {
		return fmt.Errorf("failed to load offers for scoring: %w", err)
	}

	for _, tc := range []struct {
		team   database.Team
		teamID string
	}{
		{database.TeamPlaintiff, sim.PlaintiffTeamID},
		{database.TeamDefendant, sim.DefendantTeamID},
	} {
		collab := e.collaborationScore(sim.ID, tc.teamID)

		in := PerformanceInputs{
			Sim:           sim,
			Rounds:        rounds,
			Offers:        offers,
			Outcome:       outcome,
			SettledAmount: settledAmount,
			Settled:       settled,
			SettledRound:  settledRound,
			Collaboration: collab,
		}
		components := ComputePerformance(in, tc.team, e.weights)

		if err := e.storeScore(tx, sim.ID, tc.team, "", components); err != nil {
			return err
		}

		members, err := e.roster.TeamMembers(context.Background(), tc.teamID)
		if err != nil {
			e.logger.Warn("Roster lookup failed, skipping member scores",
				"simulation_id", sim.ID,
				"team", string(tc.team),
				"error", err,
			)
			continue
		}
		for _, m := range members {
			if err := e.storeScore(tx, sim.ID, tc.team, m.UserID, MemberComponents(components, m.Contribution)); err != nil {
				return err
			}
		}
	}

	return nil
}

// collaborationScore queries the provider under a deadline and falls back to
// the neutral midpoint; scoring never stalls on the dependency
func (e *Engine) collaborationScore(simulationID, teamID string) int {
	ctx, cancel := context.WithTimeout(context.Background(), e.textGenTimeout)
	defer cancel()

	score, err := e.collab.CollaborationScore(ctx, simulationID, teamID)
	if err != nil {
		e.logger.Warn("Collaboration provider failed, using neutral score",
			"simulation_id", simulationID,
			"team_id", teamID,
			"error", err,
		)
		return 10
	}
	return boundInt(score, 0, 20)
}

func (e *Engine) storeScore(tx *gorm.DB, simulationID string, team database.Team, userID string, c PerformanceComponents) error {
	score := &database.PerformanceScore{
		ID:                     uuid.NewString(),
		SimulationID:           simulationID,
		Team:                   team,
		UserID:                 userID,
		SettlementQualityScore: c.SettlementQuality,
		LegalStrategyScore:     c.LegalStrategy,
		CollaborationScore:     c.Collaboration,
		EfficiencyScore:        c.Efficiency,
		SpeedBonus:             c.SpeedBonus,
		CreativeTermsScore:     c.CreativeTerms,
		TotalScore:             c.Total(),
	}
	if err := tx.Create(score).Error; err != nil {
		return fmt.Errorf("failed to store performance score: %w", err)
	}
	return nil
}

// ForceFinalize finalizes an expired round with whatever offers exist. The
// deadline sweep calls this; it runs under the same transaction discipline
// as submissions, so a late submission and the sweep can never both apply.
func (e *Engine) ForceFinalize(roundID string) error {
	err := e.forceFinalizeOnce(roundID)
	if errors.Is(err, errConflict) {
		err = e.forceFinalizeOnce(roundID)
	}
	return err
}

func (e *Engine) forceFinalizeOnce(roundID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var round database.NegotiationRound
		if err := tx.First(&round, "id = ?", roundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load round: %w", err)
		}

		switch round.Status {
		case database.RoundActive, database.RoundPlaintiffSubmitted, database.RoundDefendantSubmitted:
			// force-finalizable
		case database.RoundPending, database.RoundBothSubmitted, database.RoundCompleted:
			return nil
		}

		var sim database.Simulation
		if err := tx.First(&sim, "id = ?", round.SimulationID).Error; err != nil {
			return fmt.Errorf("failed to load simulation: %w", err)
		}
		if sim.Status != database.SimulationActive {
			return nil
		}

		now := e.clock.Now()
		if !now.After(round.Deadline) {
			return nil
		}

		e.logger.Info("Force-finalizing expired round",
			"simulation_id", sim.ID,
			"round", round.RoundNumber,
			"status", string(round.Status),
		)

		return e.finalizeRound(tx, &sim, &round, now)
	})
}

// ExpiredRounds lists rounds whose deadline elapsed before both sides
// submitted, for the deadline sweep
func (e *Engine) ExpiredRounds(now time.Time) ([]database.NegotiationRound, error) {
	var rounds []database.NegotiationRound
	err := e.db.
		Joins("JOIN simulations ON simulations.id = negotiation_rounds.simulation_id").
		Where("simulations.status = ?", database.SimulationActive).
		Where("negotiation_rounds.status IN ?", []database.RoundStatus{
			database.RoundActive,
			database.RoundPlaintiffSubmitted,
			database.RoundDefendantSubmitted,
		}).
		Where("negotiation_rounds.deadline <= ?", now).
		Find(&rounds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query expired rounds: %w", err)
	}
	return rounds, nil
}

// Pause suspends new submissions without rolling back recorded offers
func (e *Engine) Pause(simulationID string) (*database.Simulation, error) {
	var sim database.Simulation
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sim, "id = ?", simulationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load simulation: %w", err)
		}
		if sim.Status != database.SimulationActive {
			return fmt.Errorf("%w: cannot pause simulation in status %s", ErrInvalidState, sim.Status)
		}

		var round database.NegotiationRound
		if err := tx.First(&round, "simulation_id = ? AND round_number = ?", sim.ID, sim.CurrentRound).Error; err != nil {
			return fmt.Errorf("failed to load current round: %w", err)
		}

		now := e.clock.Now()
		remaining := round.Deadline.Sub(now)
		if remaining < 0 {
			remaining = 0
		}

		sim.Status = database.SimulationPaused
		sim.PausedAt = &now
		sim.PauseRemaining = remaining
		return tx.Save(&sim).Error
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Simulation paused", "simulation_id", sim.ID)
	return &sim, nil
}

// Resume reopens submissions and recomputes the current round's deadline
// from the pause point
func (e *Engine) Resume(simulationID string) (*database.Simulation, error) {
	var sim database.Simulation
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sim, "id = ?", simulationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load simulation: %w", err)
		}
		if sim.Status != database.SimulationPaused {
			return fmt.Errorf("%w: cannot resume simulation in status %s", ErrInvalidState, sim.Status)
		}

		var round database.NegotiationRound
		if err := tx.First(&round, "simulation_id = ? AND round_number = ?", sim.ID, sim.CurrentRound).Error; err != nil {
			return fmt.Errorf("failed to load current round: %w", err)
		}

		now := e.clock.Now()
		res := tx.Model(&database.NegotiationRound{}).
			Where("id = ? AND version = ?", round.ID, round.Version).
			Updates(map[string]interface{}{
				"deadline": now.Add(sim.PauseRemaining),
				"version":  round.Version + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to reset round deadline: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errConflict
		}

		sim.Status = database.SimulationActive
		sim.PausedAt = nil
		sim.PauseRemaining = 0
		return tx.Save(&sim).Error
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Simulation resumed", "simulation_id", sim.ID)
	return &sim, nil
}

// ScoreOffer applies instructor sub-scores; once any sub-score is present
// the instructor total supersedes the algorithmic score
func (e *Engine) ScoreOffer(offerID string, scores InstructorScores) (*database.SettlementOffer, error) {
	var offer database.SettlementOffer
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&offer, "id = ?", offerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load offer: %w", err)
		}

		for name, s := range map[string]*int{
			"legal_reasoning":    scores.LegalReasoning,
			"factual_analysis":   scores.FactualAnalysis,
			"strategic_thinking": scores.StrategicThinking,
			"professionalism":    scores.Professionalism,
			"creativity":         scores.Creativity,
		} {
			if s != nil && (*s < 0 || *s > 25) {
				return fmt.Errorf("%w: %s must be 0-25", ErrInvalidState, name)
			}
		}

		if scores.LegalReasoning != nil {
			offer.LegalReasoningScore = scores.LegalReasoning
		}
		if scores.FactualAnalysis != nil {
			offer.FactualAnalysisScore = scores.FactualAnalysis
		}
		if scores.StrategicThinking != nil {
			offer.StrategicThinkingScore = scores.StrategicThinking
		}
		if scores.Professionalism != nil {
			offer.ProfessionalismScore = scores.Professionalism
		}
		if scores.Creativity != nil {
			offer.CreativityScore = scores.Creativity
		}

		if offer.InstructorScored() {
			offer.FinalQualityScore = instructorTotal(&offer)
		}

		return tx.Save(&offer).Error
	})
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// AdjustPerformance records an instructor adjustment with its mandatory
// reason; computed components are never overwritten, the adjusted total is
// clamped to [0, 130]
func (e *Engine) AdjustPerformance(scoreID string, adjustment int, reason string) (*database.PerformanceScore, error) {
	if reason == "" {
		return nil, ErrAdjustmentReasonRequired
	}

	var score database.PerformanceScore
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&score, "id = ?", scoreID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load performance score: %w", err)
		}

		computed := score.SettlementQualityScore + score.LegalStrategyScore +
			score.CollaborationScore + score.EfficiencyScore +
			score.SpeedBonus + score.CreativeTermsScore

		score.InstructorAdjustment = &adjustment
		score.AdjustmentReason = reason
		score.TotalScore = AdjustedTotal(computed, adjustment)

		return tx.Save(&score).Error
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Performance score adjusted",
		"score_id", score.ID,
		"adjustment", adjustment,
		"reason", reason,
	)
	return &score, nil
}
