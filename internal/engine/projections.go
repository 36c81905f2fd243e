package engine

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/darsh-legal/negotiation-sim/internal/database"
)

// SimulationSnapshot is the read-only projection exposed to collaborators:
// current status, full round and offer history, and applied events
type SimulationSnapshot struct {
	Simulation database.Simulation         `json:"simulation"`
	Rounds     []database.NegotiationRound `json:"rounds"`
	Events     []database.SimulationEvent  `json:"events"`
}

// Snapshot loads the full simulation projection
func (e *Engine) Snapshot(simulationID string) (*SimulationSnapshot, error) {
	var sim database.Simulation
	if err := e.db.First(&sim, "id = ?", simulationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load simulation: %w", err)
	}

	var rounds []database.NegotiationRound
	if err := e.db.Preload("Offers").
		Where("simulation_id = ?", simulationID).
		Order("round_number").
		Find(&rounds).Error; err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}

	var events []database.SimulationEvent
	if err := e.db.Where("simulation_id = ?", simulationID).
		Order("trigger_round").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	return &SimulationSnapshot{Simulation: sim, Rounds: rounds, Events: events}, nil
}

// FeedbackStream returns the client-feedback history, oldest first
func (e *Engine) FeedbackStream(simulationID string) ([]database.ClientFeedback, error) {
	var feedback []database.ClientFeedback
	err := e.db.Where("simulation_id = ?", simulationID).
		Order("created_at").
		Find(&feedback).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}
	return feedback, nil
}

// ArbitrationOutcomeFor returns the stored outcome, or ErrNotFound while
// none has been computed
func (e *Engine) ArbitrationOutcomeFor(simulationID string) (*database.ArbitrationOutcome, error) {
	var outcome database.ArbitrationOutcome
	err := e.db.First(&outcome, "simulation_id = ?", simulationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load arbitration outcome: %w", err)
	}
	return &outcome, nil
}

// PerformanceScores returns the team and member rollups for a simulation
func (e *Engine) PerformanceScores(simulationID string) ([]database.PerformanceScore, error) {
	var scores []database.PerformanceScore
	err := e.db.Where("simulation_id = ?", simulationID).
		Order("team, user_id").
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load performance scores: %w", err)
	}
	return scores, nil
}
