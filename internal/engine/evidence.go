package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/darsh-legal/negotiation-sim/internal/database"
)

// releaseScheduled marks every auto-release scheduled for the given round as
// released. Idempotent: already-released records are skipped by the filter,
// so re-invocation is a no-op, never an error.
func releaseScheduled(tx *gorm.DB, simulationID string, roundNumber int, now time.Time) error {
	err := tx.Model(&database.EvidenceRelease{}).
		Where("simulation_id = ? AND release_round = ? AND auto_release = ? AND released_at IS NULL",
			simulationID, roundNumber, true).
		Update("released_at", now).Error
	if err != nil {
		return fmt.Errorf("failed to release scheduled evidence: %w", err)
	}
	return nil
}

// ScheduleEvidenceInput describes a disclosure to be scheduled against a
// round; the engine stores release timing only, never document bytes
type ScheduleEvidenceInput struct {
	SimulationID string
	DocumentID   string
	ReleaseRound int
	FavorsTeam   database.Team
	Weight       float64
}

// ScheduleEvidence registers an automatic disclosure for a future round
func (e *Engine) ScheduleEvidence(in ScheduleEvidenceInput) (*database.EvidenceRelease, error) {
	if in.Weight <= 0 {
		in.Weight = 1
	}
	now := e.clock.Now()
	rel := &database.EvidenceRelease{
		ID:                 uuid.NewString(),
		SimulationID:       in.SimulationID,
		DocumentID:         in.DocumentID,
		ReleaseRound:       in.ReleaseRound,
		ScheduledReleaseAt: &now,
		AutoRelease:        true,
		FavorsTeam:         in.FavorsTeam,
		Weight:             in.Weight,
	}
	if err := e.db.Create(rel).Error; err != nil {
		return nil, fmt.Errorf("failed to schedule evidence release: %w", err)
	}
	return rel, nil
}

// RequestEvidence records a team's on-request disclosure, pending approval
func (e *Engine) RequestEvidence(simulationID, documentID string, team database.Team) (*database.EvidenceRelease, error) {
	var sim database.Simulation
	if err := e.db.First(&sim, "id = ?", simulationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load simulation: %w", err)
	}

	rel := &database.EvidenceRelease{
		ID:             uuid.NewString(),
		SimulationID:   simulationID,
		DocumentID:     documentID,
		ReleaseRound:   sim.CurrentRound,
		AutoRelease:    false,
		TeamRequested:  true,
		RequestingTeam: team,
		Weight:         1,
	}
	if err := e.db.Create(rel).Error; err != nil {
		return nil, fmt.Errorf("failed to record evidence request: %w", err)
	}
	return rel, nil
}

// ApproveEvidence releases a team-requested disclosure exactly once; an
// already-released record is returned unchanged
func (e *Engine) ApproveEvidence(releaseID string) (*database.EvidenceRelease, error) {
	var rel database.EvidenceRelease
	if err := e.db.First(&rel, "id = ?", releaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load evidence release: %w", err)
	}

	if rel.ReleasedAt != nil {
		return &rel, nil
	}
	if !rel.TeamRequested {
		return nil, ErrInvalidState
	}

	now := e.clock.Now()
	rel.Approved = true
	rel.ReleasedAt = &now
	if err := e.db.Save(&rel).Error; err != nil {
		return nil, fmt.Errorf("failed to approve evidence release: %w", err)
	}

	e.logger.Info("Evidence released on request",
		"release_id", rel.ID,
		"simulation_id", rel.SimulationID,
		"team", string(rel.RequestingTeam),
	)
	return &rel, nil
}
