package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/darsh-legal/negotiation-sim/internal/database"
	"github.com/darsh-legal/negotiation-sim/internal/engine"
)

func TestScheduledEvidenceReleasesWithRound(t *testing.T) {
	eng, db := newTestEngine(t, newFakeClock())

	sim, err := eng.CreateSimulation(testSimInput(3, false))
	if err != nil {
		t.Fatalf("failed to create simulation: %v", err)
	}

	round1, err := eng.ScheduleEvidence(engine.ScheduleEvidenceInput{
		SimulationID: sim.ID,
		DocumentID:   "doc-deposition",
		ReleaseRound: 1,
		FavorsTeam:   database.TeamPlaintiff,
		Weight:       2,
	})
	if err != nil {
		t.Fatalf("failed to schedule evidence: %v", err)
	}
	round2, err := eng.ScheduleEvidence(engine.ScheduleEvidenceInput{
		SimulationID: sim.ID,
		DocumentID:   "doc-internal-memo",
		ReleaseRound: 2,
		FavorsTeam:   database.TeamDefendant,
	})
	if err != nil {
		t.Fatalf("failed to schedule evidence: %v", err)
	}

	if _, err := eng.StartSimulation(sim.ID); err != nil {
		t.Fatalf("failed to start simulation: %v", err)
	}

	var got database.EvidenceRelease
	db.First(&got, "id = ?", round1.ID)
	if got.ReleasedAt == nil {
		t.Error("round 1 evidence not released at start")
	}
	got = database.EvidenceRelease{}
	db.First(&got, "id = ?", round2.ID)
	if got.ReleasedAt != nil {
		t.Error("round 2 evidence released early")
	}

	// Advancing to round 2 releases the second document
	submit(t, eng, sim.ID, database.TeamPlaintiff, 300000)
	submit(t, eng, sim.ID, database.TeamDefendant, 50000)

	got = database.EvidenceRelease{}
	db.First(&got, "id = ?", round2.ID)
	if got.ReleasedAt == nil {
		t.Error("round 2 evidence not released on round advance")
	}
	if got.Weight != 1 {
		t.Errorf("weight = %f, want default 1", got.Weight)
	}
}

func TestScheduledReleaseIdempotent(t *testing.T) {
	clock := newFakeClock()
	eng, db := newTestEngine(t, clock)

	sim, _ := eng.CreateSimulation(testSimInput(2, false))
	rel, _ := eng.ScheduleEvidence(engine.ScheduleEvidenceInput{
		SimulationID: sim.ID,
		DocumentID:   "doc-expert-report",
		ReleaseRound: 1,
	})
	if _, err := eng.StartSimulation(sim.ID); err != nil {
		t.Fatalf("failed to start simulation: %v", err)
	}

	var first database.EvidenceRelease
	db.First(&first, "id = ?", rel.ID)
	if first.ReleasedAt == nil {
		t.Fatal("evidence not released")
	}
	firstReleased := *first.ReleasedAt

	// A pause/resume cycle re-enters the lifecycle paths without touching an
	// already-released record
	clock.Advance(10 * time.Minute)
	if _, err := eng.Pause(sim.ID); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if _, err := eng.Resume(sim.ID); err != nil {
		t.Fatalf("resume failed: %v", err)
	}

	var second database.EvidenceRelease
	db.First(&second, "id = ?", rel.ID)
	if !second.ReleasedAt.Equal(firstReleased) {
		t.Errorf("release timestamp changed: %v -> %v", firstReleased, *second.ReleasedAt)
	}
}

func TestRequestAndApproveEvidence(t *testing.T) {
	clock := newFakeClock()
	eng, _ := newTestEngine(t, clock)
	sim := startedSim(t, eng, 3)

	req, err := eng.RequestEvidence(sim.ID, "doc-correspondence", database.TeamDefendant)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if req.ReleasedAt != nil {
		t.Error("requested evidence released before approval")
	}
	if req.ReleaseRound != 1 {
		t.Errorf("release round = %d, want current round 1", req.ReleaseRound)
	}

	approved, err := eng.ApproveEvidence(req.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.ReleasedAt == nil || !approved.Approved {
		t.Error("approval did not release the document")
	}
	releasedAt := *approved.ReleasedAt

	// Approving again returns the record unchanged
	clock.Advance(5 * time.Minute)
	again, err := eng.ApproveEvidence(req.ID)
	if err != nil {
		t.Fatalf("repeat approve failed: %v", err)
	}
	if !again.ReleasedAt.Equal(releasedAt) {
		t.Errorf("repeat approval moved release time: %v -> %v", releasedAt, *again.ReleasedAt)
	}
}

func TestApproveRejectsAutoRelease(t *testing.T) {
	eng, _ := newTestEngine(t, newFakeClock())

	sim, _ := eng.CreateSimulation(testSimInput(3, false))
	rel, _ := eng.ScheduleEvidence(engine.ScheduleEvidenceInput{
		SimulationID: sim.ID,
		DocumentID:   "doc-scheduled",
		ReleaseRound: 2,
	})

	if _, err := eng.ApproveEvidence(rel.ID); !errors.Is(err, engine.ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState for auto-release record", err)
	}
}

func TestApproveUnknownRelease(t *testing.T) {
	eng, _ := newTestEngine(t, newFakeClock())

	if _, err := eng.ApproveEvidence("missing"); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
