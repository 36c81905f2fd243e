package engine

import (
	"context"

	"github.com/darsh-legal/negotiation-sim/internal/database"
)

// TeamMember is a roster entry with an optional contribution weight in [0,1]
// used for individual performance rows
type TeamMember struct {
	UserID       string
	Contribution float64
}

// RosterProvider resolves team membership for scoring attribution
type RosterProvider interface {
	TeamMembers(ctx context.Context, teamID string) ([]TeamMember, error)
}

// CollaborationProvider supplies the opaque 0-20 collaboration score input
type CollaborationProvider interface {
	CollaborationScore(ctx context.Context, simulationID, teamID string) (int, error)
}

// StaticRoster is a fixed in-memory roster, used when no course-management
// service is wired in
type StaticRoster struct {
	Members map[string][]TeamMember
}

func (r *StaticRoster) TeamMembers(_ context.Context, teamID string) ([]TeamMember, error) {
	return r.Members[teamID], nil
}

// DefaultCollaboration returns a flat midpoint score for every team
type DefaultCollaboration struct{}

func (DefaultCollaboration) CollaborationScore(context.Context, string, string) (int, error) {
	return 10, nil
}

// FeedbackContext is the input handed to the text-generation port when
// phrasing client feedback
type FeedbackContext struct {
	Team              database.Team
	FeedbackType      database.FeedbackType
	MoodLevel         database.MoodLevel
	SatisfactionScore int
	RoundNumber       int
	OfferAmount       float64
	EventDescription  string
}
