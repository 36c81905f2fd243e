package database

import (
	"time"
)

// SimulationStatus is the lifecycle state of a simulation
type SimulationStatus string

const (
	SimulationSetup       SimulationStatus = "setup"
	SimulationActive      SimulationStatus = "active"
	SimulationPaused      SimulationStatus = "paused"
	SimulationCompleted   SimulationStatus = "completed"
	SimulationArbitration SimulationStatus = "arbitration"
)

// RoundStatus is the lifecycle state of a negotiation round
type RoundStatus string

const (
	RoundPending            RoundStatus = "pending"
	RoundActive             RoundStatus = "active"
	RoundPlaintiffSubmitted RoundStatus = "plaintiff_submitted"
	RoundDefendantSubmitted RoundStatus = "defendant_submitted"
	RoundBothSubmitted      RoundStatus = "both_submitted"
	RoundCompleted          RoundStatus = "completed"
)

// Team identifies which side of the case a party plays
type Team string

const (
	TeamPlaintiff Team = "plaintiff"
	TeamDefendant Team = "defendant"
)

// Opponent returns the other side
func (t Team) Opponent() Team {
	if t == TeamPlaintiff {
		return TeamDefendant
	}
	return TeamPlaintiff
}

// OfferType classifies a settlement offer by its place in the negotiation
type OfferType string

const (
	OfferInitialDemand OfferType = "initial_demand"
	OfferCounteroffer  OfferType = "counteroffer"
	OfferFinalOffer    OfferType = "final_offer"
)

// EscalationRate controls how aggressively pressure events fire
type EscalationRate string

const (
	EscalationLow      EscalationRate = "low"
	EscalationModerate EscalationRate = "moderate"
	EscalationHigh     EscalationRate = "high"
)

// FeedbackType classifies synthetic client feedback
type FeedbackType string

const (
	FeedbackOfferReaction          FeedbackType = "offer_reaction"
	FeedbackStrategyGuidance       FeedbackType = "strategy_guidance"
	FeedbackPressureResponse       FeedbackType = "pressure_response"
	FeedbackSettlementSatisfaction FeedbackType = "settlement_satisfaction"
)

// MoodLevel is the client's 5-point mood ordinal
type MoodLevel string

const (
	MoodVeryUnhappy   MoodLevel = "very_unhappy"
	MoodUnhappy       MoodLevel = "unhappy"
	MoodNeutral       MoodLevel = "neutral"
	MoodSatisfied     MoodLevel = "satisfied"
	MoodVerySatisfied MoodLevel = "very_satisfied"
)

// OutcomeType classifies an arbitration award
type OutcomeType string

const (
	OutcomePlaintiffVictory OutcomeType = "plaintiff_victory"
	OutcomeDefendantVictory OutcomeType = "defendant_victory"
	OutcomeSplitDecision    OutcomeType = "split_decision"
	OutcomeNoAward          OutcomeType = "no_award"
)

// Simulation is one negotiation exercise for a case; it owns the round
// sequence and both sides' acceptable ranges
type Simulation struct {
	ID     string           `json:"id" gorm:"primaryKey"`
	CaseID string           `json:"case_id" gorm:"index"`
	Status SimulationStatus `json:"status" gorm:"default:'setup'"`

	TotalRounds  int `json:"total_rounds"`
	CurrentRound int `json:"current_round" gorm:"default:0"`

	PlaintiffTeamID string `json:"plaintiff_team_id"`
	DefendantTeamID string `json:"defendant_team_id"`

	PlaintiffMinAcceptable float64 `json:"plaintiff_min_acceptable"`
	PlaintiffIdeal         float64 `json:"plaintiff_ideal"`
	DefendantMaxAcceptable float64 `json:"defendant_max_acceptable"`
	DefendantIdeal         float64 `json:"defendant_ideal"`

	PressureEscalationRate  EscalationRate `json:"pressure_escalation_rate" gorm:"default:'moderate'"`
	AutoEventsEnabled       bool           `json:"auto_events_enabled" gorm:"default:true"`
	ArgumentQualityRequired bool           `json:"argument_quality_required" gorm:"default:false"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	PausedAt  *time.Time `json:"paused_at,omitempty"`
	// Remaining time on the active round's deadline, captured at pause
	PauseRemaining time.Duration `json:"pause_remaining,omitempty"`

	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Rounds []NegotiationRound `json:"rounds,omitempty" gorm:"foreignKey:SimulationID"`
}

// NegotiationRound is one exchange cycle; each team may submit at most one
// offer per round
type NegotiationRound struct {
	ID           string      `json:"id" gorm:"primaryKey"`
	SimulationID string      `json:"simulation_id" gorm:"index;uniqueIndex:idx_sim_round,priority:1"`
	RoundNumber  int         `json:"round_number" gorm:"uniqueIndex:idx_sim_round,priority:2"`
	Status       RoundStatus `json:"status" gorm:"default:'pending'"`

	Deadline    time.Time  `json:"deadline"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// Optimistic lock; bumped on every status transition
	Version int `json:"-" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Offers []SettlementOffer `json:"offers,omitempty" gorm:"foreignKey:RoundID"`
}

// SettlementOffer is a single team's offer within a round
type SettlementOffer struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	RoundID      string    `json:"round_id" gorm:"index;uniqueIndex:idx_round_team,priority:1"`
	SimulationID string    `json:"simulation_id" gorm:"index"`
	Team         Team      `json:"team" gorm:"uniqueIndex:idx_round_team,priority:2"`
	RoundNumber  int       `json:"round_number"`
	OfferType    OfferType `json:"offer_type"`

	Amount           float64   `json:"amount"`
	Justification    string    `json:"justification" gorm:"type:text"`
	NonMonetaryTerms string    `json:"non_monetary_terms" gorm:"type:text"`
	SubmittedAt      time.Time `json:"submitted_at"`

	AlgorithmicScore int `json:"algorithmic_score"`

	// Instructor sub-scores, 0-25 each; nil until supplied
	LegalReasoningScore    *int `json:"legal_reasoning_score,omitempty"`
	FactualAnalysisScore   *int `json:"factual_analysis_score,omitempty"`
	StrategicThinkingScore *int `json:"strategic_thinking_score,omitempty"`
	ProfessionalismScore   *int `json:"professionalism_score,omitempty"`
	CreativityScore        *int `json:"creativity_score,omitempty"`

	FinalQualityScore int `json:"final_quality_score"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// InstructorScored reports whether any instructor sub-score is present
func (o *SettlementOffer) InstructorScored() bool {
	return o.LegalReasoningScore != nil || o.FactualAnalysisScore != nil ||
		o.StrategicThinkingScore != nil || o.ProfessionalismScore != nil ||
		o.CreativityScore != nil
}

// ClientFeedback is a synthetic client reaction; insert-only, never mutated
type ClientFeedback struct {
	ID           string       `json:"id" gorm:"primaryKey"`
	SimulationID string       `json:"simulation_id" gorm:"index"`
	Team         Team         `json:"team"`
	FeedbackType FeedbackType `json:"feedback_type"`

	MoodLevel         MoodLevel `json:"mood_level"`
	SatisfactionScore int       `json:"satisfaction_score"`
	TriggeredByRound  int       `json:"triggered_by_round"`
	OfferID           string    `json:"offer_id,omitempty"`
	Message           string    `json:"message" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// SimulationEvent is an external-pressure event applied before its trigger
// round becomes active
type SimulationEvent struct {
	ID           string `json:"id" gorm:"primaryKey"`
	SimulationID string `json:"simulation_id" gorm:"index"`
	EventType    string `json:"event_type"`
	TriggerRound int    `json:"trigger_round"`
	TargetTeam   Team   `json:"target_team"`
	// Dollar delta applied to the target team's acceptable range, always
	// in the direction of settlement
	PressureAdjustment float64 `json:"pressure_adjustment"`
	Automatic          bool    `json:"automatic"`
	Description        string  `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// EvidenceRelease schedules a document disclosure tied to a round number
type EvidenceRelease struct {
	ID           string `json:"id" gorm:"primaryKey"`
	SimulationID string `json:"simulation_id" gorm:"index"`
	DocumentID   string `json:"document_id"`
	ReleaseRound int    `json:"release_round"`

	ScheduledReleaseAt *time.Time `json:"scheduled_release_at,omitempty"`
	ReleasedAt         *time.Time `json:"released_at,omitempty"`

	AutoRelease    bool `json:"auto_release" gorm:"default:true"`
	TeamRequested  bool `json:"team_requested" gorm:"default:false"`
	RequestingTeam Team `json:"requesting_team,omitempty"`
	Approved       bool `json:"approved" gorm:"default:false"`

	// Arbitration metadata: which side the document favors, and how much
	FavorsTeam Team    `json:"favors_team,omitempty"`
	Weight     float64 `json:"weight" gorm:"default:1"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ArbitrationOutcome is the one-shot automated adjudication; immutable once
// written
type ArbitrationOutcome struct {
	ID           string `json:"id" gorm:"primaryKey"`
	SimulationID string `json:"simulation_id" gorm:"uniqueIndex"`

	AwardAmount float64     `json:"award_amount"`
	OutcomeType OutcomeType `json:"outcome_type"`

	EvidenceStrengthFactor   float64 `json:"evidence_strength_factor"`
	ArgumentQualityFactor    float64 `json:"argument_quality_factor"`
	NegotiationHistoryFactor float64 `json:"negotiation_history_factor"`
	RandomVariance           float64 `json:"random_variance"`

	DecidedAt time.Time `json:"decided_at"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// PerformanceScore is the post-hoc weighted rollup for a team or a member
// (UserID empty = team row)
type PerformanceScore struct {
	ID           string `json:"id" gorm:"primaryKey"`
	SimulationID string `json:"simulation_id" gorm:"index"`
	Team         Team   `json:"team"`
	UserID       string `json:"user_id,omitempty"`

	SettlementQualityScore int `json:"settlement_quality_score"`
	LegalStrategyScore     int `json:"legal_strategy_score"`
	CollaborationScore     int `json:"collaboration_score"`
	EfficiencyScore        int `json:"efficiency_score"`
	SpeedBonus             int `json:"speed_bonus"`
	CreativeTermsScore     int `json:"creative_terms_score"`

	TotalScore int `json:"total_score"`

	InstructorAdjustment *int   `json:"instructor_adjustment,omitempty"`
	AdjustmentReason     string `json:"adjustment_reason,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Simulation) TableName() string {
	return "simulations"
}

func (NegotiationRound) TableName() string {
	return "negotiation_rounds"
}

func (SettlementOffer) TableName() string {
	return "settlement_offers"
}

func (ClientFeedback) TableName() string {
	return "client_feedbacks"
}

func (SimulationEvent) TableName() string {
	return "simulation_events"
}

func (EvidenceRelease) TableName() string {
	return "evidence_releases"
}

func (ArbitrationOutcome) TableName() string {
	return "arbitration_outcomes"
}

func (PerformanceScore) TableName() string {
	return "performance_scores"
}
