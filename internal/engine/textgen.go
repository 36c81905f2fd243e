package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/darsh-legal/negotiation-sim/internal/database"
)

// TextGenerator phrases client feedback. Implementations may call out to an
// LLM; every call is bounded by a timeout and falls back to the deterministic
// templates on error, so the state machine never stalls on this port.
type TextGenerator interface {
	FeedbackText(ctx context.Context, fc FeedbackContext) (string, error)
}

// TemplateTextGenerator is the deterministic fallback and the default
// implementation
type TemplateTextGenerator struct{}

func (TemplateTextGenerator) FeedbackText(_ context.Context, fc FeedbackContext) (string, error) {
	switch fc.FeedbackType {
	case database.FeedbackOfferReaction:
		return fmt.Sprintf("The client is %s with the round %d offer of $%.0f (satisfaction %d/100).",
			moodPhrase(fc.MoodLevel), fc.RoundNumber, fc.OfferAmount, fc.SatisfactionScore), nil
	case database.FeedbackPressureResponse:
		return fmt.Sprintf("Outside pressure is mounting: %s The client urges movement toward settlement.",
			fc.EventDescription), nil
	case database.FeedbackSettlementSatisfaction:
		return fmt.Sprintf("The case settled in round %d. The client is %s with the result (satisfaction %d/100).",
			fc.RoundNumber, moodPhrase(fc.MoodLevel), fc.SatisfactionScore), nil
	case database.FeedbackStrategyGuidance:
		return fmt.Sprintf("The client asks the team to reconsider strategy ahead of round %d.",
			fc.RoundNumber), nil
	}
	return fmt.Sprintf("Client feedback for round %d.", fc.RoundNumber), nil
}

func moodPhrase(m database.MoodLevel) string {
	switch m {
	case database.MoodVeryUnhappy:
		return "very unhappy"
	case database.MoodUnhappy:
		return "unhappy"
	case database.MoodNeutral:
		return "neutral"
	case database.MoodSatisfied:
		return "satisfied"
	case database.MoodVerySatisfied:
		return "very satisfied"
	}
	return "uncertain"
}

// generateText calls the configured generator under a deadline and falls
// back to the template text when it errors or times out
func (e *Engine) generateText(fc FeedbackContext) string {
	ctx, cancel := context.WithTimeout(context.Background(), e.textGenTimeout)
	defer cancel()

	text, err := e.textgen.FeedbackText(ctx, fc)
	if err == nil && text != "" {
		return text
	}
	if err != nil {
		e.logger.Warn("Text generation failed, using template fallback",
			"feedback_type", string(fc.FeedbackType),
			"error", err,
		)
	}
	fallback, _ := TemplateTextGenerator{}.FeedbackText(ctx, fc)
	return fallback
}

// guard against a zero timeout leaving the port unbounded
const minTextGenTimeout = 250 * time.Millisecond
