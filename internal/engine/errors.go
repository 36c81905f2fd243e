package engine

import "errors"

// Business errors returned to callers as typed results; the HTTP layer maps
// them to status codes. Only infrastructure failures are wrapped and
// propagated as plain errors.
var (
	// ErrInvalidState means the operation is not valid for the current
	// round or simulation status
	ErrInvalidState = errors.New("operation not valid in current state")

	// ErrDuplicateOffer means the team already has an offer this round
	ErrDuplicateOffer = errors.New("team already submitted an offer this round")

	// ErrSettlementRangeImpossible means plaintiff minimum exceeds
	// defendant maximum, so no settlement is possible by construction
	ErrSettlementRangeImpossible = errors.New("plaintiff minimum acceptable exceeds defendant maximum acceptable")

	// ErrSimulationPaused means submissions are suspended
	ErrSimulationPaused = errors.New("simulation is paused")

	// ErrDeadlineExpired means a late submission was rejected because the
	// round deadline already elapsed
	ErrDeadlineExpired = errors.New("round deadline has expired")

	// ErrNotFound means the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrCorruptRound is a fatal invariant violation: round state and
	// stored offers disagree. Transitions halt rather than guess.
	ErrCorruptRound = errors.New("round state inconsistent with stored offers")

	// ErrAdjustmentReasonRequired means an instructor adjustment was
	// supplied without a reason
	ErrAdjustmentReasonRequired = errors.New("instructor adjustment requires a reason")

	// errConflict signals an optimistic-lock loss; the caller retries once
	// against refreshed state
	errConflict = errors.New("concurrent update conflict")
)
