package sweep

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/darsh-legal/negotiation-sim/internal/engine"
	"github.com/darsh-legal/negotiation-sim/pkg/logger"
)

// Sweeper periodically force-finalizes rounds whose deadline elapsed before
// both sides submitted. It acquires the same per-round transaction the
// submission path uses, so a late submission and the sweep never both apply.
type Sweeper struct {
	engine    *engine.Engine
	clock     engine.Clock
	logger    *logger.Logger
	interval  time.Duration
	scheduler gocron.Scheduler
}

func New(eng *engine.Engine, clock engine.Clock, log *logger.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		engine:   eng,
		clock:    clock,
		logger:   log,
		interval: interval,
	}
}

// Start begins the background sweep
func (s *Sweeper) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create sweep scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.Sweep),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule deadline sweep: %w", err)
	}

	sched.Start()
	s.scheduler = sched

	s.logger.Info("Deadline sweep started", "interval", s.interval.String())
	return nil
}

// Stop shuts the scheduler down
func (s *Sweeper) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.Shutdown()
}

// Sweep runs one pass over expired rounds; also invokable directly by tests
// and admin tooling
func (s *Sweeper) Sweep() {
	now := s.clock.Now()
	rounds, err := s.engine.ExpiredRounds(now)
	if err != nil {
		s.logger.Error("Deadline sweep query failed", "error", err)
		return
	}

	for _, round := range rounds {
		if err := s.engine.ForceFinalize(round.ID); err != nil {
			s.logger.Error("Failed to force-finalize round",
				"round_id", round.ID,
				"simulation_id", round.SimulationID,
				"round_number", round.RoundNumber,
				"error", err,
			)
			continue
		}
		s.logger.Info("Round force-finalized at deadline",
			"round_id", round.ID,
			"simulation_id", round.SimulationID,
			"round_number", round.RoundNumber,
		)
	}
}
