package engine

import (
	"math/rand"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/darsh-legal/negotiation-sim/pkg/logger"
)

// Engine drives the negotiation simulation: round lifecycle, offer
// submission, settlement detection, pressure injection, evidence release,
// arbitration fallback, and performance aggregation
type Engine struct {
	db     *gorm.DB
	clock  Clock
	logger *logger.Logger

	rng   *rand.Rand
	rngMu sync.Mutex

	textgen TextGenerator
	roster  RosterProvider
	collab  CollaborationProvider

	heuristics Heuristics
	weights    PerformanceWeights

	roundDuration  time.Duration
	textGenTimeout time.Duration
}

// Options configures an Engine; zero values fall back to defaults
type Options struct {
	Clock          Clock
	Rand           *rand.Rand
	TextGenerator  TextGenerator
	Roster         RosterProvider
	Collaboration  CollaborationProvider
	Heuristics     *Heuristics
	Weights        *PerformanceWeights
	RoundDuration  time.Duration
	TextGenTimeout time.Duration
}

// New creates an engine bound to the given database
func New(db *gorm.DB, log *logger.Logger, opts Options) *Engine {
	e := &Engine{
		db:             db,
		clock:          opts.Clock,
		logger:         log,
		rng:            opts.Rand,
		textgen:        opts.TextGenerator,
		roster:         opts.Roster,
		collab:         opts.Collaboration,
		heuristics:     DefaultHeuristics(),
		weights:        DefaultPerformanceWeights(),
		roundDuration:  opts.RoundDuration,
		textGenTimeout: opts.TextGenTimeout,
	}

	if e.clock == nil {
		e.clock = SystemClock()
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.textgen == nil {
		e.textgen = TemplateTextGenerator{}
	}
	if e.roster == nil {
		e.roster = &StaticRoster{}
	}
	if e.collab == nil {
		e.collab = DefaultCollaboration{}
	}
	if opts.Heuristics != nil {
		e.heuristics = *opts.Heuristics
	}
	if opts.Weights != nil {
		e.weights = *opts.Weights
	}
	if e.roundDuration <= 0 {
		e.roundDuration = 45 * time.Minute
	}
	if e.textGenTimeout < minTextGenTimeout {
		e.textGenTimeout = 5 * time.Second
	}

	return e
}

// withRand serializes access to the shared rand source; concurrent
// submissions would otherwise race on it
func (e *Engine) withRand(fn func(rng *rand.Rand)) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	fn(e.rng)
}
