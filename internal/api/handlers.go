package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/darsh-legal/negotiation-sim/internal/cache"
	"github.com/darsh-legal/negotiation-sim/internal/config"
	"github.com/darsh-legal/negotiation-sim/internal/database"
	"github.com/darsh-legal/negotiation-sim/internal/engine"
	"github.com/darsh-legal/negotiation-sim/pkg/logger"
	"gorm.io/gorm"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	db     *gorm.DB
	engine *engine.Engine
	cache  cache.Cache
	logger *logger.Logger
	cfg    *config.Config
}

// NewHandlers creates a new handlers instance
func NewHandlers(db *gorm.DB, eng *engine.Engine, cache cache.Cache, logger *logger.Logger, cfg *config.Config) *Handlers {
	return &Handlers{
		db:     db,
		engine: eng,
		cache:  cache,
		logger: logger,
		cfg:    cfg,
	}
}

// businessError maps engine errors to HTTP responses; infra errors become 500
func (h *Handlers) businessError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrSettlementRangeImpossible):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrInvalidState),
		errors.Is(err, engine.ErrDuplicateOffer),
		errors.Is(err, engine.ErrSimulationPaused),
		errors.Is(err, engine.ErrDeadlineExpired):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrAdjustmentReasonRequired):
		status = http.StatusBadRequest
	default:
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// invalidate drops the cached snapshot after any engine write
func (h *Handlers) invalidate(simulationID string) {
	h.cache.Delete(cache.GenerateCacheKey(simulationID))
}

// CreateSimulation validates and stores a new simulation
func (h *Handlers) CreateSimulation(c *gin.Context) {
	var req engine.SimulationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}
	if req.TotalRounds == 0 {
		req.TotalRounds = h.cfg.DefaultTotalRounds
	}

	sim, err := h.engine.CreateSimulation(req)
	if err != nil {
		h.businessError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    sim,
	})
}

// StartSimulation begins round 1
func (h *Handlers) StartSimulation(c *gin.Context) {
	sim, err := h.engine.StartSimulation(c.Param("id"))
	if err != nil {
		h.businessError(c, err)
		return
	}
	h.invalidate(sim.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sim,
	})
}

// SubmitOffer records a team's offer for the current round
func (h *Handlers) SubmitOffer(c *gin.Context) {
	var req struct {
		Team             database.Team `json:"team" binding:"required"`
		Amount           float64       `json:"amount" binding:"required"`
		Justification    string        `json:"justification"`
		NonMonetaryTerms string        `json:"non_monetary_terms"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}
	if req.Team != database.TeamPlaintiff && req.Team != database.TeamDefendant {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "team must be plaintiff or defendant",
		})
		return
	}

	offer, err := h.engine.SubmitOffer(c.Param("id"), req.Team, engine.OfferInput{
		Amount:           req.Amount,
		Justification:    req.Justification,
		NonMonetaryTerms: req.NonMonetaryTerms,
	})
	if err != nil {
		h.businessError(c, err)
		return
	}
	h.invalidate(offer.SimulationID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    offer,
	})
}

// PauseSimulation suspends new submissions
func (h *Handlers) PauseSimulation(c *gin.Context) {
	sim, err := h.engine.Pause(c.Param("id"))
	if err != nil {
		h.businessError(c, err)
		return
	}
	h.invalidate(sim.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sim,
	})
}

// ResumeSimulation reopens submissions with a recomputed deadline
func (h *Handlers) ResumeSimulation(c *gin.Context) {
	sim, err := h.engine.Resume(c.Param("id"))
	if err != nil {
		h.businessError(c, err)
		return
	}
	h.invalidate(sim.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sim,
	})
}

// ScoreOffer applies instructor sub-scores to an offer
func (h *Handlers) ScoreOffer(c *gin.Context) {
	var req engine.InstructorScores
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	offer, err := h.engine.ScoreOffer(c.Param("id"), req)
	if err != nil {
		h.businessError(c, err)
		return
	}
	h.invalidate(offer.SimulationID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    offer,
	})
}

// RequestEvidence records a team's disclosure request
func (h *Handlers) RequestEvidence(c *gin.Context) {
	var req struct {
		Team       database.Team `json:"team" binding:"required"`
		DocumentID string        `json:"document_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	rel, err := h.engine.RequestEvidence(c.Param("id"), req.DocumentID, req.Team)
	if err != nil {
		h.businessError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    rel,
	})
}

// ApproveEvidence releases a requested disclosure
func (h *Handlers) ApproveEvidence(c *gin.Context) {
	rel, err := h.engine.ApproveEvidence(c.Param("id"))
	if err != nil {
		h.businessError(c, err)
		return
	}
	h.invalidate(rel.SimulationID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rel,
	})
}

// AdjustScore applies an instructor adjustment to a performance score
func (h *Handlers) AdjustScore(c *gin.Context) {
	var req struct {
		Adjustment int    `json:"adjustment"`
		Reason     string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	score, err := h.engine.AdjustPerformance(c.Param("id"), req.Adjustment, req.Reason)
	if err != nil {
		h.businessError(c, err)
		return
	}
	h.invalidate(score.SimulationID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    score,
	})
}

// GetSimulation returns the cached simulation snapshot
func (h *Handlers) GetSimulation(c *gin.Context) {
	id := c.Param("id")

	cacheKey := cache.GenerateCacheKey(id)
	if snapshot, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"data":      snapshot,
			"fromCache": true,
		})
		return
	}

	snapshot, err := h.engine.Snapshot(id)
	if err != nil {
		h.businessError(c, err)
		return
	}
	h.cache.Set(cacheKey, snapshot)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      snapshot,
		"fromCache": false,
	})
}

// GetFeedback returns the client-feedback stream
func (h *Handlers) GetFeedback(c *gin.Context) {
	feedback, err := h.engine.FeedbackStream(c.Param("id"))
	if err != nil {
		h.businessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    feedback,
	})
}

// GetArbitration returns the arbitration outcome once computed
func (h *Handlers) GetArbitration(c *gin.Context) {
	outcome, err := h.engine.ArbitrationOutcomeFor(c.Param("id"))
	if err != nil {
		h.businessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    outcome,
	})
}

// GetScores returns the team and member performance rollups
func (h *Handlers) GetScores(c *gin.Context) {
	scores, err := h.engine.PerformanceScores(c.Param("id"))
	if err != nil {
		h.businessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    scores,
	})
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	var count int64
	dbHealthy := h.db.Model(&database.Simulation{}).Count(&count).Error == nil

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbHealthy,
		"cache":    h.cache.Stats(),
		"time":     time.Now().Unix(),
	})
}

// CacheStats returns cache statistics
func (h *Handlers) CacheStats(c *gin.Context) {
	stats := h.cache.Stats()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
