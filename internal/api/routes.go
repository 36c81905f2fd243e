package api

import (
	"github.com/gin-gonic/gin"

	"github.com/darsh-legal/negotiation-sim/internal/cache"
	"github.com/darsh-legal/negotiation-sim/internal/config"
	"github.com/darsh-legal/negotiation-sim/internal/engine"
	"github.com/darsh-legal/negotiation-sim/pkg/logger"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, eng *engine.Engine, cache cache.Cache, logger *logger.Logger, cfg *config.Config) {
	// Create handlers
	h := NewHandlers(db, eng, cache, logger, cfg)

	// API routes
	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", h.HealthCheck)

		// Simulation lifecycle
		api.POST("/simulations", h.CreateSimulation)
		api.POST("/simulations/:id/start", h.StartSimulation)
		api.POST("/simulations/:id/pause", h.PauseSimulation)
		api.POST("/simulations/:id/resume", h.ResumeSimulation)
		api.POST("/simulations/:id/offers", h.SubmitOffer)

		// Instructor writes
		api.POST("/offers/:id/score", h.ScoreOffer)
		api.POST("/scores/:id/adjust", h.AdjustScore)

		// Evidence scheduling
		api.POST("/simulations/:id/evidence/request", h.RequestEvidence)
		api.POST("/evidence/:id/approve", h.ApproveEvidence)

		// Read projections
		api.GET("/simulations/:id", h.GetSimulation)
		api.GET("/simulations/:id/feedback", h.GetFeedback)
		api.GET("/simulations/:id/arbitration", h.GetArbitration)
		api.GET("/simulations/:id/scores", h.GetScores)

		// Cache stats
		api.GET("/cache/stats", h.CacheStats)
	}
}
