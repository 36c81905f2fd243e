package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/darsh-legal/negotiation-sim/internal/api"
	"github.com/darsh-legal/negotiation-sim/internal/cache"
	"github.com/darsh-legal/negotiation-sim/internal/config"
	"github.com/darsh-legal/negotiation-sim/internal/engine"
	"github.com/darsh-legal/negotiation-sim/internal/sweep"
	"github.com/darsh-legal/negotiation-sim/pkg/logger"
)

type Server struct {
	cfg     *config.Config
	db      *gorm.DB
	cache   cache.Cache
	logger  *logger.Logger
	router  *gin.Engine
	engine  *engine.Engine
	sweeper *sweep.Sweeper
}

func New(cfg *config.Config, db *gorm.DB, cache cache.Cache, logger *logger.Logger) *Server {
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())

	eng := engine.New(db, logger, engine.Options{
		RoundDuration:  cfg.RoundDuration,
		TextGenTimeout: cfg.TextGenTimeout,
		Weights: &engine.PerformanceWeights{
			EfficiencyPenaltyPerMiss: cfg.EfficiencyPenaltyPerMiss,
			PointsPerCreativeTerm:    2,
		},
	})

	server := &Server{
		cfg:     cfg,
		db:      db,
		cache:   cache,
		logger:  logger,
		router:  router,
		engine:  eng,
		sweeper: sweep.New(eng, engine.SystemClock(), logger, cfg.SweepInterval),
	}

	api.SetupRoutes(router, db, eng, cache, logger, cfg)

	return server
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start deadline sweep: %w", err)
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("Failed to start server", "error", err)
		}
	}()

	s.logger.Info("Server started", "address", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.sweeper.Stop(); err != nil {
		s.logger.Error("Failed to stop deadline sweep", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	s.logger.Info("Server exited gracefully")
	return nil
}

func loggingMiddleware(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		logger.Info("HTTP Request",
			"client_ip", clientIP,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency.String(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
