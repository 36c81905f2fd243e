package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Database settings
	DatabasePath string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Cache settings
	CacheSize int
	CacheTTL  time.Duration

	// Simulation settings
	RoundDuration      time.Duration
	DefaultTotalRounds int

	// Deadline sweep settings
	SweepInterval time.Duration

	// Text-generation port settings
	TextGenTimeout time.Duration

	// Scoring settings
	EfficiencyPenaltyPerMiss int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not an error if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:         getEnv("HOST", "0.0.0.0"),
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/negotiation_sim.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
	}

	// Parse integer values
	var err error
	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = time.Duration(cacheTTL) * time.Minute

	roundDuration, err := strconv.Atoi(getEnv("ROUND_DURATION_MINUTES", "45"))
	if err != nil {
		return nil, fmt.Errorf("invalid ROUND_DURATION_MINUTES: %w", err)
	}
	cfg.RoundDuration = time.Duration(roundDuration) * time.Minute

	cfg.DefaultTotalRounds, err = strconv.Atoi(getEnv("DEFAULT_TOTAL_ROUNDS", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TOTAL_ROUNDS: %w", err)
	}

	sweepInterval, err := strconv.Atoi(getEnv("SWEEP_INTERVAL_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL_SECONDS: %w", err)
	}
	cfg.SweepInterval = time.Duration(sweepInterval) * time.Second

	textGenTimeout, err := strconv.Atoi(getEnv("TEXTGEN_TIMEOUT_SECONDS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid TEXTGEN_TIMEOUT_SECONDS: %w", err)
	}
	cfg.TextGenTimeout = time.Duration(textGenTimeout) * time.Second

	cfg.EfficiencyPenaltyPerMiss, err = strconv.Atoi(getEnv("EFFICIENCY_PENALTY_PER_MISS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid EFFICIENCY_PENALTY_PER_MISS: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
