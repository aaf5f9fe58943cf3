package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN                  string
	Environment            string
	MigrationsDir          string
	MaxRangeDays           int
	GenerationHorizonWeeks int
	GenerationCron         string
}

const (
	defaultMigrationsDir  = "migrations"
	defaultMaxRangeDays   = 92
	defaultHorizonWeeks   = 4
	defaultGenerationCron = "30 2 * * *" // nightly, after the day's bookings settle
)

func Load() (*Config, error) {
	// .env is optional; environment variables win either way.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		MigrationsDir:  os.Getenv("MIGRATIONS_DIR"),
		GenerationCron: os.Getenv("GENERATION_CRON"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = defaultMigrationsDir
	}
	if cfg.GenerationCron == "" {
		cfg.GenerationCron = defaultGenerationCron
	}

	var err error
	cfg.MaxRangeDays, err = intEnv("MAX_RANGE_DAYS", defaultMaxRangeDays)
	if err != nil {
		return nil, err
	}
	cfg.GenerationHorizonWeeks, err = intEnv("GENERATION_HORIZON_WEEKS", defaultHorizonWeeks)
	if err != nil {
		return nil, err
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return value, nil
}
