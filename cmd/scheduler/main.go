package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgrec/appointment_scheduler/internal/app"
	"github.com/orgrec/appointment_scheduler/internal/config"
	"github.com/orgrec/appointment_scheduler/internal/repository"
	"github.com/orgrec/appointment_scheduler/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting appointment scheduler",
		zap.String("environment", cfg.Environment),
		zap.Int("max_range_days", cfg.MaxRangeDays),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	templateRepo := repository.NewTemplateRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	partyRepo := repository.NewPartyRepository(pool)

	schedulerService := service.NewSchedulerService(
		templateRepo, slotRepo, partyRepo, cfg.MaxRangeDays, logger)

	job := app.NewGenerationJob(
		schedulerService, cfg.GenerationCron, cfg.GenerationHorizonWeeks, logger)
	if err := job.Start(ctx); err != nil {
		logger.Fatal("Failed to start generation job", zap.Error(err))
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	job.Stop()
}
