package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"stock_history/internal/app/di"
	"stock_history/internal/feature/historical/adapters"
	"stock_history/internal/feature/historical/domain/entity"
	"stock_history/internal/feature/historical/usecase"
	"stock_history/internal/platform/config"
	"stock_history/internal/platform/db"
	"stock_history/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)
	if len(cfg.Ingest.Symbols) == 0 {
		return errors.New("no symbols configured (INGEST_SYMBOLS)")
	}

	gdb, err := db.Open(db.Config{
		Driver:         cfg.DB.Driver,
		DSN:            cfg.DB.DSN,
		ConnectTimeout: cfg.DB.ConnectTimeout,
		AutoMigrate:    cfg.DB.AutoMigrate,
	}, &adapters.BarModel{})
	if err != nil {
		return err
	}

	// ingest always asks upstream, never the cache
	uc := usecase.NewIngestUsecase(
		di.NewHistoricalUsecase(cfg, nil, log),
		adapters.NewBarRepository(gdb),
		di.NewRateLimiter(cfg),
		usecase.WithIngestLogger(log),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Ingest.Schedule == "" {
		return ingestOnce(ctx, uc, cfg, log)
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.Ingest.Schedule, func() {
		if err := ingestOnce(ctx, uc, cfg, log); err != nil {
			log.Error("scheduled ingest finished with failures", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("register ingest schedule %q: %w", cfg.Ingest.Schedule, err)
	}
	c.Start()
	log.Info("ingest scheduler started", "schedule", cfg.Ingest.Schedule, "symbols", len(cfg.Ingest.Symbols))

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("ingest scheduler stopped")
	return nil
}

func ingestOnce(ctx context.Context, uc *usecase.IngestUsecase, cfg *config.Config, log *slog.Logger) error {
	opts := entity.Options{
		Period1:  entity.EpochSeconds(time.Now().Add(-cfg.Ingest.Lookback).Unix()),
		Interval: cfg.Ingest.Interval,
	}

	report := uc.IngestAll(ctx, cfg.Ingest.Symbols, opts)
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d symbols failed, first: %s: %w",
			len(failed), len(report.Results), failed[0].Symbol, failed[0].Err)
	}
	log.Info("ingest ok", "symbols", len(report.Results))
	return nil
}
