package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	redisv9 "github.com/redis/go-redis/v9"

	"stock_history/internal/app/di"
	"stock_history/internal/app/router"
	"stock_history/internal/feature/historical/adapters"
	"stock_history/internal/feature/historical/transport/handler"
	"stock_history/internal/feature/historical/usecase"
	"stock_history/internal/platform/config"
	"stock_history/internal/platform/db"
	platformhandler "stock_history/internal/platform/http/handler"
	"stock_history/internal/platform/logger"
	platformredis "stock_history/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(ctx, platformredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		log.Warn("redis unavailable, running without cache", "error", err)
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// db
	gdb, err := db.Open(db.Config{
		Driver:         cfg.DB.Driver,
		DSN:            cfg.DB.DSN,
		ConnectTimeout: cfg.DB.ConnectTimeout,
		AutoMigrate:    cfg.DB.AutoMigrate,
	}, &adapters.BarModel{})
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	chart := di.NewChartRepository(cfg, rdb)
	historicalUC := usecase.NewHistoricalUsecase(chart, usecase.WithLogger(log))
	var invalidator handler.CacheInvalidator
	if c, ok := chart.(handler.CacheInvalidator); ok {
		invalidator = c
	}

	checks := []platformhandler.Check{{Name: "db", Probe: sqlDB.PingContext}}
	if rdb != nil {
		checks = append(checks, platformhandler.Check{
			Name:  "redis",
			Probe: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	engine := router.NewRouter(
		handler.NewHistoricalHandler(historicalUC),
		handler.NewBarsHandler(adapters.NewBarRepository(gdb), invalidator),
		router.Options{JWTSecret: cfg.Auth.JWTSecret, Logger: log, Checks: checks},
	)
	if cfg.Auth.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set; API routes are unauthenticated")
	}

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: engine}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
