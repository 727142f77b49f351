package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/stitchdesk/stitchdesk/internal/app"
	"github.com/stitchdesk/stitchdesk/internal/catalog"
	jobmetrics "github.com/stitchdesk/stitchdesk/internal/jobs"
	"github.com/stitchdesk/stitchdesk/internal/payroll"
	"github.com/stitchdesk/stitchdesk/internal/platform/cache"
	"github.com/stitchdesk/stitchdesk/internal/platform/db"
	"github.com/stitchdesk/stitchdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	catalogService := catalog.NewService(catalog.NewRepository(pool))
	payrollCache := payroll.NewCache(redisClient, cfg.CacheTTL)
	payrollService := payroll.NewService(payroll.NewRepository(pool), catalogService, payrollCache, nil, logger)

	refreshTask, err := jobs.NewPayrollRefreshTask(jobs.PayrollRefreshPayload{})
	if err != nil {
		logger.Error("build refresh task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskPayrollRefresh, Handler: jobs.NewPayrollRefreshHandler(payrollService, jobmetrics.NewMetrics(nil))},
		},
		Cron: []jobs.CronRegistration{
			// Re-warm the current month's summaries nightly.
			{Spec: "30 1 * * *", Task: refreshTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
