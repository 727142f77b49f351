package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stitchdesk/stitchdesk/internal/app"
	"github.com/stitchdesk/stitchdesk/internal/catalog"
	"github.com/stitchdesk/stitchdesk/internal/customers"
	"github.com/stitchdesk/stitchdesk/internal/groups"
	"github.com/stitchdesk/stitchdesk/internal/inventory"
	"github.com/stitchdesk/stitchdesk/internal/invoices"
	"github.com/stitchdesk/stitchdesk/internal/ledger"
	"github.com/stitchdesk/stitchdesk/internal/market"
	"github.com/stitchdesk/stitchdesk/internal/money"
	"github.com/stitchdesk/stitchdesk/internal/observability"
	"github.com/stitchdesk/stitchdesk/internal/payroll"
	"github.com/stitchdesk/stitchdesk/internal/planning"
	"github.com/stitchdesk/stitchdesk/internal/platform/cache"
	"github.com/stitchdesk/stitchdesk/internal/platform/db"
	"github.com/stitchdesk/stitchdesk/internal/premises"
	"github.com/stitchdesk/stitchdesk/internal/suppliers"
	"github.com/stitchdesk/stitchdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	metrics := observability.NewMetrics()
	formatter := money.NewFormatter(cfg.VNDToRUB)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	customersRepo := customers.NewPGRepository(pool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService, formatter)

	ledgerRepo := ledger.NewRepository(pool)
	ledgerService := ledger.NewService(ledgerRepo, catalogService)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	payrollCache := payroll.NewCache(redisClient, cfg.CacheTTL)
	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	payrollRepo := payroll.NewRepository(pool)
	payrollService := payroll.NewService(payrollRepo, catalogService, payrollCache, jobsClient, logger)
	payrollHandler := payroll.NewHandler(logger, payrollService)

	groupsRepo := groups.NewPGRepository(pool)
	groupsService := groups.NewService(groupsRepo, payrollCache, logger)
	groupsHandler := groups.NewHandler(logger, groupsService)

	planningRepo := planning.NewPGRepository(pool)
	planningService := planning.NewService(planningRepo)
	planningHandler := planning.NewHandler(logger, planningService)

	suppliersRepo := suppliers.NewPGRepository(pool)
	suppliersService := suppliers.NewService(suppliersRepo)
	suppliersHandler := suppliers.NewHandler(logger, suppliersService)

	inventoryRepo := inventory.NewPGRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo, suppliersService)
	inventoryHandler := inventory.NewHandler(logger, inventoryService)

	invoicesRepo := invoices.NewPGRepository(pool)
	invoicesService := invoices.NewService(invoicesRepo)
	invoicesHandler := invoices.NewHandler(logger, invoicesService)

	marketRepo := market.NewPGRepository(pool)
	marketService := market.NewService(marketRepo, customersService)
	marketHandler := market.NewHandler(logger, marketService)

	premisesRepo := premises.NewPGRepository(pool)
	premisesService := premises.NewService(premisesRepo)
	premisesHandler := premises.NewHandler(logger, premisesService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		CustomersHandler: customersHandler,
		LedgerHandler:    ledgerHandler,
		CatalogHandler:   catalogHandler,
		GroupsHandler:    groupsHandler,
		PayrollHandler:   payrollHandler,
		PlanningHandler:  planningHandler,
		SuppliersHandler: suppliersHandler,
		InventoryHandler: inventoryHandler,
		InvoicesHandler:  invoicesHandler,
		MarketHandler:    marketHandler,
		PremisesHandler:  premisesHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
