package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-dms/meridian/internal/ap"
	"github.com/meridian-dms/meridian/internal/ar"
	"github.com/meridian-dms/meridian/internal/app"
	"github.com/meridian-dms/meridian/internal/delivery"
	"github.com/meridian-dms/meridian/internal/masterdata"
	"github.com/meridian-dms/meridian/internal/observability"
	"github.com/meridian-dms/meridian/internal/orders"
	"github.com/meridian-dms/meridian/internal/platform/cache"
	"github.com/meridian-dms/meridian/internal/platform/db"
	"github.com/meridian-dms/meridian/internal/procurement"
	"github.com/meridian-dms/meridian/internal/retail"
	"github.com/meridian-dms/meridian/internal/sales"
	"github.com/meridian-dms/meridian/internal/users"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, summary cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	validate := validator.New()
	metrics := observability.NewMetrics()

	ordersRepo := orders.NewRepository(pool)
	ordersService := orders.NewService(ordersRepo, redisClient, cfg.SummaryCacheTTL, logger)
	ordersHandler := orders.NewHandler(logger, ordersService, validate)

	procurementRepo := procurement.NewRepository(pool)
	procurementService := procurement.NewService(procurementRepo, logger)
	procurementHandler := procurement.NewHandler(logger, procurementService, validate)

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(salesRepo, logger)
	salesHandler := sales.NewHandler(logger, salesService, validate)

	retailRepo := retail.NewRepository(pool)
	retailService := retail.NewService(retailRepo, logger)
	retailHandler := retail.NewHandler(logger, retailService, validate)

	apRepo := ap.NewRepository(pool)
	apService := ap.NewService(apRepo, logger)
	apHandler := ap.NewHandler(logger, apService, validate)

	arRepo := ar.NewRepository(pool)
	arService := ar.NewService(arRepo, logger)
	arHandler := ar.NewHandler(logger, arService, validate)

	deliveryRepo := delivery.NewRepository(pool)
	deliveryService := delivery.NewService(deliveryRepo, logger)
	deliveryHandler := delivery.NewHandler(logger, deliveryService, validate)

	masterDataRepo := masterdata.NewRepository(pool)
	masterDataService := masterdata.NewService(masterDataRepo)
	masterDataHandler := masterdata.NewHandler(logger, masterDataService, validate)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, logger)
	usersHandler := users.NewHandler(logger, usersService, validate)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		OrdersHandler:      ordersHandler,
		ProcurementHandler: procurementHandler,
		SalesHandler:       salesHandler,
		RetailHandler:      retailHandler,
		APHandler:          apHandler,
		ARHandler:          arHandler,
		DeliveryHandler:    deliveryHandler,
		MasterDataHandler:  masterDataHandler,
		UsersHandler:       usersHandler,
		Metrics:            metrics,
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
