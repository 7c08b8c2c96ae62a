package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/powdercoat/erp-backend/api/routes"
	clientsvc "github.com/powdercoat/erp-backend/internal/clients"
	ordersvc "github.com/powdercoat/erp-backend/internal/orders"
	paymentsvc "github.com/powdercoat/erp-backend/internal/payments"
	productsvc "github.com/powdercoat/erp-backend/internal/products"
	reportsvc "github.com/powdercoat/erp-backend/internal/reports"
	"github.com/powdercoat/erp-backend/pkg/config"
	"github.com/powdercoat/erp-backend/pkg/db"
	"github.com/powdercoat/erp-backend/pkg/env"
	"github.com/powdercoat/erp-backend/pkg/logger"
	"github.com/powdercoat/erp-backend/pkg/migrate"
	"github.com/powdercoat/erp-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	var closers []func() error
	closers = append(closers, dbClient.Close)
	defer func() {
		var closeErr error
		for _, closeFn := range closers {
			closeErr = multierr.Append(closeErr, closeFn())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error closing resources", closeErr)
		}
	}()

	if err := migrate.AutoRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
	}

	conn := dbClient.DB()

	clientsService, err := clientsvc.NewService(clientsvc.NewRepository(conn), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create clients service", err)
		os.Exit(1)
	}
	productsRepo := productsvc.NewRepository(conn)
	productsService, err := productsvc.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}
	ordersRepo := ordersvc.NewRepository(conn)
	ordersService, err := ordersvc.NewService(ordersRepo, dbClient, productsvc.NewInventory(productsRepo))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	paymentsService, err := paymentsvc.NewService(ordersRepo, dbClient, ordersService)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}
	reportsService, err := reportsvc.NewService(reportsvc.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, prometheus.NewRegistry(), routes.Services{
			Clients:  clientsService,
			Products: productsService,
			Orders:   ordersService,
			Payments: paymentsService,
			Reports:  reportsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
