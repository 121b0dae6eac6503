package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/freshmart/freshmart-backend/api/routes"
	"github.com/freshmart/freshmart-backend/internal/checkout"
	"github.com/freshmart/freshmart-backend/internal/customers"
	"github.com/freshmart/freshmart-backend/internal/feedback"
	"github.com/freshmart/freshmart-backend/internal/loyalty"
	"github.com/freshmart/freshmart-backend/internal/membership"
	"github.com/freshmart/freshmart-backend/internal/notifications"
	"github.com/freshmart/freshmart-backend/internal/products"
	"github.com/freshmart/freshmart-backend/internal/promotions"
	"github.com/freshmart/freshmart-backend/internal/purchases"
	"github.com/freshmart/freshmart-backend/pkg/config"
	"github.com/freshmart/freshmart-backend/pkg/db"
	"github.com/freshmart/freshmart-backend/pkg/logger"
	"github.com/freshmart/freshmart-backend/pkg/metrics"
	"github.com/freshmart/freshmart-backend/pkg/migrate"
	"github.com/freshmart/freshmart-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	customerRepo := customers.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	promotionRepo := promotions.NewRepository(dbClient.DB())
	purchaseRepo := purchases.NewRepository(dbClient.DB())
	loyaltyRepo := loyalty.NewRepository(dbClient.DB())
	feedbackRepo := feedback.NewRepository(dbClient.DB())
	notificationRepo := notifications.NewRepository(dbClient.DB())

	notificationsSvc, err := notifications.NewService(notificationRepo)
	requireService(logg, "notifications", err)

	productsSvc, err := products.NewService(productRepo)
	requireService(logg, "products", err)

	promotionsSvc, err := promotions.NewService(promotionRepo, productRepo, notificationsSvc, logg)
	requireService(logg, "promotions", err)

	purchasesSvc, err := purchases.NewService(purchaseRepo)
	requireService(logg, "purchases", err)

	customersSvc, err := customers.NewService(customerRepo, purchaseRepo, membership.ThresholdsFromConfig(cfg.Membership))
	requireService(logg, "customers", err)

	loyaltySvc, err := loyalty.NewService(loyaltyRepo, dbClient, cfg.Points, ledgerMetrics, notificationsSvc, logg)
	requireService(logg, "loyalty", err)

	checkoutSvc, err := checkout.NewService(dbClient, customersSvc, promotionsSvc, productRepo, purchaseRepo, loyaltySvc, notificationsSvc, logg)
	requireService(logg, "checkout", err)

	feedbackSvc, err := feedback.NewService(feedbackRepo, notificationsSvc, logg)
	requireService(logg, "feedback", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Customers:     customersSvc,
			Products:      productsSvc,
			Promotions:    promotionsSvc,
			Purchases:     purchasesSvc,
			Checkout:      checkoutSvc,
			Loyalty:       loyaltySvc,
			Feedback:      feedbackSvc,
			Notifications: notificationsSvc,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			_ = server.Close()
		}
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(context.Background(), "service", name), "failed to wire service", err)
	os.Exit(1)
}
