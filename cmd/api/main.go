package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asachdeva-dev/shopfront-backend/api/routes"
	authsvc "github.com/asachdeva-dev/shopfront-backend/internal/auth"
	"github.com/asachdeva-dev/shopfront-backend/internal/catalog"
	customersvc "github.com/asachdeva-dev/shopfront-backend/internal/customers"
	"github.com/asachdeva-dev/shopfront-backend/internal/orders"
	"github.com/asachdeva-dev/shopfront-backend/internal/payments"
	"github.com/asachdeva-dev/shopfront-backend/internal/settings"
	"github.com/asachdeva-dev/shopfront-backend/pkg/config"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db"
	"github.com/asachdeva-dev/shopfront-backend/pkg/logger"
	"github.com/asachdeva-dev/shopfront-backend/pkg/metrics"
	"github.com/asachdeva-dev/shopfront-backend/pkg/migrate"
	pkgredis "github.com/asachdeva-dev/shopfront-backend/pkg/redis"
	"github.com/asachdeva-dev/shopfront-backend/pkg/security"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownGrace = 15 * time.Second

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
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	encryptionKey, err := cfg.Encryption.Key()
	if err != nil {
		logg.Error(context.Background(), "invalid encryption key", err)
		os.Exit(1)
	}
	cipher, err := security.NewSecretCipher(encryptionKey)
	if err != nil {
		logg.Error(context.Background(), "failed to build secret cipher", err)
		os.Exit(1)
	}

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	conn := dbClient.DB()

	settingsSvc, err := settings.NewService(settings.NewRepository(conn), dbClient, cipher, cfg.Schedule.DefaultTimezone)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}
	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	ordersSvc, err := orders.NewService(orders.NewRepository(conn), catalog.NewRepository(conn), dbClient, settingsSvc, logg, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	paymentsSvc, err := payments.NewService(payments.NewRazorpayGateway(), settingsSvc, ordersSvc, logg, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}
	ownerAuthSvc, err := authsvc.NewService(authsvc.NewRepository(conn), cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	customersSvc, err := customersvc.NewService(customersvc.NewRepository(conn), cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Redis:     redisClient,
		Auth:      ownerAuthSvc,
		Customers: customersSvc,
		Catalog:   catalogSvc,
		Settings:  settingsSvc,
		Orders:    ordersSvc,
		Payments:  paymentsSvc,
	})

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
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
