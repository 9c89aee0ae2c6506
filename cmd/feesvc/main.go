package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kelseyhightower/envconfig"

	"eventpay/internal/common/database"
	"eventpay/internal/common/middleware"
	natsclient "eventpay/internal/common/nats"
	"eventpay/internal/fees"
	feesapi "eventpay/internal/fees/api"
	"eventpay/internal/gateway"
	gatewayapi "eventpay/internal/gateway/api"
	"eventpay/internal/gateway/store"
	"eventpay/migrations"
)

// Config holds service configuration
type Config struct {
	Port        int    `envconfig:"FEESVC_PORT" default:"8086"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json"`
	AdminAPIKey string `envconfig:"ADMIN_API_KEY" required:"true"`

	Database database.Config
	NATS     natsclient.Config
	Gateway  gateway.Config
}

func main() {
	// Load configuration
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to process config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)

	// Create context that listens for shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Apply migrations
	if err := database.Migrate(cfg.Database.URL, migrations.FS, logger); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := database.New(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to NATS. Failure is not fatal: the service degrades to
	// fetch-then-cache mode without reactive invalidation.
	var nc *natsclient.Client
	if nc, err = natsclient.New(cfg.NATS, logger); err != nil {
		logger.Warn("NATS unavailable, running without change feed", "error", err)
		nc = nil
	} else {
		defer nc.Close()
	}

	// Create services
	configStore := store.New(db)
	configService := gateway.NewService(cfg.Gateway, configStore, nil, logger)
	defer configService.Close()

	var admin *gateway.Admin
	if nc != nil {
		publisher := natsclient.NewPublisher(nc, logger)
		admin = gateway.NewAdmin(configStore, publisher, logger)
		configService.StartInvalidation(gateway.NewNATSChangeFeed(nc, logger))
	} else {
		admin = gateway.NewAdmin(configStore, nil, logger)
	}

	feeService := fees.NewService(configService, logger)

	// Create handlers
	gatewayHandler := gatewayapi.NewHandler(configService, admin)
	feesHandler := feesapi.NewHandler(feeService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Ready check
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/fees", feesHandler.Routes())
		r.Mount("/payment-gateway", gatewayHandler.Routes(middleware.AdminKeyAuth(cfg.AdminAPIKey)))
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting fee service",
			"port", cfg.Port,
			"environment", cfg.Environment,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()

	// Graceful shutdown
	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}

func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
