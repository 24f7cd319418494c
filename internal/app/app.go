// Package app wires the account service together and manages its lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coderharsx1122/utube-backend/internal/auth"
	"github.com/coderharsx1122/utube-backend/internal/config"
	"github.com/coderharsx1122/utube-backend/internal/event"
	handlerhttp "github.com/coderharsx1122/utube-backend/internal/handler/http"
	"github.com/coderharsx1122/utube-backend/internal/repository/postgres"
	"github.com/coderharsx1122/utube-backend/internal/service"
	"github.com/coderharsx1122/utube-backend/internal/upload/mediahost"
	"github.com/coderharsx1122/utube-backend/migrations"
	"github.com/coderharsx1122/utube-backend/pkg/database"
	"github.com/coderharsx1122/utube-backend/pkg/health"
	pkgkafka "github.com/coderharsx1122/utube-backend/pkg/kafka"
	"github.com/coderharsx1122/utube-backend/pkg/tracing"
)

// App holds the wired service and its owned resources.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool     *pgxpool.Pool
	producer *pkgkafka.Producer
	server   *http.Server

	shutdownTracer func(context.Context) error
}

// NewApp builds the application: tracing, database pool, migrations, Kafka
// producer, and the HTTP server with all routes.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)

	tokens := auth.NewTokenManager(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenExpiry,
		cfg.RefreshTokenExpiry,
	)

	uploader := mediahost.New(mediahost.Config{
		BaseURL: cfg.MediaHostURL,
		APIKey:  cfg.MediaHostAPIKey,
	}, logger)

	users := postgres.NewUserRepository(pool)
	events := event.NewProducer(producer, logger)
	accounts := service.NewAccountService(users, tokens, uploader, events, logger)

	authHandler := handlerhttp.NewAuthHandler(accounts, handlerhttp.CookieConfig{
		Secure:        cfg.CookieSecure,
		AccessMaxAge:  int(cfg.AccessTokenExpiry.Seconds()),
		RefreshMaxAge: int(cfg.RefreshTokenExpiry.Seconds()),
	})

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	router := handlerhttp.NewRouter(handlerhttp.RouterConfig{
		ServiceName:        cfg.ServiceName,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, logger, tokens, authHandler, healthHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		producer:       producer,
		server:         server,
		shutdownTracer: shutdownTracer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	}

	return a.Shutdown()
}

// Shutdown stops the server and releases resources in reverse dependency
// order.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close failed", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if err := a.shutdownTracer(ctx); err != nil {
		a.logger.Error("tracer shutdown failed", slog.String("error", err.Error()))
	}

	a.logger.Info("shutdown complete")
	return nil
}
