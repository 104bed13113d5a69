// CalmCampus Buddy - wellbeing assistant API server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Brian-C69/calm-campus/internal/api"
	"github.com/Brian-C69/calm-campus/internal/config"
	"github.com/Brian-C69/calm-campus/internal/llm"
	"github.com/Brian-C69/calm-campus/internal/middleware"
	"github.com/Brian-C69/calm-campus/internal/pipeline"
	"github.com/Brian-C69/calm-campus/internal/push"
	"github.com/Brian-C69/calm-campus/internal/store"
	"github.com/Brian-C69/calm-campus/internal/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "version", version,
		"model", cfg.LLM.Model, "fallback_model", cfg.LLM.FallbackModel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "calmcampus-buddy",
		ServiceVersion: version,
		TraceExporter:  cfg.Telemetry.TraceExporter,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(ctx); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	llmClient, err := llm.NewClient(llm.Options{
		BaseURL:       cfg.LLM.BaseURL,
		Model:         cfg.LLM.Model,
		FallbackModel: cfg.LLM.FallbackModel,
		Temperature:   cfg.LLM.Temperature,
		Timeout:       cfg.LLM.Timeout,
		Logger:        logger,
	})
	if err != nil {
		slog.Error("Failed to initialize model client", "error", err)
		os.Exit(1)
	}
	if err := llmClient.Ping(ctx); err != nil {
		// Chat still answers from its fallbacks while the backend is down.
		slog.Warn("Model backend not reachable at startup", "url", cfg.LLM.BaseURL, "error", err)
	}

	buddy := pipeline.New(llmClient, pipeline.WithLogger(logger))

	var sender push.Sender
	if fcm, err := push.NewFCMClient(cfg.Push, nil); err != nil {
		slog.Info("Push relay disabled", "reason", err)
	} else {
		sender = fcm
		slog.Info("Push relay enabled", "topic", cfg.Push.Topic)
	}
	pushService := push.NewService(sender, repo, cfg.Push.Topic, logger)

	limiter := api.NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration)
	defer limiter.Stop()

	// Initialize handlers.
	healthHandler := api.NewHealthHandler(repo, llmClient, cfg.LLM.Model, cfg.LLM.FallbackModel)
	chatHandler := api.NewChatHandler(buddy, limiter, cfg.MaxBodyBytes, cfg.AllowedOrigins)
	pushHandler := push.NewHandler(pushService, cfg.MaxBodyBytes)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	healthHandler.RegisterHealth(r)
	chatHandler.RegisterRoutes(r)
	pushHandler.RegisterRoutes(r)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Model calls can take up to two timeouts (primary then fallback).
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*cfg.LLM.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	store.StartRetentionWorker(ctx, repo, cfg.Retention.Announcements, cfg.Retention.Interval)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
