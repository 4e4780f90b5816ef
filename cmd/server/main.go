package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tastien/teamup/internal/app"
	"github.com/tastien/teamup/internal/catalog"
	"github.com/tastien/teamup/internal/config"
	"github.com/tastien/teamup/internal/document"
	"github.com/tastien/teamup/internal/handler"
	"github.com/tastien/teamup/internal/metrics"
	"github.com/tastien/teamup/internal/middleware"
	"github.com/tastien/teamup/internal/repository"
	"github.com/tastien/teamup/internal/service"
)

func main() {
	bootstrap := flag.Bool("bootstrap", false, "create the shared room document if it does not exist, print its id, and exit")
	flag.Parse()

	// .env is a development convenience; absence is not an error
	_ = godotenv.Load()

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *bootstrap {
		runBootstrap(cfg)
		return
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize metrics registry
	registry := prometheus.NewRegistry()
	m := metrics.New("teamup", registry)

	// Initialize the shared-document store
	store := document.NewGistStore(document.GistConfig{
		GistID:   cfg.Document.GistID,
		Token:    cfg.Document.Token,
		APIBase:  cfg.Document.APIBase,
		FileName: cfg.Document.FileName,
		Timeout:  cfg.Document.RequestTimeout,
		Metrics:  m,
	})

	if !store.CanWrite() {
		slog.Warn("no GITHUB_TOKEN set, room document is read-only")
	}

	// Initialize repositories
	roomRepo := repository.NewRoomRepository(repository.RoomRepositoryConfig{
		Store:       store,
		Version:     config.Version,
		MaxAttempts: cfg.Sync.MaxAttempts,
		BaseDelay:   cfg.Sync.BaseDelay,
		Metrics:     m,
	})

	// Initialize services
	roomService := service.NewRoomService(service.RoomServiceConfig{
		Store:        roomRepo,
		ExpiryWindow: cfg.Matching.ExpiryWindow,
	})

	matchingService := service.NewMatchingService(service.MatchingServiceConfig{
		RecommendLimit: cfg.Matching.RecommendLimit,
	})

	state := app.New(app.Config{
		Rooms:      roomService,
		Matching:   matchingService,
		Activities: catalog.Activities(),
	})

	// Initialize handlers
	roomHandler := handler.NewRoomHandler(state, matchingService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Metrics endpoint
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Session endpoints
	mux.HandleFunc("PUT /v1/user", roomHandler.SetUser)
	mux.HandleFunc("GET /v1/user", roomHandler.GetUser)
	mux.HandleFunc("DELETE /v1/user", roomHandler.Logout)

	// Activity catalog endpoint
	mux.HandleFunc("GET /v1/activities", roomHandler.Activities)

	// Room endpoints
	mux.HandleFunc("GET /v1/rooms", roomHandler.List)
	mux.HandleFunc("POST /v1/rooms", roomHandler.Create)
	mux.HandleFunc("GET /v1/rooms/recommended", roomHandler.Recommended)
	mux.HandleFunc("POST /v1/rooms/{roomId}/join", roomHandler.Join)
	mux.HandleFunc("POST /v1/rooms/{roomId}/leave", roomHandler.Leave)
	mux.HandleFunc("DELETE /v1/rooms/{roomId}", roomHandler.Delete)
	mux.HandleFunc("GET /v1/rooms/{roomId}/balance", roomHandler.Balance)

	// Matching endpoints
	mux.HandleFunc("POST /v1/match/evaluate", roomHandler.Evaluate)
	mux.HandleFunc("POST /v1/match/batch-carry", roomHandler.BatchCarry)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recover,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// runBootstrap creates the shared room document when none exists yet. When
// GIST_ID is already set and reachable it reports that and leaves it alone.
func runBootstrap(cfg *config.Config) {
	store := document.NewGistStore(document.GistConfig{
		GistID:   cfg.Document.GistID,
		Token:    cfg.Document.Token,
		APIBase:  cfg.Document.APIBase,
		FileName: cfg.Document.FileName,
		Timeout:  cfg.Document.RequestTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Document.GistID != "" {
		ok, err := store.Exists(ctx)
		if err != nil {
			slog.Error("failed to check document", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if ok {
			slog.Info("document already exists",
				slog.String("gist_id", document.ExtractGistID(cfg.Document.GistID)))
			return
		}
	}

	id, err := store.Create(ctx, "teamup shared room document", config.Version)
	if err != nil {
		slog.Error("failed to create document", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("document created, set GIST_ID to use it", slog.String("gist_id", id))
}
