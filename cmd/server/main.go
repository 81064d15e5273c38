// Questboard API server.
//
// Backend for a tabletop-RPG Discord community: members, player
// characters, hosted quests with signups and rosters, and post-quest
// summaries. The Discord bot is the primary client.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearthfire/questboard/internal/config"
	"github.com/hearthfire/questboard/internal/database"
	"github.com/hearthfire/questboard/internal/handler"
	"github.com/hearthfire/questboard/internal/jobs"
	"github.com/hearthfire/questboard/internal/middleware"
	"github.com/hearthfire/questboard/internal/repository"
	"github.com/hearthfire/questboard/internal/service"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect to SurrealDB
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.Connect(ctx); err != nil {
		cancel()
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cancel()
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("namespace", cfg.Database.Namespace),
		slog.String("database", cfg.Database.Database),
	)

	// Repositories
	allocator := repository.NewIDAllocator(db)
	userRepo := repository.NewUserRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	questRepo := repository.NewQuestRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	batchWriter := repository.NewBatchWriter(db)

	// Services
	userService := service.NewUserService(userRepo, allocator)
	characterService := service.NewCharacterService(characterRepo, userRepo, allocator)
	questService := service.NewQuestService(questRepo, userRepo, characterRepo, allocator, batchWriter)
	summaryService := service.NewSummaryService(summaryRepo, questRepo, userRepo, characterRepo, allocator, batchWriter)

	// Handlers
	userHandler := handler.NewUserHandler(userService)
	characterHandler := handler.NewCharacterHandler(characterService)
	questHandler := handler.NewQuestHandler(questService)
	summaryHandler := handler.NewSummaryHandler(summaryService)

	// Rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   300,
		Window: time.Minute,
	})
	defer rateLimiter.Stop()

	// Background jobs
	summaryReminder := jobs.NewSummaryReminder(
		questRepo,
		userRepo,
		cfg.Jobs.SummaryReminderInterval,
		cfg.Jobs.SummaryGracePeriod,
	)
	summaryReminder.Start()
	defer summaryReminder.Stop()

	// Service token auth for mutating endpoints; reads stay open. An
	// empty hash (development only) leaves the API open.
	authMiddleware := func(next http.Handler) http.Handler { return next }
	if cfg.Auth.TokenHash != "" {
		authMiddleware = middleware.ServiceAuth(cfg.Auth.TokenHash)
	} else {
		slog.Warn("service token auth disabled, set QUESTBOARD_TOKEN_HASH to enable")
	}

	// Routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// User endpoints
	mux.Handle("POST /v1/users", authMiddleware(http.HandlerFunc(userHandler.Register)))
	mux.HandleFunc("GET /v1/users", userHandler.List)
	mux.HandleFunc("GET /v1/users/{userId}", userHandler.Get)
	mux.Handle("DELETE /v1/users/{userId}", authMiddleware(http.HandlerFunc(userHandler.Delete)))
	mux.Handle("POST /v1/users/{userId}/roles/player", authMiddleware(http.HandlerFunc(userHandler.PromotePlayer)))
	mux.Handle("DELETE /v1/users/{userId}/roles/player", authMiddleware(http.HandlerFunc(userHandler.DemotePlayer)))
	mux.Handle("POST /v1/users/{userId}/roles/referee", authMiddleware(http.HandlerFunc(userHandler.PromoteReferee)))
	mux.Handle("DELETE /v1/users/{userId}/roles/referee", authMiddleware(http.HandlerFunc(userHandler.DemoteReferee)))
	mux.Handle("PUT /v1/users/{userId}/dm-opt-in", authMiddleware(http.HandlerFunc(userHandler.SetDMOptIn)))
	mux.Handle("POST /v1/users/{userId}/activity", authMiddleware(http.HandlerFunc(userHandler.RecordActivity)))

	// Character endpoints
	mux.Handle("POST /v1/users/{userId}/characters", authMiddleware(http.HandlerFunc(characterHandler.Create)))
	mux.HandleFunc("GET /v1/users/{userId}/characters", characterHandler.ListByOwner)
	mux.HandleFunc("GET /v1/characters/{characterId}", characterHandler.Get)
	mux.Handle("PATCH /v1/characters/{characterId}", authMiddleware(http.HandlerFunc(characterHandler.Update)))
	mux.Handle("POST /v1/characters/{characterId}/retire", authMiddleware(http.HandlerFunc(characterHandler.Retire)))
	mux.Handle("DELETE /v1/characters/{characterId}", authMiddleware(http.HandlerFunc(characterHandler.Delete)))

	// Quest endpoints
	mux.Handle("POST /v1/quests", authMiddleware(http.HandlerFunc(questHandler.Create)))
	mux.HandleFunc("GET /v1/quests", questHandler.List)
	mux.HandleFunc("GET /v1/quests/{questId}", questHandler.Get)
	mux.Handle("PATCH /v1/quests/{questId}", authMiddleware(http.HandlerFunc(questHandler.Update)))
	mux.Handle("DELETE /v1/quests/{questId}", authMiddleware(http.HandlerFunc(questHandler.Delete)))
	mux.Handle("POST /v1/quests/{questId}/announce", authMiddleware(http.HandlerFunc(questHandler.Announce)))
	mux.Handle("POST /v1/quests/{questId}/signups", authMiddleware(http.HandlerFunc(questHandler.AddSignup)))
	mux.Handle("DELETE /v1/quests/{questId}/signups/{userId}", authMiddleware(http.HandlerFunc(questHandler.RemoveSignup)))
	mux.Handle("POST /v1/quests/{questId}/roster", authMiddleware(http.HandlerFunc(questHandler.SelectRoster)))
	mux.Handle("POST /v1/quests/{questId}/start", authMiddleware(http.HandlerFunc(questHandler.Start)))
	mux.Handle("POST /v1/quests/{questId}/complete", authMiddleware(http.HandlerFunc(questHandler.Complete)))
	mux.Handle("POST /v1/quests/{questId}/cancel", authMiddleware(http.HandlerFunc(questHandler.Cancel)))

	// Summary endpoints
	mux.Handle("POST /v1/summaries", authMiddleware(http.HandlerFunc(summaryHandler.Create)))
	mux.HandleFunc("GET /v1/summaries/{summaryId}", summaryHandler.Get)
	mux.Handle("PATCH /v1/summaries/{summaryId}", authMiddleware(http.HandlerFunc(summaryHandler.Update)))
	mux.Handle("DELETE /v1/summaries/{summaryId}", authMiddleware(http.HandlerFunc(summaryHandler.Delete)))
	mux.Handle("POST /v1/summaries/{summaryId}/link/quest", authMiddleware(http.HandlerFunc(summaryHandler.LinkQuest)))
	mux.Handle("POST /v1/summaries/{summaryId}/link/summary", authMiddleware(http.HandlerFunc(summaryHandler.LinkSummary)))
	mux.HandleFunc("GET /v1/quests/{questId}/summaries", summaryHandler.ListByQuest)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
