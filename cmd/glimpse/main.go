package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/drywaters/glimpse/internal/backend"
	"github.com/drywaters/glimpse/internal/config"
	"github.com/drywaters/glimpse/internal/enricher"
	"github.com/drywaters/glimpse/internal/events"
	"github.com/drywaters/glimpse/internal/history"
	"github.com/drywaters/glimpse/internal/localstore"
	"github.com/drywaters/glimpse/internal/logrelay"
	"github.com/drywaters/glimpse/internal/preferences"
	"github.com/drywaters/glimpse/internal/progress"
	"github.com/drywaters/glimpse/internal/repository"
	"github.com/drywaters/glimpse/internal/result"
	"github.com/drywaters/glimpse/internal/server"
	"github.com/drywaters/glimpse/internal/session"
	"github.com/drywaters/glimpse/internal/submit"
	"github.com/drywaters/glimpse/internal/summarizer"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set up logging
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("starting glimpse", "port", cfg.Port, "backend", cfg.BackendURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Per-device store
	local, err := localstore.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer local.Close()

	bus := events.NewBus()
	relay := logrelay.New(logrelay.DefaultWindow, bus)
	client := backend.NewClient(cfg.BackendURL, backend.WithLogStreamURL(cfg.BackendWSURL))

	deps := server.Deps{
		Prober: client,
		Relay:  relay,
		Bus:    bus,
	}

	// Hosted database. Interfaces stay nil without it so the stores fall
	// back to the device store.
	var (
		videos    history.VideoStore
		userPrefs preferences.UserStore
		summaries submit.SummaryArchive
		procLogs  submit.LogArchive
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		// Verify database connection
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		slog.Info("connected to database")

		logRepo := repository.NewProcessingLogRepository(pool)
		videos = repository.NewVideoRepository(pool)
		userPrefs = repository.NewPreferenceRepository(pool)
		summaries = repository.NewSummaryRepository(pool)
		procLogs = logRepo

		// Initialize session store
		sessions := session.NewStore(session.DefaultTTL)
		defer sessions.Close()

		deps.Users = repository.NewUserRepository(pool)
		deps.Logs = logRepo
		deps.Sessions = sessions
	} else {
		slog.Warn("DATABASE_URL not configured, accounts disabled")
	}

	// Progress stages
	stages := progress.DefaultStages
	if cfg.ProgressStagesFile != "" {
		stages, err = progress.LoadStages(cfg.ProgressStagesFile)
		if err != nil {
			return fmt.Errorf("failed to load progress stages: %w", err)
		}
		slog.Info("loaded progress stages", "file", cfg.ProgressStagesFile, "stages", len(stages))
	}

	// Initialize fallback summarizers
	var fallbacks []summarizer.Summarizer
	if cfg.GeminiAPIKey != "" {
		gemini, err := summarizer.NewGeminiSummarizer(ctx, cfg.GeminiAPIKey)
		if err != nil {
			slog.Warn("failed to initialize Gemini summarizer", "error", err)
		} else {
			defer gemini.Close()
			fallbacks = append(fallbacks, gemini)
			slog.Info("Gemini summarizer enabled", "model", gemini.Model())
		}
	}
	if cfg.OpenAIAPIKey != "" {
		openai := summarizer.NewOpenAISummarizer(cfg.OpenAIAPIKey, "")
		fallbacks = append(fallbacks, openai)
		slog.Info("OpenAI summarizer enabled", "model", openai.Model())
	}
	if len(fallbacks) == 0 {
		slog.Info("no LLM key configured, fallback summaries are extractive")
	}

	// Initialize enrichers
	enrichRegistry := enricher.NewRegistry(enricher.NewWebEnricher())
	enrichRegistry.Register(enricher.NewYouTubeEnricher(cfg.YouTubeAPIKey))
	if cfg.YouTubeAPIKey == "" {
		slog.Info("YouTube API key not configured, using oEmbed for video metadata")
	}

	deps.History = history.NewStore(videos, local, bus)
	deps.Results = result.NewStore(local, bus)
	deps.Prefs = preferences.NewService(userPrefs, local)
	deps.Submitter = submit.New(submit.Deps{
		Backend:   client,
		History:   deps.History,
		Results:   deps.Results,
		Relay:     relay,
		Estimator: progress.NewEstimator(stages),
		Fallback:  summarizer.NewChain(fallbacks...),
		Metadata:  enrichRegistry,
		Languages: deps.Prefs,
		Summaries: summaries,
		Logs:      procLogs,
		Bus:       bus,
	})

	// Background log source
	var wg sync.WaitGroup
	switch cfg.LogSource {
	case config.LogSourcePoll:
		poller := logrelay.NewPoller(client, relay, cfg.LogPollInterval)
		wg.Add(1)
		go func() {
			defer wg.Done()
			poller.Run(ctx)
		}()
	case config.LogSourceWS:
		stream := logrelay.NewStream(client.LogStreamURL(), relay)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := stream.Run(ctx); err != nil {
				slog.Warn("log stream stopped", "error", err)
			}
		}()
	}

	// Create server
	srv := server.New(cfg, deps)

	// Start HTTP server. Submissions wait on the backend for as long as
	// transcription takes, so writes get a generous timeout.
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		stop()
		wg.Wait()
		return fmt.Errorf("server error: %w", err)
	}
	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	wg.Wait()

	slog.Info("server stopped")
	return nil
}
