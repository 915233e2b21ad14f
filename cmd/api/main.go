package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"deckgen/internal/adapter/repo"
	"deckgen/internal/deck"
	"deckgen/internal/domain"
	"deckgen/internal/export"
	"deckgen/internal/generate"
	"deckgen/internal/http/handlers"
	"deckgen/internal/http/httpapi"
	"deckgen/internal/infra"
	"deckgen/internal/jobs"
	"deckgen/internal/providers/llm"
	"deckgen/internal/quota"
	"deckgen/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories: Postgres when DATABASE_URL is set, in-memory otherwise.
	var (
		sessions domain.SessionRepository
		usage    domain.UsageRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare schema")
		}
		sessions = repo.NewSessionRepository(pool)
		usage = repo.NewUsageRepository(pool)
		logger.Info().Msg("using postgres repositories")
	} else {
		sessions = repo.NewMemorySessionRepository()
		usage = repo.NewMemoryUsageRepository()
		logger.Warn().Msg("DATABASE_URL not set, using in-memory repositories")
	}

	// Providers in failover rank order: Groq first, Gemini second.
	var providers []llm.Provider
	if cfg.GroqAPIKey != "" {
		groq, err := llm.NewGroqClient(llm.GroqOptions{
			APIKey:  cfg.GroqAPIKey,
			Model:   cfg.GroqModel,
			BaseURL: cfg.GroqBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure groq")
		}
		providers = append(providers, groq)
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(llm.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure gemini")
		}
		providers = append(providers, gemini)
	}
	router := llm.NewRouter(providers, llm.RouterOptions{
		Cooldown:       cfg.ProviderCooldown,
		AttemptTimeout: cfg.ProviderTimeout,
		Logger:         logger,
	})

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare storage")
	}

	decks := deck.NewManager(sessions, deck.ManagerOptions{Logger: logger})
	jobManager := jobs.NewManager(jobs.ManagerOptions{
		BaseContext: ctx,
		Retention:   cfg.JobRetention,
		Logger:      logger,
	})
	jobManager.StartSweeper(ctx, time.Hour)
	enforcer := quota.NewEnforcer(usage, cfg.SlideQuota, logger)
	generator := generate.NewService(router, decks, jobManager, enforcer, generate.ServiceOptions{
		EditConsumesQuota: cfg.EditConsumesQuota,
		Logger:            logger,
	})

	app := &handlers.App{
		Decks:     decks,
		Jobs:      jobManager,
		Quota:     enforcer,
		Generator: generator,
		Providers: router,
		Exporter:  export.NewExporter(store, nil),
		Logger:    logger,
	}

	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:     cfg.JWTSecret,
		DefaultLocale: cfg.DefaultLocale,
		RateLimit:     cfg.RateLimitPerMin,
		RatePeriod:    time.Minute,
	}))

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	cancel()
	jobManager.Wait()
	logger.Info().Msg("server stopped")
}
