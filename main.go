package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"email-agent/internal/ai"
	"email-agent/internal/config"
	"email-agent/internal/gmail"
	"email-agent/internal/handler"
	"email-agent/internal/importer"
	"email-agent/internal/logger"
	"email-agent/internal/repository"
	"email-agent/internal/repository/memory"
	"email-agent/internal/repository/rediscache"
	"email-agent/internal/repository/sqlstore"
	"email-agent/internal/router"
	"email-agent/internal/service"
	"email-agent/internal/sse"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type repositories struct {
	emails     repository.EmailRepository
	processing repository.ProcessingRepository
	prompts    repository.PromptRepository
	drafts     repository.DraftRepository
	db         *sqlx.DB
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatal("Config validation failed:", err)
	}

	// Initialize logger
	appLogger := logger.NewFromConfig(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	repos, err := openRepositories(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to open store:", err)
		os.Exit(1)
	}
	if repos.db != nil {
		defer repos.db.Close()
	}

	// Prompt lookups go through Redis when it is configured
	if cfg.RedisURL != "" {
		redisClient, err := rediscache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			appLogger.Warn("Redis unavailable, prompt cache disabled:", err)
		} else {
			defer redisClient.Close()
			repos.prompts = rediscache.NewPromptRepository(repos.prompts, redisClient, cfg.PromptCacheTTL, appLogger)
			appLogger.Info("Prompt cache enabled")
		}
	}

	// Initialize AI client
	provider, err := ai.NewProvider(ctx, cfg)
	if err != nil {
		appLogger.Error("Failed to create LLM provider, continuing without one:", err)
		provider = nil
	}
	aiClient := ai.NewClient(provider, ai.ClientOptions{
		Timeout:         cfg.AITimeout,
		RateLimitRPS:    cfg.AIRateLimitRPS,
		BreakerFailures: cfg.AIBreakerFailure,
		BreakerCooldown: 30 * time.Second,
	}, appLogger)
	appLogger.Info("LLM provider:", aiClient.ProviderName())

	// Initialize services
	promptService := service.NewPromptService(repos.prompts, appLogger)
	seedPrompts(ctx, cfg, promptService, appLogger)

	sseManager := sse.NewSSEManager(appLogger)
	defer sseManager.Close()

	llmService := service.NewLLMService(aiClient, repos.prompts, appLogger)
	ingestionService := service.NewIngestionService(repos.emails, repos.processing, llmService, sseManager, appLogger)
	inboxService := service.NewInboxService(repos.emails, repos.processing, appLogger)
	draftService := service.NewDraftService(repos.drafts, repos.emails, appLogger)
	agentService := service.NewAgentService(repos.emails, repos.processing, repos.drafts, promptService, llmService, appLogger)

	// Initialize handlers
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = handler.JSONSerializer{}

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := appLogger.Zerolog().Info()
			if v.Error != nil {
				event = appLogger.Zerolog().Error().Err(v.Error)
			}
			event.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
	}))

	router.SetupRoutes(e, router.Handlers{
		Inbox:  handler.NewInboxHandler(inboxService, ingestionService, importSources(ctx, cfg, appLogger), sseManager, e.Logger),
		Prompt: handler.NewPromptHandler(promptService, e.Logger),
		Agent:  handler.NewAgentHandler(agentService, e.Logger),
		Draft:  handler.NewDraftHandler(draftService, e.Logger),
		System: handler.NewSystemHandler(aiClient, cfg.Store),
		Events: handler.NewEventsHandler(sseManager, e.Logger),
	}, cfg.AdminToken)

	// Start server
	go func() {
		appLogger.Info("Starting server on port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server:", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed:", err)
	}
}

func openRepositories(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (*repositories, error) {
	switch cfg.Store {
	case config.StoreMemory:
		appLogger.Info("Using in-memory repositories")
		return &repositories{
			emails:     memory.NewInMemoryEmailRepository(),
			processing: memory.NewInMemoryProcessingRepository(),
			prompts:    memory.NewInMemoryPromptRepository(),
			drafts:     memory.NewInMemoryDraftRepository(),
		}, nil
	case config.StorePostgres:
		db, err := sqlstore.Open(ctx, sqlstore.DriverPostgres, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		appLogger.Info("Using PostgreSQL repositories")
		return sqlRepositories(db), nil
	default:
		db, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		appLogger.Info("Using SQLite repositories at", cfg.SQLitePath)
		return sqlRepositories(db), nil
	}
}

func sqlRepositories(db *sqlx.DB) *repositories {
	return &repositories{
		emails:     sqlstore.NewEmailRepository(db),
		processing: sqlstore.NewProcessingRepository(db),
		prompts:    sqlstore.NewPromptRepository(db),
		drafts:     sqlstore.NewDraftRepository(db),
		db:         db,
	}
}

// seedPrompts stores the PROMPTS_FILE prompts, then fills any missing key
// with the built-in one. Prompts edited through the API are never replaced.
func seedPrompts(ctx context.Context, cfg *config.Config, prompts service.PromptService, appLogger *logger.Logger) {
	if cfg.PromptsFile != "" {
		fromFile, err := service.LoadPromptsFile(cfg.PromptsFile)
		if err != nil {
			appLogger.Error("Failed to load prompts file:", err)
		} else if _, err := prompts.Seed(ctx, fromFile, false); err != nil {
			appLogger.Error("Failed to seed prompts from file:", err)
		}
	}
	if _, err := prompts.Seed(ctx, service.DefaultPrompts(), false); err != nil {
		appLogger.Error("Failed to seed default prompts:", err)
	}
}

func importSources(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) map[string]service.EmailSource {
	sources := map[string]service.EmailSource{}
	if cfg.SeedInboxFile != "" {
		sources["mock"] = importer.NewJSONSource(cfg.SeedInboxFile)
	}
	if cfg.EMLDir != "" {
		sources["eml"] = importer.NewEMLSource(cfg.EMLDir, appLogger)
	}
	if cfg.GmailToken != "" {
		gmailSource, err := gmail.NewSource(ctx, cfg.GmailToken, cfg.GmailMaxResults, appLogger)
		if err != nil {
			appLogger.Error("Gmail import disabled:", err)
		} else {
			sources["gmail"] = gmailSource
		}
	}
	return sources
}
