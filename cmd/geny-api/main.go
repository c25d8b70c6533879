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

	"github.com/joho/godotenv"

	"github.com/genycrm/genycrm/internal/api"
	"github.com/genycrm/genycrm/internal/assistant"
	"github.com/genycrm/genycrm/internal/auth"
	"github.com/genycrm/genycrm/internal/config"
	"github.com/genycrm/genycrm/internal/observability"
	querypostgres "github.com/genycrm/genycrm/internal/query/postgres"
	settingspostgres "github.com/genycrm/genycrm/internal/settings/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("geny-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)
	db, err := settingspostgres.Open(context.Background(), settingspostgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	settingsRepo := settingspostgres.NewRepository(db)
	executor := querypostgres.NewExecutor(db)

	var pipeline *assistant.Pipeline
	if cfg.AI.APIKey != "" {
		generator, err := buildGenerator(cfg)
		if err != nil {
			logger.Error("failed to initialize model generator", slog.Any("error", err))
			os.Exit(1)
		}
		pipeline = &assistant.Pipeline{
			Prompts:      assistant.NewPromptLoader(settingsRepo, cfg.Chat.PromptKey, logger),
			Generator:    generator,
			Executor:     executor,
			Logger:       logger,
			QueryTimeout: cfg.Chat.QueryTimeout,
		}
	} else {
		logger.Warn("model api key not configured, chat endpoint will answer 503")
	}

	deps := api.Dependencies{
		Logger:     logger,
		Pipeline:   pipeline,
		Settings:   settingsRepo,
		PromptKey:  cfg.Chat.PromptKey,
		TurnBudget: cfg.Chat.TurnBudget,
		Readiness: api.CombineReadinessChecks(
			api.CheckDatabase(settingsRepo),
			api.CheckAIConfig(cfg),
		),
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("ai_provider", string(cfg.AI.Provider)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}

func buildGenerator(cfg config.Config) (assistant.Generator, error) {
	switch cfg.AI.Provider {
	case config.ProviderAssistant:
		return assistant.NewAssistantGenerator(assistant.AssistantConfig{
			BaseURL:      cfg.AI.BaseURL,
			APIKey:       cfg.AI.APIKey,
			AssistantID:  cfg.AI.AssistantID,
			Timeout:      cfg.AI.Timeout,
			PollInterval: cfg.AI.PollInterval,
			PollAttempts: cfg.AI.PollAttempts,
		})
	default:
		return assistant.NewChatGenerator(assistant.ChatConfig{
			BaseURL:     cfg.AI.BaseURL,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		})
	}
}
