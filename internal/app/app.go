// Package app wires FinSight's configuration, storage, clients, and
// services into a single application container.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/finsight-app/finsight/internal/clients/finnhub"
	"github.com/finsight-app/finsight/internal/clients/gemini"
	"github.com/finsight-app/finsight/internal/clients/mail"
	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/engine"
	"github.com/finsight-app/finsight/internal/interfaces"
	"github.com/finsight-app/finsight/internal/notify"
	"github.com/finsight-app/finsight/internal/services/digest"
	"github.com/finsight-app/finsight/internal/services/welcome"
	surrealstorage "github.com/finsight-app/finsight/internal/storage/surrealdb"
)

// App holds all application dependencies.
type App struct {
	Config *common.Config
	Logger *common.Logger

	Storage interfaces.StorageManager

	NewsClient   interfaces.NewsClient
	GeminiClient interfaces.GeminiClient
	MailClient   interfaces.MailClient

	Engine  *engine.Engine
	Digest  interfaces.DigestService
	Welcome interfaces.WelcomeService
	Router  interfaces.TriggerRouter

	StartupTime time.Time

	schedulerCancel context.CancelFunc
}

// NewApp creates and initializes the application with all dependencies.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(configPath, "finsight.local.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	logger.Info().
		Str("environment", config.Environment).
		Str("version", common.GetVersion()).
		Msg("Initializing FinSight server")

	storage, err := surrealstorage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	finnhubKey, err := common.ResolveAPIKey("finnhub_api_key", config.Clients.Finnhub.APIKey)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("finnhub API key: %w", err)
	}
	newsClient := finnhub.NewClient(finnhubKey,
		finnhub.WithLogger(logger),
		finnhub.WithRateLimit(config.Clients.Finnhub.RateLimit),
		finnhub.WithLookbackDays(config.Digest.NewsLookback),
	)

	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("gemini API key: %w", err)
	}
	geminiClient, err := gemini.NewClient(context.Background(), geminiKey,
		gemini.WithModel(config.Clients.Gemini.Model),
		gemini.WithLogger(logger),
	)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	mailClient, err := mail.NewClient(config.Clients.SMTP, mail.WithLogger(logger))
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	stepEngine := engine.New(storage.StepStore(), engine.WithLogger(logger))

	digestService := digest.NewService(storage, newsClient, geminiClient, mailClient, stepEngine, logger,
		digest.WithMaxArticles(config.Digest.MaxArticles),
		digest.WithSendConcurrency(config.Digest.SendConcurrency),
		digest.WithSendTimeout(config.Digest.GetSendTimeout()),
	)
	welcomeService := welcome.NewService(geminiClient, mailClient, stepEngine, logger)

	router := notify.NewRouter(digestService, welcomeService, logger)

	app := &App{
		Config:       config,
		Logger:       logger,
		Storage:      storage,
		NewsClient:   newsClient,
		GeminiClient: geminiClient,
		MailClient:   mailClient,
		Engine:       stepEngine,
		Digest:       digestService,
		Welcome:      welcomeService,
		Router:       router,
		StartupTime:  time.Now(),
	}

	logger.Info().Msg("Application initialized successfully")

	return app, nil
}

// Close gracefully shuts down the application.
func (a *App) Close() error {
	a.Logger.Info().Msg("Shutting down application")

	a.StopScheduler()

	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close storage")
			return err
		}
	}

	return nil
}
