// Package app wires configuration, storage, clients, and services into
// a runnable tickerd instance.
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/ryanchou-dev/tickerd/internal/clients/mops"
	"github.com/ryanchou-dev/tickerd/internal/clients/taifex"
	"github.com/ryanchou-dev/tickerd/internal/clients/tpex"
	"github.com/ryanchou-dev/tickerd/internal/clients/twse"
	"github.com/ryanchou-dev/tickerd/internal/common"
	"github.com/ryanchou-dev/tickerd/internal/interfaces"
	"github.com/ryanchou-dev/tickerd/internal/services/ticker"
	"github.com/ryanchou-dev/tickerd/internal/storage/surrealdb"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Storage       interfaces.StorageManager
	TickerService interfaces.TickerService
	StartupTime   time.Time

	scheduler *scheduler
}

// NewApp initializes storage, clients, and services from configuration.
// configPath may be empty, in which case TICKERD_CONFIG and the default
// path are tried in order.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	if configPath == "" {
		configPath = os.Getenv("TICKERD_CONFIG")
	}
	if configPath == "" {
		configPath = "config/tickerd.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	twseClient := twse.NewClient(
		twse.WithBaseURL(config.Clients.TWSE.BaseURL),
		twse.WithLogger(logger),
		twse.WithRateLimit(config.Clients.TWSE.RateLimit),
		twse.WithTimeout(config.Clients.TWSE.GetTimeout()),
	)
	tpexClient := tpex.NewClient(
		tpex.WithBaseURL(config.Clients.TPEx.BaseURL),
		tpex.WithLogger(logger),
		tpex.WithRateLimit(config.Clients.TPEx.RateLimit),
		tpex.WithTimeout(config.Clients.TPEx.GetTimeout()),
	)
	taifexClient := taifex.NewClient(
		taifex.WithBaseURL(config.Clients.TAIFEX.BaseURL),
		taifex.WithLogger(logger),
		taifex.WithRateLimit(config.Clients.TAIFEX.RateLimit),
		taifex.WithTimeout(config.Clients.TAIFEX.GetTimeout()),
	)
	mopsClient := mops.NewClient(
		mops.WithBaseURL(config.Clients.MOPS.BaseURL),
		mops.WithLogger(logger),
		mops.WithRateLimit(config.Clients.MOPS.RateLimit),
		mops.WithTimeout(config.Clients.MOPS.GetTimeout()),
	)

	tickerService := ticker.NewService(storageManager, twseClient, tpexClient, taifexClient, mopsClient, logger, config)

	a := &App{
		Config:        config,
		Logger:        logger,
		Storage:       storageManager,
		TickerService: tickerService,
		StartupTime:   startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// StartScheduler launches the daily refresh jobs. No-op when the
// scheduler is disabled in configuration.
func (a *App) StartScheduler() error {
	if !a.Config.Scheduler.Enabled {
		a.Logger.Info().Msg("Scheduler disabled")
		return nil
	}

	sched, err := newScheduler(a.Config.Scheduler, a.TickerService, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	sched.start()
	a.scheduler = sched
	return nil
}

// Close releases all resources held by the App.
// Shutdown order: stop scheduler, close storage.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.stop()
		a.scheduler = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
