// Package app wires configuration, storage, clients, and services into a
// single runnable core shared by the folio CLI commands.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/edforrester/folio/internal/clients/rebalance"
	"github.com/edforrester/folio/internal/common"
	"github.com/edforrester/folio/internal/interfaces"
	"github.com/edforrester/folio/internal/services/dashboard"
	"github.com/edforrester/folio/internal/storage/depositdb"
)

// App holds all initialized services and clients.
type App struct {
	Config    *common.Config
	Logger    *common.Logger
	Deposits  interfaces.DepositStore
	Client    interfaces.RebalanceClient
	Dashboard *dashboard.Service
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes the app. configPath may be empty, in which case the
// FOLIO_CONFIG env var and then the binary directory are checked.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	common.ResolveStoragePath(config, binDir)

	logger := common.NewLoggerFromConfig(config.Logging)

	deposits, err := depositdb.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize deposit store: %w", err)
	}

	client := rebalance.NewClient(
		rebalance.WithBaseURL(config.Server.BaseURL),
		rebalance.WithTimeout(config.Server.GetTimeout()),
		rebalance.WithRateLimit(config.Server.RateLimit),
		rebalance.WithLogger(logger),
	)

	notify := func(n dashboard.Notice) {
		switch n.Kind {
		case dashboard.NoticeValidation:
			fmt.Fprintf(os.Stderr, "Invalid input: %s\n", n.Message)
		default:
			fmt.Fprintf(os.Stderr, "Error: %s\n", n.Message)
		}
	}

	svc := dashboard.NewService(client, deposits, logger, notify)

	logger.Debug().
		Str("server", config.Server.BaseURL).
		Str("storage", config.Storage.Path).
		Msg("App initialized")

	return &App{
		Config:    config,
		Logger:    logger,
		Deposits:  deposits,
		Client:    client,
		Dashboard: svc,
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	return a.Deposits.Close()
}
