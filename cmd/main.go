package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertmoss/mrx/internal/repositories"
	"github.com/desertmoss/mrx/internal/session"
	"github.com/desertmoss/mrx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("MRX_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "err", err)
		}
	}
	shared.ApplyEnvOverrides(config)

	httpClient := http.DefaultClient
	if config.API.TimeoutSeconds > 0 {
		httpClient = &http.Client{Timeout: time.Duration(config.API.TimeoutSeconds) * time.Second}
	}

	opts := RunnerOpts{
		Config:     config,
		ConfigPath: "config.toml",
		HTTPClient: httpClient,
		Logger:     logger,
	}

	// The database backs the durable token slot and the track cache. Opening it
	// can fail before `mrx setup` has run; everything then degrades to an
	// in-memory session.
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		opts.DB = db
		opts.Session = session.Restore(repositories.NewTokenRepository(db).ForName(session.SlotName), logger)
		opts.Tracks = repositories.NewTrackRepository(db)
		defer db.Close()
	} else {
		logger.Warn("failed to open local database, running without persistence", "err", err)
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "mrx",
		Usage:    "Browse and sync music recommendations from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
