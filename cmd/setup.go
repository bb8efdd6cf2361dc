package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertmoss/mrx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the default config file if missing, creates the local
// database, and applies pending migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlainln("✓ Created %s", configPath)
	} else {
		r.writePlainln("Config file %s already exists", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	shared.ApplyEnvOverrides(config)
	r.config = config

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.writePlainln("✓ Database ready at %s", config.Database.Path)
	return nil
}
