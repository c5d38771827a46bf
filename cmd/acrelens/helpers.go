package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/acrelens/acrelens/internal/api"
	"github.com/acrelens/acrelens/internal/config"
	"github.com/acrelens/acrelens/internal/service"
	"github.com/acrelens/acrelens/internal/storage"
)

// newAPIClient builds the valuation API client from configuration.
func newAPIClient() (*api.Client, error) {
	cfg := api.Config{
		BaseURL: viper.GetString("api.base_url"),
		APIKey:  viper.GetString("api.key"),
		Timeout: viper.GetDuration("api.timeout"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.acrelens.com"
	}
	return api.NewClient(cfg)
}

// openStorage opens the local valuation history database.
func openStorage() (service.Storage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	if dbPath == "" {
		var err error
		dbPath, err = config.DefaultDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}
	return storage.NewSQLiteStorage(dbPath)
}

// pollInterval returns the configured backend poll cadence.
func pollInterval() time.Duration {
	if d := viper.GetDuration("pipeline.poll_interval"); d > 0 {
		return d
	}
	return 2 * time.Second
}

// pipelineEstimate returns the nominal total pipeline duration used to
// scale the progress bar.
func pipelineEstimate() time.Duration {
	if d := viper.GetDuration("pipeline.estimate"); d > 0 {
		return d
	}
	return 45 * time.Second
}
