package main

import (
	"context"
	"errors"
	"os"

	"github.com/quillhq/inkwell/internal/services"
	"github.com/quillhq/inkwell/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	var platformService services.Service
	if svc, err := services.NewPlatformService(config.Credentials.Platform, logger); err == nil {
		if config.Credentials.Platform.AccessToken != "" {
			if err := svc.Authenticate(context.Background(), map[string]string{
				"access_token": config.Credentials.Platform.AccessToken,
			}); err != nil {
				logger.Warn("stored token rejected", "error", err)
			}
		} else if config.Credentials.Platform.HeadersPath != "" {
			if err := svc.Authenticate(context.Background(), map[string]string{
				"headers_path": config.Credentials.Platform.HeadersPath,
			}); err != nil {
				logger.Warn("stored session rejected", "error", err)
			}
		}
		platformService = svc
	}

	apiService := services.NewAPIService(config.Credentials.Platform.BaseURL, nil)

	opts := RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Platform:   platformService,
		API:        apiService,
		Logger:     logger,
	}

	// Attach the local cache when the database file already exists; setup creates it.
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			opts.DB = db
			defer db.Close()
		} else {
			logger.Warn("failed to open local cache", "error", err)
		}
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "inkwell",
		Usage:    "Generate novel outlines & chapters with the Inkwell platform",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
