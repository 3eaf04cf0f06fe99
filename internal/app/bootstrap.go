package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"horse.fit/llm-news/internal/cli"
	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/logging"
)

type runtimeEnv struct {
	secrets *config.Secrets
	app     *config.App
	logger  zerolog.Logger
}

// bootstrap loads the .env file, both config layers, and the logger.
// A missing .env file only warns; secrets may come from the real
// environment.
func bootstrap(envLoader *cli.EnvLoader, configPath string) (*runtimeEnv, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}

	appCfg, err := config.LoadApp(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(secrets.Environment, secrets.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	return &runtimeEnv{secrets: secrets, app: appCfg, logger: logger}, nil
}
