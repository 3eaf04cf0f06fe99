package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"horse.fit/llm-news/internal/archive"
	"horse.fit/llm-news/internal/cli"
	"horse.fit/llm-news/internal/httpapi"
)

// runServe starts the web server over the generated pages and the
// report API.
func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	configPath := fs.String("config", "config.yaml", "Path to config.yaml")
	host := fs.String("host", "0.0.0.0", "Listen host")
	port := fs.Int("port", 8090, "Listen port")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	env, err := bootstrap(envLoader, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		return 1
	}
	logger := env.logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *archive.Store
	if env.secrets.DatabaseURL != "" {
		store, err = archive.Open(ctx, env.secrets.DatabaseURL, logger)
		if err != nil {
			logger.Error().Err(err).Msg("archive unavailable, serving from disk only")
			store = nil
		} else {
			defer store.Close()
		}
	}

	server := httpapi.NewServer(store, env.app.Output.Dir, env.app.Output.PagesDir,
		logger, httpapi.Options{Host: *host, Port: *port})
	if err := server.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("server failed")
		return 1
	}
	return 0
}
