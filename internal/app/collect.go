package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"horse.fit/llm-news/internal/cli"
	"horse.fit/llm-news/internal/collector"
)

// runCollect gathers items from every configured source and writes
// them as a JSON array, for inspection or for feeding into dedup.
func runCollect(args []string) int {
	fs := flag.NewFlagSet("collect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	configPath := fs.String("config", "config.yaml", "Path to config.yaml")
	outPath := fs.String("out", "", "Write items to this file instead of stdout")

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items := collector.CollectAll(ctx, env.logger,
		collector.BuildRegistry(env.app, env.secrets))
	env.logger.Info().Int("total", len(items)).Msg("collection finished")

	encoded, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		env.logger.Error().Err(err).Msg("encoding items failed")
		return 1
	}

	if *outPath == "" {
		fmt.Println(string(encoded))
		return 0
	}
	if err := os.WriteFile(*outPath, encoded, 0o644); err != nil {
		env.logger.Error().Err(err).Str("path", *outPath).Msg("writing items failed")
		return 1
	}
	env.logger.Info().Str("path", *outPath).Msg("items written")
	return 0
}
