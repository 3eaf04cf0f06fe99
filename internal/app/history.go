package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/llm-news/internal/cli"
	"horse.fit/llm-news/internal/history"
)

// runHistory inspects the dedup history file, optionally rewriting it
// to enforce the retention caps.
func runHistory(args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	configPath := fs.String("config", "config.yaml", "Path to config.yaml")
	prune := fs.Bool("prune", false, "Rewrite the file, enforcing retention caps")

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

	store := history.NewStore(env.app.History.Path, env.logger)

	if *prune {
		hist := store.Load()
		if err := store.Save(hist); err != nil {
			env.logger.Error().Err(err).Msg("pruning history failed")
			return 1
		}
	}

	info, err := store.Inspect()
	if err != nil {
		env.logger.Error().Err(err).Msg("inspecting history failed")
		return 1
	}

	encoded, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		env.logger.Error().Err(err).Msg("encoding history info failed")
		return 1
	}
	fmt.Println(string(encoded))
	return 0
}
