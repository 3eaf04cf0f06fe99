package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/llm-news/internal/cli"
	"horse.fit/llm-news/internal/dedup"
	"horse.fit/llm-news/internal/history"
	"horse.fit/llm-news/internal/news"
)

// runDedup deduplicates a JSON item file (as written by collect)
// against the history file and prints the surviving items.
func runDedup(args []string) int {
	fs := flag.NewFlagSet("dedup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	configPath := fs.String("config", "config.yaml", "Path to config.yaml")
	inPath := fs.String("in", "", "JSON file of collected items (required)")
	updateHistory := fs.Bool("update-history", false, "Record the surviving items in the history file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "dedup: -in is required")
		return 2
	}

	env, err := bootstrap(envLoader, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Startup failed: %v\n", err)
		return 1
	}

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		env.logger.Error().Err(err).Str("path", *inPath).Msg("reading items failed")
		return 1
	}
	var items []news.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		env.logger.Error().Err(err).Str("path", *inPath).Msg("decoding items failed")
		return 1
	}

	store := history.NewStore(env.app.History.Path, env.logger)
	hist := store.Load()

	engine := dedup.NewEngine(env.logger)
	kept := engine.Deduplicate(items, hist)

	if *updateHistory {
		for _, item := range kept {
			hist.Add(item)
		}
		if err := store.Save(hist); err != nil {
			env.logger.Error().Err(err).Msg("saving history failed")
			return 1
		}
	}

	encoded, err := json.MarshalIndent(kept, "", "  ")
	if err != nil {
		env.logger.Error().Err(err).Msg("encoding items failed")
		return 1
	}
	fmt.Println(string(encoded))
	return 0
}
