package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"horse.fit/llm-news/internal/archive"
	"horse.fit/llm-news/internal/cli"
	"horse.fit/llm-news/internal/collector"
	"horse.fit/llm-news/internal/dedup"
	"horse.fit/llm-news/internal/history"
	"horse.fit/llm-news/internal/httpclient"
	"horse.fit/llm-news/internal/langdetect"
	"horse.fit/llm-news/internal/pages"
	"horse.fit/llm-news/internal/processor"
	"horse.fit/llm-news/internal/push"
	"horse.fit/llm-news/internal/reader"
	"horse.fit/llm-news/internal/report"
	"horse.fit/llm-news/internal/tts"
)

func runPipeline(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	configPath := fs.String("config", "config.yaml", "Path to config.yaml")
	skipEnrich := fs.Bool("skip-enrich", false, "Skip fetching article text for items without content")

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

	logger.Info().
		Str("model", env.app.LLM.Model).
		Int("top_n", env.app.LLM.TopN).
		Msg("starting daily pipeline")

	// Phase 1: collect.
	collected := collector.CollectAll(ctx, logger,
		collector.BuildRegistry(env.app, env.secrets))
	logger.Info().Int("total", len(collected)).Msg("collection finished")
	if len(collected) == 0 {
		logger.Warn().Msg("no items collected from any source")
		return 0
	}

	// Phase 2: dedup against history.
	store := history.NewStore(env.app.History.Path, logger)
	hist := store.Load()
	engine := dedup.NewEngine(logger)
	items := engine.Deduplicate(collected, hist)
	if len(items) == 0 {
		logger.Warn().Msg("all items are duplicates, nothing new today")
		return 0
	}

	if !*skipEnrich {
		enricher := reader.NewEnricher(httpclient.Default(), logger)
		enricher.Enrich(ctx, items)
	}
	langdetect.Annotate(items)

	// Phase 3: LLM summarize, rank, script.
	chat := processor.NewOpenRouter(httpclient.LongTimeout(), logger,
		env.app.LLM.BaseURL, env.app.LLM.Model, env.secrets.OpenRouterAPIKey,
		env.app.LLM.MaxRetries)
	proc := processor.New(chat, logger, env.app.LLM.TopN)
	result := proc.Process(ctx, items)
	result.TotalCollected = len(collected)
	result.TotalAfterDedup = len(items)

	// A failed LLM run produces no report; the same items are retried
	// next run because the history stays untouched.
	if !result.LLMOK {
		logger.Error().Msg("pipeline aborted: LLM processing failed, items will be retried next run")
		return 1
	}

	// Phase 4: artifacts and audio.
	writer := report.NewWriter(env.app.Output.Dir, logger)
	dayDir, err := writer.Save(result)
	if err != nil {
		logger.Error().Err(err).Msg("saving report failed")
		return 1
	}

	synth := tts.NewSynthesizer(logger, env.app.TTS.Voice, env.app.TTS.Rate)
	if !synth.Available() {
		logger.Warn().Msg("edge-tts not found on PATH, skipping audio")
	} else if err := synth.Generate(ctx, result.Script, filepath.Join(dayDir, "daily_report.mp3")); err != nil {
		logger.Error().Err(err).Msg("audio generation failed")
	}

	// Phase 5: static site and push.
	if env.app.Push.Enabled && env.app.Push.SiteURL != "" {
		builder := pages.NewBuilder(env.app.Output.PagesDir, env.app.Output.Dir,
			env.app.Push.SiteURL, logger)
		if err := builder.Build(result); err != nil {
			logger.Error().Err(err).Msg("pages build failed")
		}

		if env.app.Push.BarkEnabled {
			bark := push.NewBark(httpclient.Default(), logger, env.secrets.BarkDeviceKey)
			if err := bark.NotifyReport(ctx, result.Date, len(result.TopItems),
				result.TotalCollected, env.app.Push.SiteURL); err != nil {
				logger.Error().Err(err).Msg("push failed")
			}
		}
	}

	// Phase 6: archive when a database is configured.
	if env.secrets.DatabaseURL != "" {
		if archiveStore, err := archive.Open(ctx, env.secrets.DatabaseURL, logger); err != nil {
			logger.Error().Err(err).Msg("archive unavailable")
		} else {
			if err := archiveStore.SaveRun(ctx, result); err != nil {
				logger.Error().Err(err).Msg("archiving run failed")
			}
			_ = archiveStore.Close()
		}
	}

	// Phase 7: commit the processed items to the history.
	for _, item := range items {
		hist.Add(item)
	}
	if err := store.Save(hist); err != nil {
		logger.Error().Err(err).Msg("saving history failed")
		return 1
	}

	logger.Info().
		Str("output", dayDir).
		Int("top_items", len(result.TopItems)).
		Msg("pipeline finished")
	return 0
}
