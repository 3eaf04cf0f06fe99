// Package collector gathers candidate news items from every configured
// source concurrently. Each source is isolated: one failing collector
// logs a warning and contributes nothing, the rest proceed.
package collector

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"horse.fit/llm-news/internal/news"
)

// Collector fetches items from one source.
type Collector interface {
	// Name is a human-readable label used in logs.
	Name() string
	// Source is the source identifier the priority table is keyed on.
	Source() string
	Collect(ctx context.Context) ([]news.Item, error)
}

const (
	maxConcurrentCollectors = 5

	userAgent = "llm-news/1.0 (+https://horse.fit)"
)

// CollectAll runs every collector and merges the results in registry
// order. Collector failures are logged and skipped, never fatal.
func CollectAll(ctx context.Context, logger zerolog.Logger, collectors []Collector) []news.Item {
	results := make([][]news.Item, len(collectors))

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentCollectors)

	for i, c := range collectors {
		group.Go(func() error {
			items, err := c.Collect(groupCtx)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("collector", c.Name()).
					Str("source", c.Source()).
					Msg("collector failed, skipping")
				return nil
			}

			logger.Info().
				Str("collector", c.Name()).
				Str("source", c.Source()).
				Int("items", len(items)).
				Msg("collector finished")

			mu.Lock()
			results[i] = items
			mu.Unlock()
			return nil
		})
	}

	// Errors never propagate; Wait only orders completion.
	_ = group.Wait()

	var merged []news.Item
	for _, items := range results {
		merged = append(merged, items...)
	}
	return merged
}

// clipRunes bounds collected content without splitting multi-byte runes.
func clipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
