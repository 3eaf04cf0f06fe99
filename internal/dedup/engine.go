// Package dedup implements cross-source identity resolution over one run's
// collected news items: multiple sources describe the same real-world event
// with different URLs, different titles, and different distances from the
// original publisher. Matching runs in three layers of decreasing strength
// (canonical key, normalized URL, normalized title), conflicts are resolved
// by source priority, and previously reported items are suppressed via the
// persistent history.
package dedup

import (
	"github.com/rs/zerolog"

	"horse.fit/llm-news/internal/news"
)

// History is the cross-run record of previously reported content. URLs
// holds exact original URL strings as they were accepted into a report;
// CanonicalKeys holds extracted canonical keys. Both are read-only during a
// run; the caller merges survivors in and persists at run end.
type History struct {
	URLs          map[string]struct{}
	CanonicalKeys map[string]struct{}
}

// NewHistory returns an empty history.
func NewHistory() History {
	return History{
		URLs:          make(map[string]struct{}),
		CanonicalKeys: make(map[string]struct{}),
	}
}

// Add records one surviving item into the history sets.
func (h History) Add(item news.Item) {
	if item.URL != "" {
		h.URLs[item.URL] = struct{}{}
	}
	if key := CanonicalKey(item); key != "" {
		h.CanonicalKeys[key] = struct{}{}
	}
}

// Engine deduplicates one run's batch of items. It is stateless across
// calls; the per-run indices live only inside Deduplicate.
type Engine struct {
	logger zerolog.Logger
}

func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Deduplicate filters a batch against history and collapses duplicates
// across sources. Items are processed in input order; for each item the
// match layers are tried strongest first and only the first matching layer
// is consulted. When a duplicate is found the item with the better source
// priority survives, regardless of arrival order. The result is a
// survivorship subsequence of the input: no items are fabricated and no
// fields are mutated except by whole-item replacement.
func (e *Engine) Deduplicate(items []news.Item, hist History) []news.Item {
	// History URLs were stored raw; normalize them once so an http/https or
	// trailing-slash variant of an already-reported URL is still caught.
	historyURLs := make(map[string]struct{}, len(hist.URLs))
	for raw := range hist.URLs {
		historyURLs[NormalizeURL(raw)] = struct{}{}
	}

	result := make([]news.Item, 0, len(items))

	// Secondary indices into result by key, holding positions. On
	// replacement all three must be refreshed for the new occupant.
	byKey := make(map[string]int)
	byURL := make(map[string]int)
	byTitle := make(map[string]int)

	var droppedHistory, droppedDuplicate, replaced int

	for _, item := range items {
		normURL := NormalizeURL(item.URL)
		key := CanonicalKey(item)

		if e.inHistory(item, normURL, key, hist, historyURLs) {
			droppedHistory++
			continue
		}

		title := NormalizeTitle(item.Title)

		pos, matched := -1, false
		if key != "" {
			pos, matched = lookup(byKey, key)
		}
		if !matched && normURL != "" {
			pos, matched = lookup(byURL, normURL)
		}
		if !matched && len(title) >= minTitleMatchLength {
			pos, matched = lookup(byTitle, title)
		}

		if matched {
			if e.resolveDuplicate(result, pos, item, byKey, byURL, byTitle) {
				replaced++
			} else {
				droppedDuplicate++
			}
			continue
		}

		result = append(result, item)
		at := len(result) - 1
		if key != "" {
			byKey[key] = at
		}
		if normURL != "" {
			byURL[normURL] = at
		}
		if len(title) >= minTitleMatchLength {
			byTitle[title] = at
		}
	}

	e.logger.Info().
		Int("input", len(items)).
		Int("output", len(result)).
		Int("dropped_history", droppedHistory).
		Int("dropped_duplicate", droppedDuplicate).
		Int("replaced", replaced).
		Msg("deduplication finished")

	return result
}

// inHistory reports whether the item was accepted into a report on a
// previous run, by raw URL, normalized URL, or canonical key.
func (e *Engine) inHistory(item news.Item, normURL, key string, hist History, historyURLs map[string]struct{}) bool {
	if _, ok := hist.URLs[item.URL]; ok {
		return true
	}
	if normURL != "" {
		if _, ok := historyURLs[normURL]; ok {
			return true
		}
	}
	if key != "" {
		if _, ok := hist.CanonicalKeys[key]; ok {
			return true
		}
	}
	return false
}

// resolveDuplicate decides between the incumbent at result[pos] and a
// later-arriving duplicate. The challenger wins only with a strictly better
// source priority; on a tie the incumbent stays, which keeps the outcome
// independent of arrival order. Returns true when the slot was replaced.
func (e *Engine) resolveDuplicate(result []news.Item, pos int, challenger news.Item, byKey, byURL, byTitle map[string]int) bool {
	incumbent := result[pos]
	if SourcePriority(challenger.Source) >= SourcePriority(incumbent.Source) {
		e.logger.Debug().
			Str("kept", incumbent.Source).
			Str("dropped", challenger.Source).
			Str("title", incumbent.Title).
			Msg("duplicate dropped")
		return false
	}

	result[pos] = challenger

	// The slot now holds a different item; refresh every index the new
	// occupant participates in, not just the one that matched.
	if key := CanonicalKey(challenger); key != "" {
		byKey[key] = pos
	}
	if normURL := NormalizeURL(challenger.URL); normURL != "" {
		byURL[normURL] = pos
	}
	if title := NormalizeTitle(challenger.Title); len(title) >= minTitleMatchLength {
		byTitle[title] = pos
	}

	e.logger.Debug().
		Str("kept", challenger.Source).
		Str("dropped", incumbent.Source).
		Str("title", challenger.Title).
		Msg("duplicate replaced by higher-priority source")
	return true
}

func lookup(index map[string]int, key string) (int, bool) {
	pos, ok := index[key]
	if !ok {
		return -1, false
	}
	return pos, true
}
