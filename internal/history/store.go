// Package history persists the cross-run record of previously reported
// URLs and canonical keys. The record is loaded once at run start and
// written once at run end; a load failure degrades to an empty history so
// a corrupt file never aborts a run.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/llm-news/internal/dedup"
	"horse.fit/llm-news/internal/globaltime"
)

// Retention caps. Past the cap the lexicographically-greatest entries are
// kept as an approximation of "most recent"; no real recency signal is
// retained.
const (
	MaxURLs          = 10000
	MaxCanonicalKeys = 5000
)

type fileRecord struct {
	UpdatedAt     time.Time `json:"updated_at"`
	Count         int       `json:"count"`
	URLs          []string  `json:"urls"`
	CanonicalKeys []string  `json:"canonical_keys"`
}

// Store reads and writes the history file. The path is injected at
// construction; there is no default location.
type Store struct {
	path   string
	logger zerolog.Logger
}

func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads the history from disk. A missing, unreadable, or corrupt file
// yields an empty history and a warning; it never fails the run.
func (s *Store) Load() dedup.History {
	hist := dedup.NewHistory()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info().Str("path", s.path).Msg("no history file, starting fresh")
		} else {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to read history, starting fresh")
		}
		return hist
	}

	var record fileRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to parse history, starting fresh")
		return hist
	}

	for _, u := range record.URLs {
		hist.URLs[u] = struct{}{}
	}
	for _, key := range record.CanonicalKeys {
		hist.CanonicalKeys[key] = struct{}{}
	}

	s.logger.Info().
		Int("urls", len(hist.URLs)).
		Int("canonical_keys", len(hist.CanonicalKeys)).
		Msg("history loaded")
	return hist
}

// Info describes the history file for inspection commands.
type Info struct {
	Path          string    `json:"path"`
	Exists        bool      `json:"exists"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
	URLs          int       `json:"urls"`
	CanonicalKeys int       `json:"canonical_keys"`
}

// Inspect reads the file metadata without building the lookup sets.
func (s *Store) Inspect() (Info, error) {
	info := Info{Path: s.path}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return info, nil
		}
		return info, fmt.Errorf("read history %s: %w", s.path, err)
	}

	var record fileRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return info, fmt.Errorf("parse history %s: %w", s.path, err)
	}

	info.Exists = true
	info.UpdatedAt = record.UpdatedAt
	info.URLs = len(record.URLs)
	info.CanonicalKeys = len(record.CanonicalKeys)
	return info, nil
}

// Save persists the history, truncated to the retention caps. The file is
// written next to its final location and renamed into place so a crash
// mid-write cannot corrupt the previous good copy. A save failure breaks
// the cross-run guarantee and is returned to the caller.
func (s *Store) Save(hist dedup.History) error {
	urls := truncateSorted(hist.URLs, MaxURLs)
	keys := truncateSorted(hist.CanonicalKeys, MaxCanonicalKeys)

	record := fileRecord{
		UpdatedAt:     globaltime.UTC(),
		Count:         len(urls),
		URLs:          urls,
		CanonicalKeys: keys,
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create history temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close history temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace history file: %w", err)
	}

	s.logger.Info().
		Int("urls", len(urls)).
		Int("canonical_keys", len(keys)).
		Str("path", s.path).
		Msg("history saved")
	return nil
}

// truncateSorted returns the set sorted ascending, keeping only the
// lexicographically-greatest entries when the cap is exceeded.
func truncateSorted(set map[string]struct{}, limit int) []string {
	entries := make([]string, 0, len(set))
	for entry := range set {
		entries = append(entries, entry)
	}
	sort.Strings(entries)

	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries
}
