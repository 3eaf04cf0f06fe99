// Package report writes the per-day run artifacts under the output
// directory: a Markdown digest, the raw item JSON, and the broadcast
// script when one was generated.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/llm-news/internal/news"
)

// Writer saves run artifacts under outputDir/YYYY-MM-DD/.
type Writer struct {
	outputDir string
	logger    zerolog.Logger
}

func NewWriter(outputDir string, logger zerolog.Logger) *Writer {
	return &Writer{outputDir: outputDir, logger: logger}
}

// DayDir returns the artifact directory for a report date.
func (w *Writer) DayDir(date string) string {
	return filepath.Join(w.outputDir, date)
}

// Save writes daily_report.md, raw_items.json and, when a script was
// generated, broadcast_script.txt. Returns the day directory.
func (w *Writer) Save(report news.Report) (string, error) {
	dayDir := w.DayDir(report.Date)
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return "", fmt.Errorf("create day directory: %w", err)
	}

	mdPath := filepath.Join(dayDir, "daily_report.md")
	if err := os.WriteFile(mdPath, []byte(Markdown(report)), 0o644); err != nil {
		return "", fmt.Errorf("write markdown report: %w", err)
	}
	w.logger.Info().Str("path", mdPath).Msg("saved markdown report")

	raw := struct {
		Date            string      `json:"date"`
		TotalCollected  int         `json:"total_collected"`
		TotalAfterDedup int         `json:"total_after_dedup"`
		TopItems        []news.Item `json:"top_items"`
	}{
		Date:            report.Date,
		TotalCollected:  report.TotalCollected,
		TotalAfterDedup: report.TotalAfterDedup,
		TopItems:        report.TopItems,
	}
	rawJSON, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal raw items: %w", err)
	}
	jsonPath := filepath.Join(dayDir, "raw_items.json")
	if err := os.WriteFile(jsonPath, rawJSON, 0o644); err != nil {
		return "", fmt.Errorf("write raw items: %w", err)
	}
	w.logger.Info().Str("path", jsonPath).Msg("saved raw items")

	if report.Script != "" {
		scriptPath := filepath.Join(dayDir, "broadcast_script.txt")
		if err := os.WriteFile(scriptPath, []byte(report.Script), 0o644); err != nil {
			return "", fmt.Errorf("write broadcast script: %w", err)
		}
		w.logger.Info().Str("path", scriptPath).Msg("saved broadcast script")
	}

	return dayDir, nil
}

// Markdown renders the digest document.
func Markdown(report news.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# LLM News Daily Report - %s\n\n", report.Date)
	fmt.Fprintf(&sb, "> Collected %d items, showing Top %d after dedup & ranking.\n\n",
		report.TotalCollected, len(report.TopItems))
	sb.WriteString("---\n\n")

	for i, item := range report.TopItems {
		fmt.Fprintf(&sb, "## %d. %s\n\n", i+1, item.Title)
		fmt.Fprintf(&sb, "**Source**: `%s` / %s  \n", item.Source, item.SourceName)
		fmt.Fprintf(&sb, "**Score**: %.1f/10 %s  \n", item.Score, scoreBar(item.Score))
		if item.PublishedAt != nil {
			fmt.Fprintf(&sb, "**Published**: %s  \n", item.PublishedAt.UTC().Format("2006-01-02 15:04 UTC"))
		}
		fmt.Fprintf(&sb, "**Link**: [%s](%s)\n\n", item.URL, item.URL)

		switch {
		case item.Summary != "":
			fmt.Fprintf(&sb, "> %s\n", item.Summary)
		case item.Content != "":
			snippet := item.Content
			if runes := []rune(snippet); len(runes) > 200 {
				snippet = string(runes[:200])
			}
			fmt.Fprintf(&sb, "> %s...\n", snippet)
		}
		sb.WriteString("\n---\n\n")
	}

	return sb.String()
}

func scoreBar(score float64) string {
	filled := int(score)
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("★", filled) + strings.Repeat("☆", 10-filled)
}
