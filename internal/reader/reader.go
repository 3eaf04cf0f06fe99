// Package reader pulls readable article text for items whose collector
// only produced a title and link, so the LLM has content to summarize.
package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"
	"github.com/rs/zerolog"

	"horse.fit/llm-news/internal/news"
)

const (
	fetchTimeout  = 12 * time.Second
	bodyByteLimit = 2 * 1024 * 1024

	// Keeps per-item prompts bounded when content is long.
	maxContentChars = 2000

	userAgent = "llm-news/1.0 (+https://horse.fit)"
)

// Enricher fetches and extracts article text over a shared HTTP client.
type Enricher struct {
	client *http.Client
	logger zerolog.Logger
}

func NewEnricher(client *http.Client, logger zerolog.Logger) *Enricher {
	return &Enricher{client: client, logger: logger}
}

// Enrich fills Content on items that lack it. Extraction failures are
// logged at debug level and leave the item as-is.
func (e *Enricher) Enrich(ctx context.Context, items []news.Item) {
	for i := range items {
		if items[i].Content != "" || items[i].URL == "" {
			continue
		}

		text, err := e.extract(ctx, items[i].URL)
		if err != nil {
			e.logger.Debug().
				Err(err).
				Str("url", items[i].URL).
				Msg("content extraction failed")
			continue
		}
		items[i].Content = Truncate(text, maxContentChars)
	}
}

func (e *Enricher) extract(ctx context.Context, pageURL string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, bodyByteLimit))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	contentType := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Type")))
	if strings.HasPrefix(contentType, "text/plain") {
		return CleanText(string(body)), nil
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return "", fmt.Errorf("readability parse: %w", err)
	}

	var rendered bytes.Buffer
	if err := article.RenderText(&rendered); err != nil {
		return "", fmt.Errorf("render readability text: %w", err)
	}

	text := CleanText(rendered.String())
	if text == "" {
		text = CleanText(article.Excerpt())
	}
	if text == "" {
		return "", fmt.Errorf("extracted empty content")
	}
	return text, nil
}

// CleanText normalizes line endings and collapses in-line whitespace
// while keeping paragraph breaks.
func CleanText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.Fields(strings.TrimSpace(line)), " ")
		if clean == "" {
			continue
		}
		paragraphs = append(paragraphs, clean)
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}

// Truncate clips text to maxChars runes, appending an ellipsis when
// something was cut.
func Truncate(raw string, maxChars int) string {
	trimmed := strings.TrimSpace(raw)
	if maxChars <= 0 {
		return trimmed
	}

	runes := []rune(trimmed)
	if len(runes) <= maxChars {
		return trimmed
	}
	if maxChars == 1 {
		return "…"
	}

	clipped := strings.TrimSpace(string(runes[:maxChars-1]))
	if clipped == "" {
		return "…"
	}
	return clipped + "…"
}
