package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/llm-news/internal/globaltime"
	"horse.fit/llm-news/internal/news"
)

const (
	// Bounds the summarize response so large batches are not cut off
	// mid-array.
	summarizeMaxTokens = 16000

	contentSnippetChars = 300
)

const summarizePrompt = `You are a professional AI/LLM news editor. Given the following %d news items, return one JSON object per item with:
- "index": the item's index (starting at 0)
- "summary": a concise 1-2 sentence summary highlighting the key point and why it matters
- "score": an importance score from 1 to 10 (10 = major breakthrough, 1 = minor)

Scoring guide:
- 9-10: major model release, breakthrough paper, significant API change
- 7-8: notable research, important library update, industry news
- 5-6: interesting but incremental
- 3-4: small update, routine release
- 1-2: marginally relevant

Return ONLY the JSON array. No markdown fences, no extra text.

News items:
%s`

const scriptPrompt = `You are a professional AI tech news anchor. Write a broadcast script for today's (%s) top %d AI/LLM news items.

Requirements:
- About 5-10 minutes when read aloud
- Open with a short greeting and the date
- For each item: the headline, what happened, and why it matters
- Natural transitions between items
- Close briefly
- Tone: professional, engaging, slightly conversational
- No markdown, bullet points, or special characters
- Plain text suitable for speech synthesis
- Keep proper nouns (model names, library names) as-is

Items:
%s`

// Processor drives the two LLM calls of a pipeline run.
type Processor struct {
	client ChatClient
	logger zerolog.Logger
	topN   int
}

func New(client ChatClient, logger zerolog.Logger, topN int) *Processor {
	if topN < 1 {
		topN = 10
	}
	return &Processor{client: client, logger: logger, topN: topN}
}

// Process summarizes and scores items, selects the top N, and
// generates the broadcast script. LLM failures never fail the run:
// the report's LLMOK field records whether both calls succeeded, and
// callers use it to gate history updates and TTS.
func (p *Processor) Process(ctx context.Context, items []news.Item) news.Report {
	report := news.Report{
		Date:            globaltime.Today(),
		TotalAfterDedup: len(items),
	}
	if len(items) == 0 {
		p.logger.Warn().Msg("no items to process")
		return report
	}

	llmOK := true
	if err := p.summarize(ctx, items); err != nil {
		p.logger.Error().Err(err).Msg("LLM summarization failed, skipping script generation")
		llmOK = false
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	top := items
	if len(top) > p.topN {
		top = top[:p.topN]
	}
	report.TopItems = top

	scores := make([]float64, len(top))
	for i, item := range top {
		scores[i] = item.Score
	}
	p.logger.Info().
		Int("selected", len(top)).
		Floats64("scores", scores).
		Msg("top items selected")

	if llmOK {
		script, err := p.generateScript(ctx, report.Date, top)
		if err != nil {
			p.logger.Error().Err(err).Msg("script generation failed")
		} else {
			report.Script = script
		}
	}

	report.LLMOK = llmOK && report.Script != ""
	return report
}

type summaryEntry struct {
	Index   int     `json:"index"`
	Summary string  `json:"summary"`
	Score   float64 `json:"score"`
}

func (p *Processor) summarize(ctx context.Context, items []news.Item) error {
	p.logger.Info().Int("items", len(items)).Msg("summarizing items")

	prompt := fmt.Sprintf(summarizePrompt, len(items), buildItemsText(items))
	raw, err := p.client.Complete(ctx, prompt, summarizeMaxTokens)
	if err != nil {
		return err
	}

	jsonText, ok := extractJSONArray(raw)
	if !ok {
		p.logger.Warn().Str("head", truncateForLog(raw, 500)).Msg("unparseable summary response")
		return fmt.Errorf("summary response is not a JSON array")
	}

	var entries []summaryEntry
	if err := json.Unmarshal([]byte(jsonText), &entries); err != nil {
		return fmt.Errorf("decode summary entries: %w", err)
	}

	parsed := 0
	for _, entry := range entries {
		if entry.Index < 0 || entry.Index >= len(items) {
			continue
		}
		items[entry.Index].Summary = entry.Summary
		items[entry.Index].Score = entry.Score
		parsed++
	}

	p.logger.Info().
		Int("parsed", parsed).
		Int("total", len(items)).
		Msg("item summaries parsed")
	return nil
}

func (p *Processor) generateScript(ctx context.Context, date string, top []news.Item) (string, error) {
	p.logger.Info().Msg("generating broadcast script")

	prompt := fmt.Sprintf(scriptPrompt, date, len(top), buildScriptItemsText(top))
	script, err := p.client.Complete(ctx, prompt, 0)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(script), nil
}

func buildItemsText(items []news.Item) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		snippet := item.Content
		if runes := []rune(snippet); len(runes) > contentSnippetChars {
			snippet = string(runes[:contentSnippetChars])
		}
		fmt.Fprintf(&sb, "[%d] (%s/%s) %s\n    URL: %s\n    Content: %s",
			i, item.Source, item.SourceName, item.Title, item.URL, snippet)
	}
	return sb.String()
}

func buildScriptItemsText(items []news.Item) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n   Summary: %s\n   URL: %s",
			i+1, item.SourceName, item.Title, item.Summary, item.URL)
	}
	return sb.String()
}

func truncateForLog(raw string, maxChars int) string {
	runes := []rune(raw)
	if len(runes) <= maxChars {
		return raw
	}
	return string(runes[:maxChars])
}
