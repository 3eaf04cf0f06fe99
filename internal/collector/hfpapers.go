package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/globaltime"
	"horse.fit/llm-news/internal/httpclient"
	"horse.fit/llm-news/internal/news"
)

const hfDailyPapersURL = "https://huggingface.co/api/daily_papers"

// HFPapers reads the Hugging Face daily papers API.
type HFPapers struct {
	client *httpclient.Polite
	limit  int
}

func NewHFPapers(client *httpclient.Polite, cfg config.HFPapersConfig) *HFPapers {
	return &HFPapers{client: client, limit: cfg.Limit}
}

func (h *HFPapers) Name() string   { return "Hugging Face daily papers" }
func (h *HFPapers) Source() string { return news.SourceHFPapers }

type hfDailyPaper struct {
	PublishedAt time.Time `json:"publishedAt"`
	Paper       struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Summary string `json:"summary"`
		Upvotes int    `json:"upvotes"`
	} `json:"paper"`
}

func (h *HFPapers) Collect(ctx context.Context) ([]news.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hfDailyPapersURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request daily papers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface returned %s", resp.Status)
	}

	var papers []hfDailyPaper
	if err := json.NewDecoder(resp.Body).Decode(&papers); err != nil {
		return nil, fmt.Errorf("decode daily papers: %w", err)
	}

	now := globaltime.UTC()
	items := make([]news.Item, 0, len(papers))
	for _, entry := range papers {
		if h.limit > 0 && len(items) >= h.limit {
			break
		}
		if entry.Paper.ID == "" || strings.TrimSpace(entry.Paper.Title) == "" {
			continue
		}

		published := entry.PublishedAt
		item := news.Item{
			Title:       strings.TrimSpace(entry.Paper.Title),
			URL:         "https://huggingface.co/papers/" + entry.Paper.ID,
			Source:      news.SourceHFPapers,
			SourceName:  "HF Daily Papers",
			Content:     entry.Paper.Summary,
			Score:       float64(entry.Paper.Upvotes),
			CollectedAt: now,
		}
		if !published.IsZero() {
			item.PublishedAt = &published
		}
		items = append(items, item)
	}

	return items, nil
}
