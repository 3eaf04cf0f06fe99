package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/globaltime"
	"horse.fit/llm-news/internal/httpclient"
	"horse.fit/llm-news/internal/news"
)

const hnAPIBase = "https://hacker-news.firebaseio.com/v0"

// HackerNews reads the Firebase story API and keeps stories whose
// titles match the configured keywords.
type HackerNews struct {
	client    *httpclient.Polite
	apiBase   string
	storyType string
	limit     int
	keywords  *KeywordFilter
}

func NewHackerNews(client *httpclient.Polite, cfg config.HackerNewsConfig, keywords *KeywordFilter) *HackerNews {
	storyType := cfg.StoryType
	if storyType == "" {
		storyType = "topstories"
	}
	return &HackerNews{
		client:    client,
		apiBase:   hnAPIBase,
		storyType: storyType,
		limit:     cfg.Limit,
		keywords:  keywords,
	}
}

func (h *HackerNews) Name() string   { return "Hacker News" }
func (h *HackerNews) Source() string { return news.SourceHackerNews }

type hnStory struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Score int    `json:"score"`
	Type  string `json:"type"`
	Time  int64  `json:"time"`
}

func (h *HackerNews) Collect(ctx context.Context) ([]news.Item, error) {
	ids, err := h.fetchStoryIDs(ctx)
	if err != nil {
		return nil, err
	}
	if h.limit > 0 && len(ids) > h.limit {
		ids = ids[:h.limit]
	}

	// Per-story fetch failures are skipped; only a fully failed page
	// is an error.
	stories := make([]*hnStory, len(ids))
	var failed atomic.Int32
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(10)
	for i, id := range ids {
		group.Go(func() error {
			story, err := h.fetchStory(groupCtx, id)
			if err != nil {
				failed.Add(1)
				return nil
			}
			stories[i] = story
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if n := int(failed.Load()); n > 0 && n == len(ids) {
		return nil, fmt.Errorf("all %d story fetches failed", n)
	}

	now := globaltime.UTC()
	var items []news.Item
	for _, story := range stories {
		if story == nil || story.Type != "story" || story.Title == "" {
			continue
		}
		if !h.keywords.Match(story.Title) {
			continue
		}

		url := story.URL
		if url == "" {
			url = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", story.ID)
		}

		items = append(items, news.Item{
			Title:       story.Title,
			URL:         url,
			Source:      news.SourceHackerNews,
			SourceName:  "Hacker News",
			Score:       float64(story.Score),
			CollectedAt: now,
		})
	}

	return items, nil
}

func (h *HackerNews) fetchStoryIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := h.getJSON(ctx, fmt.Sprintf("%s/%s.json", h.apiBase, h.storyType), &ids); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h.storyType, err)
	}
	return ids, nil
}

func (h *HackerNews) fetchStory(ctx context.Context, id int) (*hnStory, error) {
	var story hnStory
	if err := h.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", h.apiBase, id), &story); err != nil {
		return nil, fmt.Errorf("fetch story %d: %w", id, err)
	}
	return &story, nil
}

func (h *HackerNews) getJSON(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
