package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/globaltime"
	"horse.fit/llm-news/internal/httpclient"
	"horse.fit/llm-news/internal/news"
)

const (
	hfModelsAPI     = "https://huggingface.co/api/models"
	modelsPerOrg    = 10
	modelTagsToKeep = 5
)

// followed when the config lists no orgs
var defaultModelOrgs = []string{
	"deepseek-ai", "Qwen", "zai-org", "MiniMaxAI", "stepfun-ai",
	"meta-llama", "mistralai", "google", "microsoft", "openai",
}

// HFModels tracks recently updated models from followed Hugging Face
// organizations plus the most liked text-generation models hub-wide.
type HFModels struct {
	client  *httpclient.Polite
	apiBase string
	orgs    []string
	limit   int
}

func NewHFModels(client *httpclient.Polite, cfg config.HFModelsConfig) *HFModels {
	orgs := cfg.Orgs
	if len(orgs) == 0 {
		orgs = defaultModelOrgs
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 50
	}
	return &HFModels{
		client:  client,
		apiBase: hfModelsAPI,
		orgs:    orgs,
		limit:   limit,
	}
}

func (h *HFModels) Name() string   { return "Hugging Face models" }
func (h *HFModels) Source() string { return news.SourceHFModels }

type hfModel struct {
	ID           string    `json:"id"`
	PipelineTag  string    `json:"pipeline_tag"`
	Tags         []string  `json:"tags"`
	Downloads    int64     `json:"downloads"`
	Likes        int       `json:"likes"`
	LastModified time.Time `json:"lastModified"`
}

func (h *HFModels) Collect(ctx context.Context) ([]news.Item, error) {
	now := globaltime.UTC()

	var items []news.Item
	var failures []string
	seen := make(map[string]bool)

	appendModels := func(models []hfModel) {
		for _, model := range models {
			if model.ID == "" || seen[model.ID] {
				continue
			}
			seen[model.ID] = true
			items = append(items, hfModelItem(model, now))
		}
	}

	for _, org := range h.orgs {
		models, err := h.fetchModels(ctx, url.Values{
			"author":    {org},
			"sort":      {"lastModified"},
			"direction": {"-1"},
			"limit":     {strconv.Itoa(modelsPerOrg)},
		})
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", org, err))
			continue
		}
		appendModels(models)
	}

	// The hub API has no trending sort; likes is the closest proxy.
	trending, err := h.fetchModels(ctx, url.Values{
		"sort":         {"likes"},
		"direction":    {"-1"},
		"limit":        {strconv.Itoa(h.limit)},
		"pipeline_tag": {"text-generation"},
	})
	if err != nil {
		failures = append(failures, fmt.Sprintf("trending: %v", err))
	} else {
		appendModels(trending)
	}

	if len(items) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("all model queries failed: %s", strings.Join(failures, "; "))
	}
	return items, nil
}

func (h *HFModels) fetchModels(ctx context.Context, query url.Values) ([]hfModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.apiBase+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var models []hfModel
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}
	return models, nil
}

func hfModelItem(model hfModel, now time.Time) news.Item {
	org := "HuggingFace"
	if owner, _, found := strings.Cut(model.ID, "/"); found {
		org = owner
	}

	var parts []string
	if model.PipelineTag != "" {
		parts = append(parts, "Pipeline: "+model.PipelineTag)
	}
	if model.Downloads > 0 {
		parts = append(parts, fmt.Sprintf("Downloads: %d", model.Downloads))
	}
	if model.Likes > 0 {
		parts = append(parts, fmt.Sprintf("Likes: %d", model.Likes))
	}
	if tags := descriptiveTags(model); len(tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(tags, ", "))
	}

	item := news.Item{
		Title:       "[HF Model] " + model.ID,
		URL:         "https://huggingface.co/" + model.ID,
		Source:      news.SourceHFModels,
		SourceName:  org,
		Content:     strings.Join(parts, " | "),
		Score:       float64(model.Likes),
		CollectedAt: now,
	}
	if !model.LastModified.IsZero() {
		published := model.LastModified
		item.PublishedAt = &published
	}
	return item
}

// descriptiveTags keeps the first few informative tags, dropping arxiv
// references and the pipeline tag itself.
func descriptiveTags(model hfModel) []string {
	var tags []string
	for _, tag := range model.Tags {
		if len(tags) == modelTagsToKeep {
			break
		}
		if strings.HasPrefix(tag, "arxiv:") || tag == model.PipelineTag {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
