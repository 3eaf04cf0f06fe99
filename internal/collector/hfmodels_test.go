package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/httpclient"
)

func TestHFModelsCollectDeduplicatesAcrossQueries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("author") == "deepseek-ai" {
			fmt.Fprint(w, `[{"id":"deepseek-ai/DeepSeek-V4","pipeline_tag":"text-generation","likes":4200,"lastModified":"2026-08-28T09:00:00Z"}]`)
			return
		}
		// The trending query repeats the org model plus one more.
		fmt.Fprint(w, `[
			{"id":"deepseek-ai/DeepSeek-V4","pipeline_tag":"text-generation","likes":4200},
			{"id":"meta-llama/Llama-5-70B","pipeline_tag":"text-generation","likes":3100}
		]`)
	}))
	defer server.Close()

	models := NewHFModels(
		httpclient.NewPolite(server.Client(), time.Millisecond, 10),
		config.HFModelsConfig{Orgs: []string{"deepseek-ai"}, Limit: 50},
	)
	models.apiBase = server.URL

	items, err := models.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Title != "[HF Model] deepseek-ai/DeepSeek-V4" {
		t.Errorf("Title = %q", items[0].Title)
	}
	if items[1].Title != "[HF Model] meta-llama/Llama-5-70B" {
		t.Errorf("Title = %q", items[1].Title)
	}
}

func TestNewHFModelsDefaultOrgs(t *testing.T) {
	t.Parallel()

	models := NewHFModels(nil, config.HFModelsConfig{})
	if len(models.orgs) == 0 {
		t.Fatal("empty config should fall back to the default org list")
	}
	if models.limit != 50 {
		t.Fatalf("limit = %d, want 50", models.limit)
	}
}

func TestHFModelItem(t *testing.T) {
	t.Parallel()

	modified := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	model := hfModel{
		ID:           "Qwen/Qwen4-72B",
		PipelineTag:  "text-generation",
		Tags:         []string{"arxiv:2601.00001", "text-generation", "safetensors", "qwen"},
		Downloads:    123456,
		Likes:        987,
		LastModified: modified,
	}

	item := hfModelItem(model, time.Now().UTC())
	if item.URL != "https://huggingface.co/Qwen/Qwen4-72B" {
		t.Errorf("URL = %q", item.URL)
	}
	if item.SourceName != "Qwen" {
		t.Errorf("SourceName = %q", item.SourceName)
	}
	if item.Score != 987 {
		t.Errorf("Score = %v", item.Score)
	}
	want := "Pipeline: text-generation | Downloads: 123456 | Likes: 987 | Tags: safetensors, qwen"
	if item.Content != want {
		t.Errorf("Content = %q, want %q", item.Content, want)
	}
	if item.PublishedAt == nil || !item.PublishedAt.Equal(modified) {
		t.Errorf("PublishedAt = %v", item.PublishedAt)
	}
}
