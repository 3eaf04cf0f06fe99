package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/news"
)

type stubCollector struct {
	name   string
	source string
	items  []news.Item
	err    error
}

func (s *stubCollector) Name() string   { return s.name }
func (s *stubCollector) Source() string { return s.source }

func (s *stubCollector) Collect(context.Context) ([]news.Item, error) {
	return s.items, s.err
}

func TestCollectAllMergesInRegistryOrder(t *testing.T) {
	t.Parallel()

	collectors := []Collector{
		&stubCollector{name: "a", source: news.SourceArxiv, items: []news.Item{
			{Title: "paper one", Source: news.SourceArxiv},
			{Title: "paper two", Source: news.SourceArxiv},
		}},
		&stubCollector{name: "b", source: news.SourceHackerNews, items: []news.Item{
			{Title: "story", Source: news.SourceHackerNews},
		}},
	}

	items := CollectAll(context.Background(), zerolog.Nop(), collectors)
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if items[0].Title != "paper one" || items[2].Title != "story" {
		t.Fatalf("items out of registry order: %v", items)
	}
}

func TestCollectAllIsolatesFailures(t *testing.T) {
	t.Parallel()

	collectors := []Collector{
		&stubCollector{name: "broken", source: news.SourceReddit, err: errors.New("rate limited")},
		&stubCollector{name: "ok", source: news.SourceBlog, items: []news.Item{
			{Title: "release post", Source: news.SourceBlog},
		}},
	}

	items := CollectAll(context.Background(), zerolog.Nop(), collectors)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Title != "release post" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestKeywordFilter(t *testing.T) {
	t.Parallel()

	filter := NewKeywordFilter([]string{"LLM", "diffusion"})

	cases := []struct {
		title string
		want  bool
	}{
		{"New LLM benchmark released", true},
		{"Scaling llm inference", true},
		{"Latent Diffusion at the edge", true},
		{"Show HN: my static site generator", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := filter.Match(tc.title); got != tc.want {
			t.Errorf("Match(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestKeywordFilterDefaults(t *testing.T) {
	t.Parallel()

	filter := NewKeywordFilter(nil)
	if !filter.Match("OpenAI announces new model") {
		t.Fatal("default keywords should match AI titles")
	}
}

func TestCleanArxivTitle(t *testing.T) {
	t.Parallel()

	got := cleanArxivTitle("\n  Title: A Survey of\n  Agents  ")
	if got != "A Survey of Agents" {
		t.Fatalf("cleanArxivTitle() = %q", got)
	}
}

func TestBuildRegistryHonorsConfig(t *testing.T) {
	t.Parallel()

	app := &config.App{}
	app.Sources.HFPapers.Enabled = true
	app.Sources.HFModels.Enabled = true
	app.Sources.PapersWithCode.Enabled = true
	app.Sources.Github.Repos = []string{"ggml-org/llama.cpp"}
	app.Sources.HackerNews.Enabled = true

	collectors := BuildRegistry(app, &config.Secrets{})

	want := []string{
		news.SourceHFPapers,
		news.SourceHFModels,
		news.SourcePapersWithCode,
		news.SourceGitHub,
		news.SourceHackerNews,
	}
	if len(collectors) != len(want) {
		t.Fatalf("len(collectors) = %d, want %d", len(collectors), len(want))
	}
	for i, source := range want {
		if collectors[i].Source() != source {
			t.Errorf("collectors[%d] = %s, want %s", i, collectors[i].Source(), source)
		}
	}
}
