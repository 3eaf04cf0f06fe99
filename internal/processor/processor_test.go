package processor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/llm-news/internal/news"
)

type stubClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (s *stubClient) Complete(_ context.Context, prompt string, _ int) (string, error) {
	s.prompts = append(s.prompts, prompt)
	call := s.calls
	s.calls++
	if call < len(s.errs) && s.errs[call] != nil {
		return "", s.errs[call]
	}
	if call < len(s.responses) {
		return s.responses[call], nil
	}
	return "", errors.New("unexpected extra call")
}

func sampleItems() []news.Item {
	return []news.Item{
		{Title: "minor release", URL: "https://example.com/a", Source: news.SourceBlog, SourceName: "Blog"},
		{Title: "big paper", URL: "https://arxiv.org/abs/2501.11111", Source: news.SourceArxiv, SourceName: "arXiv cs.CL"},
		{Title: "small tool", URL: "https://example.com/c", Source: news.SourceGitHubTrending, SourceName: "GitHub Trending"},
	}
}

func TestProcessSummarizesRanksAndScripts(t *testing.T) {
	t.Parallel()

	client := &stubClient{responses: []string{
		`[{"index": 0, "summary": "minor", "score": 3},
		  {"index": 1, "summary": "major", "score": 9},
		  {"index": 2, "summary": "tool", "score": 5}]`,
		"Good morning, here is today's AI news.",
	}}

	p := New(client, zerolog.Nop(), 2)
	report := p.Process(context.Background(), sampleItems())

	if !report.LLMOK {
		t.Fatal("LLMOK should be true when both calls succeed")
	}
	if len(report.TopItems) != 2 {
		t.Fatalf("len(TopItems) = %d, want 2", len(report.TopItems))
	}
	if report.TopItems[0].Title != "big paper" || report.TopItems[0].Score != 9 {
		t.Fatalf("top item = %+v", report.TopItems[0])
	}
	if report.TopItems[1].Summary != "tool" {
		t.Fatalf("second item = %+v", report.TopItems[1])
	}
	if report.Script == "" {
		t.Fatal("script should be set")
	}
	if client.calls != 2 {
		t.Fatalf("calls = %d, want 2", client.calls)
	}
	if !strings.Contains(client.prompts[1], "big paper") {
		t.Fatal("script prompt should include top item titles")
	}
}

func TestProcessSummarizeFailureSkipsScript(t *testing.T) {
	t.Parallel()

	client := &stubClient{errs: []error{errors.New("rate limited")}}

	p := New(client, zerolog.Nop(), 5)
	report := p.Process(context.Background(), sampleItems())

	if report.LLMOK {
		t.Fatal("LLMOK should be false when summarization fails")
	}
	if report.Script != "" {
		t.Fatalf("script should be empty, got %q", report.Script)
	}
	if client.calls != 1 {
		t.Fatalf("calls = %d, want 1 (no script call)", client.calls)
	}
	// Items still ranked by their collector scores.
	if len(report.TopItems) != 3 {
		t.Fatalf("len(TopItems) = %d, want 3", len(report.TopItems))
	}
}

func TestProcessScriptFailureClearsLLMOK(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		responses: []string{`[{"index": 0, "summary": "s", "score": 5}]`},
		errs:      []error{nil, errors.New("timeout")},
	}

	p := New(client, zerolog.Nop(), 10)
	report := p.Process(context.Background(), sampleItems()[:1])

	if report.LLMOK {
		t.Fatal("LLMOK should be false when the script call fails")
	}
	if report.TopItems[0].Summary != "s" {
		t.Fatalf("summary lost: %+v", report.TopItems[0])
	}
}

func TestProcessEmptyInput(t *testing.T) {
	t.Parallel()

	client := &stubClient{}
	p := New(client, zerolog.Nop(), 10)

	report := p.Process(context.Background(), nil)
	if report.LLMOK {
		t.Fatal("LLMOK should be false for empty input")
	}
	if client.calls != 0 {
		t.Fatalf("no LLM calls expected, got %d", client.calls)
	}
	if report.Date == "" {
		t.Fatal("report date should be set")
	}
}

func TestProcessIgnoresOutOfRangeIndexes(t *testing.T) {
	t.Parallel()

	client := &stubClient{responses: []string{
		`[{"index": 7, "summary": "ghost", "score": 10},
		  {"index": 0, "summary": "real", "score": 6}]`,
		"script",
	}}

	p := New(client, zerolog.Nop(), 10)
	report := p.Process(context.Background(), sampleItems()[:1])

	if report.TopItems[0].Summary != "real" {
		t.Fatalf("unexpected top item: %+v", report.TopItems[0])
	}
}
