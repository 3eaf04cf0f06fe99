package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/llm-news/internal/news"
)

func TestCleanTextCollapsesWhitespaceAndPreservesParagraphs(t *testing.T) {
	input := "  First   paragraph \n\n Second\tparagraph \r\n\r\nThird line "
	got := CleanText(input)
	want := "First paragraph\n\nSecond paragraph\n\nThird line"
	if got != want {
		t.Fatalf("CleanText mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

func TestTruncate(t *testing.T) {
	input := "abcdefghijklmnopqrstuvwxyz"

	got := Truncate(input, 10)
	if got != "abcdefghi…" {
		t.Fatalf("unexpected truncated text: %q", got)
	}

	if full := Truncate("short", 10); full != "short" {
		t.Fatalf("unexpected short text: %q", full)
	}

	if unlimited := Truncate(input, 0); unlimited != input {
		t.Fatalf("maxChars<=0 should not truncate, got %q", unlimited)
	}
}

func TestEnrichFillsMissingContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("The quick brown fox announces a new model.\n\nIt jumps over benchmarks."))
	}))
	defer server.Close()

	enricher := NewEnricher(server.Client(), zerolog.Nop())
	items := []news.Item{
		{Title: "already has content", URL: server.URL, Content: "existing"},
		{Title: "needs content", URL: server.URL},
	}

	enricher.Enrich(context.Background(), items)

	if items[0].Content != "existing" {
		t.Fatalf("existing content overwritten: %q", items[0].Content)
	}
	if !strings.Contains(items[1].Content, "quick brown fox") {
		t.Fatalf("content not filled: %q", items[1].Content)
	}
}

func TestEnrichLeavesItemOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	enricher := NewEnricher(server.Client(), zerolog.Nop())
	items := []news.Item{{Title: "broken link", URL: server.URL}}

	enricher.Enrich(context.Background(), items)

	if items[0].Content != "" {
		t.Fatalf("content should stay empty on failure, got %q", items[0].Content)
	}
}
