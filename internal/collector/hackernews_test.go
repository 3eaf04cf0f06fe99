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

func newHackerNewsAgainst(server *httptest.Server) *HackerNews {
	hn := NewHackerNews(
		httpclient.NewPolite(server.Client(), time.Millisecond, 10),
		config.HackerNewsConfig{Enabled: true},
		NewKeywordFilter(nil),
	)
	hn.apiBase = server.URL
	return hn
}

func TestHackerNewsSkipsFailedStories(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/topstories.json":
			fmt.Fprint(w, "[1,2,3]")
		case "/item/1.json":
			fmt.Fprint(w, `{"id":1,"type":"story","title":"New LLM eval harness","score":120}`)
		case "/item/2.json":
			w.WriteHeader(http.StatusInternalServerError)
		case "/item/3.json":
			fmt.Fprint(w, `{"id":3,"type":"story","title":"Running GPT agents in production","score":80}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	items, err := newHackerNewsAgainst(server).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Title != "New LLM eval harness" || items[1].Title != "Running GPT agents in production" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestHackerNewsAllStoryFetchesFailed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/topstories.json" {
			fmt.Fprint(w, "[1,2]")
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := newHackerNewsAgainst(server).Collect(context.Background()); err == nil {
		t.Fatal("Collect() should fail when every story fetch fails")
	}
}
