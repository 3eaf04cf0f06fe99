package dedup

import (
	"testing"

	"horse.fit/llm-news/internal/news"
)

func itemWithURL(url, source string) news.Item {
	return news.Item{
		Title:  "Test Item",
		URL:    url,
		Source: source,
	}
}

func TestCanonicalKey_ArxivAbs(t *testing.T) {
	t.Parallel()

	key := CanonicalKey(itemWithURL("http://arxiv.org/abs/2602.06570v1", news.SourceArxiv))
	if key != "arxiv:2602.06570" {
		t.Fatalf("unexpected canonical key: %q", key)
	}
}

func TestCanonicalKey_ArxivPDF(t *testing.T) {
	t.Parallel()

	key := CanonicalKey(itemWithURL("https://arxiv.org/pdf/2602.06570v1.pdf", news.SourceArxiv))
	if key != "arxiv:2602.06570" {
		t.Fatalf("unexpected canonical key: %q", key)
	}
}

func TestCanonicalKey_HFPapers(t *testing.T) {
	t.Parallel()

	key := CanonicalKey(itemWithURL("https://huggingface.co/papers/2602.06570", news.SourceHFPapers))
	if key != "arxiv:2602.06570" {
		t.Fatalf("unexpected canonical key: %q", key)
	}
}

func TestCanonicalKey_SameKeyAcrossSources(t *testing.T) {
	t.Parallel()

	arxivKey := CanonicalKey(itemWithURL("http://arxiv.org/abs/2602.06570v1", news.SourceArxiv))
	hfKey := CanonicalKey(itemWithURL("https://huggingface.co/papers/2602.06570", news.SourceHFPapers))
	if arxivKey == "" || arxivKey != hfKey {
		t.Fatalf("expected identical keys across sources, got %q and %q", arxivKey, hfKey)
	}
}

func TestCanonicalKey_NoMatch(t *testing.T) {
	t.Parallel()

	if key := CanonicalKey(itemWithURL("https://openai.com/blog/test", news.SourceBlog)); key != "" {
		t.Fatalf("expected no key for blog URL, got %q", key)
	}
	if key := CanonicalKey(itemWithURL("https://github.com/openai/gpt", news.SourceGitHub)); key != "" {
		t.Fatalf("expected no key for github URL, got %q", key)
	}
	if key := CanonicalKey(news.Item{}); key != "" {
		t.Fatalf("expected no key for empty URL, got %q", key)
	}
}
