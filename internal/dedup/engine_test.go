package dedup

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/llm-news/internal/news"
)

func testEngine() *Engine {
	return NewEngine(zerolog.Nop())
}

func makeItem(title, url, source string) news.Item {
	return news.Item{
		Title:      title,
		URL:        url,
		Source:     source,
		SourceName: "Test",
	}
}

func TestDeduplicate_ArxivBeatsHFPapers(t *testing.T) {
	t.Parallel()

	hf := makeItem(
		"Baichuan-M3: Modeling Clinical Inquiry for Reliable Medical Decision-Making",
		"https://huggingface.co/papers/2602.06570",
		news.SourceHFPapers,
	)
	arxiv := makeItem(
		"Baichuan-M3: Modeling Clinical Inquiry for Reliable Medical Decision-Making",
		"http://arxiv.org/abs/2602.06570v1",
		news.SourceArxiv,
	)

	result := testEngine().Deduplicate([]news.Item{hf, arxiv}, NewHistory())
	if len(result) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result))
	}
	if result[0].Source != news.SourceArxiv {
		t.Fatalf("expected arxiv to survive, got %q", result[0].Source)
	}
}

func TestDeduplicate_WinnerIndependentOfOrder(t *testing.T) {
	t.Parallel()

	arxiv := makeItem(
		"Baichuan-M3: Modeling Clinical Inquiry for Reliable Medical Decision-Making",
		"http://arxiv.org/abs/2602.06570v1",
		news.SourceArxiv,
	)
	hf := makeItem(
		"Baichuan-M3: Modeling Clinical Inquiry for Reliable Medical Decision-Making",
		"https://huggingface.co/papers/2602.06570",
		news.SourceHFPapers,
	)

	forward := testEngine().Deduplicate([]news.Item{arxiv, hf}, NewHistory())
	backward := testEngine().Deduplicate([]news.Item{hf, arxiv}, NewHistory())

	if len(forward) != 1 || len(backward) != 1 {
		t.Fatalf("expected 1 survivor in both orders, got %d and %d", len(forward), len(backward))
	}
	if forward[0].Source != news.SourceArxiv || backward[0].Source != news.SourceArxiv {
		t.Fatalf("expected arxiv to survive in both orders, got %q and %q",
			forward[0].Source, backward[0].Source)
	}
}

func TestDeduplicate_BlogBeatsHackerNewsOnNormalizedURL(t *testing.T) {
	t.Parallel()

	hn := makeItem(
		"Testing Ads in ChatGPT",
		"https://openai.com/index/testing-ads-in-chatgpt/",
		news.SourceHackerNews,
	)
	blog := makeItem(
		"Testing ads in ChatGPT",
		"https://openai.com/index/testing-ads-in-chatgpt",
		news.SourceBlog,
	)

	for _, batch := range [][]news.Item{{hn, blog}, {blog, hn}} {
		result := testEngine().Deduplicate(batch, NewHistory())
		if len(result) != 1 {
			t.Fatalf("expected 1 item, got %d", len(result))
		}
		if result[0].Source != news.SourceBlog {
			t.Fatalf("expected blog to survive, got %q", result[0].Source)
		}
	}
}

func TestDeduplicate_TitleMatchAcrossDifferentURLs(t *testing.T) {
	t.Parallel()

	a := makeItem("Some Breaking AI News Title Here", "https://site-a.com/news/12345", news.SourceBlog)
	b := makeItem("Some Breaking AI News Title Here", "https://site-b.com/posts/67890", news.SourceHackerNews)

	result := testEngine().Deduplicate([]news.Item{a, b}, NewHistory())
	if len(result) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result))
	}
	if result[0].Source != news.SourceBlog {
		t.Fatalf("expected blog to survive, got %q", result[0].Source)
	}
}

func TestDeduplicate_ShortTitleNeverMerges(t *testing.T) {
	t.Parallel()

	a := makeItem("GPT-5", "https://a.com/1", news.SourceBlog)
	b := makeItem("GPT-5", "https://b.com/2", news.SourceHackerNews)

	result := testEngine().Deduplicate([]news.Item{a, b}, NewHistory())
	if len(result) != 2 {
		t.Fatalf("expected short identical titles to keep both items, got %d", len(result))
	}
}

func TestDeduplicate_NoDuplicates(t *testing.T) {
	t.Parallel()

	batch := []news.Item{
		makeItem("News A", "https://a.com/1", news.SourceBlog),
		makeItem("News B", "https://b.com/2", news.SourceArxiv),
		makeItem("News C", "https://c.com/3", news.SourceHackerNews),
	}

	result := testEngine().Deduplicate(batch, NewHistory())
	if len(result) != 3 {
		t.Fatalf("expected all 3 items to survive, got %d", len(result))
	}
}

func TestDeduplicate_HistoryRawURL(t *testing.T) {
	t.Parallel()

	hist := NewHistory()
	hist.URLs["https://x.com/a"] = struct{}{}

	result := testEngine().Deduplicate([]news.Item{
		makeItem("Old Item", "https://x.com/a", news.SourceBlog),
	}, hist)
	if len(result) != 0 {
		t.Fatalf("expected history to suppress the item, got %d survivors", len(result))
	}
}

func TestDeduplicate_HistoryNormalizedURL(t *testing.T) {
	t.Parallel()

	hist := NewHistory()
	hist.URLs["http://example.com/old"] = struct{}{}

	result := testEngine().Deduplicate([]news.Item{
		makeItem("Old Item", "https://example.com/old", news.SourceBlog),
	}, hist)
	if len(result) != 0 {
		t.Fatalf("expected normalized history URL to suppress the item, got %d survivors", len(result))
	}
}

func TestDeduplicate_HistoryCanonicalKey(t *testing.T) {
	t.Parallel()

	hist := NewHistory()
	hist.CanonicalKeys["arxiv:2602.06570"] = struct{}{}

	result := testEngine().Deduplicate([]news.Item{
		makeItem("Paper X", "https://huggingface.co/papers/2602.06570", news.SourceHFPapers),
	}, hist)
	if len(result) != 0 {
		t.Fatalf("expected history canonical key to suppress the item, got %d survivors", len(result))
	}
}

func TestDeduplicate_EmptyInput(t *testing.T) {
	t.Parallel()

	if result := testEngine().Deduplicate(nil, NewHistory()); len(result) != 0 {
		t.Fatalf("expected empty output for empty input, got %d", len(result))
	}
}

func TestDeduplicate_ThreeSourcesSamePaper(t *testing.T) {
	t.Parallel()

	arxiv := makeItem(
		"Amazing New LLM Research Paper Title",
		"http://arxiv.org/abs/2602.99999v1",
		news.SourceArxiv,
	)
	hf := makeItem(
		"Amazing New LLM Research Paper Title",
		"https://huggingface.co/papers/2602.99999",
		news.SourceHFPapers,
	)
	reddit := makeItem(
		"Amazing New LLM Research Paper Title",
		"https://reddit.com/r/MachineLearning/comments/abc123",
		news.SourceReddit,
	)

	result := testEngine().Deduplicate([]news.Item{hf, reddit, arxiv}, NewHistory())
	if len(result) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result))
	}
	if result[0].Source != news.SourceArxiv {
		t.Fatalf("expected arxiv to survive, got %q", result[0].Source)
	}
}

func TestDeduplicate_ReplacementRefreshesIndices(t *testing.T) {
	t.Parallel()

	// A reddit thread registers by title; the arxiv paper replaces it by
	// title match. A later HF item for the same paper must then match the
	// arxiv occupant by canonical key, not create a new entry.
	reddit := makeItem(
		"Amazing New LLM Research Paper Title",
		"https://reddit.com/r/MachineLearning/comments/abc123",
		news.SourceReddit,
	)
	arxiv := makeItem(
		"Amazing New LLM Research Paper Title",
		"http://arxiv.org/abs/2602.99999v1",
		news.SourceArxiv,
	)
	hf := makeItem(
		"Amazing New LLM Research Paper Title",
		"https://huggingface.co/papers/2602.99999",
		news.SourceHFPapers,
	)

	result := testEngine().Deduplicate([]news.Item{reddit, arxiv, hf}, NewHistory())
	if len(result) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result))
	}
	if result[0].Source != news.SourceArxiv {
		t.Fatalf("expected arxiv to survive, got %q", result[0].Source)
	}
}

func TestDeduplicate_EqualPriorityKeepsEarlier(t *testing.T) {
	t.Parallel()

	first := makeItem("The Same Long Announcement Title", "https://a.com/post", news.SourceBlog)
	second := makeItem("The Same Long Announcement Title", "https://b.com/post", news.SourceBlog)

	result := testEngine().Deduplicate([]news.Item{first, second}, NewHistory())
	if len(result) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result))
	}
	if result[0].URL != "https://a.com/post" {
		t.Fatalf("expected the earlier-registered entry to survive, got %q", result[0].URL)
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	t.Parallel()

	hist := NewHistory()
	hist.URLs["https://seen.example.com/before"] = struct{}{}

	batch := []news.Item{
		makeItem("Paper X Long Enough Title", "https://huggingface.co/papers/2602.06570", news.SourceHFPapers),
		makeItem("Paper X Long Enough Title", "http://arxiv.org/abs/2602.06570v1", news.SourceArxiv),
		makeItem("Unrelated Item Entirely", "https://other.example.com/post", news.SourceBlog),
		makeItem("Previously Reported", "https://seen.example.com/before", news.SourceBlog),
	}

	engine := testEngine()
	once := engine.Deduplicate(batch, hist)
	twice := engine.Deduplicate(once, hist)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected deduplication to be idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestSourcePriority_Ordering(t *testing.T) {
	t.Parallel()

	if SourcePriority(news.SourceArxiv) >= SourcePriority(news.SourceHFPapers) {
		t.Fatalf("expected arxiv to outrank hf_papers")
	}
	if SourcePriority(news.SourceBlog) >= SourcePriority(news.SourceHackerNews) {
		t.Fatalf("expected blog to outrank hackernews")
	}
	if SourcePriority(news.SourceGitHub) >= SourcePriority(news.SourceGitHubTrending) {
		t.Fatalf("expected github to outrank github_trending")
	}
	if SourcePriority("somewhere_else") != unknownSourcePriority {
		t.Fatalf("expected unknown source to get the sentinel rank")
	}
	if SourcePriority(news.SourceTwitter) >= unknownSourcePriority {
		t.Fatalf("expected every known source to outrank the sentinel")
	}
}
