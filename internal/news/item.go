// Package news holds the domain model shared by collectors, the
// deduplication engine, and the report pipeline.
package news

import "time"

// Source identifiers emitted by collectors. The dedup engine's priority
// table is keyed on these values; collectors must use them verbatim.
const (
	SourceArxiv          = "arxiv"
	SourceBlog           = "blog"
	SourceHFPapers       = "hf_papers"
	SourceHFModels       = "hf_models"
	SourceGitHub         = "github"
	SourceGitHubTrending = "github_trending"
	SourcePapersWithCode = "pwc"
	SourceHackerNews     = "hackernews"
	SourceReddit         = "reddit"
	SourceTwitter        = "twitter"
)

// Item is a single news item collected from any source.
//
// Collectors populate Title, URL, Source, SourceName, Content, Score and
// PublishedAt. Summary is filled by the LLM processor. The dedup engine
// never mutates an item; it may only replace one item with another.
type Item struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	SourceName  string     `json:"source_name"`
	Content     string     `json:"content,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Score       float64    `json:"score"`
	Language    string     `json:"language,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CollectedAt time.Time  `json:"collected_at"`
}

// Report is the aggregated daily report produced by one pipeline run.
type Report struct {
	Date            string `json:"date"` // YYYY-MM-DD
	TopItems        []Item `json:"top_items"`
	Script          string `json:"script,omitempty"` // broadcast script for TTS
	TotalCollected  int    `json:"total_collected"`
	TotalAfterDedup int    `json:"total_after_dedup"`
	LLMOK           bool   `json:"llm_ok"`
}
