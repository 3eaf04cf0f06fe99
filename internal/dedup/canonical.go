package dedup

import (
	"regexp"

	"horse.fit/llm-news/internal/news"
)

// A keyMatcher recognizes one URL shape that encodes a cross-source
// identifier. The first capture group holds the identifier; prefix is the
// namespace tag prepended to it so that every shape encoding the same
// identifier yields the same canonical key.
type keyMatcher struct {
	pattern *regexp.Regexp
	prefix  string
}

// Ordered list of known cross-source URL shapes. Adding support for a new
// identifier scheme means appending one matcher here; the engine needs no
// other change. Version suffixes (v1, v2, ...) are excluded from the
// capture so every revision of a paper maps to one key.
var keyMatchers = []keyMatcher{
	// arxiv.org/abs/2602.06570v1
	{regexp.MustCompile(`(?i)arxiv\.org/abs/(\d{4}\.\d{4,5})`), "arxiv:"},
	// arxiv.org/pdf/2602.06570v1.pdf
	{regexp.MustCompile(`(?i)arxiv\.org/pdf/(\d{4}\.\d{4,5})`), "arxiv:"},
	// huggingface.co/papers/2602.06570
	{regexp.MustCompile(`(?i)huggingface\.co/papers/(\d{4}\.\d{4,5})`), "arxiv:"},
}

// CanonicalKey extracts a content-addressed key from an item's URL when the
// URL matches a known cross-source identifier shape. It returns the empty
// string for the majority of items whose URLs carry no such identifier;
// this is a best-effort enrichment, not a requirement.
func CanonicalKey(item news.Item) string {
	for _, m := range keyMatchers {
		groups := m.pattern.FindStringSubmatch(item.URL)
		if len(groups) == 2 {
			return m.prefix + groups[1]
		}
	}
	return ""
}
