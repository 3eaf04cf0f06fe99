package dedup

import (
	"net/url"
	"sort"
	"strings"
)

// Tracking query parameters stripped during URL normalization. Keys are
// matched case-insensitively.
var trackingQueryKeys = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_content":  {},
	"utm_term":     {},
	"ref":          {},
	"source":       {},
	"fbclid":       {},
	"gclid":        {},
	"mc_cid":       {},
	"mc_eid":       {},
}

// NormalizeURL rewrites a raw URL into a canonical comparable form so that
// trivially-different URLs for the same resource compare equal: the scheme
// is forced to https, a leading www. label and the fragment are dropped,
// the trailing slash is stripped, and tracking query parameters are removed.
//
// Normalization never fails. Empty or whitespace-only input is returned
// unchanged, and input that does not parse as a URL falls through with only
// whitespace trimmed.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return trimmed
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if port := parsed.Port(); port != "" && port != "80" && port != "443" {
		host = host + ":" + port
	}

	path := strings.TrimRight(parsed.EscapedPath(), "/")

	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(host)
	b.WriteString(path)

	if query := normalizeQuery(parsed.Query()); query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	return b.String()
}

func normalizeQuery(values url.Values) string {
	for key := range values {
		if _, blocked := trackingQueryKeys[strings.ToLower(key)]; blocked {
			values.Del(key)
		}
	}
	if len(values) == 0 {
		return ""
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	kept := url.Values{}
	for _, key := range keys {
		for _, value := range values[key] {
			kept.Add(key, value)
		}
	}
	return kept.Encode()
}
