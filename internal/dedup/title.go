package dedup

import (
	"strings"
	"unicode"
)

// Titles shorter than this after normalization never participate in title
// matching; short generic titles ("GPT-5") would otherwise merge unrelated
// items.
const minTitleMatchLength = 15

// NormalizeTitle canonicalizes a title for fallback fuzzy matching:
// lowercased, punctuation replaced by spaces, whitespace collapsed.
func NormalizeTitle(title string) string {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	lastSpace := true
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(unicode.ToLower(r))
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}
