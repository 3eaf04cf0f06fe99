package processor

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	thinkTagExpr  = regexp.MustCompile(`(?s)<think>.*?</think>`)
	codeFenceExpr = regexp.MustCompile("(?s)```(?:json)?\\s*\n?(.*?)```")
	entryExpr     = regexp.MustCompile(`\{\s*"index"\s*:\s*\d+\s*,\s*"summary"\s*:\s*"[^"]*"\s*,\s*"score"\s*:\s*\d+\.?\d*\s*\}`)
)

// extractJSONArray recovers a JSON array from an LLM response. Models
// wrap output in markdown fences or reasoning tags, prepend prose, and
// sometimes truncate mid-array at the token limit; each case is peeled
// off in turn. Returns empty when nothing parseable remains.
func extractJSONArray(text string) (string, bool) {
	text = thinkTagExpr.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if strings.Contains(text, "```") {
		if match := codeFenceExpr.FindStringSubmatch(text); match != nil {
			text = strings.TrimSpace(match[1])
		}
	}

	if json.Valid([]byte(text)) {
		return text, true
	}

	start := strings.Index(text, "[")
	if start == -1 {
		return "", false
	}

	if end := strings.LastIndex(text, "]"); end > start {
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}

	// Truncated array: rewind to the last complete object, strip the
	// trailing comma, and close the bracket.
	truncated := text[start:]
	if lastBrace := strings.LastIndex(truncated, "}"); lastBrace > 0 {
		repaired := strings.TrimRight(strings.TrimSpace(truncated[:lastBrace+1]), ",") + "\n]"
		if json.Valid([]byte(repaired)) {
			return repaired, true
		}
	}

	// Last resort: collect well-formed entry objects individually.
	if matches := entryExpr.FindAllString(text, -1); len(matches) > 0 {
		candidate := "[\n" + strings.Join(matches, ",\n") + "\n]"
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}

	return "", false
}
