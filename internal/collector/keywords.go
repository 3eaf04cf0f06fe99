package collector

import "strings"

// defaults used when the config lists no keywords
var defaultKeywords = []string{
	"llm", "gpt", "claude", "gemini", "llama", "mistral", "deepseek",
	"qwen", "openai", "anthropic", "language model", "transformer",
	"fine-tun", "rag", "agent", "diffusion", "multimodal",
	"machine learning", "deep learning", "neural",
}

// KeywordFilter decides whether a title is on-topic for sources that
// carry general content, like Hacker News and Reddit.
type KeywordFilter struct {
	keywords []string
}

func NewKeywordFilter(keywords []string) *KeywordFilter {
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			lowered = append(lowered, keyword)
		}
	}
	return &KeywordFilter{keywords: lowered}
}

// Match reports whether the title contains any keyword,
// case-insensitively.
func (f *KeywordFilter) Match(title string) bool {
	lowered := strings.ToLower(title)
	for _, keyword := range f.keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
