// Package langdetect tags collected items with an ISO 639-1 language
// code so the report renderer can group or down-rank non-English items.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"horse.fit/llm-news/internal/news"
)

// Restricting the candidate set keeps the detector's model footprint
// small; these cover the languages the configured sources publish in.
var candidateLanguages = []lingua.Language{
	lingua.English,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Korean,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Russian,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Annotate fills Language on every item that does not carry one. Items
// with too little text keep an empty code.
func Annotate(items []news.Item) {
	for i := range items {
		if items[i].Language != "" {
			continue
		}
		sample := items[i].Title
		if items[i].Content != "" {
			sample = sample + " " + items[i].Content
		}
		items[i].Language = Detect(sample)
	}
}

// Detect returns the two-letter code for the text's language, or ""
// when the text is too short or the detector is unsure.
func Detect(text string) string {
	sample := strings.TrimSpace(text)
	if sample == "" {
		return ""
	}

	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
		}
	}
	if letterCount < 6 {
		return ""
	}

	language, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidateLanguages...).
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}
