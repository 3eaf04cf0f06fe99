package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/globaltime"
	"horse.fit/llm-news/internal/httpclient"
	"horse.fit/llm-news/internal/news"
)

const (
	pwcAPIBase          = "https://paperswithcode.com/api/v1/papers/"
	pwcAbstractMaxChars = 500
)

// PapersWithCode fetches the latest papers that ship with a code
// implementation. Items link to the arXiv abstract when one exists so
// cross-source matching can collapse them with arXiv listings.
type PapersWithCode struct {
	client   *httpclient.Polite
	apiBase  string
	limit    int
	keywords *KeywordFilter
}

func NewPapersWithCode(client *httpclient.Polite, cfg config.PapersWithCodeConfig, keywords *KeywordFilter) *PapersWithCode {
	limit := cfg.Limit
	if limit <= 0 {
		limit = 50
	}
	return &PapersWithCode{
		client:   client,
		apiBase:  pwcAPIBase,
		limit:    limit,
		keywords: keywords,
	}
}

func (p *PapersWithCode) Name() string   { return "Papers with Code" }
func (p *PapersWithCode) Source() string { return news.SourcePapersWithCode }

type pwcPaper struct {
	Title     string   `json:"title"`
	Abstract  string   `json:"abstract"`
	URLAbs    string   `json:"url_abs"`
	ArxivID   string   `json:"arxiv_id"`
	Published string   `json:"published"`
	Authors   []string `json:"authors"`
	URL       string   `json:"url"`
}

func (p *PapersWithCode) Collect(ctx context.Context) ([]news.Item, error) {
	reqURL := fmt.Sprintf("%s?ordering=-published&items_per_page=%d", p.apiBase, p.limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request papers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("papers with code returned %s", resp.Status)
	}

	var payload struct {
		Results []pwcPaper `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode papers: %w", err)
	}

	now := globaltime.UTC()
	var items []news.Item
	for _, paper := range payload.Results {
		if strings.TrimSpace(paper.Title) == "" {
			continue
		}
		if !p.keywords.Match(paper.Title + " " + paper.Abstract) {
			continue
		}
		items = append(items, pwcItem(paper, now))
	}
	return items, nil
}

func pwcItem(paper pwcPaper, now time.Time) news.Item {
	pageURL := paper.URL
	if pageURL != "" && !strings.HasPrefix(pageURL, "http") {
		pageURL = "https://paperswithcode.com" + pageURL
	}

	paperURL := paper.URLAbs
	if paperURL == "" && paper.ArxivID != "" {
		paperURL = "https://arxiv.org/abs/" + paper.ArxivID
	}
	if paperURL == "" {
		paperURL = pageURL
	}

	var parts []string
	if len(paper.Authors) > 0 {
		authors := paper.Authors
		suffix := ""
		if len(authors) > 3 {
			authors = authors[:3]
			suffix = " et al."
		}
		parts = append(parts, "[Authors: "+strings.Join(authors, ", ")+suffix+"]")
	}
	if abstract := strings.TrimSpace(paper.Abstract); abstract != "" {
		parts = append(parts, clipRunes(abstract, pwcAbstractMaxChars))
	}
	if pageURL != "" {
		parts = append(parts, "[PwC: "+pageURL+"]")
	}

	item := news.Item{
		Title:       "[PwC] " + strings.TrimSpace(paper.Title),
		URL:         paperURL,
		Source:      news.SourcePapersWithCode,
		SourceName:  "Papers with Code",
		Content:     strings.Join(parts, " "),
		CollectedAt: now,
	}
	item.PublishedAt = parsePwcDate(paper.Published)
	return item
}

func parsePwcDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	return nil
}
