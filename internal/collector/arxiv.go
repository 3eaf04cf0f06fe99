package collector

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/globaltime"
	"horse.fit/llm-news/internal/httpclient"
	"horse.fit/llm-news/internal/news"
)

const arxivBaseURL = "https://arxiv.org"

var arxivIDExpr = regexp.MustCompile(`(\d{4}\.\d{4,5})`)

// Arxiv scrapes the daily listing pages of the configured categories.
type Arxiv struct {
	client     *httpclient.Polite
	categories []string
	maxResults int
}

func NewArxiv(client *httpclient.Polite, cfg config.ArxivConfig) *Arxiv {
	return &Arxiv{
		client:     client,
		categories: cfg.Categories,
		maxResults: cfg.MaxResults,
	}
}

func (a *Arxiv) Name() string   { return "arXiv listings" }
func (a *Arxiv) Source() string { return news.SourceArxiv }

func (a *Arxiv) Collect(ctx context.Context) ([]news.Item, error) {
	if len(a.categories) == 0 {
		return nil, nil
	}

	now := globaltime.UTC()
	seen := map[string]struct{}{}
	var items []news.Item

	for _, category := range a.categories {
		listURL := fmt.Sprintf("%s/list/%s/new", arxivBaseURL, category)

		doc, err := a.fetchDocument(ctx, listURL)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", category, err)
		}

		doc.Find("dl > dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
			if a.maxResults > 0 && len(items) >= a.maxResults {
				return false
			}

			href, ok := dt.Find(`a[href^="/abs/"]`).Attr("href")
			if !ok {
				return true
			}
			id := arxivIDExpr.FindString(href)
			if id == "" {
				return true
			}
			if _, dup := seen[id]; dup {
				return true
			}

			dd := dt.Next()
			title := cleanArxivTitle(dd.Find("div.list-title").Text())
			if title == "" {
				return true
			}
			abstract := strings.TrimSpace(dd.Find("p.mathjax").Text())

			seen[id] = struct{}{}
			items = append(items, news.Item{
				Title:       title,
				URL:         arxivBaseURL + "/abs/" + id,
				Source:      news.SourceArxiv,
				SourceName:  "arXiv " + category,
				Content:     abstract,
				CollectedAt: now,
			})
			return true
		})
	}

	return items, nil
}

func (a *Arxiv) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	return doc, nil
}

func cleanArxivTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.TrimPrefix(title, "Title:")
	return strings.Join(strings.Fields(title), " ")
}
