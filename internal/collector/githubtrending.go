package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/globaltime"
	"horse.fit/llm-news/internal/httpclient"
	"horse.fit/llm-news/internal/news"
)

// GitHubTrending scrapes the daily trending page.
type GitHubTrending struct {
	client   *httpclient.Polite
	language string
	keywords *KeywordFilter
}

func NewGitHubTrending(client *httpclient.Polite, cfg config.GithubTrendingConfig, keywords *KeywordFilter) *GitHubTrending {
	return &GitHubTrending{
		client:   client,
		language: cfg.Language,
		keywords: keywords,
	}
}

func (g *GitHubTrending) Name() string   { return "GitHub trending" }
func (g *GitHubTrending) Source() string { return news.SourceGitHubTrending }

func (g *GitHubTrending) Collect(ctx context.Context) ([]news.Item, error) {
	pageURL := "https://github.com/trending"
	if g.language != "" {
		pageURL += "/" + g.language
	}
	pageURL += "?since=daily"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request trending page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse trending page: %w", err)
	}

	now := globaltime.UTC()
	var items []news.Item

	doc.Find("article.Box-row").Each(func(_ int, row *goquery.Selection) {
		href, ok := row.Find("h2 a").Attr("href")
		if !ok {
			return
		}
		repo := strings.Trim(href, "/")
		description := strings.TrimSpace(row.Find("p").First().Text())

		// The repo slug alone rarely matches keywords, so check the
		// description too.
		if !g.keywords.Match(repo + " " + description) {
			return
		}

		items = append(items, news.Item{
			Title:       repo,
			URL:         "https://github.com/" + repo,
			Source:      news.SourceGitHubTrending,
			SourceName:  "GitHub Trending",
			Content:     description,
			CollectedAt: now,
		})
	})

	return items, nil
}
