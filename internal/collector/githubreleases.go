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
	githubAPIBase       = "https://api.github.com"
	releasesPerRepo     = 5
	releaseBodyMaxChars = 1000
)

// GitHubReleases tracks releases of curated repositories via the GitHub
// REST API. A token raises the rate limit from 60 to 5000 requests per
// hour; anonymous access still works for public repos.
type GitHubReleases struct {
	client  *httpclient.Polite
	apiBase string
	repos   []string
	token   string
}

func NewGitHubReleases(client *httpclient.Polite, cfg config.GithubConfig, token string) *GitHubReleases {
	return &GitHubReleases{
		client:  client,
		apiBase: githubAPIBase,
		repos:   cfg.Repos,
		token:   token,
	}
}

func (g *GitHubReleases) Name() string   { return "GitHub releases" }
func (g *GitHubReleases) Source() string { return news.SourceGitHub }

type githubRelease struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Body        string    `json:"body"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
}

func (g *GitHubReleases) Collect(ctx context.Context) ([]news.Item, error) {
	now := globaltime.UTC()

	var items []news.Item
	var failures []string

	for _, repo := range g.repos {
		releases, err := g.fetchReleases(ctx, repo)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", repo, err))
			continue
		}
		for _, release := range releases {
			items = append(items, releaseItem(repo, release, now))
		}
	}

	if len(items) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("all repos failed: %s", strings.Join(failures, "; "))
	}
	return items, nil
}

func (g *GitHubReleases) fetchReleases(ctx context.Context, repo string) ([]githubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/releases?per_page=%d", g.apiBase, repo, releasesPerRepo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Some repos only tag and never publish releases.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var releases []githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decode releases: %w", err)
	}
	return releases, nil
}

func releaseItem(repo string, release githubRelease, now time.Time) news.Item {
	name := release.Name
	if name == "" {
		name = release.TagName
	}

	item := news.Item{
		Title:       repo + " " + name,
		URL:         release.HTMLURL,
		Source:      news.SourceGitHub,
		SourceName:  repo,
		Content:     clipRunes(release.Body, releaseBodyMaxChars),
		CollectedAt: now,
	}
	if !release.PublishedAt.IsZero() {
		published := release.PublishedAt
		item.PublishedAt = &published
	}
	return item
}
