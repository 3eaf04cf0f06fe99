package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/globaltime"
	"horse.fit/llm-news/internal/httpclient"
	"horse.fit/llm-news/internal/news"
)

// Reddit reads the public listing API of the configured subreddits.
// When OAuth credentials are configured it authenticates first, which
// raises the rate limit Reddit grants the client.
type Reddit struct {
	client       *httpclient.Polite
	subreddits   []string
	timeFilter   string
	limit        int
	clientID     string
	clientSecret string

	token       string
	tokenExpiry time.Time
}

func NewReddit(client *httpclient.Polite, cfg config.RedditConfig, clientID, clientSecret string) *Reddit {
	timeFilter := cfg.TimeFilter
	if timeFilter == "" {
		timeFilter = "day"
	}
	return &Reddit{
		client:       client,
		subreddits:   cfg.Subreddits,
		timeFilter:   timeFilter,
		limit:        cfg.Limit,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

func (r *Reddit) Name() string   { return "Reddit" }
func (r *Reddit) Source() string { return news.SourceReddit }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				Permalink  string  `json:"permalink"`
				URL        string  `json:"url"`
				Selftext   string  `json:"selftext"`
				Score      float64 `json:"score"`
				CreatedUTC float64 `json:"created_utc"`
				Stickied   bool    `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (r *Reddit) Collect(ctx context.Context) ([]news.Item, error) {
	now := globaltime.UTC()
	var items []news.Item
	var failures []string

	for _, subreddit := range r.subreddits {
		listing, err := r.fetchTop(ctx, subreddit)
		if err != nil {
			failures = append(failures, fmt.Sprintf("r/%s: %v", subreddit, err))
			continue
		}

		for _, child := range listing.Data.Children {
			post := child.Data
			if post.Stickied || strings.TrimSpace(post.Title) == "" {
				continue
			}

			created := time.Unix(int64(post.CreatedUTC), 0).UTC()
			items = append(items, news.Item{
				Title:       strings.TrimSpace(post.Title),
				URL:         "https://www.reddit.com" + post.Permalink,
				Source:      news.SourceReddit,
				SourceName:  "r/" + subreddit,
				Content:     post.Selftext,
				Score:       post.Score,
				PublishedAt: &created,
				CollectedAt: now,
			})
		}
	}

	if len(items) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("all subreddits failed: %s", strings.Join(failures, "; "))
	}
	return items, nil
}

func (r *Reddit) fetchTop(ctx context.Context, subreddit string) (*redditListing, error) {
	base := "https://www.reddit.com"
	if token, err := r.accessToken(ctx); err == nil && token != "" {
		base = "https://oauth.reddit.com"
	}

	query := url.Values{}
	query.Set("t", r.timeFilter)
	if r.limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", r.limit))
	}
	endpoint := fmt.Sprintf("%s/r/%s/top.json?%s", base, url.PathEscape(subreddit), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if r.token != "" && base == "https://oauth.reddit.com" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned %s", resp.Status)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return &listing, nil
}

// accessToken fetches and caches an app-only OAuth token. Returns an
// empty token without error when no credentials are configured; the
// caller then falls back to the public endpoint.
func (r *Reddit) accessToken(ctx context.Context) (string, error) {
	if r.clientID == "" || r.clientSecret == "" {
		return "", nil
	}
	if r.token != "" && globaltime.UTC().Before(r.tokenExpiry) {
		return r.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://www.reddit.com/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(r.clientID, r.clientSecret)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %s", resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}

	r.token = payload.AccessToken
	r.tokenExpiry = globaltime.UTC().Add(time.Duration(payload.ExpiresIn-60) * time.Second)
	return r.token, nil
}
