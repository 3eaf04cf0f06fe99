package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/globaltime"
	"horse.fit/llm-news/internal/news"
)

// freshness window for feed entries without their own cutoff
const blogMaxAge = 48 * time.Hour

// Blogs fetches the configured RSS/Atom feeds of AI lab blogs.
type Blogs struct {
	parser *gofeed.Parser
	feeds  []config.BlogSource
}

func NewBlogs(feeds []config.BlogSource) *Blogs {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &Blogs{parser: parser, feeds: feeds}
}

func (b *Blogs) Name() string   { return "lab blogs" }
func (b *Blogs) Source() string { return news.SourceBlog }

func (b *Blogs) Collect(ctx context.Context) ([]news.Item, error) {
	now := globaltime.UTC()
	cutoff := now.Add(-blogMaxAge)

	var items []news.Item
	var failures []string

	for _, source := range b.feeds {
		feed, err := b.parser.ParseURLWithContext(source.URL, ctx)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", source.Name, err))
			continue
		}

		for _, entry := range feed.Items {
			if entry.Link == "" || strings.TrimSpace(entry.Title) == "" {
				continue
			}

			published := entryPublished(entry)
			if published != nil && published.Before(cutoff) {
				continue
			}

			items = append(items, news.Item{
				Title:       strings.TrimSpace(entry.Title),
				URL:         entry.Link,
				Source:      news.SourceBlog,
				SourceName:  source.Name,
				Content:     entry.Description,
				PublishedAt: published,
				CollectedAt: now,
			})
		}
	}

	if len(items) == 0 && len(failures) > 0 {
		return nil, fmt.Errorf("all feeds failed: %s", strings.Join(failures, "; "))
	}
	return items, nil
}

func entryPublished(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed
	}
	return entry.UpdatedParsed
}
