package collector

import (
	"time"

	"horse.fit/llm-news/internal/config"
	"horse.fit/llm-news/internal/httpclient"
)

// BuildRegistry assembles the collectors enabled by the config. The
// set of supported sources is fixed at compile time; the config only
// switches entries on and off and tunes them.
func BuildRegistry(app *config.App, secrets *config.Secrets) []Collector {
	polite := httpclient.NewPolite(httpclient.Default(), 500*time.Millisecond, 2)
	keywords := NewKeywordFilter(app.Keywords)

	var collectors []Collector

	if len(app.Sources.Arxiv.Categories) > 0 {
		collectors = append(collectors, NewArxiv(polite, app.Sources.Arxiv))
	}
	if len(app.Sources.Blogs) > 0 {
		collectors = append(collectors, NewBlogs(app.Sources.Blogs))
	}
	if app.Sources.HFPapers.Enabled {
		collectors = append(collectors, NewHFPapers(polite, app.Sources.HFPapers))
	}
	if app.Sources.HFModels.Enabled {
		collectors = append(collectors, NewHFModels(polite, app.Sources.HFModels))
	}
	if app.Sources.PapersWithCode.Enabled {
		collectors = append(collectors, NewPapersWithCode(polite, app.Sources.PapersWithCode, keywords))
	}
	if len(app.Sources.Github.Repos) > 0 {
		collectors = append(collectors, NewGitHubReleases(polite, app.Sources.Github, secrets.GithubToken))
	}
	if app.Sources.GithubTrending.Enabled {
		collectors = append(collectors, NewGitHubTrending(polite, app.Sources.GithubTrending, keywords))
	}
	if app.Sources.HackerNews.Enabled {
		collectors = append(collectors, NewHackerNews(polite, app.Sources.HackerNews, keywords))
	}
	if len(app.Sources.Reddit.Subreddits) > 0 {
		collectors = append(collectors, NewReddit(polite, app.Sources.Reddit,
			secrets.RedditClientID, secrets.RedditClientSecret))
	}

	return collectors
}
