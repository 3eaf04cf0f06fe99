// Package config loads the two configuration layers: the application
// config (sources, keywords, pipeline tuning) from a YAML file, and
// secrets from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Secrets holds credentials and deployment settings read from the
// environment (optionally seeded from a .env file by the CLI layer).
type Secrets struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	OpenRouterAPIKey   string `envconfig:"OPENROUTER_API_KEY" default:""`
	RedditClientID     string `envconfig:"REDDIT_CLIENT_ID" default:""`
	RedditClientSecret string `envconfig:"REDDIT_CLIENT_SECRET" default:""`
	GithubToken        string `envconfig:"GITHUB_TOKEN" default:""`
	BarkDeviceKey      string `envconfig:"BARK_DEVICE_KEY" default:""`

	// When set, each run is archived to Postgres and exposed by serve.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
}

func LoadSecrets() (*Secrets, error) {
	var secrets Secrets
	if err := envconfig.Process("", &secrets); err != nil {
		return nil, err
	}
	return &secrets, nil
}

type ArxivConfig struct {
	Categories []string `yaml:"categories"`
	MaxResults int      `yaml:"max_results"`
}

type BlogSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type RedditConfig struct {
	Subreddits []string `yaml:"subreddits"`
	TimeFilter string   `yaml:"time_filter"`
	Limit      int      `yaml:"limit"`
}

type HFPapersConfig struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}

type HackerNewsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	StoryType string `yaml:"story_type"`
	Limit     int    `yaml:"limit"`
}

type HFModelsConfig struct {
	Enabled bool     `yaml:"enabled"`
	Orgs    []string `yaml:"orgs"`
	Limit   int      `yaml:"limit"`
}

type PapersWithCodeConfig struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}

// GithubConfig lists "owner/repo" slugs whose releases are tracked.
type GithubConfig struct {
	Repos []string `yaml:"repos"`
}

type GithubTrendingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"`
}

type SourcesConfig struct {
	Arxiv          ArxivConfig          `yaml:"arxiv"`
	Blogs          []BlogSource         `yaml:"blogs"`
	Reddit         RedditConfig         `yaml:"reddit"`
	HFPapers       HFPapersConfig       `yaml:"hf_papers"`
	HFModels       HFModelsConfig       `yaml:"hf_models"`
	PapersWithCode PapersWithCodeConfig `yaml:"pwc"`
	Github         GithubConfig         `yaml:"github"`
	HackerNews     HackerNewsConfig     `yaml:"hackernews"`
	GithubTrending GithubTrendingConfig `yaml:"github_trending"`
}

type LLMConfig struct {
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	TopN       int    `yaml:"top_n"`
	MaxRetries int    `yaml:"max_retries"`
}

type TTSConfig struct {
	Voice string `yaml:"voice"`
	Rate  string `yaml:"rate"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	PagesDir string `yaml:"pages_dir"`
}

type PushConfig struct {
	Enabled     bool   `yaml:"enabled"`
	SiteURL     string `yaml:"site_url"`
	BarkEnabled bool   `yaml:"bark_enabled"`
}

type HistoryConfig struct {
	Path string `yaml:"path"`
}

// App is the application config loaded from config.yaml. A missing file
// yields the defaults; a malformed file is an error.
type App struct {
	Sources  SourcesConfig `yaml:"sources"`
	Keywords []string      `yaml:"keywords"`
	LLM      LLMConfig     `yaml:"llm"`
	TTS      TTSConfig     `yaml:"tts"`
	Output   OutputConfig  `yaml:"output"`
	Push     PushConfig    `yaml:"push"`
	History  HistoryConfig `yaml:"history"`
}

func defaultApp() *App {
	return &App{
		Sources: SourcesConfig{
			Arxiv: ArxivConfig{
				Categories: []string{"cs.CL", "cs.AI", "cs.LG"},
				MaxResults: 50,
			},
			Reddit: RedditConfig{
				Subreddits: []string{"MachineLearning", "LocalLLaMA"},
				TimeFilter: "day",
				Limit:      25,
			},
			HFPapers:       HFPapersConfig{Enabled: true, Limit: 30},
			HFModels:       HFModelsConfig{Limit: 50},
			PapersWithCode: PapersWithCodeConfig{Limit: 50},
			HackerNews:     HackerNewsConfig{Enabled: true, StoryType: "topstories", Limit: 60},
		},
		LLM: LLMConfig{
			Model:      "deepseek/deepseek-r1:free",
			BaseURL:    "https://openrouter.ai/api/v1",
			TopN:       10,
			MaxRetries: 5,
		},
		TTS: TTSConfig{
			Voice: "en-US-AriaNeural",
			Rate:  "+10%",
		},
		Output:  OutputConfig{Dir: "output", PagesDir: "pages"},
		History: HistoryConfig{Path: "data/history.json"},
	}
}

// LoadApp reads the application config from the given YAML path.
func LoadApp(path string) (*App, error) {
	app := defaultApp()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return app, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, app); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := app.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return app, nil
}

func (a *App) Validate() error {
	if a.LLM.TopN < 1 {
		return fmt.Errorf("llm.top_n must be >= 1")
	}
	if a.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must be >= 0")
	}
	if strings.TrimSpace(a.Output.Dir) == "" {
		return fmt.Errorf("output.dir is required")
	}
	if strings.TrimSpace(a.Output.PagesDir) == "" {
		return fmt.Errorf("output.pages_dir is required")
	}
	if strings.TrimSpace(a.History.Path) == "" {
		return fmt.Errorf("history.path is required")
	}
	if a.Push.Enabled && strings.TrimSpace(a.Push.SiteURL) == "" {
		return fmt.Errorf("push.site_url is required when push is enabled")
	}
	for i, blog := range a.Sources.Blogs {
		if strings.TrimSpace(blog.URL) == "" {
			return fmt.Errorf("sources.blogs[%d].url is required", i)
		}
	}
	for i, repo := range a.Sources.Github.Repos {
		if !strings.Contains(repo, "/") {
			return fmt.Errorf("sources.github.repos[%d] must be owner/repo, got %q", i, repo)
		}
	}
	return nil
}
