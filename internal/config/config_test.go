package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAppMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	app, err := LoadApp(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadApp() error = %v", err)
	}
	if app.LLM.TopN != 10 {
		t.Fatalf("LLM.TopN = %d, want 10", app.LLM.TopN)
	}
	if app.History.Path != "data/history.json" {
		t.Fatalf("History.Path = %q", app.History.Path)
	}
	if !app.Sources.HFPapers.Enabled {
		t.Fatal("HFPapers should be enabled by default")
	}
}

func TestLoadAppOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
sources:
  arxiv:
    categories: [cs.CV]
    max_results: 5
  blogs:
    - name: OpenAI
      url: https://openai.com/blog/rss.xml
keywords: [llm, agents]
llm:
  top_n: 3
output:
  dir: out
history:
  path: state/history.json
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	app, err := LoadApp(path)
	if err != nil {
		t.Fatalf("LoadApp() error = %v", err)
	}
	if got := app.Sources.Arxiv.Categories; len(got) != 1 || got[0] != "cs.CV" {
		t.Fatalf("Arxiv.Categories = %v", got)
	}
	if app.LLM.TopN != 3 {
		t.Fatalf("LLM.TopN = %d, want 3", app.LLM.TopN)
	}
	if app.LLM.Model == "" {
		t.Fatal("LLM.Model default should survive partial override")
	}
	if len(app.Keywords) != 2 {
		t.Fatalf("Keywords = %v", app.Keywords)
	}
}

func TestLoadAppMalformedYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sources: [not: a: map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadApp(path); err == nil {
		t.Fatal("LoadApp() should fail on malformed YAML")
	}
}

func TestValidateRejectsBareGithubRepo(t *testing.T) {
	t.Parallel()

	app := defaultApp()
	app.Sources.Github.Repos = []string{"llama.cpp"}
	err := app.Validate()
	if err == nil || !strings.Contains(err.Error(), "sources.github.repos") {
		t.Fatalf("Validate() error = %v, want github repos error", err)
	}
}

func TestValidateRejectsPushWithoutSiteURL(t *testing.T) {
	t.Parallel()

	app := defaultApp()
	app.Push.Enabled = true
	err := app.Validate()
	if err == nil || !strings.Contains(err.Error(), "push.site_url") {
		t.Fatalf("Validate() error = %v, want push.site_url error", err)
	}
}
