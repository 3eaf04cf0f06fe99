package pages

import (
	"html/template"
	"strings"

	"horse.fit/llm-news/internal/news"
)

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"scoreStars": func(score float64) string {
		filled := int(score)
		if filled < 0 {
			filled = 0
		}
		if filled > 10 {
			filled = 10
		}
		return strings.Repeat("★", filled) + strings.Repeat("☆", 10-filled)
	},
	"blurb": func(item news.Item) string {
		if item.Summary != "" {
			return item.Summary
		}
		if item.Content == "" {
			return ""
		}
		runes := []rune(item.Content)
		if len(runes) > 200 {
			return string(runes[:200]) + "..."
		}
		return item.Content
	},
}

var reportTemplate = template.Must(template.New("report").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>LLM News Daily - {{.Report.Date}}</title>
  <style>{{.CSS}}</style>
</head>
<body>
  <header>
    <h1>🤖 LLM News Daily</h1>
    <p class="date">{{.Report.Date}}</p>
    <p class="stats">Collected {{.Report.TotalCollected}} items, top {{len .Report.TopItems}} after dedup &amp; ranking</p>
  </header>

  <section class="audio-player">
    <h3>🎧 Audio briefing</h3>
    <audio controls preload="metadata" style="width:100%">
      <source src="{{.AudioURL}}" type="audio/mpeg">
      Your browser cannot play audio; <a href="{{.AudioURL}}">download the MP3</a> instead.
    </audio>
  </section>

  <main>
{{- range $i, $item := .Report.TopItems}}
    <article class="news-item">
      <h2>{{inc $i}}. {{$item.Title}}</h2>
      <div class="meta-row">
        <span class="meta">📂 {{$item.Source}} / {{$item.SourceName}}</span>
        <span class="meta">⭐ {{printf "%.1f" $item.Score}}/10 {{scoreStars $item.Score}}</span>
        {{- if $item.PublishedAt}}
        <span class="meta">📅 {{$item.PublishedAt.UTC.Format "2006-01-02 15:04 UTC"}}</span>
        {{- end}}
      </div>
      <blockquote>{{blurb $item}}</blockquote>
      <a href="{{$item.URL}}" target="_blank" rel="noopener">🔗 Read original</a>
    </article>
{{- end}}
  </main>

  <footer>
    <a href="{{.SiteURL}}/">← All reports</a>
    <p>Powered by <strong>LLM News</strong> · Auto-generated</p>
  </footer>
</body>
</html>
`))

var indexTemplate = template.Must(template.New("index").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>LLM News Daily</title>
  <style>{{.CSS}}</style>
</head>
<body>
  <header>
    <h1>🤖 LLM News Daily</h1>
    <p class="stats">A daily digest of LLM / AI news, auto-aggregated</p>
  </header>

  <main>
    <section class="index-list">
      <h2>📅 Past reports</h2>
      <ul>
{{- range .Dates}}
        <li><a href="{{$.SiteURL}}/{{.}}/">{{.}}</a></li>
{{- end}}
      </ul>
    </section>
  </main>

  <footer>
    <p>Powered by <strong>LLM News</strong> · Auto-generated</p>
  </footer>
</body>
</html>
`))

const siteCSS = `
    :root { color-scheme: light dark; }
    * { box-sizing: border-box; margin: 0; padding: 0; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      max-width: 720px; margin: 0 auto; padding: 16px; line-height: 1.6;
    }
    header { text-align: center; padding: 24px 0 16px; }
    header .date { color: #888; margin-top: 4px; }
    header .stats { color: #888; font-size: 0.9em; margin-top: 4px; }
    .audio-player { margin: 16px 0; padding: 16px; border: 1px solid #ddd; border-radius: 12px; }
    .audio-player h3 { margin-bottom: 8px; }
    .news-item { margin: 20px 0; padding: 16px; border: 1px solid #ddd; border-radius: 12px; }
    .news-item h2 { font-size: 1.1em; margin-bottom: 8px; }
    .meta-row { display: flex; flex-wrap: wrap; gap: 12px; margin-bottom: 8px; }
    .meta { color: #888; font-size: 0.85em; }
    blockquote { border-left: 3px solid #4a90d9; padding-left: 12px; color: #555; margin: 8px 0; }
    .news-item a { color: #4a90d9; text-decoration: none; font-size: 0.9em; }
    .index-list ul { list-style: none; padding: 0; }
    .index-list li { margin: 8px 0; padding: 12px 16px; border: 1px solid #ddd; border-radius: 8px; }
    .index-list a { color: #4a90d9; text-decoration: none; }
    .index-list a:hover { text-decoration: underline; }
    footer { text-align: center; padding: 24px 0; color: #888; font-size: 0.85em; }
    footer a { color: #4a90d9; text-decoration: none; margin-bottom: 8px; display: inline-block; }
    @media (prefers-color-scheme: dark) {
      .news-item, .audio-player, .index-list li { border-color: #333; }
      blockquote { color: #aaa; }
    }
`
