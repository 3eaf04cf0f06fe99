// Package pages builds the static site: one HTML page per report day
// plus an index listing all days. The serve subcommand exposes the
// result, or it can be published as-is to any static host.
package pages

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/llm-news/internal/news"
)

var dayDirExpr = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Builder writes the static site under pagesDir.
type Builder struct {
	pagesDir  string
	outputDir string
	siteURL   string
	logger    zerolog.Logger
}

func NewBuilder(pagesDir, outputDir, siteURL string, logger zerolog.Logger) *Builder {
	return &Builder{
		pagesDir:  pagesDir,
		outputDir: outputDir,
		siteURL:   strings.TrimRight(siteURL, "/"),
		logger:    logger,
	}
}

type reportPageData struct {
	Report   news.Report
	SiteURL  string
	AudioURL string
	CSS      template.CSS
}

type indexPageData struct {
	Dates   []string
	SiteURL string
	CSS     template.CSS
}

// Build renders the day page for the report, copies its audio when
// present, and rebuilds the index over every day directory found.
func (b *Builder) Build(report news.Report) error {
	dayDir := filepath.Join(b.pagesDir, report.Date)
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return fmt.Errorf("create pages day directory: %w", err)
	}

	data := reportPageData{
		Report:   report,
		SiteURL:  b.siteURL,
		AudioURL: fmt.Sprintf("%s/%s/daily_report.mp3", b.siteURL, report.Date),
		CSS:      template.CSS(siteCSS),
	}
	if err := renderToFile(reportTemplate, filepath.Join(dayDir, "index.html"), data); err != nil {
		return err
	}
	b.logger.Info().Str("dir", dayDir).Msg("generated report page")

	audioSrc := filepath.Join(b.outputDir, report.Date, "daily_report.mp3")
	if err := copyFile(audioSrc, filepath.Join(dayDir, "daily_report.mp3")); err != nil {
		if os.IsNotExist(err) {
			b.logger.Warn().Str("path", audioSrc).Msg("audio missing, player will be silent")
		} else {
			return fmt.Errorf("copy audio: %w", err)
		}
	}

	dates, err := b.listDates()
	if err != nil {
		return err
	}
	indexData := indexPageData{Dates: dates, SiteURL: b.siteURL, CSS: template.CSS(siteCSS)}
	if err := renderToFile(indexTemplate, filepath.Join(b.pagesDir, "index.html"), indexData); err != nil {
		return err
	}
	b.logger.Info().Int("reports", len(dates)).Msg("generated index page")

	// Keeps GitHub Pages from running the site through Jekyll.
	if err := os.WriteFile(filepath.Join(b.pagesDir, ".nojekyll"), nil, 0o644); err != nil {
		return fmt.Errorf("write .nojekyll: %w", err)
	}

	return nil
}

// listDates returns every day directory under pagesDir, newest first.
func (b *Builder) listDates() ([]string, error) {
	entries, err := os.ReadDir(b.pagesDir)
	if err != nil {
		return nil, fmt.Errorf("scan pages directory: %w", err)
	}

	var dates []string
	for _, entry := range entries {
		if entry.IsDir() && dayDirExpr.MatchString(entry.Name()) {
			dates = append(dates, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

func renderToFile(tmpl *template.Template, path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
