// Package httpapi serves the generated static site and a small JSON
// API over past reports.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"horse.fit/llm-news/internal/archive"
)

var dateExpr = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server answers report queries from the archive when one is
// configured, falling back to the artifacts on disk otherwise.
type Server struct {
	store     *archive.Store // nil without DATABASE_URL
	outputDir string
	pagesDir  string
	logger    zerolog.Logger
	opts      Options
}

func NewServer(store *archive.Store, outputDir, pagesDir string, logger zerolog.Logger, opts Options) *Server {
	if strings.TrimSpace(opts.Host) == "" {
		opts.Host = "0.0.0.0"
	}
	if opts.Port <= 0 {
		opts.Port = 8090
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	return &Server{
		store:     store,
		outputDir: outputDir,
		pagesDir:  pagesDir,
		logger:    logger,
		opts:      opts,
	}
}

func (s *Server) Start(ctx context.Context) error {
	e := s.buildEcho()

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("llm-news server started")

	e.Server = httpServer
	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)

	api := e.Group("/api/v1")
	api.GET("/reports", s.handleReports)
	api.GET("/reports/:date", s.handleReportDetail)

	if s.pagesDir != "" {
		e.Static("/", s.pagesDir)
	}

	return e
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]string{"status": "ok"})
}

type reportSummary struct {
	Date            string `json:"date"`
	TotalCollected  int    `json:"total_collected,omitempty"`
	TotalAfterDedup int    `json:"total_after_dedup,omitempty"`
	LLMOK           bool   `json:"llm_ok"`
}

func (s *Server) handleReports(c echo.Context) error {
	if s.store != nil {
		runs, err := s.store.RecentRuns(c.Request().Context(), 60)
		if err != nil {
			s.logger.Error().Err(err).Msg("archive query failed")
			return internalError(c, "failed to list reports")
		}
		summaries := make([]reportSummary, 0, len(runs))
		for _, run := range runs {
			summaries = append(summaries, reportSummary{
				Date:            run.Date,
				TotalCollected:  run.TotalCollected,
				TotalAfterDedup: run.TotalAfterDedup,
				LLMOK:           run.LLMOK,
			})
		}
		return success(c, summaries)
	}

	dates, err := s.listOutputDates()
	if err != nil {
		s.logger.Error().Err(err).Msg("output scan failed")
		return internalError(c, "failed to list reports")
	}
	summaries := make([]reportSummary, 0, len(dates))
	for _, date := range dates {
		summaries = append(summaries, reportSummary{Date: date})
	}
	return success(c, summaries)
}

func (s *Server) handleReportDetail(c echo.Context) error {
	date := c.Param("date")
	if !dateExpr.MatchString(date) {
		return fail(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	if s.store != nil {
		run, err := s.store.RunByDate(c.Request().Context(), date)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fail(c, http.StatusNotFound, "no report for that date")
			}
			s.logger.Error().Err(err).Str("date", date).Msg("archive query failed")
			return internalError(c, "failed to load report")
		}
		return success(c, run)
	}

	raw, err := os.ReadFile(filepath.Join(s.outputDir, date, "raw_items.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return fail(c, http.StatusNotFound, "no report for that date")
		}
		s.logger.Error().Err(err).Str("date", date).Msg("read raw items failed")
		return internalError(c, "failed to load report")
	}

	var payload json.RawMessage = raw
	return success(c, payload)
}

func (s *Server) listOutputDates() ([]string, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dates []string
	for _, entry := range entries {
		if entry.IsDir() && dateExpr.MatchString(entry.Name()) {
			dates = append(dates, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}
