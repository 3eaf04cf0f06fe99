// Package archive persists pipeline runs to Postgres. The archive is
// optional: it is wired up only when DATABASE_URL is set, and the
// serve subcommand reads past runs from it.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"horse.fit/llm-news/internal/news"
)

// Run records one pipeline run.
type Run struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Date            string    `gorm:"column:date;type:text;not null;index" json:"date"`
	TotalCollected  int       `gorm:"column:total_collected;not null" json:"total_collected"`
	TotalAfterDedup int       `gorm:"column:total_after_dedup;not null" json:"total_after_dedup"`
	LLMOK           bool      `gorm:"column:llm_ok;not null" json:"llm_ok"`
	HasScript       bool      `gorm:"column:has_script;not null" json:"has_script"`
	CreatedAt       time.Time `gorm:"column:created_at;not null" json:"created_at"`

	Items []RunItem `gorm:"foreignKey:RunID" json:"items,omitempty"`
}

func (Run) TableName() string { return "runs" }

// RunItem records one top item of a run.
type RunItem struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RunID       int64      `gorm:"column:run_id;not null;index" json:"-"`
	Rank        int        `gorm:"column:rank;not null" json:"rank"`
	Title       string     `gorm:"column:title;type:text;not null" json:"title"`
	URL         string     `gorm:"column:url;type:text;not null" json:"url"`
	Source      string     `gorm:"column:source;type:text;not null" json:"source"`
	SourceName  string     `gorm:"column:source_name;type:text" json:"source_name"`
	Summary     string     `gorm:"column:summary;type:text" json:"summary"`
	Score       float64    `gorm:"column:score;not null" json:"score"`
	Language    string     `gorm:"column:language;type:text" json:"language,omitempty"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
}

func (RunItem) TableName() string { return "run_items" }

// Store wraps the gorm handle.
type Store struct {
	gdb    *gorm.DB
	logger zerolog.Logger
}

// Open connects to Postgres, applies the schema, and returns the store.
func Open(ctx context.Context, databaseURL string, logger zerolog.Logger) (*Store, error) {
	gdb, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get archive sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}

	if err := gdb.WithContext(ctx).AutoMigrate(&Run{}, &RunItem{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate archive schema: %w", err)
	}

	return &Store{gdb: gdb, logger: logger}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun archives a report and its top items.
func (s *Store) SaveRun(ctx context.Context, report news.Report) error {
	run := Run{
		Date:            report.Date,
		TotalCollected:  report.TotalCollected,
		TotalAfterDedup: report.TotalAfterDedup,
		LLMOK:           report.LLMOK,
		HasScript:       report.Script != "",
	}
	for i, item := range report.TopItems {
		run.Items = append(run.Items, RunItem{
			Rank:        i + 1,
			Title:       item.Title,
			URL:         item.URL,
			Source:      item.Source,
			SourceName:  item.SourceName,
			Summary:     item.Summary,
			Score:       item.Score,
			Language:    item.Language,
			PublishedAt: item.PublishedAt,
		})
	}

	if err := s.gdb.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("archive run: %w", err)
	}
	s.logger.Info().
		Int64("run_id", run.ID).
		Str("date", run.Date).
		Int("items", len(run.Items)).
		Msg("run archived")
	return nil
}

// RecentRuns returns the latest runs without their items, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 30
	}
	var runs []Run
	err := s.gdb.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list archived runs: %w", err)
	}
	return runs, nil
}

// RunByDate returns the most recent run for a date, items included.
func (s *Store) RunByDate(ctx context.Context, date string) (*Run, error) {
	var run Run
	err := s.gdb.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank ASC")
		}).
		Where("date = ?", date).
		Order("created_at DESC").
		First(&run).Error
	if err != nil {
		return nil, fmt.Errorf("load run for %s: %w", date, err)
	}
	return &run, nil
}
