// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/cellarist/decanter/internal/model"
)

// CatalogStore defines the contract for the canonical wine catalog.
// Every lookup is implicitly scoped to canonical (non-owned) records;
// FindOne returns (nil, nil) when nothing matches, since an absent
// record is an expected outcome rather than an error.
type CatalogStore interface {
	// Catalog record operations
	FindOne(ctx context.Context, filter Predicate) (*model.Wine, error)
	FindMany(ctx context.Context, filter Predicate, limit int) ([]model.Wine, error)
	ListCatalog(ctx context.Context, limit int) ([]model.Wine, error)
	Insert(ctx context.Context, wine *model.Wine) (*model.Wine, error)
	Update(ctx context.Context, wine *model.Wine) error

	// Import run tracking
	RecordImportRun(ctx context.Context, run *model.ImportRun) error
	ListImportRuns(ctx context.Context, limit int) ([]model.ImportRun, error)

	// Reporting aggregates
	CatalogStats(ctx context.Context) (*CatalogStats, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportWriter exports the catalog and its import history to an
// external destination such as a spreadsheet.
type ReportWriter interface {
	Write(ctx context.Context, wines []model.Wine, runs []model.ImportRun, stats *CatalogStats) error
}

// ImportStats shows the results of one ingestion batch or file.
type ImportStats struct {
	Total    int
	Inserted int
	Updated  int
	Skipped  int
	Errors   int
	Duration time.Duration
}

// Add accumulates another batch's counters into s.
func (s *ImportStats) Add(other ImportStats) {
	s.Total += other.Total
	s.Inserted += other.Inserted
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Errors += other.Errors
	s.Duration += other.Duration
}

// CatalogStats contains aggregate catalog information for reporting.
type CatalogStats struct {
	ByCountry    map[string]int
	ByCategory   map[string]int
	LastImport   *time.Time
	TotalRecords int
	WithLWIN     int
}
