package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cellarist/decanter/internal/service"
	"github.com/huandu/go-sqlbuilder"
)

// CatalogStats aggregates canonical record counts for reporting.
func (s *SQLiteStorage) CatalogStats(ctx context.Context) (*service.CatalogStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	stats := &service.CatalogStats{
		ByCountry:  make(map[string]int),
		ByCategory: make(map[string]int),
	}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM wines WHERE owner IS NULL").Scan(&stats.TotalRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to count wines: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM wines WHERE owner IS NULL AND lwin7 IS NOT NULL").Scan(&stats.WithLWIN)
	if err != nil {
		return nil, fmt.Errorf("failed to count identified wines: %w", err)
	}

	if err := s.countGrouped(ctx, "country", stats.ByCountry); err != nil {
		return nil, err
	}
	if err := s.countGrouped(ctx, "category", stats.ByCategory); err != nil {
		return nil, err
	}

	// Selecting the column directly keeps its declared type, which the
	// driver needs to hand back a time.Time.
	var lastImport time.Time
	err = s.db.QueryRowContext(ctx,
		"SELECT finished_at FROM import_runs ORDER BY finished_at DESC LIMIT 1").Scan(&lastImport)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No imports yet
	case err != nil:
		return nil, fmt.Errorf("failed to find last import: %w", err)
	default:
		stats.LastImport = &lastImport
	}

	return stats, nil
}

func (s *SQLiteStorage) countGrouped(ctx context.Context, column string, into map[string]int) error {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(column, "COUNT(*)")
	sb.From("wines")
	sb.Where(sb.IsNull("owner"), sb.NotEqual(column, ""))
	sb.GroupBy(column)

	query, args := sb.Build()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to group wines by %s: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan %s count: %w", column, err)
		}
		into[key] = count
	}
	return rows.Err()
}
