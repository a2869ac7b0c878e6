package storage

import (
	"context"
	"fmt"

	"github.com/cellarist/decanter/internal/model"
	"github.com/huandu/go-sqlbuilder"
)

// RecordImportRun persists the outcome of one ingestion run.
func (s *SQLiteStorage) RecordImportRun(ctx context.Context, run *model.ImportRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateImportRun(run); err != nil {
		return err
	}

	ib := sqlbuilder.SQLite.NewInsertBuilder()
	ib.InsertInto("import_runs")
	ib.Cols("source_file", "total", "inserted", "updated", "skipped", "errors", "started_at", "finished_at")
	ib.Values(run.SourceFile, run.Total, run.Inserted, run.Updated, run.Skipped, run.Errors, run.StartedAt, run.FinishedAt)

	query, args := ib.Build()
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to record import run: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		run.ID = id
	}
	return nil
}

// ListImportRuns returns the most recent ingestion runs, newest first.
func (s *SQLiteStorage) ListImportRuns(ctx context.Context, limit int) ([]model.ImportRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("id", "source_file", "total", "inserted", "updated", "skipped", "errors", "started_at", "finished_at")
	sb.From("import_runs")
	sb.OrderBy("started_at DESC", "id DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.ImportRun
	for rows.Next() {
		var run model.ImportRun
		if err := rows.Scan(
			&run.ID,
			&run.SourceFile,
			&run.Total,
			&run.Inserted,
			&run.Updated,
			&run.Skipped,
			&run.Errors,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import runs: %w", err)
	}
	return runs, nil
}
