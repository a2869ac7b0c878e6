package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cellarist/decanter/internal/common"
	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/service"
	"github.com/schollz/progressbar/v3"
)

// DefaultBatchSize is how many rows are processed between batch-level
// progress logs.
const DefaultBatchSize = 500

// Importer runs whole catalog files through the identity resolver, one
// row at a time. Rows are strictly sequential: a row's insert must be
// visible to the next row's lookup, or a file repeating an identity
// code would create duplicate canonical records.
type Importer struct {
	store     service.CatalogStore
	resolver  *Resolver
	progress  io.Writer
	batchSize int
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithBatchSize sets how many rows form one logging batch.
func WithBatchSize(n int) ImporterOption {
	return func(im *Importer) {
		if n > 0 {
			im.batchSize = n
		}
	}
}

// WithProgress enables a progress bar written to w, typically stderr
// when attached to a terminal.
func WithProgress(w io.Writer) ImporterOption {
	return func(im *Importer) {
		im.progress = w
	}
}

// NewImporter creates an importer backed by the given store.
func NewImporter(store service.CatalogStore, opts ...ImporterOption) *Importer {
	im := &Importer{
		store:     store,
		resolver:  NewResolver(store),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportFile ingests a CSV catalog file and returns the accumulated
// counters. Row-level failures never abort the run; only an unreadable
// source or a canceled context does.
func (im *Importer) ImportFile(ctx context.Context, path string) (service.ImportStats, error) {
	file, err := os.Open(path) // #nosec G304 -- user-supplied catalog path
	if err != nil {
		return service.ImportStats{}, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if fi, statErr := file.Stat(); statErr != nil || fi.Size() == 0 {
		return service.ImportStats{}, fmt.Errorf("catalog file %s is empty or unreadable", path)
	}

	started := time.Now().UTC()
	stats, err := im.importRows(ctx, file)
	stats.Duration = time.Since(started)
	if err != nil {
		return stats, err
	}

	im.recordRun(ctx, path, stats, started)

	slog.Info("catalog import finished",
		"source", path,
		"total", stats.Total,
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"duration", stats.Duration.Round(time.Millisecond))

	return stats, nil
}

// importRows streams the CSV reader row by row. Column order is free;
// the header line names each cell and the alias tables sort out what
// the columns mean.
func (im *Importer) importRows(ctx context.Context, r io.Reader) (service.ImportStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return service.ImportStats{}, fmt.Errorf("failed to read catalog header: %w", err)
	}

	bar := im.newProgressBar()

	var stats service.ImportStats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		stats.Total++
		if bar != nil {
			_ = bar.Add(1)
		}

		if readErr != nil {
			stats.Errors++
			slog.Warn("unreadable catalog row", "row", stats.Total, "error", readErr)
			continue
		}

		im.importRow(ctx, rowFromRecord(header, record), stats.Total, &stats)

		if im.batchSize > 0 && stats.Total%im.batchSize == 0 {
			slog.Info("import batch processed",
				"rows", stats.Total,
				"inserted", stats.Inserted,
				"updated", stats.Updated,
				"skipped", stats.Skipped,
				"errors", stats.Errors)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}
	return stats, nil
}

// importRow pushes one row through the gate and the resolver, mapping
// each outcome onto the right counter.
func (im *Importer) importRow(ctx context.Context, row map[string]string, rowNum int, stats *service.ImportStats) {
	wine, err := RecordFromRow(row)
	if err != nil {
		if errors.Is(err, common.ErrRowRejected) {
			stats.Skipped++
			slog.Debug("catalog row rejected", "row", rowNum, "error", err)
			return
		}
		stats.Errors++
		slog.Warn("failed to normalize catalog row", "row", rowNum, "error", err)
		return
	}

	outcome, err := im.resolver.Upsert(ctx, wine)
	if err != nil {
		stats.Errors++
		slog.Warn("failed to upsert catalog row",
			"row", rowNum,
			"wine", wine.Label(),
			"error", err)
		return
	}

	switch {
	case outcome.Inserted:
		stats.Inserted++
	case outcome.Updated:
		stats.Updated++
	}
}

// rowFromRecord zips the header line with one data record. Missing
// trailing cells read as absent; extra cells are dropped.
func rowFromRecord(header, record []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, key := range header {
		if i >= len(record) {
			break
		}
		row[key] = record[i]
	}
	return row
}

// recordRun persists the run for auditing. A bookkeeping failure is
// not worth failing an import that already succeeded.
func (im *Importer) recordRun(ctx context.Context, path string, stats service.ImportStats, started time.Time) {
	run := model.ImportRun{
		SourceFile: path,
		Total:      stats.Total,
		Inserted:   stats.Inserted,
		Updated:    stats.Updated,
		Skipped:    stats.Skipped,
		Errors:     stats.Errors,
		StartedAt:  started,
		FinishedAt: started.Add(stats.Duration),
	}
	if err := im.store.RecordImportRun(ctx, &run); err != nil {
		slog.Warn("failed to record import run", "source", path, "error", err)
	}
}

func (im *Importer) newProgressBar() *progressbar.ProgressBar {
	if im.progress == nil {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(im.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing catalog...[reset]"),
		progressbar.OptionSpinnerType(14),
	)
}
