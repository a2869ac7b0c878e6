package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cellarist/decanter/internal/common"
	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/service"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
)

// wineColumns is the canonical column order shared by reads and writes.
var wineColumns = []string{
	"id", "lwin7", "lwin11", "lwin18", "name", "producer", "producer_title",
	"vintage", "country", "region", "sub_region", "appellation", "designation",
	"classification", "category", "category_unknown", "grapes", "alcohol",
	"data_source", "owner", "last_synced", "created_at", "updated_at",
}

// FindOne retrieves the first canonical record matching the filter, or
// (nil, nil) when nothing matches.
func (s *SQLiteStorage) FindOne(ctx context.Context, filter service.Predicate) (*model.Wine, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	wines, err := s.queryWines(ctx, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(wines) == 0 {
		return nil, nil
	}
	return &wines[0], nil
}

// FindMany retrieves canonical records matching the filter, capped at limit.
func (s *SQLiteStorage) FindMany(ctx context.Context, filter service.Predicate, limit int) ([]model.Wine, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	return s.queryWines(ctx, filter, limit)
}

// ListCatalog returns canonical records ordered by name, capped at
// limit; limit <= 0 means no cap. Used by exports and catalog listings.
func (s *SQLiteStorage) ListCatalog(ctx context.Context, limit int) ([]model.Wine, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(wineColumns...)
	sb.From("wines")
	sb.Where(sb.IsNull("owner"))
	sb.OrderBy("name", "vintage")
	if limit > 0 {
		sb.Limit(limit)
	}

	query, args := sb.Build()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var wines []model.Wine
	for rows.Next() {
		wine, scanErr := scanWine(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		wines = append(wines, wine)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog: %w", err)
	}
	return wines, nil
}

func (s *SQLiteStorage) queryWines(ctx context.Context, filter service.Predicate, limit int) ([]model.Wine, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(wineColumns...)
	sb.From("wines")

	cond, err := compileFilter(sb, filter)
	if err != nil {
		return nil, err
	}

	// Catalog lookups only ever see canonical records.
	sb.Where(cond, sb.IsNull("owner"))
	sb.Limit(limit)

	query, args := sb.Build()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var wines []model.Wine
	for rows.Next() {
		wine, scanErr := scanWine(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		wines = append(wines, wine)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wines: %w", err)
	}
	return wines, nil
}

// Insert stores a new record, stamping its ID and creation time.
func (s *SQLiteStorage) Insert(ctx context.Context, wine *model.Wine) (*model.Wine, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateWine(wine); err != nil {
		return nil, err
	}

	if wine.ID == "" {
		wine.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if wine.CreatedAt.IsZero() {
		wine.CreatedAt = now
	}
	if wine.UpdatedAt.IsZero() {
		wine.UpdatedAt = now
	}

	grapes, err := marshalGrapes(wine.Grapes)
	if err != nil {
		return nil, err
	}

	ib := sqlbuilder.SQLite.NewInsertBuilder()
	ib.InsertInto("wines")
	ib.Cols(wineColumns...)
	ib.Values(
		wine.ID,
		nullString(wine.LWIN7),
		nullString(wine.LWIN11),
		nullString(wine.LWIN18),
		wine.Name,
		wine.Producer,
		wine.ProducerTitle,
		nullInt(wine.Vintage),
		wine.Country,
		wine.Region,
		wine.SubRegion,
		wine.Appellation,
		wine.Designation,
		wine.Classification,
		string(wine.Category),
		wine.CategoryUnknown,
		grapes,
		nullFloat(wine.Alcohol),
		string(wine.DataSource),
		nullString(wine.Owner),
		nullTime(wine.LastSynced),
		wine.CreatedAt,
		wine.UpdatedAt,
	)

	query, args := ib.Build()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: %v", common.ErrDuplicateEntry, err)
		}
		return nil, fmt.Errorf("failed to insert wine %s: %w", wine.Label(), err)
	}

	return wine, nil
}

// Update overwrites an existing record in place, identified by its ID.
func (s *SQLiteStorage) Update(ctx context.Context, wine *model.Wine) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWine(wine); err != nil {
		return err
	}
	if err := validateString(wine.ID, "wine.ID"); err != nil {
		return err
	}

	if wine.UpdatedAt.IsZero() {
		wine.UpdatedAt = time.Now().UTC()
	}

	grapes, err := marshalGrapes(wine.Grapes)
	if err != nil {
		return err
	}

	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update("wines")
	ub.Set(
		ub.Assign("lwin7", nullString(wine.LWIN7)),
		ub.Assign("lwin11", nullString(wine.LWIN11)),
		ub.Assign("lwin18", nullString(wine.LWIN18)),
		ub.Assign("name", wine.Name),
		ub.Assign("producer", wine.Producer),
		ub.Assign("producer_title", wine.ProducerTitle),
		ub.Assign("vintage", nullInt(wine.Vintage)),
		ub.Assign("country", wine.Country),
		ub.Assign("region", wine.Region),
		ub.Assign("sub_region", wine.SubRegion),
		ub.Assign("appellation", wine.Appellation),
		ub.Assign("designation", wine.Designation),
		ub.Assign("classification", wine.Classification),
		ub.Assign("category", string(wine.Category)),
		ub.Assign("category_unknown", wine.CategoryUnknown),
		ub.Assign("grapes", grapes),
		ub.Assign("alcohol", nullFloat(wine.Alcohol)),
		ub.Assign("data_source", string(wine.DataSource)),
		ub.Assign("owner", nullString(wine.Owner)),
		ub.Assign("last_synced", nullTime(wine.LastSynced)),
		ub.Assign("updated_at", wine.UpdatedAt),
	)
	ub.Where(ub.Equal("id", wine.ID))

	query, args := ub.Build()
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update wine %s: %w", wine.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: wine %s", common.ErrNotFound, wine.ID)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanWine(row scanner) (model.Wine, error) {
	var (
		wine       model.Wine
		lwin7      sql.NullString
		lwin11     sql.NullString
		lwin18     sql.NullString
		vintage    sql.NullInt64
		grapes     sql.NullString
		alcohol    sql.NullFloat64
		dataSource string
		owner      sql.NullString
		category   string
		lastSynced sql.NullTime
	)

	err := row.Scan(
		&wine.ID,
		&lwin7,
		&lwin11,
		&lwin18,
		&wine.Name,
		&wine.Producer,
		&wine.ProducerTitle,
		&vintage,
		&wine.Country,
		&wine.Region,
		&wine.SubRegion,
		&wine.Appellation,
		&wine.Designation,
		&wine.Classification,
		&category,
		&wine.CategoryUnknown,
		&grapes,
		&alcohol,
		&dataSource,
		&owner,
		&lastSynced,
		&wine.CreatedAt,
		&wine.UpdatedAt,
	)
	if err != nil {
		return model.Wine{}, fmt.Errorf("failed to scan wine: %w", err)
	}

	wine.LWIN7 = lwin7.String
	wine.LWIN11 = lwin11.String
	wine.LWIN18 = lwin18.String
	if vintage.Valid {
		v := int(vintage.Int64)
		wine.Vintage = &v
	}
	if alcohol.Valid {
		a := alcohol.Float64
		wine.Alcohol = &a
	}
	wine.Category = model.WineCategory(category)
	wine.DataSource = model.DataSource(dataSource)
	wine.Owner = owner.String
	if lastSynced.Valid {
		wine.LastSynced = lastSynced.Time
	}

	if grapes.Valid && grapes.String != "" {
		if err := json.Unmarshal([]byte(grapes.String), &wine.Grapes); err != nil {
			// Log but don't fail on JSON parse error
			slog.Warn("Failed to parse grapes JSON", "error", err, "wine_id", wine.ID)
		}
	}

	return wine, nil
}

func marshalGrapes(grapes []model.GrapeVariety) (any, error) {
	if len(grapes) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(grapes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grapes: %w", err)
	}
	return string(data), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
