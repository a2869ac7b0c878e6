// Package testutil provides test fixtures for catalog-backed tests.
package testutil

import (
	"context"
	"testing"

	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/storage"
)

// TestCatalog wraps an in-memory catalog store for tests.
type TestCatalog struct {
	Store *storage.SQLiteStorage
	t     *testing.T
}

// SetupTestCatalog creates a migrated in-memory catalog with automatic
// cleanup.
func SetupTestCatalog(t *testing.T) *TestCatalog {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test catalog: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestCatalog{
		Store: store,
		t:     t,
	}
}

// MustSeed inserts canonical records, failing the test on error. Records
// default to the catalog-import source so the query path can see them.
func (tc *TestCatalog) MustSeed(wines ...model.Wine) []model.Wine {
	tc.t.Helper()

	ctx := context.Background()
	seeded := make([]model.Wine, 0, len(wines))
	for _, wine := range wines {
		if wine.DataSource == "" {
			wine.DataSource = model.SourceCatalogImport
		}
		inserted, err := tc.Store.Insert(ctx, &wine)
		if err != nil {
			tc.t.Fatalf("failed to seed wine %q: %v", wine.Name, err)
		}
		seeded = append(seeded, *inserted)
	}
	return seeded
}
