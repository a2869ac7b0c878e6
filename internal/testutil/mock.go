package testutil

import (
	"context"
	"sync"

	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/service"
)

// FindManyCall records a single FindMany invocation.
type FindManyCall struct {
	Filter service.Predicate
	Limit  int
}

// MockCatalog is a test double for service.CatalogStore that records
// every call and serves canned responses through the *Func hooks. The
// zero value behaves like an empty catalog.
type MockCatalog struct {
	FindOneFunc     func(ctx context.Context, filter service.Predicate) (*model.Wine, error)
	FindManyFunc    func(ctx context.Context, filter service.Predicate, limit int) ([]model.Wine, error)
	ListCatalogFunc func(ctx context.Context, limit int) ([]model.Wine, error)
	InsertFunc      func(ctx context.Context, wine *model.Wine) (*model.Wine, error)
	UpdateFunc      func(ctx context.Context, wine *model.Wine) error

	FindOneCalls  []service.Predicate
	FindManyCalls []FindManyCall
	Inserted      []model.Wine
	Updated       []model.Wine
	ImportRuns    []model.ImportRun

	mu sync.Mutex
}

// FindOne implements service.CatalogStore.
func (m *MockCatalog) FindOne(ctx context.Context, filter service.Predicate) (*model.Wine, error) {
	m.mu.Lock()
	m.FindOneCalls = append(m.FindOneCalls, filter)
	m.mu.Unlock()

	if m.FindOneFunc != nil {
		return m.FindOneFunc(ctx, filter)
	}
	return nil, nil
}

// FindMany implements service.CatalogStore.
func (m *MockCatalog) FindMany(ctx context.Context, filter service.Predicate, limit int) ([]model.Wine, error) {
	m.mu.Lock()
	m.FindManyCalls = append(m.FindManyCalls, FindManyCall{Filter: filter, Limit: limit})
	m.mu.Unlock()

	if m.FindManyFunc != nil {
		return m.FindManyFunc(ctx, filter, limit)
	}
	return nil, nil
}

// ListCatalog implements service.CatalogStore.
func (m *MockCatalog) ListCatalog(ctx context.Context, limit int) ([]model.Wine, error) {
	if m.ListCatalogFunc != nil {
		return m.ListCatalogFunc(ctx, limit)
	}
	return nil, nil
}

// Insert implements service.CatalogStore.
func (m *MockCatalog) Insert(ctx context.Context, wine *model.Wine) (*model.Wine, error) {
	if m.InsertFunc != nil {
		inserted, err := m.InsertFunc(ctx, wine)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.Inserted = append(m.Inserted, *inserted)
		m.mu.Unlock()
		return inserted, nil
	}

	m.mu.Lock()
	m.Inserted = append(m.Inserted, *wine)
	m.mu.Unlock()
	return wine, nil
}

// Update implements service.CatalogStore.
func (m *MockCatalog) Update(ctx context.Context, wine *model.Wine) error {
	if m.UpdateFunc != nil {
		if err := m.UpdateFunc(ctx, wine); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.Updated = append(m.Updated, *wine)
	m.mu.Unlock()
	return nil
}

// RecordImportRun implements service.CatalogStore.
func (m *MockCatalog) RecordImportRun(_ context.Context, run *model.ImportRun) error {
	m.mu.Lock()
	m.ImportRuns = append(m.ImportRuns, *run)
	m.mu.Unlock()
	return nil
}

// ListImportRuns implements service.CatalogStore.
func (m *MockCatalog) ListImportRuns(_ context.Context, _ int) ([]model.ImportRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runs := make([]model.ImportRun, len(m.ImportRuns))
	copy(runs, m.ImportRuns)
	return runs, nil
}

// CatalogStats implements service.CatalogStore.
func (m *MockCatalog) CatalogStats(_ context.Context) (*service.CatalogStats, error) {
	return &service.CatalogStats{
		ByCountry:  map[string]int{},
		ByCategory: map[string]int{},
	}, nil
}

// Migrate implements service.CatalogStore.
func (m *MockCatalog) Migrate(_ context.Context) error { return nil }

// Close implements service.CatalogStore.
func (m *MockCatalog) Close() error { return nil }

// QueryCount returns how many read queries the catalog has seen.
func (m *MockCatalog) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FindOneCalls) + len(m.FindManyCalls)
}
