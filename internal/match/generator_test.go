package match

import (
	"context"
	"testing"

	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/service"
	"github.com/cellarist/decanter/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// containsValues walks a predicate tree and collects every Contains
// value targeting the given field.
func containsValues(p service.Predicate, field string) []string {
	var values []string
	var walk func(service.Predicate)
	walk = func(p service.Predicate) {
		if p.Op == service.OpContains && p.Field == field {
			if s, ok := p.Value.(string); ok {
				values = append(values, s)
			}
		}
		for _, sub := range p.Subs {
			walk(sub)
		}
	}
	walk(p)
	return values
}

func TestGenerator_UnsearchableRecordSkipsCatalog(t *testing.T) {
	mock := &testutil.MockCatalog{}
	gen := NewGenerator(mock)

	tests := []struct {
		name string
		u    model.UnresolvedWine
	}{
		{name: "empty record", u: model.UnresolvedWine{}},
		{name: "three-character region only", u: model.UnresolvedWine{Region: "Ava"}},
		{name: "four-character region only", u: model.UnresolvedWine{Region: "Napa"}},
		{name: "country alone never searches", u: model.UnresolvedWine{Country: "France"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, err := gen.Candidates(context.Background(), tt.u, 10)
			require.NoError(t, err)
			assert.Empty(t, candidates)
		})
	}

	assert.Zero(t, mock.QueryCount(), "no catalog query may be issued without a sub-filter")
}

func TestGenerator_NameFilterWithStrippedPrefix(t *testing.T) {
	mock := &testutil.MockCatalog{}
	gen := NewGenerator(mock)

	_, err := gen.Candidates(context.Background(), model.UnresolvedWine{Name: "Château Margaux"}, 0)
	require.NoError(t, err)
	require.Len(t, mock.FindManyCalls, 1)

	call := mock.FindManyCalls[0]
	names := containsValues(call.Filter, "name")
	assert.Equal(t, []string{"Château Margaux", "margaux"}, names)
	assert.Equal(t, DefaultCandidateLimit, call.Limit)
}

func TestGenerator_ShortStrippedRemainderIsDropped(t *testing.T) {
	mock := &testutil.MockCatalog{}
	gen := NewGenerator(mock)

	_, err := gen.Candidates(context.Background(), model.UnresolvedWine{Name: "Clos du"}, 10)
	require.NoError(t, err)
	require.Len(t, mock.FindManyCalls, 1)

	names := containsValues(mock.FindManyCalls[0].Filter, "name")
	assert.Equal(t, []string{"Clos du"}, names, "a remainder of two characters or fewer is useless")
}

func TestGenerator_ProducerAddsBothProducerFilters(t *testing.T) {
	mock := &testutil.MockCatalog{}
	gen := NewGenerator(mock)

	_, err := gen.Candidates(context.Background(), model.UnresolvedWine{Producer: "Margaux"}, 10)
	require.NoError(t, err)
	require.Len(t, mock.FindManyCalls, 1)

	filter := mock.FindManyCalls[0].Filter
	assert.Equal(t, []string{"Margaux"}, containsValues(filter, "producer"))
	assert.Equal(t, []string{"Margaux"}, containsValues(filter, "producer_title"))
}

func TestGenerator_RegionFiltersRequireLongRegion(t *testing.T) {
	mock := &testutil.MockCatalog{}
	gen := NewGenerator(mock)

	// Five characters crosses the bound and searches both region columns.
	_, err := gen.Candidates(context.Background(), model.UnresolvedWine{Region: "Rioja"}, 10)
	require.NoError(t, err)
	require.Len(t, mock.FindManyCalls, 1)

	filter := mock.FindManyCalls[0].Filter
	assert.Equal(t, []string{"Rioja"}, containsValues(filter, "region"))
	assert.Equal(t, []string{"Rioja"}, containsValues(filter, "sub_region"))

	// A short region contributes nothing, but a name keeps the record
	// searchable.
	_, err = gen.Candidates(context.Background(), model.UnresolvedWine{Name: "Sassicaia", Region: "Ava"}, 10)
	require.NoError(t, err)
	require.Len(t, mock.FindManyCalls, 2)

	filter = mock.FindManyCalls[1].Filter
	assert.Empty(t, containsValues(filter, "region"))
	assert.Empty(t, containsValues(filter, "sub_region"))
}

func TestGenerator_CountryNarrowsInsteadOfWidening(t *testing.T) {
	catalog := testutil.SetupTestCatalog(t)
	catalog.MustSeed(
		model.Wine{Name: "Margaux du Sud", Country: "France"},
		model.Wine{Name: "Margaux Estate", Country: "South Africa"},
	)

	gen := NewGenerator(catalog.Store)

	candidates, err := gen.Candidates(context.Background(), model.UnresolvedWine{
		Name:    "Margaux",
		Country: "France",
	}, 10)
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "Margaux du Sud", candidates[0].Name)
}

func TestGenerator_OnlyCatalogSourcedRecordsQualify(t *testing.T) {
	catalog := testutil.SetupTestCatalog(t)
	catalog.MustSeed(
		model.Wine{Name: "Margaux Reference", DataSource: model.SourceCatalogImport},
		model.Wine{Name: "Margaux Extraction", DataSource: model.SourceAIExtracted},
	)

	gen := NewGenerator(catalog.Store)

	candidates, err := gen.Candidates(context.Background(), model.UnresolvedWine{Name: "Margaux"}, 10)
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "Margaux Reference", candidates[0].Name)
}

func TestStripProducerPrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "château", in: "Château Margaux", want: "margaux"},
		{name: "unaccented chateau", in: "chateau margaux", want: "margaux"},
		{name: "domaine", in: "Domaine de la Romanée-Conti", want: "de la romanée-conti"},
		{name: "bodegas", in: "Bodegas Muga", want: "muga"},
		{name: "quinta", in: "Quinta do Noval", want: "do noval"},
		{name: "prefix must be a whole word", in: "Closerie des Lys", want: ""},
		{name: "no prefix", in: "Sassicaia", want: ""},
		{name: "remainder too short", in: "Casa do", want: ""},
		{name: "prefix alone", in: "Domaine", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripProducerPrefix(tt.in))
		})
	}
}
