package storage

import (
	"testing"

	"github.com/cellarist/decanter/internal/service"
	"github.com/huandu/go-sqlbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFilter(t *testing.T, p service.Predicate) (string, []any) {
	t.Helper()

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("id")
	sb.From("wines")
	cond, err := compileFilter(sb, p)
	require.NoError(t, err)
	sb.Where(cond)
	return sb.Build()
}

func TestCompileFilter_Eq(t *testing.T) {
	query, args := buildFilter(t, service.Eq("lwin7", "1023456"))

	assert.Contains(t, query, "lwin7 = ?")
	assert.Equal(t, []any{"1023456"}, args)
}

func TestCompileFilter_ContainsLowersAndEscapes(t *testing.T) {
	query, args := buildFilter(t, service.Contains("name", "50% Sangio_vese"))

	assert.Contains(t, query, "LOWER(name) LIKE ? ESCAPE '\\'")
	require.Len(t, args, 1)
	assert.Equal(t, `%50\% sangio\_vese%`, args[0])
}

func TestCompileFilter_Composition(t *testing.T) {
	filter := service.And(
		service.Or(
			service.Contains("name", "margaux"),
			service.Contains("producer", "margaux"),
		),
		service.Eq("country", "France"),
	)

	query, args := buildFilter(t, filter)

	assert.Contains(t, query, "OR")
	assert.Contains(t, query, "AND")
	assert.Len(t, args, 3)
}

func TestCompileFilter_Errors(t *testing.T) {
	tests := []struct {
		name   string
		pred   service.Predicate
		errStr string
	}{
		{
			name:   "empty predicate",
			pred:   service.Predicate{},
			errStr: "predicate cannot be empty",
		},
		{
			name:   "unknown field",
			pred:   service.Eq("owner", "user-1"),
			errStr: "unknown catalog field",
		},
		{
			name:   "injection through field name",
			pred:   service.Eq("name; DROP TABLE wines", "x"),
			errStr: "unknown catalog field",
		},
		{
			name:   "contains with empty value",
			pred:   service.Contains("name", ""),
			errStr: "string parameter cannot be empty",
		},
		{
			name:   "contains with non-string value",
			pred:   service.Predicate{Op: service.OpContains, Field: "name", Value: 42},
			errStr: "requires a string value",
		},
		{
			name:   "unsupported op",
			pred:   service.Predicate{Op: "gte", Field: "vintage", Value: 2000},
			errStr: "unsupported predicate op",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := sqlbuilder.SQLite.NewSelectBuilder()
			sb.Select("id")
			sb.From("wines")
			_, err := compileFilter(sb, tt.pred)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errStr)
		})
	}
}
