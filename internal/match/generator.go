package match

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/service"
)

// DefaultCandidateLimit caps how many catalog records a single
// resolution will retrieve and score.
const DefaultCandidateLimit = 100

// minRegionLen is the exclusive length bound below which a region
// string is too short to search on without flooding the candidate set.
const minRegionLen = 4

// minStrippedLen is the exclusive length bound for a name with its
// producer-style prefix removed.
const minStrippedLen = 2

// producerPrefixes are estate designators commonly leading label names.
// A name starting with one of these gets a second, stripped name filter
// so "Château Margaux" can still find a catalog entry named "Margaux".
var producerPrefixes = []string{
	"château", "chateau", "domaine", "bodegas", "bodega", "casa",
	"weingut", "tenuta", "cantina", "clos", "maison", "quinta",
	"castello", "finca", "viña", "vina", "azienda",
}

// Generator retrieves a bounded set of plausible catalog matches for an
// unresolved record. It is stateless and safe for concurrent use.
type Generator struct {
	store service.CatalogStore
}

// NewGenerator creates a candidate generator backed by the given store.
func NewGenerator(store service.CatalogStore) *Generator {
	return &Generator{store: store}
}

// Candidates builds a disjunctive name/producer/region filter, narrowed
// by country when present, and retrieves up to limit catalog records.
// When no descriptive field yields a sub-filter, the record is
// unsearchable and no catalog query is issued at all.
func (g *Generator) Candidates(ctx context.Context, u model.UnresolvedWine, limit int) ([]model.Wine, error) {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	or := disjunction(u)
	if or.IsZero() {
		return nil, nil
	}

	filter := service.And(
		or,
		countryNarrowing(u),
		service.Eq("data_source", string(model.SourceCatalogImport)),
	)

	return g.store.FindMany(ctx, filter, limit)
}

// disjunction assembles the OR branches, each included only when its
// source field is usable.
func disjunction(u model.UnresolvedWine) service.Predicate {
	subs := make([]service.Predicate, 0, 6)

	name := strings.TrimSpace(u.Name)
	if name != "" {
		subs = append(subs, service.Contains("name", name))
		if stripped := stripProducerPrefix(name); stripped != "" {
			subs = append(subs, service.Contains("name", stripped))
		}
	}

	producer := strings.TrimSpace(u.Producer)
	if producer != "" {
		subs = append(subs,
			service.Contains("producer", producer),
			service.Contains("producer_title", producer),
		)
	}

	region := strings.TrimSpace(u.Region)
	if utf8.RuneCountInString(region) > minRegionLen {
		subs = append(subs,
			service.Contains("region", region),
			service.Contains("sub_region", region),
		)
	}

	return service.Or(subs...)
}

// countryNarrowing is an AND-side restriction, never an OR branch: when
// the caller knows the country, every candidate must match it.
func countryNarrowing(u model.UnresolvedWine) service.Predicate {
	country := strings.TrimSpace(u.Country)
	if country == "" {
		return service.Predicate{}
	}
	return service.Contains("country", country)
}

// stripProducerPrefix returns the lowercased name with its leading
// estate designator removed, or "" when no prefix applies or the
// remainder is too short to be a useful filter.
func stripProducerPrefix(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, prefix := range producerPrefixes {
		if strings.HasPrefix(lower, prefix+" ") {
			rest := strings.TrimSpace(lower[len(prefix):])
			if utf8.RuneCountInString(rest) > minStrippedLen {
				return rest
			}
			return ""
		}
	}
	return ""
}
