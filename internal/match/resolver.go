// Package match resolves unresolved wine records against the canonical
// catalog: it generates bounded candidate sets, scores them with an
// additive multi-criterion model, and accepts the best candidate only
// above a fixed confidence threshold.
package match

import (
	"context"
	"fmt"

	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/service"
)

// AcceptScore is the fixed acceptance threshold. A best candidate
// scoring below it means "no confident match"; it is deliberately not
// configurable per call.
const AcceptScore = 50

// Config holds configuration options for the resolver.
type Config struct {
	CandidateLimit int
}

// DefaultConfig returns the default resolver configuration.
func DefaultConfig() Config {
	return Config{CandidateLimit: DefaultCandidateLimit}
}

// Resolver selects the canonical identity of unresolved records. It is
// stateless and safe for concurrent use across independent records.
type Resolver struct {
	store     service.CatalogStore
	generator *Generator
	limit     int
}

// NewResolver creates a resolver with the default configuration.
func NewResolver(store service.CatalogStore) *Resolver {
	return NewResolverWithConfig(store, DefaultConfig())
}

// NewResolverWithConfig creates a resolver with custom configuration.
func NewResolverWithConfig(store service.CatalogStore, config Config) *Resolver {
	limit := config.CandidateLimit
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	return &Resolver{
		store:     store,
		generator: NewGenerator(store),
		limit:     limit,
	}
}

// Resolve returns the catalog record this unresolved record most
// plausibly is, or nil when no candidate reaches the acceptance
// threshold. No match is an expected outcome, never an error.
func (r *Resolver) Resolve(ctx context.Context, u model.UnresolvedWine) (*model.Wine, error) {
	if u.SuggestedCode != "" {
		wine, err := r.lookupSuggested(ctx, u.SuggestedCode)
		if err != nil {
			return nil, err
		}
		if wine != nil {
			return wine, nil
		}
		// The guess missed; it may simply be wrong, so fall through to
		// scored resolution.
	}

	results, err := r.ScoreCandidates(ctx, u)
	if err != nil {
		return nil, err
	}
	return accept(results), nil
}

// ScoreCandidates returns every positively-scored candidate, best
// first, for callers that present a ranked list rather than a single
// decision. Ties keep the catalog's retrieval order.
func (r *Resolver) ScoreCandidates(ctx context.Context, u model.UnresolvedWine) (model.MatchResults, error) {
	candidates, err := r.generator.Candidates(ctx, u, r.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to generate candidates: %w", err)
	}

	results := make(model.MatchResults, 0, len(candidates))
	for _, candidate := range candidates {
		score, tags := Score(u, candidate)
		if score <= 0 {
			continue
		}
		results = append(results, model.MatchResult{
			Wine:  candidate,
			Score: score,
			Tags:  tags,
		})
	}

	results.Sort()
	return results, nil
}

// lookupSuggested tries the caller's identity-code guess directly; the
// code's length decides which LWIN column it is compared against. A
// malformed code is a validation error, a missing record is not.
func (r *Resolver) lookupSuggested(ctx context.Context, code string) (*model.Wine, error) {
	field, err := model.LWINField(code)
	if err != nil {
		return nil, err
	}

	wine, err := r.store.FindOne(ctx, service.Eq(field, code))
	if err != nil {
		return nil, fmt.Errorf("failed to look up suggested code %s: %w", code, err)
	}
	return wine, nil
}

// accept applies the acceptance threshold to ranked results.
func accept(results model.MatchResults) *model.Wine {
	best := results.Best()
	if best == nil || best.Score < AcceptScore {
		return nil
	}
	return &best.Wine
}
