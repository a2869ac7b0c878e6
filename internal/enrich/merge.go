// Package enrich copies authoritative catalog fields into unresolved
// wine records. Caller-supplied data always wins: only empty fields are
// ever filled.
package enrich

import "github.com/cellarist/decanter/internal/model"

// Merge fills u's empty fields from a matched canonical record and
// returns the enriched copy. Exactly seven field groups are sourced
// from the catalog: producer, region, appellation, country,
// classification, the grape list as a whole, and the identity codes.
// Name, vintage, alcohol and the remaining fields stay untouched
// regardless of what the catalog knows.
func Merge(u model.UnresolvedWine, matched model.Wine) model.UnresolvedWine {
	if u.Producer == "" {
		u.Producer = matched.Producer
	}
	if u.Region == "" {
		u.Region = matched.Region
	}
	if u.Appellation == "" {
		u.Appellation = matched.Appellation
	}
	if u.Country == "" {
		u.Country = matched.Country
	}
	if u.Classification == "" {
		u.Classification = matched.Classification
	}
	if len(u.Grapes) == 0 && len(matched.Grapes) > 0 {
		grapes := make([]model.GrapeVariety, len(matched.Grapes))
		copy(grapes, matched.Grapes)
		u.Grapes = grapes
	}
	if u.LWIN7 == "" {
		u.LWIN7 = matched.LWIN7
	}
	if u.LWIN11 == "" {
		u.LWIN11 = matched.LWIN11
	}
	if u.LWIN18 == "" {
		u.LWIN18 = matched.LWIN18
	}
	return u
}
