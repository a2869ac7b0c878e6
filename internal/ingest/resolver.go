// Package ingest loads external reference catalogs into the canonical
// store: it normalizes loosely-named tabular rows, resolves each row to
// an existing canonical record by identity-code priority, and merges or
// inserts accordingly.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/service"
)

// UpsertOutcome reports which write path an upsert took. Exactly one
// flag is set on success.
type UpsertOutcome struct {
	Inserted bool
	Updated  bool
}

// Resolver decides whether an incoming catalog record is a new wine or
// a fresh sighting of one already stored, using identity codes alone.
// Descriptive fields never participate in ingestion identity.
type Resolver struct {
	store service.CatalogStore
}

// NewResolver creates an identity resolver backed by the given store.
func NewResolver(store service.CatalogStore) *Resolver {
	return &Resolver{store: store}
}

// Upsert writes the incoming record through the identity priority:
// lwin11, then lwin7 plus vintage, then lwin7 alone; the first hit
// wins. On a hit the incoming record's present fields overwrite the
// stored ones; with no hit (or no identity codes at all) a new
// canonical record is inserted. Both paths stamp the sync time.
func (r *Resolver) Upsert(ctx context.Context, wine *model.Wine) (UpsertOutcome, error) {
	existing, err := r.findExisting(ctx, wine)
	if err != nil {
		return UpsertOutcome{}, err
	}

	now := time.Now().UTC()

	if existing == nil {
		wine.LastSynced = now
		wine.UpdatedAt = now
		if wine.DataSource == "" {
			wine.DataSource = model.SourceCatalogImport
		}
		if _, err := r.store.Insert(ctx, wine); err != nil {
			return UpsertOutcome{}, fmt.Errorf("failed to insert %s: %w", wine.Label(), err)
		}
		return UpsertOutcome{Inserted: true}, nil
	}

	merged := mergeRecord(*existing, *wine)
	merged.LastSynced = now
	merged.UpdatedAt = now
	if err := r.store.Update(ctx, &merged); err != nil {
		return UpsertOutcome{}, fmt.Errorf("failed to update %s: %w", merged.Label(), err)
	}
	return UpsertOutcome{Updated: true}, nil
}

// findExisting runs the priority lookups, stopping at the first hit.
// Store queries are already scoped to canonical records.
func (r *Resolver) findExisting(ctx context.Context, wine *model.Wine) (*model.Wine, error) {
	if wine.LWIN11 != "" {
		existing, err := r.store.FindOne(ctx, service.Eq("lwin11", wine.LWIN11))
		if err != nil {
			return nil, fmt.Errorf("failed lwin11 lookup: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	if wine.LWIN7 != "" && wine.Vintage != nil {
		existing, err := r.store.FindOne(ctx, service.And(
			service.Eq("lwin7", wine.LWIN7),
			service.Eq("vintage", *wine.Vintage),
		))
		if err != nil {
			return nil, fmt.Errorf("failed lwin7+vintage lookup: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	if wine.LWIN7 != "" {
		existing, err := r.store.FindOne(ctx, service.Eq("lwin7", wine.LWIN7))
		if err != nil {
			return nil, fmt.Errorf("failed lwin7 lookup: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	return nil, nil
}

// mergeRecord overlays the incoming record's present fields on the
// existing one. Identity and provenance of the stored row (ID,
// CreatedAt, Owner) are never touched. Category always counts as
// present: normalization guarantees a value, and its unknown flag
// travels with it.
func mergeRecord(existing, incoming model.Wine) model.Wine {
	merged := existing

	setString := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}

	setString(&merged.Name, incoming.Name)
	setString(&merged.LWIN7, incoming.LWIN7)
	setString(&merged.LWIN11, incoming.LWIN11)
	setString(&merged.LWIN18, incoming.LWIN18)
	setString(&merged.Producer, incoming.Producer)
	setString(&merged.ProducerTitle, incoming.ProducerTitle)
	setString(&merged.Country, incoming.Country)
	setString(&merged.Region, incoming.Region)
	setString(&merged.SubRegion, incoming.SubRegion)
	setString(&merged.Appellation, incoming.Appellation)
	setString(&merged.Designation, incoming.Designation)
	setString(&merged.Classification, incoming.Classification)

	if incoming.Vintage != nil {
		merged.Vintage = incoming.Vintage
	}
	if incoming.Alcohol != nil {
		merged.Alcohol = incoming.Alcohol
	}
	if len(incoming.Grapes) > 0 {
		merged.Grapes = incoming.Grapes
	}
	if incoming.Category != "" {
		merged.Category = incoming.Category
		merged.CategoryUnknown = incoming.CategoryUnknown
	}
	if incoming.DataSource != "" {
		merged.DataSource = incoming.DataSource
	}

	return merged
}
