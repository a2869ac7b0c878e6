package ingest

import (
	"fmt"

	"github.com/cellarist/decanter/internal/common"
	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/normalize"
)

// RecordFromRow normalizes one raw catalog row into a canonical record.
// A row with neither a name nor a 7-digit identity code is rejected
// with common.ErrRowRejected; when only the code is present, a
// synthetic name is built so the record stays displayable.
func RecordFromRow(row map[string]string) (*model.Wine, error) {
	wine := &model.Wine{
		Name:           normalize.ResolveField(row, aliasName...),
		LWIN7:          normalize.ResolveField(row, aliasLWIN7...),
		LWIN11:         normalize.ResolveField(row, aliasLWIN11...),
		LWIN18:         normalize.ResolveField(row, aliasLWIN18...),
		Producer:       normalize.ResolveField(row, aliasProducer...),
		ProducerTitle:  normalize.ResolveField(row, aliasProducerTitle...),
		Country:        normalize.ResolveField(row, aliasCountry...),
		Region:         normalize.ResolveField(row, aliasRegion...),
		SubRegion:      normalize.ResolveField(row, aliasSubRegion...),
		Appellation:    normalize.ResolveField(row, aliasAppellation...),
		Designation:    normalize.ResolveField(row, aliasDesignation...),
		Classification: normalize.ResolveField(row, aliasClassification...),
		Vintage:        normalize.Vintage(normalize.ResolveField(row, aliasVintage...)),
		Grapes:         normalize.Grapes(normalize.ResolveField(row, aliasGrapes...)),
		Alcohol:        normalize.Alcohol(normalize.ResolveField(row, aliasAlcohol...)),
		DataSource:     model.SourceCatalogImport,
	}

	category, known := normalize.Category(normalize.ResolveField(row, aliasCategory...))
	wine.Category = category
	wine.CategoryUnknown = !known

	if wine.Name == "" {
		if wine.LWIN7 == "" {
			return nil, fmt.Errorf("%w: no name and no identity code", common.ErrRowRejected)
		}
		wine.Name = normalize.SyntheticName(wine.Producer, wine.Vintage, wine.LWIN7)
	}

	return wine, nil
}
