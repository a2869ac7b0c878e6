package enrich

import (
	"testing"

	"github.com/cellarist/decanter/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestMerge_FillsOnlyEmptyFields(t *testing.T) {
	u := model.UnresolvedWine{
		Name:   "Margaux",
		Region: "Bordeaux",
	}
	matched := model.Wine{
		Name:           "Château Margaux",
		Producer:       "Château Margaux",
		Region:         "Médoc",
		Appellation:    "Margaux",
		Country:        "France",
		Classification: "1er Cru Classé",
		LWIN7:          "1023456",
		LWIN11:         "10234562015",
		Grapes: []model.GrapeVariety{
			{Name: "Cabernet Sauvignon"},
			{Name: "Merlot"},
		},
	}

	enriched := Merge(u, matched)

	// Empty fields are filled from the catalog.
	assert.Equal(t, "Château Margaux", enriched.Producer)
	assert.Equal(t, "Margaux", enriched.Appellation)
	assert.Equal(t, "France", enriched.Country)
	assert.Equal(t, "1er Cru Classé", enriched.Classification)
	assert.Equal(t, "1023456", enriched.LWIN7)
	assert.Equal(t, "10234562015", enriched.LWIN11)
	assert.Len(t, enriched.Grapes, 2)

	// Populated fields are never touched.
	assert.Equal(t, "Margaux", enriched.Name)
	assert.Equal(t, "Bordeaux", enriched.Region)
}

func TestMerge_NeverOverwritesCallerData(t *testing.T) {
	u := model.UnresolvedWine{
		Name:           "Margaux",
		Producer:       "My Producer",
		Region:         "My Region",
		Appellation:    "My Appellation",
		Country:        "My Country",
		Classification: "My Classification",
		LWIN7:          "7777777",
		LWIN11:         "77777772015",
		LWIN18:         "777777720150075001",
		Grapes:         []model.GrapeVariety{{Name: "My Grape"}},
	}
	matched := model.Wine{
		Name:           "Château Margaux",
		Producer:       "Château Margaux",
		Region:         "Bordeaux",
		Appellation:    "Margaux",
		Country:        "France",
		Classification: "1er Cru Classé",
		LWIN7:          "1023456",
		LWIN11:         "10234562015",
		LWIN18:         "102345620150075001",
		Grapes:         []model.GrapeVariety{{Name: "Cabernet Sauvignon"}},
	}

	enriched := Merge(u, matched)

	assert.Equal(t, u, enriched, "a fully-populated record must pass through unchanged")
}

func TestMerge_GrapeListReplacedAsAWhole(t *testing.T) {
	existing := []model.GrapeVariety{{Name: "Syrah"}}
	u := model.UnresolvedWine{Name: "x", Grapes: existing}
	matched := model.Wine{
		Grapes: []model.GrapeVariety{{Name: "Cabernet Sauvignon"}, {Name: "Merlot"}},
	}

	enriched := Merge(u, matched)

	// A populated list is never merged element-by-element.
	assert.Equal(t, existing, enriched.Grapes)
}

func TestMerge_GrapesDoNotAliasCatalogRecord(t *testing.T) {
	matched := model.Wine{
		Grapes: []model.GrapeVariety{{Name: "Cabernet Sauvignon"}},
	}

	enriched := Merge(model.UnresolvedWine{Name: "x"}, matched)
	enriched.Grapes[0].Name = "changed"

	assert.Equal(t, "Cabernet Sauvignon", matched.Grapes[0].Name)
}

func TestMerge_UntouchedFieldsAreNeverSourced(t *testing.T) {
	u := model.UnresolvedWine{Name: "Margaux"}
	matched := model.Wine{
		Name:        "Château Margaux",
		SubRegion:   "Médoc",
		Designation: "Grand Vin",
		Category:    model.CategoryRed,
		Vintage:     intPtr(2015),
		Alcohol:     floatPtr(13.5),
	}

	enriched := Merge(u, matched)

	// Enrichment fills descriptive identity fields only; the caller's
	// view of vintage, alcohol, sub-region, designation and category is
	// authoritative even when empty.
	assert.Equal(t, "Margaux", enriched.Name)
	assert.Empty(t, enriched.SubRegion)
	assert.Empty(t, enriched.Designation)
	assert.Empty(t, enriched.Category)
	assert.Nil(t, enriched.Vintage)
	assert.Nil(t, enriched.Alcohol)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
