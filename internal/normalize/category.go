package normalize

import (
	"strings"

	"github.com/cellarist/decanter/internal/model"
)

// categoryPattern maps a label substring to a wine category.
type categoryPattern struct {
	substring string
	category  model.WineCategory
}

// categoryTable is evaluated in order; the first substring hit wins.
// Specific styles come before colours so that "sparkling rosé" lands on
// sparkling, and "prosecco" (which contains "rose") is never mistaken
// for a rosé. Covers English and French labels.
var categoryTable = []categoryPattern{
	// Sparkling
	{"sparkling", model.CategorySparkling},
	{"champagne", model.CategorySparkling},
	{"crémant", model.CategorySparkling},
	{"cremant", model.CategorySparkling},
	{"mousseux", model.CategorySparkling},
	{"pétillant", model.CategorySparkling},
	{"petillant", model.CategorySparkling},
	{"effervescent", model.CategorySparkling},
	{"prosecco", model.CategorySparkling},
	{"cava", model.CategorySparkling},

	// Fortified
	{"fortified", model.CategoryFortified},
	{"port", model.CategoryFortified},
	{"sherry", model.CategoryFortified},
	{"madeira", model.CategoryFortified},
	{"madère", model.CategoryFortified},
	{"vin doux naturel", model.CategoryFortified},
	{"muté", model.CategoryFortified},
	{"vermouth", model.CategoryFortified},

	// Dessert
	{"dessert", model.CategoryDessert},
	{"sweet", model.CategoryDessert},
	{"moelleux", model.CategoryDessert},
	{"liquoreux", model.CategoryDessert},
	{"sauternes", model.CategoryDessert},
	{"icewine", model.CategoryDessert},
	{"ice wine", model.CategoryDessert},
	{"vendange tardive", model.CategoryDessert},
	{"late harvest", model.CategoryDessert},

	// Rosé
	{"rosé", model.CategoryRose},
	{"rose", model.CategoryRose},
	{"rosado", model.CategoryRose},
	{"rosato", model.CategoryRose},

	// White
	{"white", model.CategoryWhite},
	{"blanc", model.CategoryWhite},
	{"bianco", model.CategoryWhite},
	{"blanco", model.CategoryWhite},

	// Red
	{"red", model.CategoryRed},
	{"rouge", model.CategoryRed},
	{"rosso", model.CategoryRed},
	{"tinto", model.CategoryRed},
}

// Category maps a free-text category or colour label to a wine
// category. The bool reports whether the label was recognized; empty or
// unrecognized input keeps the historical red default with ok=false so
// callers can surface the uncertainty instead of trusting the value.
func Category(raw string) (model.WineCategory, bool) {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return model.CategoryRed, false
	}

	for _, p := range categoryTable {
		if strings.Contains(label, p.substring) {
			return p.category, true
		}
	}

	return model.CategoryRed, false
}
