package ingest

// Column aliases accepted per logical field, tried in order. The Liv-ex
// LWIN database ships upper-case headers; other catalog feeds use
// lower-case or snake_case variants, and lookups are exact-key, so each
// field lists every spelling it accepts. Order matters: the first
// non-empty cell wins.
var (
	aliasName = []string{"name", "Name", "NAME", "wine", "Wine", "WINE", "display_name", "DISPLAY_NAME"}

	aliasLWIN7  = []string{"lwin", "LWIN", "lwin7", "LWIN7"}
	aliasLWIN11 = []string{"lwin11", "LWIN11"}
	aliasLWIN18 = []string{"lwin18", "LWIN18"}

	aliasProducer      = []string{"producer", "Producer", "PRODUCER", "producer_name", "PRODUCER_NAME"}
	aliasProducerTitle = []string{"producer_title", "ProducerTitle", "PRODUCER_TITLE"}

	aliasCountry   = []string{"country", "Country", "COUNTRY"}
	aliasRegion    = []string{"region", "Region", "REGION"}
	aliasSubRegion = []string{"sub_region", "SubRegion", "SUB_REGION", "subregion", "SUBREGION"}

	aliasAppellation    = []string{"appellation", "Appellation", "APPELLATION", "site", "SITE"}
	aliasDesignation    = []string{"designation", "Designation", "DESIGNATION"}
	aliasClassification = []string{"classification", "Classification", "CLASSIFICATION"}

	aliasCategory = []string{"category", "Category", "CATEGORY", "colour", "Colour", "COLOUR", "color", "COLOR", "type", "Type", "TYPE"}

	aliasVintage = []string{"vintage", "Vintage", "VINTAGE", "year", "Year", "YEAR"}
	aliasGrapes  = []string{"grapes", "Grapes", "GRAPES", "grape_varieties", "GRAPE_VARIETIES", "varietal", "VARIETAL"}
	aliasAlcohol = []string{"alcohol", "Alcohol", "ALCOHOL", "abv", "ABV", "alcohol_percent", "ALCOHOL_PERCENT"}
)
