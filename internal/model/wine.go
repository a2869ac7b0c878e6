// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WineCategory is the broad style of a wine.
type WineCategory string

// Wine category constants.
const (
	CategoryRed       WineCategory = "red"
	CategoryWhite     WineCategory = "white"
	CategoryRose      WineCategory = "rosé"
	CategorySparkling WineCategory = "sparkling"
	CategoryDessert   WineCategory = "dessert"
	CategoryFortified WineCategory = "fortified"
)

// DataSource indicates where a catalog record originated.
type DataSource string

const (
	// SourceCatalogImport indicates the record came from a reference catalog file.
	SourceCatalogImport DataSource = "catalog-import"
	// SourceAIExtracted indicates the record was produced by label extraction.
	SourceAIExtracted DataSource = "ai-extracted"
	// SourceManual indicates the record was entered by hand.
	SourceManual DataSource = "manual"
)

// GrapeVariety is a single entry in a wine's grape composition.
type GrapeVariety struct {
	Percent *float64 `json:"percent,omitempty"`
	Name    string   `json:"name"`
}

// Wine is a canonical catalog record. Records with an empty Owner are
// shared/canonical; owned copies are outside the resolution paths.
type Wine struct {
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	LastSynced      time.Time      `json:"last_synced"`
	Vintage         *int           `json:"vintage,omitempty"`
	Alcohol         *float64       `json:"alcohol,omitempty"`
	Grapes          []GrapeVariety `json:"grapes,omitempty"`
	ID              string         `json:"id"`
	LWIN7           string         `json:"lwin7,omitempty"`
	LWIN11          string         `json:"lwin11,omitempty"`
	LWIN18          string         `json:"lwin18,omitempty"`
	Name            string         `json:"name"`
	Producer        string         `json:"producer,omitempty"`
	ProducerTitle   string         `json:"producer_title,omitempty"`
	Country         string         `json:"country,omitempty"`
	Region          string         `json:"region,omitempty"`
	SubRegion       string         `json:"sub_region,omitempty"`
	Appellation     string         `json:"appellation,omitempty"`
	Designation     string         `json:"designation,omitempty"`
	Classification  string         `json:"classification,omitempty"`
	Category        WineCategory   `json:"category"`
	DataSource      DataSource     `json:"data_source,omitempty"`
	Owner           string         `json:"owner,omitempty"`
	CategoryUnknown bool           `json:"category_unknown,omitempty"`
}

// IsCanonical reports whether the record is shared rather than user-owned.
func (w *Wine) IsCanonical() bool {
	return w.Owner == ""
}

// Validate ensures the record is storable: a name plus well-formed
// identity codes. Absent codes are fine; malformed ones are not.
func (w *Wine) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("wine name is required")
	}
	if err := ValidateLWIN7(w.LWIN7); err != nil {
		return err
	}
	if err := ValidateLWIN11(w.LWIN11); err != nil {
		return err
	}
	if err := ValidateLWIN18(w.LWIN18); err != nil {
		return err
	}
	return nil
}

// Label renders a short human-readable identity for logs and CLI output.
func (w *Wine) Label() string {
	parts := make([]string, 0, 3)
	if w.Name != "" {
		parts = append(parts, w.Name)
	}
	if w.Vintage != nil {
		parts = append(parts, strconv.Itoa(*w.Vintage))
	}
	if w.LWIN7 != "" {
		parts = append(parts, "LWIN "+w.LWIN7)
	}
	if len(parts) == 0 {
		return "(unnamed)"
	}
	return strings.Join(parts, " ")
}
