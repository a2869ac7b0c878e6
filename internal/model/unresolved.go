package model

import "strings"

// UnresolvedWine is a partially-populated record supplied by an
// extraction pipeline or import, awaiting resolution against the
// catalog. Every field may be empty; SuggestedCode is an optional
// caller-provided identity guess tried before any scoring.
type UnresolvedWine struct {
	Vintage        *int           `json:"vintage,omitempty"`
	Alcohol        *float64       `json:"alcohol,omitempty"`
	Grapes         []GrapeVariety `json:"grapes,omitempty"`
	Name           string         `json:"name"`
	Producer       string         `json:"producer,omitempty"`
	ProducerTitle  string         `json:"producer_title,omitempty"`
	Country        string         `json:"country,omitempty"`
	Region         string         `json:"region,omitempty"`
	SubRegion      string         `json:"sub_region,omitempty"`
	Appellation    string         `json:"appellation,omitempty"`
	Designation    string         `json:"designation,omitempty"`
	Classification string         `json:"classification,omitempty"`
	Category       WineCategory   `json:"category,omitempty"`
	LWIN7          string         `json:"lwin7,omitempty"`
	LWIN11         string         `json:"lwin11,omitempty"`
	LWIN18         string         `json:"lwin18,omitempty"`
	SuggestedCode  string         `json:"suggested_code,omitempty"`
}

// Label renders a short human-readable identity for logs.
func (u *UnresolvedWine) Label() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Producer != "" {
		return u.Producer
	}
	if u.SuggestedCode != "" {
		return "code " + u.SuggestedCode
	}
	return "(unnamed)"
}

// Validate checks identity code formats. Descriptive fields are free-form.
func (u *UnresolvedWine) Validate() error {
	if err := ValidateLWIN7(u.LWIN7); err != nil {
		return err
	}
	if err := ValidateLWIN11(u.LWIN11); err != nil {
		return err
	}
	if err := ValidateLWIN18(u.LWIN18); err != nil {
		return err
	}
	if u.SuggestedCode != "" {
		if _, err := LWINField(u.SuggestedCode); err != nil {
			return err
		}
	}
	return nil
}

// HasText reports whether any free-text field usable for candidate
// generation is populated.
func (u *UnresolvedWine) HasText() bool {
	return strings.TrimSpace(u.Name) != "" ||
		strings.TrimSpace(u.Producer) != "" ||
		strings.TrimSpace(u.Region) != ""
}
