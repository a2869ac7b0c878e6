// Package normalize converts loosely-typed catalog row values into
// canonical wine fields. Every function tolerates malformed input and
// answers with a zero value instead of an error; validity decisions
// belong to the caller.
package normalize

import (
	"strconv"
	"strings"

	"github.com/cellarist/decanter/internal/model"
)

// ResolveField returns the first non-empty value found by trying keys
// in order. Key comparison is exact; callers list every casing variant
// they want tried.
func ResolveField(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if value, ok := row[key]; ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// Vintage parses a year composed entirely of decimal digits. Anything
// else, including ranges like "2015/2016", yields nil.
func Vintage(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return nil
		}
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &year
}

// Alcohol parses an alcohol percentage, stripping a trailing percent
// sign and surrounding whitespace. Malformed input yields nil.
func Alcohol(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	abv, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &abv
}

// Grapes splits a comma-separated variety list into trimmed, non-empty
// grape names. Empty input yields nil.
func Grapes(raw string) []model.GrapeVariety {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	grapes := make([]model.GrapeVariety, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		grapes = append(grapes, model.GrapeVariety{Name: name})
	}
	if len(grapes) == 0 {
		return nil
	}
	return grapes
}

// SyntheticName builds a display name for rows that carry an identity
// code but no name: producer and vintage joined by a space, or
// "Wine <lwin7>" when both are absent.
func SyntheticName(producer string, vintage *int, lwin7 string) string {
	parts := make([]string, 0, 2)
	if trimmed := strings.TrimSpace(producer); trimmed != "" {
		parts = append(parts, trimmed)
	}
	if vintage != nil {
		parts = append(parts, strconv.Itoa(*vintage))
	}
	if len(parts) == 0 {
		return "Wine " + lwin7
	}
	return strings.Join(parts, " ")
}
