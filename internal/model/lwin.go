package model

import "fmt"

// LWIN code lengths. The 7-digit code identifies a wine, 11 adds the
// vintage, 18 adds bottle size and pack.
const (
	LWIN7Len  = 7
	LWIN11Len = 11
	LWIN18Len = 18
)

// ValidateLWIN7 checks a 7-digit wine code. Empty is valid.
func ValidateLWIN7(code string) error {
	return validateLWIN("lwin7", code, LWIN7Len)
}

// ValidateLWIN11 checks an 11-digit wine+vintage code. Empty is valid.
func ValidateLWIN11(code string) error {
	return validateLWIN("lwin11", code, LWIN11Len)
}

// ValidateLWIN18 checks an 18-digit wine+vintage+bottle code. Empty is valid.
func ValidateLWIN18(code string) error {
	return validateLWIN("lwin18", code, LWIN18Len)
}

func validateLWIN(field, code string, length int) error {
	if code == "" {
		return nil
	}
	if len(code) != length || !allDigits(code) {
		return fmt.Errorf("%s must be exactly %d digits, got %q", field, length, code)
	}
	return nil
}

// LWINField maps an identity code to the catalog column it belongs to,
// based on its length. Used for caller-suggested code lookups.
func LWINField(code string) (string, error) {
	if !allDigits(code) {
		return "", fmt.Errorf("identity code must be numeric, got %q", code)
	}
	switch len(code) {
	case LWIN7Len:
		return "lwin7", nil
	case LWIN11Len:
		return "lwin11", nil
	case LWIN18Len:
		return "lwin18", nil
	default:
		return "", fmt.Errorf("identity code must be 7, 11 or 18 digits, got %d", len(code))
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
