package model

import (
	"testing"
)

func TestValidateLWIN(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		fn      func(string) error
		wantErr bool
	}{
		{name: "empty lwin7 is valid", code: "", fn: ValidateLWIN7, wantErr: false},
		{name: "well-formed lwin7", code: "1023456", fn: ValidateLWIN7, wantErr: false},
		{name: "lwin7 too short", code: "102345", fn: ValidateLWIN7, wantErr: true},
		{name: "lwin7 too long", code: "10234567", fn: ValidateLWIN7, wantErr: true},
		{name: "lwin7 with letters", code: "10A3456", fn: ValidateLWIN7, wantErr: true},
		{name: "well-formed lwin11", code: "10234562015", fn: ValidateLWIN11, wantErr: false},
		{name: "lwin11 wrong length", code: "1023456", fn: ValidateLWIN11, wantErr: true},
		{name: "well-formed lwin18", code: "102345620150750001", fn: ValidateLWIN18, wantErr: false},
		{name: "lwin18 wrong length", code: "10234562015", fn: ValidateLWIN18, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestLWINField(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    string
		wantErr bool
	}{
		{name: "7 digits", code: "1023456", want: "lwin7"},
		{name: "11 digits", code: "10234562015", want: "lwin11"},
		{name: "18 digits", code: "102345620150750001", want: "lwin18"},
		{name: "unsupported length", code: "12345", wantErr: true},
		{name: "non-numeric", code: "1023x56", wantErr: true},
		{name: "empty", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LWINField(tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LWINField(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("LWINField(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}
