package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Lisbon", false},
		{"with spaces", "New York", false},
		{"unicode", "São Paulo", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 200), true},
		{"control char", "Lis\x01bon", true},
		{"newline", "Lis\nbon", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPoint) {
				t.Errorf("ValidateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPoint)
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		wantErr  bool
	}{
		{"origin", 0, 0, false},
		{"corners", -90, 180, false},
		{"lisbon", 38.72, -9.14, false},

		{"lat too high", 90.5, 0, true},
		{"lat too low", -91, 0, true},
		{"lng too high", 0, 181, true},
		{"lng too low", 0, -180.1, true},
		{"nan", math.NaN(), 0, true},
		{"inf", 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinates(tt.lat, tt.lng)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinates(%v, %v) error = %v, wantErr %v", tt.lat, tt.lng, err, tt.wantErr)
			}
		})
	}
}

func TestValidateProbability(t *testing.T) {
	for _, p := range []float64{0, 0.3, 1} {
		if err := ValidateProbability(p); err != nil {
			t.Errorf("ValidateProbability(%v) = %v, want nil", p, err)
		}
	}
	for _, p := range []float64{-0.1, 1.01, math.NaN()} {
		if err := ValidateProbability(p); err == nil {
			t.Errorf("ValidateProbability(%v) = nil, want error", p)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/land.geojson", false},
		{"http", "http://localhost:8080/land.geojson", false},
		{"empty", "", true},
		{"file scheme", "file:///etc/passwd", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
