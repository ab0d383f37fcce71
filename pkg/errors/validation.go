package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxNameLength bounds point and container names.
const maxNameLength = 128

// ValidateName validates a point or container name.
//
// The rules are intentionally conservative:
//   - No empty (or whitespace-only) names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidPoint, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPoint, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPoint, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidateCoordinates checks that lat and lng are finite and inside the
// geographic range (|lat| <= 90, |lng| <= 180).
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return New(ErrCodeInvalidPoint, "coordinates must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return New(ErrCodeInvalidPoint, "latitude %.6f out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return New(ErrCodeInvalidPoint, "longitude %.6f out of range [-180, 180]", lng)
	}
	return nil
}

// ValidateProbability checks that p is a probability in [0, 1].
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return New(ErrCodeInvalidInput, "probability %v out of range [0, 1]", p)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
