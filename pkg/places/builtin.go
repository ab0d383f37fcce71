package places

import (
	"context"
	"slices"
)

var builtin = []Place{
	{Name: "Dubai", Lat: 25.2048, Lng: 55.2708, Color: "#e63946", Highlighted: true, Country: "AE"},
	{Name: "London", Lat: 51.5074, Lng: -0.1278, Color: "#f4a261", Highlighted: true, Country: "GB"},
	{Name: "Singapore", Lat: 1.3521, Lng: 103.8198, Color: "#2a9d8f", Highlighted: true, Country: "SG"},
	{Name: "New York", Lat: 40.7128, Lng: -74.0060, Color: "#457b9d", Country: "US"},
	{Name: "Mumbai", Lat: 19.0760, Lng: 72.8777, Color: "#e9c46a", Country: "IN"},
	{Name: "Nairobi", Lat: -1.2921, Lng: 36.8219, Color: "#8ab17d", Country: "KE"},
	{Name: "São Paulo", Lat: -23.5505, Lng: -46.6333, Color: "#b5838d", Country: "BR"},
	{Name: "Sydney", Lat: -33.8688, Lng: 151.2093, Color: "#6d597a", Country: "AU"},
	{Name: "Tokyo", Lat: 35.6762, Lng: 139.6503, Color: "#ef476f", Country: "JP"},
	{Name: "Frankfurt", Lat: 50.1109, Lng: 8.6821, Color: "#118ab2", Country: "DE"},
}

// DefaultPlaces returns a copy of the built-in hub list. Dubai is the hub.
func DefaultPlaces() []Place { return slices.Clone(builtin) }

// Builtin is the Source for DefaultPlaces.
var Builtin Source = SourceFunc(func(context.Context) ([]Place, error) {
	return DefaultPlaces(), nil
})
