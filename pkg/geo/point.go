package geo

import (
	"fmt"
	"math"
)

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat" toml:"lat" bson:"lat"`
	Lng float64 `json:"lng" toml:"lng" bson:"lng"`
}

// Add returns the component-wise sum of a and b.
func (a LatLng) Add(b LatLng) LatLng { return LatLng{a.Lat + b.Lat, a.Lng + b.Lng} }

// Sub returns the component-wise difference a - b.
func (a LatLng) Sub(b LatLng) LatLng { return LatLng{a.Lat - b.Lat, a.Lng - b.Lng} }

// Scale multiplies both components by k.
func (a LatLng) Scale(k float64) LatLng { return LatLng{a.Lat * k, a.Lng * k} }

// Norm returns the planar length of a treated as a 2D vector.
func (a LatLng) Norm() float64 { return math.Hypot(a.Lat, a.Lng) }

// IsValid reports whether both components are finite.
func (a LatLng) IsValid() bool {
	return !math.IsNaN(a.Lat) && !math.IsNaN(a.Lng) && !math.IsInf(a.Lat, 0) && !math.IsInf(a.Lng, 0)
}

func (a LatLng) String() string { return fmt.Sprintf("(%.4f, %.4f)", a.Lat, a.Lng) }

// Point is a named location on the map.
type Point struct {
	Name string
	LatLng
	Color       Color
	Highlighted bool
	Label       string // optional display label; Name is used when empty
}

// DisplayLabel returns Label if set, otherwise Name.
func (p Point) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}
