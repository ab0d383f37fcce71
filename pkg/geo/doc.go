// Package geo defines the geographic primitives shared by the map engine.
//
// # Points and Registries
//
// A [Point] is a named location with a display [Color] and a highlight flag.
// Points are collected into a [Registry], which validates them once at
// construction and is immutable afterwards:
//
//	reg, err := geo.NewRegistry([]geo.Point{
//	    {Name: "Lisbon", LatLng: geo.LatLng{Lat: 38.72, Lng: -9.14}, Color: geo.MustColor("#ff6b35"), Highlighted: true},
//	    {Name: "Porto", LatLng: geo.LatLng{Lat: 41.15, Lng: -8.61}, Color: geo.MustColor("#00bfff")},
//	})
//
// The first registry entry is the hub by convention; [Registry.Hub] returns it.
//
// # Coordinates
//
// [LatLng] is treated as a plain 2D vector by the curve model (x = latitude,
// y = longitude). No spherical correction is applied anywhere in the engine.
//
// # Projections
//
// Surface backends turn coordinates into pixels with a [Projection]:
// [Equirectangular] (plate carrée) or [Mollweide] (equal-area, the projection
// used for the world background). [ProjectionByName] resolves CLI flags.
package geo
