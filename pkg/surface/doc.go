// Package surface defines the map rendering capability the engine draws on.
//
// # Overview
//
// The engine never talks to a mapping library directly. It is written against
// [Capability], a small set of retained-mode operations: create a surface for
// a [Container], add tile layers, markers and polylines, remove elements and
// destroy the surface. Style decisions travel as declarative descriptors
// ([MarkerStyle], [PathStyle]) so a backend is free to express a pulse as a
// CSS animation, a GeoJSON property or nothing at all.
//
// # Backends
//
// [Store] keeps surfaces and their elements in memory and implements the full
// capability. The concrete backends embed it and add a [Snapshotter]:
//
//   - [github.com/matzehuels/hubmap/pkg/surface/svgmap]: animated SVG
//   - [github.com/matzehuels/hubmap/pkg/surface/rastermap]: PNG via gg
//   - [github.com/matzehuels/hubmap/pkg/surface/geojsonmap]: GeoJSON features
//   - [github.com/matzehuels/hubmap/pkg/surface/surfacetest]: recording fake
//
// # Identifiers
//
// Surface and element IDs are random UUID strings. They are only meaningful
// to the backend that issued them.
package surface
