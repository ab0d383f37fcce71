// Package pkg provides the libraries behind hubmap, a hub-and-spoke network
// map.
//
// # Overview
//
// hubmap draws a set of named places on a world map. One place is the hub;
// every other place gets a curved primary route to it, and each pair of
// non-hub places is linked by a secondary route with a configurable
// probability. The pkg directory is organized into three areas:
//
//  1. Domain - [geo], [curve], [network], [render] and [view]
//  2. Surfaces - [surface], [lifecycle] and the svgmap, rastermap and
//     geojsonmap backends
//  3. Infrastructure - [places], [tiles], [cache], [httputil], [config],
//     [observability], [errors] and [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	places file / MongoDB / built-in list
//	         ↓
//	    [places] package (validate into a geo.Registry)
//	         ↓
//	    [network] package (hub and secondary edges)
//	         ↓
//	    [curve] + [render] packages (bowed paths, markers, styles)
//	         ↓
//	    [lifecycle] package (surface acquisition and disposal)
//	         ↓
//	    SVG/PNG/GeoJSON output
//
// [view] ties these together: one NetworkMap mounts on a container, draws
// the network and releases everything on unmount.
//
// # Quick Start
//
//	reg, _ := places.Registry(ctx, places.Builtin)
//	v := view.New(reg, svgmap.New(), view.WithSeed(1))
//	_ = v.Mount(surface.NewContainer("map", 1200, 600))
//	svg, _ := v.Snapshot()
//	_ = v.Unmount()
//
// # Testing
//
// Run tests:
//
//	go test ./...                                 # All tests
//	HUBMAP_TEST_REDIS=localhost:6379 go test ./pkg/cache
//	HUBMAP_TEST_MONGO=mongodb://localhost go test ./pkg/places
//
// [geo]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/geo
// [curve]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/curve
// [network]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/network
// [render]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/render
// [view]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/view
// [surface]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/surface
// [lifecycle]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/lifecycle
// [places]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/places
// [tiles]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/tiles
// [cache]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/hubmap/pkg/buildinfo
package pkg
