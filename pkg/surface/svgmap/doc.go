// Package svgmap is a surface backend that serializes maps as animated SVG.
//
// Markers become circle groups with a blur-filter glow and a <title> hover
// label; highlighted markers also get a permanent text label and a CSS pulse.
// Dashed, animated polylines use a stroke-dashoffset keyframe animation, so
// the output animates in any browser without script.
//
//	b := svgmap.New(svgmap.WithProjection(geo.Mollweide{}))
//	id, _ := b.CreateSurface(surface.NewContainer("map", 1200, 600))
//	// ... draw through the lifecycle manager ...
//	svg, _ := b.Snapshot(id)
package svgmap
