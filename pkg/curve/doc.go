// Package curve computes the bowed connection paths drawn between map points.
//
// A connection is rendered as a quadratic Bézier curve whose control point sits
// on the perpendicular bisector of the chord, offset by a fixed fraction of the
// chord length ([Bow], 20% by default). Coordinates are treated as a planar 2D
// vector (x = latitude, y = longitude); this is a visual approximation, not a
// great-circle route.
//
//	c := curve.Generate(from.LatLng, to.LatLng, curve.DefaultSteps)
//	len(c) == curve.DefaultSteps+1 // 21 samples
//
// The first and last samples are the inputs themselves, so curves always meet
// their markers exactly. A zero-length chord yields the two identical endpoints.
package curve
