package curve

import "github.com/matzehuels/hubmap/pkg/geo"

const (
	// DefaultSteps is the number of segments sampled along a curve.
	DefaultSteps = 20

	// MaxSteps bounds the sample count a caller may request.
	MaxSteps = 1000

	// Bow is the default control-point offset as a fraction of chord length.
	Bow = 0.2
)

// Curve is an ordered list of samples from start to end.
type Curve []geo.LatLng

// Start returns the first sample.
func (c Curve) Start() geo.LatLng { return c[0] }

// End returns the last sample.
func (c Curve) End() geo.LatLng { return c[len(c)-1] }

// Midpoint returns the middle sample (t = 0.5 for even step counts).
func (c Curve) Midpoint() geo.LatLng { return c[len(c)/2] }

// Options tunes curve generation. The zero value selects the defaults.
type Options struct {
	Steps int      // segments; <= 0 uses DefaultSteps
	Bow   *float64 // control offset fraction; nil uses Bow, 0 draws a straight chord
}

// BowOf returns a pointer to b for Options.Bow.
func BowOf(b float64) *float64 { return &b }

// Generate samples the default bowed curve from start to end with steps
// segments, returning steps+1 samples. steps <= 0 selects DefaultSteps.
func Generate(start, end geo.LatLng, steps int) Curve {
	return GenerateWith(start, end, Options{Steps: steps})
}

// GenerateWith is Generate with an explicit bow factor.
func GenerateWith(start, end geo.LatLng, opts Options) Curve {
	if start == end {
		return Curve{start, end}
	}
	steps := opts.Steps
	if steps <= 0 {
		steps = DefaultSteps
	}

	ctrl := controlPoint(start, end, bowOrDefault(opts.Bow))
	out := make(Curve, steps+1)
	out[0] = start
	for i := 1; i < steps; i++ {
		out[i] = quadratic(start, ctrl, end, float64(i)/float64(steps))
	}
	out[steps] = end
	return out
}

// Control returns the control point used for the default curve between start
// and end. For a zero-length chord it returns start.
func Control(start, end geo.LatLng) geo.LatLng {
	if start == end {
		return start
	}
	return controlPoint(start, end, Bow)
}

func bowOrDefault(b *float64) float64 {
	if b == nil {
		return Bow
	}
	return *b
}

// controlPoint offsets the chord midpoint by bow times the normal (-dy, dx).
// The normal has the chord's length, so the offset is bow*|chord| without
// dividing by it.
func controlPoint(start, end geo.LatLng, bow float64) geo.LatLng {
	d := end.Sub(start)
	mid := start.Add(end).Scale(0.5)
	return mid.Add(geo.LatLng{Lat: -d.Lng, Lng: d.Lat}.Scale(bow))
}

func quadratic(p0, p1, p2 geo.LatLng, t float64) geo.LatLng {
	u := 1 - t
	return geo.LatLng{
		Lat: u*u*p0.Lat + 2*u*t*p1.Lat + t*t*p2.Lat,
		Lng: u*u*p0.Lng + 2*u*t*p1.Lng + t*t*p2.Lng,
	}
}
