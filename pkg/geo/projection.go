package geo

import (
	"math"
	"strings"

	"github.com/matzehuels/hubmap/pkg/errors"
)

// Projection maps a coordinate to pixel space for a frame of the given size.
type Projection interface {
	Name() string
	Project(p LatLng, width, height float64) (x, y float64)
}

// Projection names accepted by ProjectionByName.
const (
	ProjectionEquirectangular = "equirectangular"
	ProjectionMollweide       = "mollweide"
)

// Equirectangular is the plate carrée projection: longitude maps linearly to
// x, latitude linearly to y.
type Equirectangular struct{}

func (Equirectangular) Name() string { return ProjectionEquirectangular }

func (Equirectangular) Project(p LatLng, width, height float64) (float64, float64) {
	x := (p.Lng + 180) / 360 * width
	y := (90 - p.Lat) / 180 * height
	return x, y
}

// Mollweide is the equal-area pseudocylindrical projection. The auxiliary
// angle is solved with Newton iterations.
type Mollweide struct{}

func (Mollweide) Name() string { return ProjectionMollweide }

func (Mollweide) Project(p LatLng, width, height float64) (float64, float64) {
	latRad, lngRad := p.Lat*math.Pi/180, p.Lng*math.Pi/180
	theta := latRad
	for range 10 {
		denom := 2 + 2*math.Cos(2*theta)
		if denom == 0 {
			break
		}
		delta := (2*theta + math.Sin(2*theta) - math.Pi*math.Sin(latRad)) / denom
		theta -= delta
		if math.Abs(delta) < 1e-7 {
			break
		}
	}
	// The full ellipse spans 4√2·r horizontally and 2√2·r vertically.
	r := math.Min(width/(4*math.Sqrt2), height/(2*math.Sqrt2))
	x := width/2 + r*(2*math.Sqrt2/math.Pi)*lngRad*math.Cos(theta)
	y := height/2 - r*math.Sqrt2*math.Sin(theta)
	return x, y
}

// ProjectionByName resolves a projection name (case-insensitive).
// An empty name selects Equirectangular.
func ProjectionByName(name string) (Projection, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProjectionEquirectangular:
		return Equirectangular{}, nil
	case ProjectionMollweide:
		return Mollweide{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidProjection, "unknown projection %q (must be %q or %q)",
		name, ProjectionEquirectangular, ProjectionMollweide)
}
