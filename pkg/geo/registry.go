package geo

import (
	"slices"

	"github.com/matzehuels/hubmap/pkg/errors"
)

// Registry is an immutable, validated list of points keyed by name.
// Index 0 is the hub.
type Registry struct {
	points []Point
	index  map[string]int
}

// NewRegistry validates points and returns a registry holding a copy of them.
// Names must be unique and non-empty, coordinates inside the geographic range.
func NewRegistry(points []Point) (*Registry, error) {
	r := &Registry{
		points: slices.Clone(points),
		index:  make(map[string]int, len(points)),
	}
	for i, p := range r.points {
		if err := errors.ValidateName(p.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPoint, err, "point %d", i)
		}
		if err := errors.ValidateCoordinates(p.Lat, p.Lng); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPoint, err, "point %q", p.Name)
		}
		if prev, dup := r.index[p.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidPoint, "duplicate point name %q (entries %d and %d)", p.Name, prev, i)
		}
		r.index[p.Name] = i
	}
	return r, nil
}

// Points returns a copy of the registered points in registration order.
func (r *Registry) Points() []Point { return slices.Clone(r.points) }

// Len returns the number of points.
func (r *Registry) Len() int { return len(r.points) }

// Hub returns the first point. ok is false for an empty registry.
func (r *Registry) Hub() (Point, bool) {
	if len(r.points) == 0 {
		return Point{}, false
	}
	return r.points[0], true
}

// Lookup returns the point with the given name.
func (r *Registry) Lookup(name string) (Point, bool) {
	i, ok := r.index[name]
	if !ok {
		return Point{}, false
	}
	return r.points[i], true
}

// IndexOf returns the registry index of name, or -1.
func (r *Registry) IndexOf(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}
