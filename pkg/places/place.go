package places

import (
	"context"
	"strings"

	"github.com/biter777/countries"

	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
)

// DefaultColor is used for places without a color.
const DefaultColor = "#457b9d"

// Place is a location record as stored in files and databases.
type Place struct {
	Name        string  `toml:"name" json:"name" bson:"name"`
	Lat         float64 `toml:"lat" json:"lat" bson:"lat"`
	Lng         float64 `toml:"lng" json:"lng" bson:"lng"`
	Color       string  `toml:"color,omitempty" json:"color,omitempty" bson:"color,omitempty"`
	Highlighted bool    `toml:"highlighted,omitempty" json:"highlighted,omitempty" bson:"highlighted,omitempty"`
	Country     string  `toml:"country,omitempty" json:"country,omitempty" bson:"country,omitempty"`
}

// Source yields places in registry order.
type Source interface {
	Places(ctx context.Context) ([]Place, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Place, error)

func (f SourceFunc) Places(ctx context.Context) ([]Place, error) { return f(ctx) }

// CountryName returns the English name for an ISO 3166 alpha-2 or alpha-3
// code. ok is false for unknown codes.
func CountryName(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	c := countries.ByName(code)
	if c == countries.Unknown {
		return "", false
	}
	return c.String(), true
}

// ToPoint validates p and converts it to a map point.
func (p Place) ToPoint() (geo.Point, error) {
	color := p.Color
	if color == "" {
		color = DefaultColor
	}
	c, err := geo.ParseColor(color)
	if err != nil {
		return geo.Point{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "place %q", p.Name)
	}
	pt := geo.Point{
		Name:        p.Name,
		LatLng:      geo.LatLng{Lat: p.Lat, Lng: p.Lng},
		Color:       c,
		Highlighted: p.Highlighted,
	}
	if p.Country != "" {
		name, ok := CountryName(p.Country)
		if !ok {
			return geo.Point{}, errors.New(errors.ErrCodeInvalidInput, "place %q: unknown country code %q", p.Name, p.Country)
		}
		pt.Label = p.Name + ", " + name
	}
	return pt, nil
}

// ToPoints converts every place, stopping at the first invalid one.
func ToPoints(ps []Place) ([]geo.Point, error) {
	pts := make([]geo.Point, 0, len(ps))
	for _, p := range ps {
		pt, err := p.ToPoint()
		if err != nil {
			return nil, err
		}
		pts = append(pts, pt)
	}
	return pts, nil
}

// Registry loads src and builds a validated point registry.
func Registry(ctx context.Context, src Source) (*geo.Registry, error) {
	ps, err := src.Places(ctx)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no places")
	}
	pts, err := ToPoints(ps)
	if err != nil {
		return nil, err
	}
	return geo.NewRegistry(pts)
}
