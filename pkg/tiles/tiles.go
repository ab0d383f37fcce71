package tiles

import (
	"context"
	"math"
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/surface"
)

// DefaultLandURL is the Natural Earth 1:110m land dataset.
const DefaultLandURL = "https://raw.githubusercontent.com/nvkelso/natural-earth-vector/master/geojson/ne_110m_land.geojson"

// DefaultGraticuleStep is the grid spacing in degrees.
const DefaultGraticuleStep = 30

const (
	NameGraticule = "graticule"
	NameLand      = "land"
)

var (
	graticuleStroke = geo.MustColor("#33415566")
	landStroke      = geo.MustColor("#334155")
	landFill        = geo.MustColor("#1e293b")
)

// Fetcher downloads a URL, optionally bypassing any cache.
type Fetcher interface {
	Fetch(ctx context.Context, url string, refresh bool) ([]byte, error)
}

// Graticule returns meridians and parallels every step degrees.
// Non-positive steps use DefaultGraticuleStep.
func Graticule(step float64) surface.TileLayer {
	if step <= 0 || math.IsNaN(step) {
		step = DefaultGraticuleStep
	}
	layer := surface.TileLayer{Name: NameGraticule, Stroke: graticuleStroke}
	for lng := -180.0; lng <= 180; lng += step {
		layer.Lines = append(layer.Lines, []geo.LatLng{{Lat: -90, Lng: lng}, {Lat: 0, Lng: lng}, {Lat: 90, Lng: lng}})
	}
	for lat := -90.0 + step; lat < 90; lat += step {
		line := make([]geo.LatLng, 0, 5)
		for lng := -180.0; lng <= 180; lng += 90 {
			line = append(line, geo.LatLng{Lat: lat, Lng: lng})
		}
		layer.Lines = append(layer.Lines, line)
	}
	return layer
}

// Land fetches url (DefaultLandURL when empty) and parses it with ParseLand.
func Land(ctx context.Context, f Fetcher, url string) (surface.TileLayer, error) {
	if f == nil {
		return surface.TileLayer{}, errors.New(errors.ErrCodeInvalidInput, "land tiles need a fetcher")
	}
	if url == "" {
		url = DefaultLandURL
	}
	if err := errors.ValidateURL(url); err != nil {
		return surface.TileLayer{}, err
	}
	data, err := f.Fetch(ctx, url, false)
	if err != nil {
		return surface.TileLayer{}, err
	}
	layer, err := ParseLand(data)
	if err != nil {
		return surface.TileLayer{}, err
	}
	layer.Attribution = "Natural Earth"
	return layer, nil
}

// ParseLand converts a GeoJSON FeatureCollection into a land layer.
// Polygons and multipolygons become rings; line geometries become lines.
// Other geometry types are skipped.
func ParseLand(data []byte) (surface.TileLayer, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return surface.TileLayer{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse land GeoJSON")
	}
	layer := surface.TileLayer{Name: NameLand, Stroke: landStroke, Fill: landFill}
	for _, f := range fc.Features {
		g := f.Geometry
		if g == nil {
			continue
		}
		switch {
		case g.IsPolygon():
			layer.Rings = appendRings(layer.Rings, g.Polygon)
		case g.IsMultiPolygon():
			for _, poly := range g.MultiPolygon {
				layer.Rings = appendRings(layer.Rings, poly)
			}
		case g.IsLineString():
			layer.Lines = appendLine(layer.Lines, g.LineString)
		case g.IsMultiLineString():
			for _, line := range g.MultiLineString {
				layer.Lines = appendLine(layer.Lines, line)
			}
		}
	}
	if len(layer.Rings) == 0 && len(layer.Lines) == 0 {
		return surface.TileLayer{}, errors.New(errors.ErrCodeInvalidFormat, "land GeoJSON has no polygon or line features")
	}
	return layer, nil
}

// Build resolves layer names in order. Land layers are fetched with f.
func Build(ctx context.Context, names []string, f Fetcher, landURL string) ([]surface.TileLayer, error) {
	var layers []surface.TileLayer
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "", "none":
		case NameGraticule:
			layers = append(layers, Graticule(DefaultGraticuleStep))
		case NameLand:
			land, err := Land(ctx, f, landURL)
			if err != nil {
				return nil, err
			}
			layers = append(layers, land)
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown tile layer %q (want %s or %s)", name, NameGraticule, NameLand)
		}
	}
	return layers, nil
}

// appendRings keeps rings with at least three positions. GeoJSON positions
// are [lng, lat].
func appendRings(dst [][]geo.LatLng, rings [][][]float64) [][]geo.LatLng {
	for _, ring := range rings {
		if pts := toLatLng(ring); len(pts) >= 3 {
			dst = append(dst, pts)
		}
	}
	return dst
}

func appendLine(dst [][]geo.LatLng, line [][]float64) [][]geo.LatLng {
	if pts := toLatLng(line); len(pts) >= 2 {
		dst = append(dst, pts)
	}
	return dst
}

func toLatLng(coords [][]float64) []geo.LatLng {
	pts := make([]geo.LatLng, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		pts = append(pts, geo.LatLng{Lat: c[1], Lng: c[0]})
	}
	return pts
}
