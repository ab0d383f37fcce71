// Package geojsonmap is a surface backend that exports maps as a GeoJSON
// FeatureCollection.
//
// Markers become Point features and polylines LineString features; the
// declarative style is flattened into feature properties so any web map can
// restyle them. Tile layers are exported as Polygon and MultiLineString
// features tagged with "layer".
package geojsonmap

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"

	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/surface"
)

// Backend implements surface.Capability and surface.Snapshotter.
type Backend struct {
	*surface.Store
	layers bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithLayers includes tile layers in snapshots. They are omitted by default
// since land outlines dwarf the network itself.
func WithLayers() Option { return func(b *Backend) { b.layers = true } }

// New returns a GeoJSON backend.
func New(opts ...Option) *Backend {
	b := &Backend{Store: surface.NewStore()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) ContentType() string { return "application/geo+json" }

// Snapshot exports the surface's current scene.
func (b *Backend) Snapshot(id surface.SurfaceID) ([]byte, error) {
	sc, err := b.Scene(id)
	if err != nil {
		return nil, err
	}
	return b.Render(sc)
}

// Render converts a scene to a FeatureCollection.
func (b *Backend) Render(sc surface.Scene) ([]byte, error) {
	fc := b.Collection(sc)
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return data, nil
}

// Collection converts a scene to a FeatureCollection without serializing it.
func (b *Backend) Collection(sc surface.Scene) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if b.layers {
		for _, l := range sc.Layers {
			for _, f := range layerFeatures(l) {
				fc.AddFeature(f)
			}
		}
	}
	for _, el := range sc.Elements {
		switch {
		case el.Path != nil:
			fc.AddFeature(pathFeature(el.ID, *el.Path))
		case el.Marker != nil:
			fc.AddFeature(markerFeature(el.ID, *el.Marker))
		}
	}
	return fc
}

func markerFeature(id surface.ElementID, m surface.Marker) *geojson.Feature {
	s := m.Style
	f := geojson.NewPointFeature(position(m.Pos))
	f.ID = string(id)
	f.SetProperty("kind", "marker")
	f.SetProperty("color", s.Color.String())
	f.SetProperty("radius", s.Radius)
	f.SetProperty("glow", s.Glow)
	f.SetProperty("pulse", s.Pulse)
	if s.Label != "" {
		f.SetProperty("label", s.Label)
		f.SetProperty("label_mode", s.LabelMode.String())
	}
	return f
}

func pathFeature(id surface.ElementID, p surface.Path) *geojson.Feature {
	s := p.Style
	f := geojson.NewLineStringFeature(positions(p.Points))
	f.ID = string(id)
	f.SetProperty("kind", "path")
	f.SetProperty("stroke", s.Color.Hex())
	f.SetProperty("stroke-width", s.Weight)
	f.SetProperty("stroke-opacity", s.Opacity*s.Color.Alpha())
	f.SetProperty("animated", s.Animated)
	if s.Dash != "" {
		f.SetProperty("dash", s.Dash)
	}
	if s.Class != "" {
		f.SetProperty("class", s.Class)
	}
	return f
}

func layerFeatures(l surface.TileLayer) []*geojson.Feature {
	var out []*geojson.Feature
	for _, ring := range l.Rings {
		f := geojson.NewPolygonFeature([][][]float64{closed(positions(ring))})
		f.SetProperty("layer", l.Name)
		f.SetProperty("fill", l.Fill.String())
		out = append(out, f)
	}
	if len(l.Lines) > 0 {
		lines := make([][][]float64, len(l.Lines))
		for i, line := range l.Lines {
			lines[i] = positions(line)
		}
		f := geojson.NewMultiLineStringFeature(lines...)
		f.SetProperty("layer", l.Name)
		f.SetProperty("stroke", l.Stroke.String())
		out = append(out, f)
	}
	return out
}

// position returns a GeoJSON [lng, lat] pair.
func position(p geo.LatLng) []float64 { return []float64{p.Lng, p.Lat} }

func positions(pts []geo.LatLng) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = position(p)
	}
	return out
}

// closed repeats the first position when a ring is left open.
func closed(ring [][]float64) [][]float64 {
	if len(ring) == 0 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		ring = append(ring, first)
	}
	return ring
}

var (
	_ surface.Capability  = (*Backend)(nil)
	_ surface.Snapshotter = (*Backend)(nil)
)
