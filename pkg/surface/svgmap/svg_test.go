package svgmap

import (
	"strings"
	"testing"

	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/surface"
)

func newScene(t *testing.T, b *Backend) surface.SurfaceID {
	t.Helper()
	id, err := b.CreateSurface(surface.NewContainer("map", 360, 180))
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestSnapshotContents(t *testing.T) {
	b := New(WithTitle("Hubs & spokes"))
	id := newScene(t, b)

	red := geo.MustColor("#ff0000")
	if err := b.AddTileLayer(id, surface.TileLayer{
		Name:   "graticule",
		Lines:  [][]geo.LatLng{{{Lat: 0, Lng: -180}, {Lat: 0, Lng: 180}}},
		Stroke: geo.MustColor("#ffffff40"),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddPolyline(id, []geo.LatLng{{Lat: 0, Lng: 0}, {Lat: 10, Lng: 10}}, surface.PathStyle{
		Color: red, Weight: 2, Opacity: 0.8, Dash: "8 6", Animated: true, Class: "primary",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddMarker(id, geo.LatLng{Lat: 0, Lng: 0}, surface.MarkerStyle{
		Color: red, Radius: 8, Glow: 3, Pulse: true, Label: "Hub <1>", LabelMode: surface.LabelPermanent,
	}); err != nil {
		t.Fatal(err)
	}

	out, err := b.Snapshot(id)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(out)

	for _, want := range []string{
		`viewBox="0 0 360 180"`,
		`<title>Hubs &amp; spokes</title>`,
		`<filter id="glow-3"`,
		`data-layer="graticule"`,
		`d="M0.00,90.00L360.00,90.00"`,
		`class="path primary animated"`,
		`d="M180.00,90.00L190.00,80.00"`,
		`stroke-dasharray="8 6"`,
		`stroke-opacity="0.800"`,
		`class="pulse"`,
		`<text class="label permanent"`,
		`Hub &lt;1&gt;`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not terminated")
	}
}

func TestPathsBeforeMarkersInOutput(t *testing.T) {
	b := New()
	id := newScene(t, b)
	_, _ = b.AddPolyline(id, []geo.LatLng{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}}, surface.PathStyle{Weight: 1, Opacity: 1})
	_, _ = b.AddMarker(id, geo.LatLng{}, surface.MarkerStyle{Radius: 5})

	out, _ := b.Snapshot(id)
	svg := string(out)
	if strings.Index(svg, `class="path"`) > strings.Index(svg, `class="marker"`) {
		t.Error("path drawn after marker")
	}
}

func TestHoverLabel(t *testing.T) {
	b := New()
	id := newScene(t, b)
	_, _ = b.AddMarker(id, geo.LatLng{}, surface.MarkerStyle{Radius: 5, Glow: 1, Label: "Porto"})

	out, _ := b.Snapshot(id)
	svg := string(out)
	if !strings.Contains(svg, `<text class="label hover"`) || !strings.Contains(svg, "<title>Porto</title>") {
		t.Errorf("hover label missing:\n%s", svg)
	}
	if strings.Contains(svg, `class="pulse"`) {
		t.Error("non-pulsing marker rendered a pulse ring")
	}
}

func TestRemovedElementsDisappear(t *testing.T) {
	b := New()
	id := newScene(t, b)
	el, _ := b.AddMarker(id, geo.LatLng{}, surface.MarkerStyle{Radius: 5})
	if err := b.RemoveElement(id, el); err != nil {
		t.Fatal(err)
	}
	out, _ := b.Snapshot(id)
	if strings.Contains(string(out), string(el)) {
		t.Error("removed element still rendered")
	}
}

func TestSnapshotUnknownSurface(t *testing.T) {
	_, err := New().Snapshot("missing")
	if !errors.Is(err, errors.ErrCodeSurfaceNotFound) {
		t.Errorf("Snapshot() error = %v, want %s", err, errors.ErrCodeSurfaceNotFound)
	}
}

func TestProjectionOption(t *testing.T) {
	b := New(WithProjection(geo.Mollweide{}))
	id := newScene(t, b)
	out, _ := b.Snapshot(id)
	if !strings.Contains(string(out), `data-projection="mollweide"`) {
		t.Error("projection not recorded")
	}
	if b.ContentType() != "image/svg+xml" {
		t.Errorf("ContentType() = %q", b.ContentType())
	}
}
