package surfacetest

import (
	"testing"

	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/surface"
)

func TestRecorderCountsLiveSurfaces(t *testing.T) {
	r := New()
	a, _ := r.CreateSurface(surface.NewContainer("a", 10, 10))
	b, _ := r.CreateSurface(surface.NewContainer("b", 10, 10))
	if r.Live() != 2 || r.Peak() != 2 {
		t.Errorf("Live, Peak = %d, %d, want 2, 2", r.Live(), r.Peak())
	}
	_ = r.DestroySurface(a)
	_ = r.DestroySurface(b)
	if r.Live() != 0 || r.Peak() != 2 {
		t.Errorf("Live, Peak = %d, %d, want 0, 2", r.Live(), r.Peak())
	}
	if r.Count(OpCreateSurface) != 2 || r.Count(OpDestroySurface) != 2 {
		t.Errorf("calls = %v", r.Calls())
	}
}

func TestRecorderFailAfter(t *testing.T) {
	r := New()
	id, _ := r.CreateSurface(surface.NewContainer("a", 10, 10))
	r.FailAfter(OpAddMarker, 1, nil)

	if _, err := r.AddMarker(id, geo.LatLng{}, surface.MarkerStyle{}); err != nil {
		t.Fatalf("first AddMarker error = %v, want nil", err)
	}
	if _, err := r.AddMarker(id, geo.LatLng{}, surface.MarkerStyle{}); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("second AddMarker error = %v, want injected failure", err)
	}

	r.Heal()
	if _, err := r.AddMarker(id, geo.LatLng{}, surface.MarkerStyle{}); err != nil {
		t.Errorf("AddMarker after Heal error = %v", err)
	}
	if r.Count(OpAddMarker) != 2 {
		t.Errorf("Count(AddMarker) = %d, want 2", r.Count(OpAddMarker))
	}
}

func TestRecorderSnapshot(t *testing.T) {
	r := New()
	id, _ := r.CreateSurface(surface.NewContainer("a", 10, 20))
	_, _ = r.AddPolyline(id, []geo.LatLng{{}, {Lat: 1}}, surface.PathStyle{Weight: 2, Class: "primary"})
	_, _ = r.AddMarker(id, geo.LatLng{Lat: 1}, surface.MarkerStyle{Radius: 8, Label: "Hub"})

	out, err := r.Snapshot(id)
	if err != nil {
		t.Fatal(err)
	}
	want := "surface " + string(id) + " 10x20 layers=0\n" +
		"path n=2 w=2 primary\n" +
		"marker (1.0000, 0.0000) r=8 Hub\n"
	if string(out) != want {
		t.Errorf("Snapshot() =\n%s\nwant\n%s", out, want)
	}
}
