package geo

import (
	"testing"

	"github.com/matzehuels/hubmap/pkg/errors"
)

func samplePoints() []Point {
	return []Point{
		{Name: "Hub", LatLng: LatLng{0, 0}, Color: MustColor("#ff6b35"), Highlighted: true},
		{Name: "A", LatLng: LatLng{10, 0}, Color: MustColor("#00bfff")},
		{Name: "B", LatLng: LatLng{0, 10}, Color: MustColor("#adff2f")},
	}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(samplePoints())
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}
	hub, ok := reg.Hub()
	if !ok || hub.Name != "Hub" {
		t.Errorf("Hub() = %v, %v, want Hub", hub.Name, ok)
	}
	if p, ok := reg.Lookup("B"); !ok || p.Lng != 10 {
		t.Errorf("Lookup(B) = %+v, %v", p, ok)
	}
	if reg.IndexOf("A") != 1 || reg.IndexOf("missing") != -1 {
		t.Errorf("IndexOf mismatch")
	}
}

func TestRegistryIsImmutable(t *testing.T) {
	pts := samplePoints()
	reg, _ := NewRegistry(pts)

	pts[0].Name = "Changed"
	out := reg.Points()
	out[1].Name = "Mutated"

	if hub, _ := reg.Hub(); hub.Name != "Hub" {
		t.Errorf("registry changed through input slice: %q", hub.Name)
	}
	if p := reg.Points()[1]; p.Name != "A" {
		t.Errorf("registry changed through Points() slice: %q", p.Name)
	}
}

func TestNewRegistryRejects(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"duplicate name", []Point{{Name: "A"}, {Name: "A", LatLng: LatLng{1, 1}}}},
		{"empty name", []Point{{Name: ""}}},
		{"latitude out of range", []Point{{Name: "A", LatLng: LatLng{95, 0}}}},
		{"longitude out of range", []Point{{Name: "A", LatLng: LatLng{0, -200}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.points)
			if !errors.Is(err, errors.ErrCodeInvalidPoint) {
				t.Errorf("NewRegistry() error = %v, want %s", err, errors.ErrCodeInvalidPoint)
			}
		})
	}
}

func TestEmptyRegistry(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry(nil) error: %v", err)
	}
	if _, ok := reg.Hub(); ok {
		t.Error("Hub() on empty registry should report !ok")
	}
}

func TestDisplayLabel(t *testing.T) {
	p := Point{Name: "lis"}
	if p.DisplayLabel() != "lis" {
		t.Errorf("DisplayLabel() = %q, want %q", p.DisplayLabel(), "lis")
	}
	p.Label = "Lisbon, Portugal"
	if p.DisplayLabel() != "Lisbon, Portugal" {
		t.Errorf("DisplayLabel() = %q, want label", p.DisplayLabel())
	}
}
