package geo

import (
	"math"
	"testing"
)

func TestEquirectangular(t *testing.T) {
	tests := []struct {
		p            LatLng
		wantX, wantY float64
	}{
		{LatLng{0, 0}, 400, 200},
		{LatLng{90, -180}, 0, 0},
		{LatLng{-90, 180}, 800, 400},
		{LatLng{45, 90}, 600, 100},
	}

	for _, tt := range tests {
		x, y := Equirectangular{}.Project(tt.p, 800, 400)
		if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
			t.Errorf("Project(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestMollweide(t *testing.T) {
	tests := []struct {
		p            LatLng
		wantX, wantY float64
	}{
		{LatLng{0, 0}, 400, 200},
		{LatLng{90, 0}, 400, 0},
		{LatLng{-90, 0}, 400, 400},
		{LatLng{0, 180}, 800, 200},
		{LatLng{0, -180}, 0, 200},
	}

	for _, tt := range tests {
		x, y := Mollweide{}.Project(tt.p, 800, 400)
		if math.Abs(x-tt.wantX) > 0.5 || math.Abs(y-tt.wantY) > 0.5 {
			t.Errorf("Project(%v) = (%.2f, %.2f), want (%v, %v)", tt.p, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestProjectionByName(t *testing.T) {
	for name, want := range map[string]string{
		"":                ProjectionEquirectangular,
		"Mollweide":       ProjectionMollweide,
		"equirectangular": ProjectionEquirectangular,
	} {
		p, err := ProjectionByName(name)
		if err != nil {
			t.Fatalf("ProjectionByName(%q) error: %v", name, err)
		}
		if p.Name() != want {
			t.Errorf("ProjectionByName(%q).Name() = %q, want %q", name, p.Name(), want)
		}
	}

	if _, err := ProjectionByName("mercator"); err == nil {
		t.Error("ProjectionByName(mercator) should fail")
	}
}
