package places

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/hubmap/pkg/cache"
	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
)

const sampleTOML = `
[[place]]
name = "Dubai"
lat = 25.2048
lng = 55.2708
color = "#e63946"
highlighted = true
country = "AE"

[[place]]
name = "Frankfurt"
lat = 50.1109
lng = 8.6821
country = "DE"
`

func TestParse(t *testing.T) {
	ps, err := Parse([]byte(sampleTOML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("len = %d, want 2", len(ps))
	}
	if ps[0].Name != "Dubai" || !ps[0].Highlighted || ps[0].Lng != 55.2708 {
		t.Errorf("ps[0] = %+v", ps[0])
	}
	if ps[1].Color != "" || ps[1].Highlighted {
		t.Errorf("ps[1] = %+v, want defaults", ps[1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[[place]\nname = 1"},
		{"unknown key", "[[place]]\nname = \"A\"\nlatitude = 1.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Parse error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0644); err != nil {
		t.Fatal(err)
	}
	ps, err := File(path).Places(context.Background())
	if err != nil || len(ps) != 2 {
		t.Fatalf("File.Places = (%d, %v), want 2 places", len(ps), err)
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadFile(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Encode(DefaultPlaces())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "[[place]]") {
		t.Errorf("Encode output missing [[place]] tables:\n%s", data)
	}
	ps, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode): %v", err)
	}
	if len(ps) != len(DefaultPlaces()) || ps[0] != DefaultPlaces()[0] {
		t.Errorf("round trip changed places: got %d, first %+v", len(ps), ps[0])
	}
}

func TestCountryName(t *testing.T) {
	tests := []struct {
		code   string
		want   string
		wantOK bool
	}{
		{"DE", "Germany", true},
		{"JP", "Japan", true},
		{"", "", false},
		{"Atlantis", "", false},
	}
	for _, tt := range tests {
		got, ok := CountryName(tt.code)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("CountryName(%q) = (%q, %v), want (%q, %v)", tt.code, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestToPoint(t *testing.T) {
	pt, err := Place{Name: "Frankfurt", Lat: 50.1, Lng: 8.7, Country: "DE"}.ToPoint()
	if err != nil {
		t.Fatalf("ToPoint: %v", err)
	}
	if pt.Color != geo.MustColor(DefaultColor) {
		t.Errorf("Color = %v, want default %s", pt.Color, DefaultColor)
	}
	if got := pt.DisplayLabel(); got != "Frankfurt, Germany" {
		t.Errorf("DisplayLabel() = %q, want %q", got, "Frankfurt, Germany")
	}

	pt, err = Place{Name: "Nowhere", Lat: 1, Lng: 2}.ToPoint()
	if err != nil {
		t.Fatal(err)
	}
	if got := pt.DisplayLabel(); got != "Nowhere" {
		t.Errorf("DisplayLabel() = %q, want Nowhere", got)
	}
}

func TestToPointErrors(t *testing.T) {
	tests := []struct {
		name  string
		place Place
		code  errors.Code
	}{
		{"bad color", Place{Name: "A", Color: "red"}, errors.ErrCodeInvalidColor},
		{"bad country", Place{Name: "A", Country: "Atlantis"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.place.ToPoint(); !errors.Is(err, tt.code) {
				t.Errorf("ToPoint error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	reg, err := Registry(ctx, Builtin)
	if err != nil {
		t.Fatalf("Registry(Builtin): %v", err)
	}
	if reg.Len() != len(DefaultPlaces()) {
		t.Errorf("Len() = %d, want %d", reg.Len(), len(DefaultPlaces()))
	}
	if hub, _ := reg.Hub(); hub.Name != "Dubai" {
		t.Errorf("hub = %q, want Dubai", hub.Name)
	}

	empty := SourceFunc(func(context.Context) ([]Place, error) { return nil, nil })
	if _, err := Registry(ctx, empty); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Registry(empty) = %v, want INVALID_INPUT", err)
	}

	dup := SourceFunc(func(context.Context) ([]Place, error) {
		return []Place{{Name: "A"}, {Name: "A", Lat: 1}}, nil
	})
	if _, err := Registry(ctx, dup); !errors.Is(err, errors.ErrCodeInvalidPoint) {
		t.Errorf("Registry(dup) = %v, want INVALID_POINT", err)
	}
}

func TestDefaultPlacesIsCopy(t *testing.T) {
	ps := DefaultPlaces()
	ps[0].Name = "changed"
	if DefaultPlaces()[0].Name != "Dubai" {
		t.Error("DefaultPlaces returned shared storage")
	}
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	src := SourceFunc(func(context.Context) ([]Place, error) {
		calls++
		return []Place{{Name: "A", Lat: 1, Lng: 2}}, nil
	})
	key := cache.NewDefaultKeyer().PlacesKey("test", "a")
	cached := Cached(src, fc, key, time.Hour)

	for range 3 {
		ps, err := cached.Places(ctx)
		if err != nil || len(ps) != 1 || ps[0].Name != "A" {
			t.Fatalf("Places = (%v, %v)", ps, err)
		}
	}
	if calls != 1 {
		t.Errorf("source calls = %d, want 1", calls)
	}
}

func TestDialMongoValidation(t *testing.T) {
	if _, err := DialMongo(context.Background(), "", "db", "c"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("DialMongo(no uri) = %v, want INVALID_INPUT", err)
	}
}

// TestMongo runs against a live server when HUBMAP_TEST_MONGO is set.
func TestMongo(t *testing.T) {
	uri := os.Getenv("HUBMAP_TEST_MONGO")
	if uri == "" {
		t.Skip("HUBMAP_TEST_MONGO not set")
	}
	ctx := context.Background()
	m, err := DialMongo(ctx, uri, "hubmap_test", "places_"+time.Now().Format("150405"))
	if err != nil {
		t.Fatalf("DialMongo: %v", err)
	}
	defer m.Close(ctx)
	defer m.coll.Drop(ctx)

	want := DefaultPlaces()[:3]
	if err := m.Insert(ctx, want); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err := m.Places(ctx)
	if err != nil {
		t.Fatalf("Places: %v", err)
	}
	if len(got) != len(want) || got[0] != want[0] {
		t.Errorf("Places = %+v, want %+v", got, want)
	}
}
