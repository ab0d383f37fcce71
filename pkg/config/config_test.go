package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestDecode(t *testing.T) {
	data := `
[render]
width = 800
seed = 42
probability = 0.5
projection = "Mollweide"

[tiles]
layers = ["land"]
ttl = "24h"

[cache]
backend = "redis"
redis_addr = "redis:6379"

[places]
file = "offices.toml"
`
	cfg := Default()
	if err := Decode([]byte(data), &cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Render.Width != 800 || cfg.Render.Height != 600 {
		t.Errorf("size = %dx%d, want 800x600", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Render.Seed)
	}
	if got := cfg.NetworkOptions().SecondaryProbability; got != 0.5 {
		t.Errorf("SecondaryProbability = %v, want 0.5", got)
	}
	if p, err := cfg.Projection(); err != nil || p.Name() != geo.ProjectionMollweide {
		t.Errorf("Projection() = (%v, %v), want mollweide", p, err)
	}
	if len(cfg.Tiles.Layers) != 1 || cfg.Tiles.Layers[0] != "land" {
		t.Errorf("Layers = %v, want [land]", cfg.Tiles.Layers)
	}
	if cfg.Tiles.TTL.Duration != 24*time.Hour {
		t.Errorf("TTL = %v, want 24h", cfg.Tiles.TTL)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Places.File != "offices.toml" || cfg.Places.MongoDB != "hubmap" {
		t.Errorf("Places = %+v", cfg.Places)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"unknown key", "[render]\ncolour = 1\n", errors.ErrCodeInvalidFormat},
		{"bad probability", "[render]\nprobability = 1.5\n", errors.ErrCodeInvalidInput},
		{"bad size", "[render]\nwidth = 0\n", errors.ErrCodeInvalidInput},
		{"negative hub", "[render]\nhub = -1\n", errors.ErrCodeInvalidInput},
		{"bad projection", "[render]\nprojection = \"mercator\"\n", errors.ErrCodeInvalidProjection},
		{"bad background", "[render]\nbackground = \"navy\"\n", errors.ErrCodeInvalidColor},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"nan bow", "[render]\nbow = nan\n", errors.ErrCodeInvalidInput},
		{"infinite bow", "[render]\nbow = -inf\n", errors.ErrCodeInvalidInput},
		{"huge bow", "[render]\nbow = 1e9\n", errors.ErrCodeInvalidInput},
		{"negative steps", "[render]\nsteps = -1\n", errors.ErrCodeInvalidInput},
		{"too many steps", "[render]\nsteps = 100000000\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := Decode([]byte(tt.data), &cfg); !errors.Is(err, tt.code) {
				t.Errorf("Decode error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDecodeBow(t *testing.T) {
	cfg := Default()
	if err := Decode([]byte("[render]\nsteps = 40\n"), &cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if o := cfg.RenderOptions(); o.Bow != nil || o.Steps != 40 {
		t.Errorf("RenderOptions() = %+v, want default bow and 40 steps", o)
	}

	if err := Decode([]byte("[render]\nbow = 0.0\n"), &cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := cfg.RenderOptions().Bow; b == nil || *b != 0 {
		t.Errorf("RenderOptions().Bow = %v, want explicit 0", b)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[serve]\naddr = \":9000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("Serve.Addr = %q, want :9000", cfg.Serve.Addr)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadWorkingDirectory(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if cfg.Render.Width != Default().Render.Width {
		t.Errorf("Width = %d, want default", cfg.Render.Width)
	}

	if err := os.WriteFile(FileName, []byte("[render]\nwidth = 640\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if cfg, err = Load(""); err != nil || cfg.Render.Width != 640 {
		t.Errorf("Load(\"\") = (width %d, %v), want 640", cfg.Render.Width, err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Encode(Default())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var cfg Config
	if err := Decode(data, &cfg); err != nil {
		t.Fatalf("Decode(Encode(Default())): %v\n%s", err, data)
	}
	if cfg.Tiles.TTL != Default().Tiles.TTL || cfg.Render.Projection != Default().Render.Projection {
		t.Errorf("round trip = %+v", cfg)
	}
}
