// Package config loads hubmap.toml.
//
// Every key is optional; missing keys keep the values from [Default].
// Command-line flags override the file.
//
//	[render]
//	width = 1200
//	height = 600
//	seed = 42
//	probability = 0.3
//	projection = "mollweide"
//
//	[tiles]
//	layers = ["land", "graticule"]
//	ttl = "168h"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[places]
//	file = "offices.toml"
//
//	[serve]
//	addr = ":8080"
package config

import (
	"math"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/hubmap/pkg/curve"
	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/network"
	"github.com/matzehuels/hubmap/pkg/render"
)

// FileName is the config file looked up in the working directory.
const FileName = "hubmap.toml"

// MaxBow bounds render.bow; beyond it curves leave the map entirely.
const MaxBow = 10.0

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

type Config struct {
	Render Render `toml:"render"`
	Tiles  Tiles  `toml:"tiles"`
	Cache  Cache  `toml:"cache"`
	Places Places `toml:"places"`
	Serve  Serve  `toml:"serve"`
}

type Render struct {
	Width       int      `toml:"width"`
	Height      int      `toml:"height"`
	Seed        uint64   `toml:"seed"`
	Probability float64  `toml:"probability"`
	Hub         int      `toml:"hub"`
	Projection  string   `toml:"projection"`
	Steps       int      `toml:"steps"`
	Bow         *float64 `toml:"bow"` // unset uses the curve default; 0 draws straight chords
	Background  string   `toml:"background"`
}

type Tiles struct {
	Layers  []string `toml:"layers"`
	LandURL string   `toml:"land_url"`
	TTL     Duration `toml:"ttl"`
}

type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

type Places struct {
	File            string `toml:"file"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDB         string `toml:"mongo_db"`
	MongoCollection string `toml:"mongo_collection"`
}

type Serve struct {
	Addr string `toml:"addr"`
}

// Duration decodes TOML strings such as "24h".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Render: Render{
			Width:       1200,
			Height:      600,
			Seed:        1,
			Probability: network.DefaultSecondaryProbability,
			Projection:  geo.ProjectionEquirectangular,
			Background:  "#0f172a",
		},
		Tiles: Tiles{
			Layers: []string{"graticule"},
			TTL:    Duration{7 * 24 * time.Hour},
		},
		Cache: Cache{Backend: CacheFile, RedisAddr: "localhost:6379"},
		Places: Places{
			MongoDB:         "hubmap",
			MongoCollection: "places",
		},
		Serve: Serve{Addr: "127.0.0.1:8080"},
	}
}

// Load reads path on top of Default. An empty path loads FileName from the
// working directory when it exists and returns Default otherwise.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(FileName); err != nil {
			return cfg, nil
		}
		path = FileName
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return cfg, err
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	return cfg, nil
}

// Decode merges TOML data into cfg and validates the result.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undec[0].String())
	}
	return cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	r := c.Render
	if r.Width <= 0 || r.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render size %dx%d must be positive", r.Width, r.Height)
	}
	if err := errors.ValidateProbability(r.Probability); err != nil {
		return err
	}
	if r.Steps < 0 || r.Steps > curve.MaxSteps {
		return errors.New(errors.ErrCodeInvalidInput, "render steps %d out of range [0, %d]", r.Steps, curve.MaxSteps)
	}
	if b := r.Bow; b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0) || math.Abs(*b) > MaxBow) {
		return errors.New(errors.ErrCodeInvalidInput, "render bow %v must be finite and within ±%v", *b, MaxBow)
	}
	if r.Hub < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "hub index %d must not be negative", r.Hub)
	}
	if _, err := geo.ProjectionByName(r.Projection); err != nil {
		return err
	}
	if _, err := geo.ParseColor(r.Background); err != nil {
		return err
	}
	switch strings.ToLower(c.Cache.Backend) {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Tiles.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tiles ttl must not be negative")
	}
	return nil
}

// NetworkOptions returns the graph builder options.
func (c Config) NetworkOptions() network.Options {
	return network.Options{Hub: c.Render.Hub, SecondaryProbability: c.Render.Probability}
}

// RenderOptions returns the path renderer options.
func (c Config) RenderOptions() render.Options {
	return render.Options{Steps: c.Render.Steps, Bow: c.Render.Bow}
}

// Projection resolves the configured projection.
func (c Config) Projection() (geo.Projection, error) {
	return geo.ProjectionByName(c.Render.Projection)
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
