// Package cli implements the hubmap command-line interface.
//
// # Commands
//
//   - render: draw the hub network to SVG, PNG or GeoJSON files
//   - places: list the configured places
//   - topology: print the connection graph as DOT or render it with Graphviz
//   - serve: HTTP preview server rendering a fresh map per request
//   - preview: interactive terminal session mounting and unmounting the map
//   - cache: manage the tile cache
//
// Every command reads hubmap.toml (or --config) and lets flags override it.
// --verbose (-v) switches the charmbracelet logger to debug level; the logger
// travels through context.Context.
package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hubmap/pkg/buildinfo"
	"github.com/matzehuels/hubmap/pkg/cache"
	"github.com/matzehuels/hubmap/pkg/config"
	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/httputil"
	"github.com/matzehuels/hubmap/pkg/observability"
	"github.com/matzehuels/hubmap/pkg/places"
	"github.com/matzehuels/hubmap/pkg/surface"
	"github.com/matzehuels/hubmap/pkg/surface/geojsonmap"
	"github.com/matzehuels/hubmap/pkg/surface/rastermap"
	"github.com/matzehuels/hubmap/pkg/surface/svgmap"
	"github.com/matzehuels/hubmap/pkg/tiles"
)

const appName = "hubmap"

// placesTTL bounds how long places read from MongoDB are reused.
const placesTTL = time.Hour

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Output formats.
const (
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatGeoJSON = "geojson"
)

var validFormats = map[string]bool{FormatSVG: true, FormatPNG: true, FormatGeoJSON: true}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	noCache    bool
	verbose    bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "hubmap draws hub-and-spoke networks on a world map",
		Long:          `hubmap renders a set of places as a world map with a highlighted hub, curved primary routes to every other place and a random sample of secondary routes between them.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetLifecycleHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.FileName+" when present)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the tile and places cache")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.placesCommand())
	root.AddCommand(c.topologyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Shared wiring
// =============================================================================

// openCache opens the configured cache backend.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	cc := c.Config.Cache
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch strings.ToLower(cc.Backend) {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cc.RedisAddr, cc.RedisPassword, cc.RedisDB)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect redis at %s", cc.RedisAddr)
		}
		return cache.Instrument(rc, "redis"), nil
	default:
		fc, err := cache.NewFileCache(cc.Dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, continuing without cache", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.Instrument(fc, "file"), nil
	}
}

func (c *CLI) keyer() cache.Keyer {
	if p := c.Config.Cache.Prefix; p != "" {
		return cache.NewScopedKeyer(nil, p)
	}
	return cache.NewDefaultKeyer()
}

// tileLayers resolves layer names, downloading land data through the cache.
func (c *CLI) tileLayers(ctx context.Context, store cache.Cache, names []string) ([]surface.TileLayer, error) {
	client := httputil.NewClient(store,
		httputil.WithTTL(c.Config.Tiles.TTL.Duration),
		httputil.WithKeyer(c.keyer()),
	)
	return tiles.Build(ctx, names, client, c.Config.Tiles.LandURL)
}

// placesSource picks the places source: an explicit file argument, then the
// configured file, then MongoDB, then the built-in list. The returned close
// function must be called when done.
func (c *CLI) placesSource(ctx context.Context, file string, store cache.Cache) (places.Source, func(), error) {
	pc := c.Config.Places
	if file == "" {
		file = pc.File
	}
	if file != "" {
		return places.File(file), func() {}, nil
	}
	if pc.MongoURI == "" {
		return places.Builtin, func() {}, nil
	}
	m, err := places.DialMongo(ctx, pc.MongoURI, pc.MongoDB, pc.MongoCollection)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := m.Close(context.Background()); err != nil {
			c.Logger.Warn("disconnect mongo", "err", err)
		}
	}
	key := c.keyer().PlacesKey("mongo", pc.MongoDB, pc.MongoCollection)
	return places.Cached(m, store, key, placesTTL), closeFn, nil
}

// loadRegistry loads places and validates them into a registry.
func (c *CLI) loadRegistry(ctx context.Context, file string, store cache.Cache) (*geo.Registry, error) {
	src, closeFn, err := c.placesSource(ctx, file, store)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return places.Registry(ctx, src)
}

// backend is a surface that can also export its content.
type backend interface {
	surface.Capability
	surface.Snapshotter
}

// newBackend returns the surface backend for an output format.
func newBackend(cfg config.Config, format string) (backend, error) {
	proj, err := cfg.Projection()
	if err != nil {
		return nil, err
	}
	bg, err := geo.ParseColor(cfg.Render.Background)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return svgmap.New(svgmap.WithProjection(proj), svgmap.WithBackground(bg), svgmap.WithTitle(appName)), nil
	case FormatPNG:
		return rastermap.New(rastermap.WithProjection(proj), rastermap.WithBackground(bg)), nil
	case FormatGeoJSON:
		return geojsonmap.New(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be svg, png or geojson)", format)
}

// parseFormats parses a comma-separated format list. Empty means svg.
func parseFormats(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}, nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if !validFormats[f] {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be svg, png or geojson)", f)
		}
		out = append(out, f)
	}
	return out, nil
}

// parseList splits a comma-separated flag value.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
