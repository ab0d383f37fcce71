package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/hubmap/pkg/config"
	"github.com/matzehuels/hubmap/pkg/curve"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/network"
	"github.com/matzehuels/hubmap/pkg/surface"
	"github.com/matzehuels/hubmap/pkg/view"
)

// mapFlags are the flags shared by commands that build or draw the network.
type mapFlags struct {
	seed        uint64
	probability float64
	hub         int
	width       int
	height      int
	projection  string
	tiles       string
	bow         float64
}

func (f *mapFlags) register(fs *pflag.FlagSet, d config.Config) {
	fs.Uint64Var(&f.seed, "seed", d.Render.Seed, "random seed for secondary routes")
	fs.Float64Var(&f.probability, "probability", d.Render.Probability, "chance that two non-hub places are linked")
	fs.IntVar(&f.hub, "hub", d.Render.Hub, "index of the hub place")
	fs.IntVar(&f.width, "width", d.Render.Width, "map width")
	fs.IntVar(&f.height, "height", d.Render.Height, "map height")
	fs.StringVar(&f.projection, "projection", d.Render.Projection, "projection: equirectangular, mollweide")
	fs.Float64Var(&f.bow, "bow", curve.Bow, "route bow as a fraction of chord length; 0 draws straight lines")
	fs.StringVar(&f.tiles, "tiles", strings.Join(d.Tiles.Layers, ","), "tile layers: graticule, land (comma-separated)")
}

// apply copies explicitly set flags over the loaded config and revalidates.
func (f *mapFlags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("seed") {
		cfg.Render.Seed = f.seed
	}
	if fs.Changed("probability") {
		cfg.Render.Probability = f.probability
	}
	if fs.Changed("hub") {
		cfg.Render.Hub = f.hub
	}
	if fs.Changed("width") {
		cfg.Render.Width = f.width
	}
	if fs.Changed("height") {
		cfg.Render.Height = f.height
	}
	if fs.Changed("projection") {
		cfg.Render.Projection = f.projection
	}
	if fs.Changed("bow") {
		cfg.Render.Bow = curve.BowOf(f.bow)
	}
	if fs.Changed("tiles") {
		cfg.Tiles.Layers = parseList(f.tiles)
	}
	return cfg.Validate()
}

type renderOpts struct {
	mapFlags
	output  string
	formats string
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [places.toml]",
		Short: "Render the hub network to SVG, PNG or GeoJSON",
		Long: `Render draws every place as a marker, a curved primary route from the hub to
each place and a random sample of secondary routes. Without a places file the
configured source or the built-in hub list is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.apply(cmd.Flags(), &c.Config); err != nil {
				return err
			}
			formats, err := parseFormats(opts.formats)
			if err != nil {
				return err
			}
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runRender(cmd.Context(), file, formats, opts.output)
		},
	}

	opts.register(cmd.Flags(), config.Default())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several) or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, geojson (comma-separated)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, file string, formats []string, output string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	store, err := c.openCache(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	reg, err := c.loadRegistry(ctx, file, store)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d places", reg.Len())

	spin := newSpinner(ctx, "Loading tile layers...")
	layers, err := c.tileLayers(ctx, store, c.Config.Tiles.Layers)
	if err != nil {
		spin.StopWithError("tile layers unavailable")
		return err
	}
	spin.Stop()

	var last *mapResult
	for _, format := range formats {
		res, err := renderMap(c.Config, c.Logger, reg, layers, format, view.WithSeed(c.Config.Render.Seed))
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		path := outputPath(output, format, len(formats))
		if err := writeOutput(path, res.Data); err != nil {
			return err
		}
		if path != "-" {
			logger.Debugf("Wrote %s: %d bytes", path, len(res.Data))
		}
		last = res
	}

	prog.done("Rendered network")
	if last != nil && output != "-" {
		s := network.Stats(last.Edges)
		printSuccess("Rendered %s", StyleHighlight.Render(strings.Join(formats, ", ")))
		for _, f := range formats {
			printFile(outputPath(output, f, len(formats)))
		}
		printStats(reg.Len(), s.Primary, s.Secondary, last.Seed)
	}
	return nil
}

// mapResult is one rendered map.
type mapResult struct {
	Data        []byte
	ContentType string
	Edges       []network.Edge
	Seed        uint64
}

// renderMap runs one full mount, snapshot and unmount cycle for format.
// Later options override the config-derived ones.
func renderMap(cfg config.Config, logger *log.Logger, reg *geo.Registry, layers []surface.TileLayer, format string, opts ...view.Option) (*mapResult, error) {
	b, err := newBackend(cfg, format)
	if err != nil {
		return nil, err
	}
	base := []view.Option{
		view.WithNetworkOptions(cfg.NetworkOptions()),
		view.WithRenderOptions(cfg.RenderOptions()),
		view.WithTileLayers(layers...),
		view.WithLogger(logger),
	}
	v := view.New(reg, b, append(base, opts...)...)

	container := surface.NewContainer(appName, cfg.Render.Width, cfg.Render.Height)
	if err := v.Mount(container); err != nil {
		return nil, err
	}
	defer func() {
		if err := v.Unmount(); err != nil {
			logger.Warn("unmount", "err", err)
		}
	}()

	data, err := v.Snapshot()
	if err != nil {
		return nil, err
	}
	return &mapResult{Data: data, ContentType: v.ContentType(), Edges: v.Edges(), Seed: v.Seed()}, nil
}

// outputPath picks the file for format. A single format writes to output
// as given; several formats share output as a base name.
func outputPath(output, format string, count int) string {
	if output == "-" {
		return "-"
	}
	if output != "" && count == 1 {
		return output
	}
	return basePath(output) + "." + format
}

// basePath strips a known format extension from output, defaulting to the
// application name.
func basePath(output string) string {
	if output == "" {
		return appName
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
