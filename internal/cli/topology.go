package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hubmap/pkg/config"
	"github.com/matzehuels/hubmap/pkg/network"
)

const (
	topologyDOT = "dot"
	topologySVG = "svg"
)

type topologyOpts struct {
	mapFlags
	output string
	format string
}

func (c *CLI) topologyCommand() *cobra.Command {
	var opts topologyOpts

	cmd := &cobra.Command{
		Use:   "topology [places.toml]",
		Short: "Show the connection graph as DOT or a Graphviz SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.apply(cmd.Flags(), &c.Config); err != nil {
				return err
			}
			if opts.format != topologyDOT && opts.format != topologySVG {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runTopology(cmd.Context(), file, opts)
		},
	}

	opts.register(cmd.Flags(), config.Default())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", topologyDOT, "output format: dot, svg")

	return cmd
}

func (c *CLI) runTopology(ctx context.Context, file string, opts topologyOpts) error {
	logger := loggerFromContext(ctx)

	store, err := c.openCache(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	reg, err := c.loadRegistry(ctx, file, store)
	if err != nil {
		return err
	}

	seed := c.Config.Render.Seed
	pts := reg.Points()
	edges, err := network.Build(pts, c.Config.NetworkOptions(), network.NewRandom(seed))
	if err != nil {
		return err
	}
	s := network.Stats(edges)
	logger.Debugf("Built %d edges (%d primary, %d secondary of %d pairs)",
		s.Total(), s.Primary, s.Secondary, network.PairCount(len(pts)))

	data := []byte(network.ToDOT(pts, edges))
	if opts.format == topologySVG {
		if data, err = network.RenderSVG(ctx, string(data)); err != nil {
			return err
		}
	}
	if err := writeOutput(opts.output, data); err != nil {
		return err
	}
	if opts.output != "" && opts.output != "-" {
		printSuccess("Wrote topology")
		printFile(opts.output)
		printStats(len(pts), s.Primary, s.Secondary, seed)
	}
	return nil
}
