// Package view hosts the network map inside a container.
//
// A [NetworkMap] ties the pieces together: on [NetworkMap.Mount] it acquires
// a surface, builds the connection graph with a fresh random source and
// renders it; on [NetworkMap.Unmount] it releases the surface, which removes
// every drawn element. Failures never escape as panics. They leave the view
// in the Failed status with a placeholder message, and the caller decides
// when to mount again.
package view

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/lifecycle"
	"github.com/matzehuels/hubmap/pkg/network"
	"github.com/matzehuels/hubmap/pkg/render"
	"github.com/matzehuels/hubmap/pkg/surface"
)

// Status is what the map region currently shows.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Option configures a NetworkMap.
type Option func(*NetworkMap)

// WithSeed makes every mount draw the same secondary edges.
func WithSeed(seed uint64) Option {
	return func(v *NetworkMap) {
		v.random = func() (network.RandomSource, uint64) { return network.NewRandom(seed), seed }
	}
}

// WithRandom sets the factory called once per mount for a random source.
func WithRandom(f func() (network.RandomSource, uint64)) Option {
	return func(v *NetworkMap) { v.random = f }
}

// WithNetworkOptions sets the hub index and secondary probability.
func WithNetworkOptions(o network.Options) Option {
	return func(v *NetworkMap) { v.netOpts = o }
}

// WithRenderOptions sets curve sampling options.
func WithRenderOptions(o render.Options) Option {
	return func(v *NetworkMap) { v.renderer = render.New(o) }
}

// WithTileLayers adds background layers to every surface.
func WithTileLayers(layers ...surface.TileLayer) Option {
	return func(v *NetworkMap) { v.layers = append(v.layers, layers...) }
}

// WithLogger sets the logger used by the view and its lifecycle manager.
func WithLogger(l *log.Logger) Option {
	return func(v *NetworkMap) {
		if l != nil {
			v.logger = l
		}
	}
}

// NetworkMap renders a registry's connection graph on a mounted container.
// It is not safe for concurrent use.
type NetworkMap struct {
	registry *geo.Registry
	manager  *lifecycle.Manager
	renderer *render.Renderer
	netOpts  network.Options
	random   func() (network.RandomSource, uint64)
	layers   []surface.TileLayer
	logger   *log.Logger

	status   Status
	err      error
	edges    []network.Edge
	disposal render.Disposal
	seed     uint64
}

// New returns an idle view drawing reg through capability c.
func New(reg *geo.Registry, c surface.Capability, opts ...Option) *NetworkMap {
	v := &NetworkMap{
		registry: reg,
		renderer: render.New(render.Options{}),
		netOpts:  network.DefaultOptions(),
		random:   network.NewSeededRandom,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.manager = lifecycle.New(c, lifecycle.WithTileLayers(v.layers...), lifecycle.WithLogger(v.logger))
	return v
}

// Mount acquires a surface for the container and draws the network. Mounting
// the container that is already showing the map does nothing. Any failure
// releases whatever was acquired and leaves the view Failed.
func (v *NetworkMap) Mount(c *surface.Container) error {
	if v.status == Ready {
		if h := v.manager.Handle(); h != nil && c != nil && h.Container().ID == c.ID {
			return nil
		}
		if err := v.Unmount(); err != nil {
			v.logger.Warn("unmounting previous container", "err", err)
		}
	}

	v.status = Loading
	v.err = nil

	if v.registry == nil {
		return v.fail(errors.New(errors.ErrCodeInvalidInput, "no points to draw"))
	}

	h, err := v.manager.Acquire(c)
	if err != nil {
		return v.fail(err)
	}

	rng, seed := v.random()
	points := v.registry.Points()
	edges, err := network.Build(points, v.netOpts, rng)
	if err != nil {
		return v.fail(err)
	}

	d, err := v.renderer.Render(h, points, edges)
	if err != nil {
		return v.fail(err)
	}

	v.edges = edges
	v.disposal = d
	v.seed = seed
	v.status = Ready
	v.logger.Debug("map mounted", "container", c.ID, "seed", seed, "edges", len(edges), "elements", d.Len())
	return nil
}

func (v *NetworkMap) fail(err error) error {
	if rerr := v.manager.Release(); rerr != nil {
		v.logger.Warn("releasing after failed mount", "err", rerr)
	}
	v.edges = nil
	v.disposal = render.Disposal{}
	v.status = Failed
	v.err = err
	v.logger.Error("map unavailable", "err", err)
	return err
}

// Unmount releases the surface and every element drawn on it.
func (v *NetworkMap) Unmount() error {
	err := v.manager.Release()
	v.edges = nil
	v.disposal = render.Disposal{}
	v.status = Idle
	v.err = nil
	return err
}

// Status returns the current status.
func (v *NetworkMap) Status() Status { return v.status }

// Err returns the error behind a Failed status.
func (v *NetworkMap) Err() error { return v.err }

// Placeholder returns the text shown in place of the map, or "" when the map
// itself is visible or the view is idle.
func (v *NetworkMap) Placeholder() string {
	switch v.status {
	case Loading:
		return "Loading map…"
	case Failed:
		return "Map unavailable: " + errors.UserMessage(v.err)
	default:
		return ""
	}
}

// Edges returns the edges drawn by the current mount.
func (v *NetworkMap) Edges() []network.Edge { return slices.Clone(v.edges) }

// Disposal returns the elements drawn by the current mount.
func (v *NetworkMap) Disposal() render.Disposal { return v.disposal }

// Seed returns the random seed of the current mount.
func (v *NetworkMap) Seed() uint64 { return v.seed }

// Handle returns the live surface handle, or nil unless Ready.
func (v *NetworkMap) Handle() *lifecycle.Handle { return v.manager.Handle() }

// Snapshot serializes the mounted map.
func (v *NetworkMap) Snapshot() ([]byte, error) {
	return v.manager.Handle().Snapshot()
}

// ContentType returns the snapshot media type of the backend.
func (v *NetworkMap) ContentType() string {
	return v.manager.Handle().ContentType()
}
