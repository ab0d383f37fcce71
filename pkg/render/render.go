package render

import (
	"time"

	"github.com/matzehuels/hubmap/pkg/curve"
	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/network"
	"github.com/matzehuels/hubmap/pkg/observability"
	"github.com/matzehuels/hubmap/pkg/surface"
)

// Surface is the drawing capability the renderer needs. It never owns the
// underlying map surface.
type Surface interface {
	Ready() bool
	AddMarker(pos geo.LatLng, style surface.MarkerStyle) (surface.ElementID, error)
	AddPolyline(path []geo.LatLng, style surface.PathStyle) (surface.ElementID, error)
}

// Disposal lists the elements drawn by one render pass in creation order.
type Disposal struct {
	Elements []surface.ElementID
	Markers  int
	Paths    int
}

// Len returns the number of elements drawn.
func (d Disposal) Len() int { return len(d.Elements) }

// Options tunes curve sampling. The zero value uses the curve defaults.
type Options struct {
	Steps int
	Bow   *float64
}

// Renderer draws points and edges.
type Renderer struct {
	opts Options
}

// New returns a Renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render draws every edge as a curve, then every point as a marker. It fails
// with SURFACE_NOT_READY when s is nil or not ready.
func (r *Renderer) Render(s Surface, points []geo.Point, edges []network.Edge) (Disposal, error) {
	var d Disposal
	if s == nil || !s.Ready() {
		return d, errors.New(errors.ErrCodeSurfaceNotReady, "render requires a ready surface")
	}

	start := time.Now()
	err := r.draw(s, points, edges, &d)
	observability.Lifecycle().OnRender(surfaceID(s), d.Markers, d.Paths, time.Since(start), err)
	return d, err
}

func (r *Renderer) draw(s Surface, points []geo.Point, edges []network.Edge, d *Disposal) error {
	for _, e := range edges {
		c := curve.GenerateWith(e.From.LatLng, e.To.LatLng, curve.Options{Steps: r.opts.Steps, Bow: r.opts.Bow})
		id, err := s.AddPolyline(c, PathStyleFor(e))
		if err != nil {
			return wrap(err, "draw edge %s", e)
		}
		d.Elements = append(d.Elements, id)
		d.Paths++
	}
	for _, p := range points {
		id, err := s.AddMarker(p.LatLng, MarkerStyleFor(p))
		if err != nil {
			return wrap(err, "draw marker %q", p.Name)
		}
		d.Elements = append(d.Elements, id)
		d.Markers++
	}
	return nil
}

// wrap adds context while keeping the capability's error code.
func wrap(err error, format string, args ...any) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, format, args...)
}

func surfaceID(s Surface) string {
	if h, ok := s.(interface{ ID() surface.SurfaceID }); ok {
		return string(h.ID())
	}
	return ""
}
