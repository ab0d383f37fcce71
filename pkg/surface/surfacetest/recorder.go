// Package surfacetest provides an in-memory surface.Capability for tests.
//
// A Recorder logs every call, can be told to fail specific operations and
// keeps a running count of live surfaces, including the high-water mark, so
// tests can assert that no more than one surface ever existed at a time.
package surfacetest

import (
	"fmt"
	"sync"

	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/surface"
)

// Op names a capability operation.
type Op string

const (
	OpCreateSurface  Op = "CreateSurface"
	OpAddTileLayer   Op = "AddTileLayer"
	OpAddMarker      Op = "AddMarker"
	OpAddPolyline    Op = "AddPolyline"
	OpRemoveElement  Op = "RemoveElement"
	OpDestroySurface Op = "DestroySurface"
)

// Call is one recorded capability invocation.
type Call struct {
	Op      Op
	Surface surface.SurfaceID
	Element surface.ElementID
}

func (c Call) String() string {
	if c.Element != "" {
		return fmt.Sprintf("%s(%s, %s)", c.Op, c.Surface, c.Element)
	}
	return fmt.Sprintf("%s(%s)", c.Op, c.Surface)
}

// Recorder is a recording, fault-injecting capability.
type Recorder struct {
	store *surface.Store

	mu       sync.Mutex
	calls    []Call
	failures map[Op]failure
	peak     int
}

type failure struct {
	after int // successful calls to allow first
	err   error
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{store: surface.NewStore(), failures: make(map[Op]failure)}
}

// FailOn makes op return err from now on.
func (r *Recorder) FailOn(op Op, err error) { r.FailAfter(op, 0, err) }

// FailAfter lets op succeed n more times, then return err.
func (r *Recorder) FailAfter(op Op, n int, err error) {
	if err == nil {
		err = errors.New(errors.ErrCodeInternal, "injected %s failure", op)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[op] = failure{after: n, err: err}
}

// Heal clears all injected failures.
func (r *Recorder) Heal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.failures)
}

func (r *Recorder) check(op Op) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.failures[op]
	if !ok {
		return nil
	}
	if f.after > 0 {
		f.after--
		r.failures[op] = f
		return nil
	}
	return f.err
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	r.peak = max(r.peak, r.store.Live())
}

func (r *Recorder) CreateSurface(c *surface.Container) (surface.SurfaceID, error) {
	if err := r.check(OpCreateSurface); err != nil {
		return "", err
	}
	id, err := r.store.CreateSurface(c)
	if err != nil {
		return "", err
	}
	r.record(Call{Op: OpCreateSurface, Surface: id})
	return id, nil
}

func (r *Recorder) AddTileLayer(id surface.SurfaceID, layer surface.TileLayer) error {
	if err := r.check(OpAddTileLayer); err != nil {
		return err
	}
	if err := r.store.AddTileLayer(id, layer); err != nil {
		return err
	}
	r.record(Call{Op: OpAddTileLayer, Surface: id})
	return nil
}

func (r *Recorder) AddMarker(id surface.SurfaceID, pos geo.LatLng, style surface.MarkerStyle) (surface.ElementID, error) {
	if err := r.check(OpAddMarker); err != nil {
		return "", err
	}
	el, err := r.store.AddMarker(id, pos, style)
	if err != nil {
		return "", err
	}
	r.record(Call{Op: OpAddMarker, Surface: id, Element: el})
	return el, nil
}

func (r *Recorder) AddPolyline(id surface.SurfaceID, path []geo.LatLng, style surface.PathStyle) (surface.ElementID, error) {
	if err := r.check(OpAddPolyline); err != nil {
		return "", err
	}
	el, err := r.store.AddPolyline(id, path, style)
	if err != nil {
		return "", err
	}
	r.record(Call{Op: OpAddPolyline, Surface: id, Element: el})
	return el, nil
}

func (r *Recorder) RemoveElement(id surface.SurfaceID, el surface.ElementID) error {
	if err := r.check(OpRemoveElement); err != nil {
		return err
	}
	if err := r.store.RemoveElement(id, el); err != nil {
		return err
	}
	r.record(Call{Op: OpRemoveElement, Surface: id, Element: el})
	return nil
}

func (r *Recorder) DestroySurface(id surface.SurfaceID) error {
	if err := r.check(OpDestroySurface); err != nil {
		return err
	}
	if err := r.store.DestroySurface(id); err != nil {
		return err
	}
	r.record(Call{Op: OpDestroySurface, Surface: id})
	return nil
}

// Snapshot returns a plain-text listing of the scene, one element per line.
func (r *Recorder) Snapshot(id surface.SurfaceID) ([]byte, error) {
	sc, err := r.store.Scene(id)
	if err != nil {
		return nil, err
	}
	out := fmt.Appendf(nil, "surface %s %dx%d layers=%d\n", sc.ID, sc.Container.Width, sc.Container.Height, len(sc.Layers))
	for _, el := range sc.Elements {
		switch {
		case el.Marker != nil:
			out = fmt.Appendf(out, "marker %v r=%g %s\n", el.Marker.Pos, el.Marker.Style.Radius, el.Marker.Style.Label)
		case el.Path != nil:
			out = fmt.Appendf(out, "path n=%d w=%g %s\n", len(el.Path.Points), el.Path.Style.Weight, el.Path.Style.Class)
		}
	}
	return out, nil
}

func (r *Recorder) ContentType() string { return "text/plain" }

// Scene returns the current contents of a surface.
func (r *Recorder) Scene(id surface.SurfaceID) (surface.Scene, error) { return r.store.Scene(id) }

// Calls returns a copy of the call log.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns how many successful calls of op were recorded.
func (r *Recorder) Count(op Op) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Live returns the number of surfaces not yet destroyed.
func (r *Recorder) Live() int { return r.store.Live() }

// LiveFor returns the number of live surfaces bound to a container.
func (r *Recorder) LiveFor(containerID string) int { return r.store.LiveFor(containerID) }

// Peak returns the highest number of simultaneously live surfaces observed.
func (r *Recorder) Peak() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.peak
}

var (
	_ surface.Capability  = (*Recorder)(nil)
	_ surface.Snapshotter = (*Recorder)(nil)
)
