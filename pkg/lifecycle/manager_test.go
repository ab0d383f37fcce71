package lifecycle

import (
	"testing"

	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/surface"
	"github.com/matzehuels/hubmap/pkg/surface/surfacetest"
)

func container(id string) *surface.Container {
	return surface.NewContainer(id, 800, 400)
}

func TestAcquireInvalidContainer(t *testing.T) {
	tests := []struct {
		name string
		c    *surface.Container
	}{
		{"nil", nil},
		{"unmounted", &surface.Container{ID: "map", Width: 800, Height: 400}},
		{"zero size", &surface.Container{ID: "map", Mounted: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := surfacetest.New()
			m := New(rec)
			h, err := m.Acquire(tt.c)
			if !errors.Is(err, errors.ErrCodeInvalidContainer) {
				t.Errorf("Acquire() error = %v, want %s", err, errors.ErrCodeInvalidContainer)
			}
			if h != nil {
				t.Error("Acquire() returned a handle on error")
			}
			if m.State() != Uninitialized {
				t.Errorf("State() = %v, want %v", m.State(), Uninitialized)
			}
			if rec.Count(surfacetest.OpCreateSurface) != 0 {
				t.Error("surface created for an invalid container")
			}
		})
	}
}

func TestAcquireTwiceSameContainer(t *testing.T) {
	rec := surfacetest.New()
	m := New(rec)

	h1, err := m.Acquire(container("map"))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := m.Acquire(container("map"))
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Error("second Acquire returned a different handle")
	}
	if rec.Count(surfacetest.OpCreateSurface) != 1 || rec.Live() != 1 {
		t.Errorf("surfaces created = %d, live = %d, want 1, 1", rec.Count(surfacetest.OpCreateSurface), rec.Live())
	}
	if m.State() != Ready || !h1.Ready() {
		t.Errorf("State() = %v, want ready", m.State())
	}
}

func TestAcquireDifferentContainerReleasesOld(t *testing.T) {
	rec := surfacetest.New()
	m := New(rec)

	old, _ := m.Acquire(container("a"))
	if _, err := old.AddMarker(geo.LatLng{}, surface.MarkerStyle{Radius: 5}); err != nil {
		t.Fatal(err)
	}

	h, err := m.Acquire(container("b"))
	if err != nil {
		t.Fatal(err)
	}
	if h == old {
		t.Fatal("new container reused the old handle")
	}
	if old.Ready() || old.State() != Released {
		t.Errorf("old handle state = %v, want released", old.State())
	}
	if rec.LiveFor("a") != 0 || rec.LiveFor("b") != 1 {
		t.Errorf("live surfaces a=%d b=%d, want 0, 1", rec.LiveFor("a"), rec.LiveFor("b"))
	}
	if rec.Peak() != 1 {
		t.Errorf("Peak() = %d, want 1", rec.Peak())
	}
	if rec.Count(surfacetest.OpRemoveElement) != 1 {
		t.Errorf("removed elements = %d, want 1", rec.Count(surfacetest.OpRemoveElement))
	}
}

func TestReleaseBeforeAcquireIsNoop(t *testing.T) {
	rec := surfacetest.New()
	m := New(rec)

	if err := m.Release(); err != nil {
		t.Errorf("Release() = %v, want nil", err)
	}
	if m.State() != Uninitialized {
		t.Errorf("State() = %v, want %v", m.State(), Uninitialized)
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("capability calls = %v, want none", rec.Calls())
	}
}

func TestReleaseTwice(t *testing.T) {
	rec := surfacetest.New()
	m := New(rec)
	_, _ = m.Acquire(container("map"))

	if err := m.Release(); err != nil {
		t.Fatal(err)
	}
	if err := m.Release(); err != nil {
		t.Errorf("second Release() = %v, want nil", err)
	}
	if rec.Count(surfacetest.OpDestroySurface) != 1 {
		t.Errorf("DestroySurface calls = %d, want 1", rec.Count(surfacetest.OpDestroySurface))
	}
	if m.State() != Released || m.Handle() != nil {
		t.Errorf("State() = %v, Handle() = %v", m.State(), m.Handle())
	}
}

func TestReleaseRemovesElementsInReverse(t *testing.T) {
	rec := surfacetest.New()
	m := New(rec)
	h, _ := m.Acquire(container("map"))

	p, _ := h.AddPolyline([]geo.LatLng{{}, {Lat: 1}}, surface.PathStyle{Weight: 1})
	mk, _ := h.AddMarker(geo.LatLng{}, surface.MarkerStyle{Radius: 5})
	if got := h.Elements(); len(got) != 2 || got[0] != p || got[1] != mk {
		t.Fatalf("Elements() = %v, want [%s %s]", got, p, mk)
	}

	if err := m.Release(); err != nil {
		t.Fatal(err)
	}

	var removed []surface.ElementID
	for _, c := range rec.Calls() {
		if c.Op == surfacetest.OpRemoveElement {
			removed = append(removed, c.Element)
		}
	}
	if len(removed) != 2 || removed[0] != mk || removed[1] != p {
		t.Errorf("removal order = %v, want [%s %s]", removed, mk, p)
	}
	calls := rec.Calls()
	if last := calls[len(calls)-1]; last.Op != surfacetest.OpDestroySurface {
		t.Errorf("last call = %v, want DestroySurface", last)
	}
	if rec.Live() != 0 {
		t.Errorf("Live() = %d, want 0", rec.Live())
	}
}

func TestReleaseReportsTeardownErrors(t *testing.T) {
	rec := surfacetest.New()
	m := New(rec)
	h, _ := m.Acquire(container("map"))
	_, _ = h.AddMarker(geo.LatLng{}, surface.MarkerStyle{})

	rec.FailOn(surfacetest.OpRemoveElement, nil)
	err := m.Release()
	if err == nil {
		t.Fatal("Release() = nil, want teardown error")
	}
	if m.State() != Released {
		t.Errorf("State() = %v, want released even on error", m.State())
	}
	if rec.Live() != 0 {
		t.Errorf("surface not destroyed after element removal failed")
	}
}

func TestAcquireAfterReleaseCreatesFreshHandle(t *testing.T) {
	rec := surfacetest.New()
	m := New(rec)

	h1, _ := m.Acquire(container("map"))
	_ = m.Release()
	h2, err := m.Acquire(container("map"))
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 || h1.ID() == h2.ID() {
		t.Error("Acquire after Release resurrected the old handle")
	}
	if h1.Ready() {
		t.Error("released handle became ready again")
	}
	if rec.Peak() != 1 {
		t.Errorf("Peak() = %d, want 1", rec.Peak())
	}
}

func TestAcquireFailureCleansUp(t *testing.T) {
	rec := surfacetest.New()
	layers := []surface.TileLayer{{Name: "graticule"}, {Name: "land"}}
	m := New(rec, WithTileLayers(layers...))

	rec.FailAfter(surfacetest.OpAddTileLayer, 1, nil)
	h, err := m.Acquire(container("map"))
	if err == nil || h != nil {
		t.Fatalf("Acquire() = %v, %v, want error", h, err)
	}
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInternal)
	}
	if rec.Live() != 0 {
		t.Errorf("half-built surface leaked: Live() = %d", rec.Live())
	}
	if m.State() != Uninitialized {
		t.Errorf("State() = %v, want %v", m.State(), Uninitialized)
	}

	rec.Heal()
	if _, err := m.Acquire(container("map")); err != nil {
		t.Fatalf("retry Acquire() error = %v", err)
	}
	if rec.Count(surfacetest.OpAddTileLayer) != 3 {
		t.Errorf("AddTileLayer calls = %d, want 3", rec.Count(surfacetest.OpAddTileLayer))
	}
}

func TestAcquireCreateFailureKeepsReleasedState(t *testing.T) {
	rec := surfacetest.New()
	m := New(rec)
	_, _ = m.Acquire(container("map"))
	_ = m.Release()

	rec.FailOn(surfacetest.OpCreateSurface, nil)
	if _, err := m.Acquire(container("map")); err == nil {
		t.Fatal("Acquire() = nil error, want failure")
	}
	if m.State() != Released {
		t.Errorf("State() = %v, want %v", m.State(), Released)
	}
}

func TestAcquireWithoutCapability(t *testing.T) {
	m := New(nil)
	if _, err := m.Acquire(container("map")); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Acquire() error = %v, want %s", err, errors.ErrCodeInternal)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Uninitialized: "uninitialized",
		Acquiring:     "acquiring",
		Ready:         "ready",
		Released:      "released",
		State(7):      "State(7)",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
