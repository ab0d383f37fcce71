package lifecycle

import (
	stderrors "errors"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/observability"
	"github.com/matzehuels/hubmap/pkg/surface"
)

// Option configures a Manager.
type Option func(*Manager)

// WithTileLayers adds background layers to every surface the manager creates.
func WithTileLayers(layers ...surface.TileLayer) Option {
	return func(m *Manager) { m.layers = append(m.layers, layers...) }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager owns at most one live surface at a time.
type Manager struct {
	capability surface.Capability
	layers     []surface.TileLayer
	logger     *log.Logger

	state   State
	current *Handle
}

// New returns an Uninitialized manager drawing through c.
func New(c surface.Capability, opts ...Option) *Manager {
	m := &Manager{
		capability: c,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the manager's current state.
func (m *Manager) State() State { return m.state }

// Handle returns the live handle, or nil unless the manager is Ready.
func (m *Manager) Handle() *Handle {
	if m.state != Ready {
		return nil
	}
	return m.current
}

// Acquire binds a surface to the container and returns its handle.
//
// Acquiring the container the manager is already bound to returns the same
// handle. Acquiring a different container releases the old surface first. If
// surface creation or any tile layer fails, the half-built surface is
// destroyed and the manager falls back to its previous state.
func (m *Manager) Acquire(c *surface.Container) (*Handle, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch m.state {
	case Acquiring:
		return nil, errors.New(errors.ErrCodeSurfaceNotReady, "acquisition of another surface is in progress")
	case Ready:
		if m.current.container.ID == c.ID {
			m.logger.Debug("surface already acquired", "container", c.ID, "surface", m.current.id)
			return m.current, nil
		}
		m.logger.Debug("container changed, releasing old surface", "from", m.current.container.ID, "to", c.ID)
		if err := m.Release(); err != nil {
			m.logger.Warn("releasing previous surface", "err", err)
		}
	}

	prev := m.state
	m.state = Acquiring
	start := time.Now()

	h, err := m.create(c)
	observability.Lifecycle().OnAcquire(c.ID, h.surfaceID(), time.Since(start), err)
	if err != nil {
		m.state = prev
		return nil, err
	}

	m.current = h
	m.state = Ready
	m.logger.Debug("surface ready", "container", c.ID, "surface", h.id, "layers", len(m.layers))
	return h, nil
}

func (m *Manager) create(c *surface.Container) (*Handle, error) {
	if m.capability == nil {
		return nil, errors.New(errors.ErrCodeInternal, "no map capability configured")
	}
	id, err := m.capability.CreateSurface(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create surface for %q", c.ID)
	}
	for _, l := range m.layers {
		if err := m.capability.AddTileLayer(id, l); err != nil {
			err = errors.Wrap(errors.ErrCodeInternal, err, "add tile layer %q", l.Name)
			if derr := m.capability.DestroySurface(id); derr != nil {
				err = stderrors.Join(err, derr)
			}
			return nil, err
		}
	}
	return &Handle{
		id:         id,
		container:  *c,
		capability: m.capability,
		state:      Ready,
	}, nil
}

// Release removes every element drawn through the live handle, destroys the
// surface and moves to Released. Outside Ready it does nothing. Teardown
// errors are joined and returned, but the transition always happens.
func (m *Manager) Release() error {
	if m.state != Ready {
		return nil
	}
	h := m.current
	m.current = nil
	m.state = Released

	var errs []error
	elements := slices.Clone(h.elements)
	for _, el := range slices.Backward(elements) {
		if err := m.capability.RemoveElement(h.id, el); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.capability.DestroySurface(h.id); err != nil {
		errs = append(errs, err)
	}
	h.elements = nil
	h.state = Released

	err := stderrors.Join(errs...)
	observability.Lifecycle().OnRelease(h.container.ID, string(h.id), len(elements), err)
	m.logger.Debug("surface released", "container", h.container.ID, "surface", h.id, "elements", len(elements))
	return err
}
