package surface

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
)

// Marker is a marker element held by a Scene.
type Marker struct {
	Pos   geo.LatLng
	Style MarkerStyle
}

// Path is a polyline element held by a Scene.
type Path struct {
	Points []geo.LatLng
	Style  PathStyle
}

// Element is one drawn item. Exactly one of Marker and Path is set.
type Element struct {
	ID     ElementID
	Marker *Marker
	Path   *Path
}

// Scene is a point-in-time copy of a surface's contents in draw order.
type Scene struct {
	ID        SurfaceID
	Container Container
	Layers    []TileLayer
	Elements  []Element
}

// Markers returns the marker elements in draw order.
func (s Scene) Markers() []Element {
	return s.filter(func(e Element) bool { return e.Marker != nil })
}

// Paths returns the polyline elements in draw order.
func (s Scene) Paths() []Element {
	return s.filter(func(e Element) bool { return e.Path != nil })
}

func (s Scene) filter(keep func(Element) bool) []Element {
	var out []Element
	for _, e := range s.Elements {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Store is an in-memory Capability. It is safe for concurrent use so that
// several lifecycle managers can share one backend.
type Store struct {
	mu     sync.Mutex
	scenes map[SurfaceID]*Scene
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{scenes: make(map[SurfaceID]*Scene)}
}

func (s *Store) CreateSurface(c *Container) (SurfaceID, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	id := SurfaceID(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenes[id] = &Scene{ID: id, Container: *c}
	return id, nil
}

func (s *Store) AddTileLayer(id SurfaceID, layer TileLayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, err := s.lookup(id)
	if err != nil {
		return err
	}
	sc.Layers = append(sc.Layers, layer)
	return nil
}

func (s *Store) AddMarker(id SurfaceID, pos geo.LatLng, style MarkerStyle) (ElementID, error) {
	if !pos.IsValid() {
		return "", errors.New(errors.ErrCodeInvalidPoint, "marker position %v is not finite", pos)
	}
	return s.add(id, Element{Marker: &Marker{Pos: pos, Style: style}})
}

func (s *Store) AddPolyline(id SurfaceID, path []geo.LatLng, style PathStyle) (ElementID, error) {
	if len(path) < 2 {
		return "", errors.New(errors.ErrCodeInvalidPath, "polyline needs at least 2 points, got %d", len(path))
	}
	for i, p := range path {
		if !p.IsValid() {
			return "", errors.New(errors.ErrCodeInvalidPath, "polyline point %d is not finite: %v", i, p)
		}
	}
	return s.add(id, Element{Path: &Path{Points: slices.Clone(path), Style: style}})
}

func (s *Store) add(id SurfaceID, el Element) (ElementID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	el.ID = ElementID(uuid.NewString())
	sc.Elements = append(sc.Elements, el)
	return el.ID, nil
}

func (s *Store) RemoveElement(id SurfaceID, el ElementID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, err := s.lookup(id)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(sc.Elements, func(e Element) bool { return e.ID == el })
	if i < 0 {
		return errors.New(errors.ErrCodeElementNotFound, "element %s not found on surface %s", el, id)
	}
	sc.Elements = slices.Delete(sc.Elements, i, i+1)
	return nil
}

func (s *Store) DestroySurface(id SurfaceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(id); err != nil {
		return err
	}
	delete(s.scenes, id)
	return nil
}

// Scene returns a copy of the surface's current contents.
func (s *Store) Scene(id SurfaceID) (Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, err := s.lookup(id)
	if err != nil {
		return Scene{}, err
	}
	return Scene{
		ID:        sc.ID,
		Container: sc.Container,
		Layers:    slices.Clone(sc.Layers),
		Elements:  slices.Clone(sc.Elements),
	}, nil
}

// Live returns the number of surfaces not yet destroyed.
func (s *Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scenes)
}

// LiveFor returns the number of live surfaces bound to the container ID.
func (s *Store) LiveFor(containerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, sc := range s.scenes {
		if sc.Container.ID == containerID {
			n++
		}
	}
	return n
}

func (s *Store) lookup(id SurfaceID) (*Scene, error) {
	sc, ok := s.scenes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSurfaceNotFound, "surface %s not found", id)
	}
	return sc, nil
}

var _ Capability = (*Store)(nil)
