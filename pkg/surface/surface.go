package surface

import (
	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
)

// SurfaceID identifies a surface created by a backend.
type SurfaceID string

// ElementID identifies a marker or polyline on a surface.
type ElementID string

// Capability is the retained-mode map library the engine renders through.
type Capability interface {
	CreateSurface(c *Container) (SurfaceID, error)
	AddTileLayer(id SurfaceID, layer TileLayer) error
	AddMarker(id SurfaceID, pos geo.LatLng, style MarkerStyle) (ElementID, error)
	AddPolyline(id SurfaceID, path []geo.LatLng, style PathStyle) (ElementID, error)
	RemoveElement(id SurfaceID, el ElementID) error
	DestroySurface(id SurfaceID) error
}

// Snapshotter is implemented by backends that can serialize a surface.
type Snapshotter interface {
	Snapshot(id SurfaceID) ([]byte, error)
	ContentType() string
}

// Container is the render target a surface is bound to.
type Container struct {
	ID      string
	Width   int
	Height  int
	Mounted bool
}

// NewContainer returns a mounted container of the given size.
func NewContainer(id string, width, height int) *Container {
	return &Container{ID: id, Width: width, Height: height, Mounted: true}
}

// Validate reports INVALID_CONTAINER for a nil, unmounted, anonymous or
// zero-sized container.
func (c *Container) Validate() error {
	switch {
	case c == nil:
		return errors.New(errors.ErrCodeInvalidContainer, "no container")
	case !c.Mounted:
		return errors.New(errors.ErrCodeInvalidContainer, "container %q is not mounted", c.ID)
	case c.ID == "":
		return errors.New(errors.ErrCodeInvalidContainer, "container has no id")
	case c.Width <= 0 || c.Height <= 0:
		return errors.New(errors.ErrCodeInvalidContainer, "container %q has invalid size %dx%d", c.ID, c.Width, c.Height)
	}
	return nil
}

// TileLayer is a static background layer. Lines are open polylines, Rings are
// closed polygon outlines filled with Fill.
type TileLayer struct {
	Name        string
	Lines       [][]geo.LatLng
	Rings       [][]geo.LatLng
	Stroke      geo.Color
	Fill        geo.Color
	Attribution string
}

// LabelMode controls when a marker label is shown.
type LabelMode int

const (
	LabelHover LabelMode = iota
	LabelPermanent
)

func (m LabelMode) String() string {
	if m == LabelPermanent {
		return "permanent"
	}
	return "hover"
}

// MarkerStyle describes how a point marker is drawn.
type MarkerStyle struct {
	Color     geo.Color
	Radius    float64
	Glow      float64 // halo width around the marker
	Pulse     bool
	Label     string
	LabelMode LabelMode
}

// PathStyle describes how a polyline is drawn.
type PathStyle struct {
	Color    geo.Color
	Weight   float64
	Opacity  float64
	Dash     string // SVG dash array, empty for solid
	Animated bool
	Class    string // semantic class, e.g. "primary"
}
