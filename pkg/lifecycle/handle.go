package lifecycle

import (
	"slices"

	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/surface"
)

// Handle is the drawing side of an acquired surface. It tracks every element
// it creates so the manager can remove them on release.
type Handle struct {
	id         surface.SurfaceID
	container  surface.Container
	capability surface.Capability
	state      State
	elements   []surface.ElementID
}

// ID returns the backend's surface ID.
func (h *Handle) ID() surface.SurfaceID { return h.id }

// Container returns a copy of the container the surface is bound to.
func (h *Handle) Container() surface.Container { return h.container }

// State returns Ready until the owning manager releases the surface.
func (h *Handle) State() State {
	if h == nil {
		return Uninitialized
	}
	return h.state
}

// Ready reports whether the handle can draw. A nil handle is never ready.
func (h *Handle) Ready() bool { return h != nil && h.state == Ready }

func (h *Handle) surfaceID() string {
	if h == nil {
		return ""
	}
	return string(h.id)
}

func (h *Handle) checkReady(op string) error {
	if !h.Ready() {
		return errors.New(errors.ErrCodeSurfaceNotReady, "cannot %s: surface is %s", op, h.State())
	}
	return nil
}

// AddMarker draws a marker and tracks it for disposal.
func (h *Handle) AddMarker(pos geo.LatLng, style surface.MarkerStyle) (surface.ElementID, error) {
	if err := h.checkReady("add marker"); err != nil {
		return "", err
	}
	el, err := h.capability.AddMarker(h.id, pos, style)
	if err != nil {
		return "", err
	}
	h.elements = append(h.elements, el)
	return el, nil
}

// AddPolyline draws a polyline and tracks it for disposal.
func (h *Handle) AddPolyline(path []geo.LatLng, style surface.PathStyle) (surface.ElementID, error) {
	if err := h.checkReady("add polyline"); err != nil {
		return "", err
	}
	el, err := h.capability.AddPolyline(h.id, path, style)
	if err != nil {
		return "", err
	}
	h.elements = append(h.elements, el)
	return el, nil
}

// Remove deletes elements early and stops tracking them. IDs the handle did
// not create are reported as ELEMENT_NOT_FOUND without touching the surface.
func (h *Handle) Remove(ids ...surface.ElementID) error {
	if err := h.checkReady("remove element"); err != nil {
		return err
	}
	for _, id := range ids {
		i := slices.Index(h.elements, id)
		if i < 0 {
			return errors.New(errors.ErrCodeElementNotFound, "element %s was not drawn through this handle", id)
		}
		if err := h.capability.RemoveElement(h.id, id); err != nil {
			return err
		}
		h.elements = slices.Delete(h.elements, i, i+1)
	}
	return nil
}

// Elements returns the tracked element IDs in creation order.
func (h *Handle) Elements() []surface.ElementID {
	if h == nil {
		return nil
	}
	return slices.Clone(h.elements)
}

// Snapshot serializes the surface when the backend supports it.
func (h *Handle) Snapshot() ([]byte, error) {
	if err := h.checkReady("snapshot"); err != nil {
		return nil, err
	}
	s, ok := h.capability.(surface.Snapshotter)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "backend %T cannot snapshot surfaces", h.capability)
	}
	return s.Snapshot(h.id)
}

// ContentType returns the snapshot media type, or "" when unsupported.
func (h *Handle) ContentType() string {
	if h == nil {
		return ""
	}
	if s, ok := h.capability.(surface.Snapshotter); ok {
		return s.ContentType()
	}
	return ""
}
