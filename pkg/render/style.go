package render

import (
	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/network"
	"github.com/matzehuels/hubmap/pkg/surface"
)

// Marker sizes in pixels.
const (
	HighlightRadius = 8
	HighlightGlow   = 3
	DefaultRadius   = 5
	DefaultGlow     = 1
)

// PrimaryDash is the dash pattern of hub connections.
const PrimaryDash = "8 6"

// MarkerStyleFor returns the marker descriptor for p.
func MarkerStyleFor(p geo.Point) surface.MarkerStyle {
	if p.Highlighted {
		return surface.MarkerStyle{
			Color:     p.Color,
			Radius:    HighlightRadius,
			Glow:      HighlightGlow,
			Pulse:     true,
			Label:     p.DisplayLabel(),
			LabelMode: surface.LabelPermanent,
		}
	}
	return surface.MarkerStyle{
		Color:     p.Color,
		Radius:    DefaultRadius,
		Glow:      DefaultGlow,
		Label:     p.DisplayLabel(),
		LabelMode: surface.LabelHover,
	}
}

// PathStyleFor returns the path descriptor for e.
func PathStyleFor(e network.Edge) surface.PathStyle {
	s := surface.PathStyle{
		Color:   e.Color,
		Weight:  e.Weight,
		Opacity: e.Opacity,
		Class:   e.Kind.String(),
	}
	if e.Kind == network.Primary {
		s.Dash = PrimaryDash
		s.Animated = true
	}
	return s
}
