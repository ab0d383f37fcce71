package svgmap

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/surface"
)

const mapCSS = `
    .path { fill: none; stroke-linecap: round; stroke-linejoin: round; }
    .path.animated { animation: dash-flow 1.4s linear infinite; }
    @keyframes dash-flow { to { stroke-dashoffset: -28; } }
    .marker .pulse { transform-origin: center; transform-box: fill-box; animation: pulse 2s ease-out infinite; }
    @keyframes pulse { from { transform: scale(1); opacity: 0.7; } to { transform: scale(2.4); opacity: 0; } }
    .marker .label { font: 12px sans-serif; fill: #f1f5f9; paint-order: stroke; stroke: #0f172a; stroke-width: 3px; }
    .marker .label.hover { opacity: 0; transition: opacity 0.2s ease; }
    .marker:hover .label.hover { opacity: 1; }
    .layer path { vector-effect: non-scaling-stroke; }`

// Option configures a Backend.
type Option func(*Backend)

// WithProjection sets the map projection (default Equirectangular).
func WithProjection(p geo.Projection) Option { return func(b *Backend) { b.proj = p } }

// WithBackground sets the ocean color.
func WithBackground(c geo.Color) Option { return func(b *Backend) { b.background = c } }

// WithTitle sets the document title.
func WithTitle(s string) Option { return func(b *Backend) { b.title = s } }

// Backend implements surface.Capability and surface.Snapshotter.
type Backend struct {
	*surface.Store
	proj       geo.Projection
	background geo.Color
	title      string
}

// New returns an SVG backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		Store:      surface.NewStore(),
		proj:       geo.Equirectangular{},
		background: geo.MustColor("#0f172a"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) ContentType() string { return "image/svg+xml" }

// Snapshot renders the surface's current scene.
func (b *Backend) Snapshot(id surface.SurfaceID) ([]byte, error) {
	sc, err := b.Scene(id)
	if err != nil {
		return nil, err
	}
	return b.Render(sc), nil
}

// Render serializes a scene. Layers are drawn first, then elements in the
// order they were added.
func (b *Backend) Render(sc surface.Scene) []byte {
	w, h := float64(sc.Container.Width), float64(sc.Container.Height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f" data-projection="%s">`+"\n",
		w, h, w, h, b.proj.Name())
	if b.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(b.title))
	}
	renderDefs(&buf, sc)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", mapCSS)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", b.background.Hex())

	for _, l := range sc.Layers {
		b.renderLayer(&buf, l, w, h)
	}
	for _, el := range sc.Elements {
		switch {
		case el.Path != nil:
			b.renderPath(&buf, el.ID, *el.Path, w, h)
		case el.Marker != nil:
			b.renderMarker(&buf, el.ID, *el.Marker, w, h)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderDefs emits one blur filter per distinct glow width.
func renderDefs(buf *bytes.Buffer, sc surface.Scene) {
	seen := map[float64]bool{}
	var glows []float64
	for _, m := range sc.Markers() {
		if g := m.Marker.Style.Glow; g > 0 && !seen[g] {
			seen[g] = true
			glows = append(glows, g)
		}
	}
	if len(glows) == 0 {
		return
	}
	buf.WriteString("  <defs>\n")
	for _, g := range glows {
		fmt.Fprintf(buf, `    <filter id="%s" x="-100%%" y="-100%%" width="300%%" height="300%%"><feGaussianBlur stdDeviation="%g"/></filter>`+"\n",
			glowID(g), g)
	}
	buf.WriteString("  </defs>\n")
}

func glowID(g float64) string {
	return "glow-" + strings.ReplaceAll(fmt.Sprintf("%g", g), ".", "_")
}

func (b *Backend) renderLayer(buf *bytes.Buffer, l surface.TileLayer, w, h float64) {
	fmt.Fprintf(buf, `  <g class="layer" data-layer="%s">`+"\n", html.EscapeString(l.Name))
	for _, ring := range l.Rings {
		fmt.Fprintf(buf, `    <path d="%sZ" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-opacity="%.2f" stroke-width="0.5"/>`+"\n",
			b.pathData(ring, w, h), l.Fill.Hex(), l.Fill.Alpha(), l.Stroke.Hex(), l.Stroke.Alpha())
	}
	for _, line := range l.Lines {
		fmt.Fprintf(buf, `    <path d="%s" fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="0.5"/>`+"\n",
			b.pathData(line, w, h), l.Stroke.Hex(), l.Stroke.Alpha())
	}
	if l.Attribution != "" {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="9" fill="%s" text-anchor="end">%s</text>`+"\n",
			w-4, h-4, l.Stroke.Hex(), html.EscapeString(l.Attribution))
	}
	buf.WriteString("  </g>\n")
}

func (b *Backend) renderPath(buf *bytes.Buffer, id surface.ElementID, p surface.Path, w, h float64) {
	s := p.Style
	classes := []string{"path"}
	if s.Class != "" {
		classes = append(classes, s.Class)
	}
	if s.Animated {
		classes = append(classes, "animated")
	}

	// Opacity from the color's alpha channel compounds with the style opacity.
	opacity := s.Opacity * s.Color.Alpha()

	fmt.Fprintf(buf, `  <path id="el-%s" class="%s" d="%s" stroke="%s" stroke-width="%g" stroke-opacity="%.3f"`,
		id, strings.Join(classes, " "), b.pathData(p.Points, w, h), s.Color.Hex(), s.Weight, opacity)
	if s.Dash != "" {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, s.Dash)
	}
	buf.WriteString("/>\n")
}

func (b *Backend) renderMarker(buf *bytes.Buffer, id surface.ElementID, m surface.Marker, w, h float64) {
	s := m.Style
	x, y := b.proj.Project(m.Pos, w, h)

	fmt.Fprintf(buf, `  <g id="el-%s" class="marker">`+"\n", id)
	if s.Label != "" {
		fmt.Fprintf(buf, "    <title>%s</title>\n", html.EscapeString(s.Label))
	}
	if s.Glow > 0 {
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%g" fill="%s" fill-opacity="0.6" filter="url(#%s)"/>`+"\n",
			x, y, s.Radius+s.Glow, s.Color.Hex(), glowID(s.Glow))
	}
	if s.Pulse {
		fmt.Fprintf(buf, `    <circle class="pulse" cx="%.2f" cy="%.2f" r="%g" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			x, y, s.Radius, s.Color.Hex())
	}
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%g" fill="%s" stroke="#ffffff" stroke-width="1.5"/>`+"\n",
		x, y, s.Radius, s.Color.Hex())
	if s.Label != "" {
		mode := "hover"
		if s.LabelMode == surface.LabelPermanent {
			mode = "permanent"
		}
		fmt.Fprintf(buf, `    <text class="label %s" x="%.2f" y="%.2f">%s</text>`+"\n",
			mode, x+s.Radius+4, y+4, html.EscapeString(s.Label))
	}
	buf.WriteString("  </g>\n")
}

func (b *Backend) pathData(pts []geo.LatLng, w, h float64) string {
	var sb strings.Builder
	for i, p := range pts {
		x, y := b.proj.Project(p, w, h)
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.2f,%.2f", cmd, x, y)
	}
	return sb.String()
}

var (
	_ surface.Capability  = (*Backend)(nil)
	_ surface.Snapshotter = (*Backend)(nil)
)
