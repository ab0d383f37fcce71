// Package rastermap is a surface backend that renders maps to PNG with gg.
//
// Raster output has no animation: dashed paths keep their dash pattern, pulse
// is drawn as a faint outer ring and only permanent labels are printed.
package rastermap

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/surface"
)

// Option configures a Backend.
type Option func(*Backend)

// WithProjection sets the map projection (default Equirectangular).
func WithProjection(p geo.Projection) Option { return func(b *Backend) { b.proj = p } }

// WithBackground sets the ocean color.
func WithBackground(c geo.Color) Option { return func(b *Backend) { b.background = c } }

// WithScale renders at a multiple of the container size (default 1).
func WithScale(s float64) Option { return func(b *Backend) { b.scale = s } }

// WithFontSize sets the label size in points (default 12).
func WithFontSize(pt float64) Option { return func(b *Backend) { b.fontSize = pt } }

// Backend implements surface.Capability and surface.Snapshotter.
type Backend struct {
	*surface.Store
	proj       geo.Projection
	background geo.Color
	scale      float64
	fontSize   float64
}

// New returns a PNG backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		Store:      surface.NewStore(),
		proj:       geo.Equirectangular{},
		background: geo.MustColor("#0f172a"),
		scale:      1,
		fontSize:   12,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) ContentType() string { return "image/png" }

// Snapshot renders the surface's current scene as PNG.
func (b *Backend) Snapshot(id surface.SurfaceID) ([]byte, error) {
	sc, err := b.Scene(id)
	if err != nil {
		return nil, err
	}
	return b.Render(sc)
}

// Render rasterizes a scene.
func (b *Backend) Render(sc surface.Scene) ([]byte, error) {
	face, err := labelFace(b.fontSize * b.scale)
	if err != nil {
		return nil, err
	}

	w, h := float64(sc.Container.Width), float64(sc.Container.Height)
	dc := gg.NewContext(int(w*b.scale), int(h*b.scale))
	dc.Scale(b.scale, b.scale)
	dc.SetColor(b.background)
	dc.Clear()
	dc.SetFontFace(face)

	for _, l := range sc.Layers {
		b.drawLayer(dc, l, w, h)
	}
	for _, el := range sc.Elements {
		switch {
		case el.Path != nil:
			b.drawPath(dc, *el.Path, w, h)
		case el.Marker != nil:
			b.drawMarker(dc, *el.Marker, w, h)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Backend) drawLayer(dc *gg.Context, l surface.TileLayer, w, h float64) {
	dc.SetLineWidth(0.5)
	for _, ring := range l.Rings {
		b.trace(dc, ring, w, h)
		dc.ClosePath()
		dc.SetColor(l.Fill)
		dc.FillPreserve()
		dc.SetColor(l.Stroke)
		dc.Stroke()
	}
	for _, line := range l.Lines {
		b.trace(dc, line, w, h)
		dc.SetColor(l.Stroke)
		dc.Stroke()
	}
}

func (b *Backend) drawPath(dc *gg.Context, p surface.Path, w, h float64) {
	s := p.Style
	c := s.Color.WithAlpha(uint8(float64(s.Color.A) * clamp01(s.Opacity)))

	dc.SetLineWidth(s.Weight)
	dc.SetLineCapRound()
	if dashes := parseDash(s.Dash); len(dashes) > 0 {
		dc.SetDash(dashes...)
	}
	b.trace(dc, p.Points, w, h)
	dc.SetColor(c)
	dc.Stroke()
	dc.SetDash()
}

func (b *Backend) drawMarker(dc *gg.Context, m surface.Marker, w, h float64) {
	s := m.Style
	x, y := b.proj.Project(m.Pos, w, h)

	if s.Glow > 0 {
		dc.DrawCircle(x, y, s.Radius+s.Glow*2)
		dc.SetColor(s.Color.WithAlpha(0x30))
		dc.Fill()
	}
	if s.Pulse {
		dc.DrawCircle(x, y, s.Radius*2)
		dc.SetColor(s.Color.WithAlpha(0x40))
		dc.SetLineWidth(1.5)
		dc.Stroke()
	}
	dc.DrawCircle(x, y, s.Radius)
	dc.SetColor(s.Color)
	dc.FillPreserve()
	dc.SetHexColor("#ffffff")
	dc.SetLineWidth(1.5)
	dc.Stroke()

	if s.Label != "" && s.LabelMode == surface.LabelPermanent {
		dc.SetHexColor("#f1f5f9")
		dc.DrawStringAnchored(s.Label, x+s.Radius+4, y, 0, 0.35)
	}
}

func (b *Backend) trace(dc *gg.Context, pts []geo.LatLng, w, h float64) {
	dc.NewSubPath()
	for i, p := range pts {
		x, y := b.proj.Project(p, w, h)
		if i == 0 {
			dc.MoveTo(x, y)
			continue
		}
		dc.LineTo(x, y)
	}
}

// parseDash reads an SVG dash array such as "8 6" or "8,6".
func parseDash(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v <= 0 {
			return nil
		}
		out = append(out, v)
	}
	return out
}

func clamp01(v float64) float64 { return max(0, min(v, 1)) }

var (
	goFont     *truetype.Font
	goFontErr  error
	goFontOnce sync.Once
)

func labelFace(size float64) (font.Face, error) {
	goFontOnce.Do(func() {
		goFont, goFontErr = truetype.Parse(goregular.TTF)
	})
	if goFontErr != nil {
		return nil, fmt.Errorf("parse font: %w", goFontErr)
	}
	return truetype.NewFace(goFont, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

var (
	_ surface.Capability  = (*Backend)(nil)
	_ surface.Snapshotter = (*Backend)(nil)
)
