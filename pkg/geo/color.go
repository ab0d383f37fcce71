package geo

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/hubmap/pkg/errors"
)

// Color is an RGBA color serialized as an RGB hex string with an optional
// alpha suffix ("#rrggbb" or "#rrggbbaa").
type Color struct {
	R, G, B, A uint8
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (the leading '#' is optional).
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, errors.New(errors.ErrCodeInvalidColor, "invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	if len(hex) == 6 {
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustColor is like ParseColor but panics on error. Intended for literals.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Opaque reports whether the alpha channel is fully opaque.
func (c Color) Opaque() bool { return c.A == 0xff }

// RGBA implements color.Color with alpha-premultiplied channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Hex returns "#rrggbb", ignoring alpha.
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Alpha returns the alpha channel as a fraction in [0, 1].
func (c Color) Alpha() float64 { return float64(c.A) / 255 }

// String returns "#rrggbb" for opaque colors and "#rrggbbaa" otherwise.
func (c Color) String() string {
	if c.Opaque() {
		return c.Hex()
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
