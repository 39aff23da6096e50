package surface

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	Black = color.NRGBA{0, 0, 0, 255}
	White = color.NRGBA{255, 255, 255, 255}
)

// HSL builds an opaque colour from hue in degrees and saturation/lightness
// in [0, 1].
func HSL(h, s, l float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := colorful.Hsl(h, s, l).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 255}
}

// Hex parses "#rrggbb" into an opaque colour.
func Hex(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 255}, nil
}

// MustHex is Hex for compile-time constants.
func MustHex(s string) color.NRGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c with its alpha replaced by a in [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
	return c
}

// ToHex formats c as "#rrggbb", ignoring alpha.
func ToHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
