package surface

import (
	"image/color"

	"github.com/san-kum/countdown/internal/dynamo"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// TextStyle selects font size, weight and horizontal anchoring. The y
// coordinate passed with a style is always the vertical middle of the line.
type TextStyle struct {
	Size  float64
	Bold  bool
	Align Align
	// Rotate turns the text about its anchor, in radians. Backends without
	// rotation draw it upright.
	Rotate float64
}

// Surface is an immediate-mode 2D canvas. Alpha and glow are sticky state:
// they apply to every draw call until changed.
type Surface interface {
	Size() (w, h int)
	// Clear covers the whole surface with c; a translucent c leaves trails.
	Clear(c color.NRGBA)
	FillRect(x, y, w, h float64, c color.NRGBA)
	FillCircle(cx, cy, r float64, c color.NRGBA)
	StrokePolyline(pts []dynamo.Vec2, width float64, c color.NRGBA)
	FillText(text string, x, y float64, style TextStyle, c color.NRGBA)
	StrokeText(text string, x, y float64, style TextStyle, width float64, c color.NRGBA)
	// SetGlow enables a blurred halo of colour c; blur <= 0 disables it.
	SetGlow(blur float64, c color.NRGBA)
	// SetAlpha sets the global opacity multiplier in [0, 1].
	SetAlpha(a float64)
}

// Measurer reports the rendered extent of a line of text.
type Measurer interface {
	MeasureText(text string, style TextStyle) (w, h float64)
}

// Reset restores the sticky state to opaque with no glow.
func Reset(s Surface) {
	s.SetAlpha(1)
	s.SetGlow(0, color.NRGBA{})
}

// Line strokes a single segment.
func Line(s Surface, a, b dynamo.Vec2, width float64, c color.NRGBA) {
	s.StrokePolyline([]dynamo.Vec2{a, b}, width, c)
}
