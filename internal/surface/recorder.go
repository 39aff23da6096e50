package surface

import (
	"image/color"

	"github.com/san-kum/countdown/internal/dynamo"
)

type OpKind string

const (
	OpClear    OpKind = "clear"
	OpRect     OpKind = "rect"
	OpCircle   OpKind = "circle"
	OpPolyline OpKind = "polyline"
	OpFillText OpKind = "fill_text"
	OpStroke   OpKind = "stroke_text"
)

// Op is one recorded draw call with the sticky state in effect.
type Op struct {
	Kind  OpKind
	X, Y  float64
	R     float64
	Text  string
	Color color.NRGBA
	Alpha float64
	Glow  float64
	N     int // polyline point count
}

// Recorder is a headless Surface that records draw calls. It also
// implements Measurer with a fixed advance per rune.
type Recorder struct {
	W, H  int
	Ops   []Op
	alpha float64
	glow  float64
}

func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h, alpha: 1}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) record(op Op) {
	op.Alpha, op.Glow = r.alpha, r.glow
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) Clear(c color.NRGBA) { r.record(Op{Kind: OpClear, Color: c}) }

func (r *Recorder) FillRect(x, y, w, h float64, c color.NRGBA) {
	r.record(Op{Kind: OpRect, X: x, Y: y, R: w, Color: c})
}

func (r *Recorder) FillCircle(cx, cy, rad float64, c color.NRGBA) {
	r.record(Op{Kind: OpCircle, X: cx, Y: cy, R: rad, Color: c})
}

func (r *Recorder) StrokePolyline(pts []dynamo.Vec2, width float64, c color.NRGBA) {
	op := Op{Kind: OpPolyline, R: width, Color: c, N: len(pts)}
	if len(pts) > 0 {
		op.X, op.Y = pts[0].X, pts[0].Y
	}
	r.record(op)
}

func (r *Recorder) FillText(text string, x, y float64, style TextStyle, c color.NRGBA) {
	r.record(Op{Kind: OpFillText, X: x, Y: y, R: style.Size, Text: text, Color: c})
}

func (r *Recorder) StrokeText(text string, x, y float64, style TextStyle, width float64, c color.NRGBA) {
	r.record(Op{Kind: OpStroke, X: x, Y: y, R: style.Size, Text: text, Color: c})
}

func (r *Recorder) SetGlow(blur float64, _ color.NRGBA) { r.glow = blur }
func (r *Recorder) SetAlpha(a float64)                  { r.alpha = a }

// MeasureText assumes each rune advances 0.6em and a line is 1em tall.
func (r *Recorder) MeasureText(text string, style TextStyle) (float64, float64) {
	return float64(len([]rune(text))) * style.Size * 0.6, style.Size
}

// Count returns how many ops of kind k were recorded.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Texts returns the strings of all text ops in draw order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpFillText {
			out = append(out, op.Text)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.alpha, r.glow = 1, 0
}
