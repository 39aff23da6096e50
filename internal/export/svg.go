package export

import (
	"fmt"
	"html"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/surface"
	"github.com/san-kum/countdown/internal/viz"
)

// SVG records draw calls as SVG elements. It implements surface.Surface.
type SVG struct {
	W, H  int
	body  strings.Builder
	n     int
	alpha float64
	glow  float64
}

func NewSVG(w, h int) *SVG {
	return &SVG{W: w, H: h, alpha: 1}
}

func (s *SVG) Size() (int, int) { return s.W, s.H }

// Elements is the number of shapes written so far.
func (s *SVG) Elements() int { return s.n }

func (s *SVG) paint(attr string, c color.NRGBA) string {
	op := s.alpha * float64(c.A) / 255
	out := fmt.Sprintf(`%s="%s"`, attr, surface.ToHex(c))
	if op < 1 {
		out += fmt.Sprintf(` %s-opacity="%.3f"`, attr, op)
	}
	if s.glow > 0 {
		out += ` filter="url(#glow)"`
	}
	return out
}

func (s *SVG) write(format string, args ...any) {
	fmt.Fprintf(&s.body, format, args...)
	s.body.WriteByte('\n')
	s.n++
}

// Clear paints the whole frame. The first clear is opaque so a single
// frame never shows through to the page.
func (s *SVG) Clear(c color.NRGBA) {
	if s.n == 0 {
		c.A = 255
	}
	s.write(`<rect width="100%%" height="100%%" %s/>`, s.paint("fill", c))
}

func (s *SVG) FillRect(x, y, w, h float64, c color.NRGBA) {
	s.write(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>`, x, y, w, h, s.paint("fill", c))
}

func (s *SVG) FillCircle(cx, cy, r float64, c color.NRGBA) {
	s.write(`<circle cx="%.1f" cy="%.1f" r="%.2f" %s/>`, cx, cy, r, s.paint("fill", c))
}

func (s *SVG) StrokePolyline(pts []dynamo.Vec2, width float64, c color.NRGBA) {
	if len(pts) < 2 {
		return
	}
	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	s.write(`<polyline points="%s" fill="none" stroke-width="%.1f" stroke-linecap="round" %s/>`,
		strings.Join(coords, " "), width, s.paint("stroke", c))
}

func textAttrs(x, y float64, style surface.TextStyle) string {
	anchor := "start"
	if style.Align == surface.AlignCenter {
		anchor = "middle"
	}
	weight := "normal"
	if style.Bold {
		weight = "bold"
	}
	out := fmt.Sprintf(`x="%.1f" y="%.1f" font-size="%.1f" font-weight="%s" text-anchor="%s" dominant-baseline="central" font-family="Go, sans-serif"`,
		x, y, style.Size, weight, anchor)
	if style.Rotate != 0 {
		out += fmt.Sprintf(` transform="rotate(%.1f %.1f %.1f)"`, style.Rotate*180/math.Pi, x, y)
	}
	return out
}

func (s *SVG) FillText(text string, x, y float64, style surface.TextStyle, c color.NRGBA) {
	s.write(`<text %s %s>%s</text>`, textAttrs(x, y, style), s.paint("fill", c), html.EscapeString(text))
}

func (s *SVG) StrokeText(text string, x, y float64, style surface.TextStyle, width float64, c color.NRGBA) {
	s.write(`<text %s fill="none" stroke-width="%.1f" %s>%s</text>`,
		textAttrs(x, y, style), width, s.paint("stroke", c), html.EscapeString(text))
}

func (s *SVG) SetGlow(blur float64, _ color.NRGBA) { s.glow = blur }
func (s *SVG) SetAlpha(a float64)                  { s.alpha = math.Max(0, math.Min(1, a)) }

func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<defs><filter id="glow" x="-50%%" y="-50%%" width="200%%" height="200%%"><feGaussianBlur stdDeviation="4" result="b"/><feMerge><feMergeNode in="b"/><feMergeNode in="SourceGraphic"/></feMerge></filter></defs>
`, s.W, s.H, s.W, s.H)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot in
// its cell's colour. Glyph cells become text.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	w, h := canvas.Dots()
	out := NewSVG(int(float64(w)*scale), int(float64(h)*scale))
	out.Clear(surface.Black)

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r, c := canvas.Grid[row][col], canvas.Colors[row][col]
			if r < 0x2800 || r > 0x28ff {
				out.FillText(string(r), (float64(col)*2+1)*scale, (float64(row)*4+2)*scale,
					surface.TextStyle{Size: 3 * scale, Align: surface.AlignCenter}, c)
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if canvas.Lit(col*2+dx, row*4+dy) {
						cx := (float64(col*2+dx) + 0.5) * scale
						cy := (float64(row*4+dy) + 0.5) * scale
						out.FillCircle(cx, cy, scale*0.4, c)
					}
				}
			}
		}
	}
	return out.String()
}

// SeriesToSVG plots values against times as a line chart.
func SeriesToSVG(times, values []float64, width, height int, stroke string, title string) string {
	if len(values) < 2 || len(times) != len(values) {
		return ""
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="8" y="18" fill="#888899" font-size="14" font-family="sans-serif">%s</text>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, html.EscapeString(title), stroke)

	for i := range values {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}
