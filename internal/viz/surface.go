package viz

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/raster"
	"github.com/san-kum/countdown/internal/surface"
)

// minDots is the smallest line height, in dots, rasterised into braille;
// smaller text is written as plain glyphs.
const minDots = 12

// alphaCutoff is the effective opacity below which nothing is drawn.
const alphaCutoff = 0.2

// Surface draws onto a braille canvas. The show runs in a pixel viewport
// Scale times larger than the canvas's dot grid.
type Surface struct {
	Canvas *Canvas
	Scale  float64

	ras   *raster.Rasterizer
	alpha float64
}

func NewSurface(cols, rows int, scale float64, ras *raster.Rasterizer) *Surface {
	return &Surface{Canvas: NewCanvas(cols, rows), Scale: scale, ras: ras, alpha: 1}
}

// Size is the pixel viewport the show should use.
func (s *Surface) Size() (int, int) {
	w, h := s.Canvas.Dots()
	return int(float64(w) * s.Scale), int(float64(h) * s.Scale)
}

// Resize rebuilds the canvas for a new terminal size.
func (s *Surface) Resize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}
	s.Canvas = NewCanvas(cols, rows)
}

// ToPixel maps a terminal cell to the pixel at its centre.
func (s *Surface) ToPixel(col, row int) dynamo.Vec2 {
	return dynamo.V((float64(col)*2+1)*s.Scale, (float64(row)*4+2)*s.Scale)
}

func (s *Surface) dot(x, y float64) (int, int) {
	return int(math.Floor(x / s.Scale)), int(math.Floor(y / s.Scale))
}

func (s *Surface) visible(c color.NRGBA) bool {
	return s.alpha*float64(c.A)/255 >= alphaCutoff
}

// Clear wipes the canvas; braille has no partial opacity, so trails are
// not kept.
func (s *Surface) Clear(color.NRGBA) { s.Canvas.Clear() }

// FillRect draws the outline only; filled cells would hide the text.
func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	if !s.visible(c) {
		return
	}
	x0, y0 := s.dot(x, y)
	x1, y1 := s.dot(x+w, y+h)
	cv := s.Canvas
	cv.DrawLine(x0, y0, x1, y0, c)
	cv.DrawLine(x1, y0, x1, y1, c)
	cv.DrawLine(x1, y1, x0, y1, c)
	cv.DrawLine(x0, y1, x0, y0, c)
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.NRGBA) {
	if !s.visible(c) {
		return
	}
	x, y := s.dot(cx, cy)
	s.Canvas.FillDisc(x, y, int(r/s.Scale), c)
}

func (s *Surface) StrokePolyline(pts []dynamo.Vec2, _ float64, c color.NRGBA) {
	if !s.visible(c) || len(pts) == 0 {
		return
	}
	px, py := s.dot(pts[0].X, pts[0].Y)
	if len(pts) == 1 {
		s.Canvas.Set(px, py, c)
	}
	for _, p := range pts[1:] {
		x, y := s.dot(p.X, p.Y)
		s.Canvas.DrawLine(px, py, x, y, c)
		px, py = x, y
	}
}

func (s *Surface) FillText(text string, x, y float64, style surface.TextStyle, c color.NRGBA) {
	if !s.visible(c) || strings.TrimSpace(text) == "" {
		return
	}
	if style.Size/s.Scale < minDots || s.ras == nil {
		s.glyphs(text, x, y, style, c)
		return
	}
	s.rasterise(text, x, y, style, c)
}

func (s *Surface) StrokeText(text string, x, y float64, style surface.TextStyle, _ float64, c color.NRGBA) {
	s.FillText(text, x, y, style, c)
}

func (s *Surface) glyphs(text string, x, y float64, style surface.TextStyle, c color.NRGBA) {
	dx, dy := s.dot(x, y)
	col, row := dx/2, dy/4
	if style.Align == surface.AlignCenter {
		col -= len([]rune(text)) / 2
	}
	s.Canvas.PutText(row, col, text, c)
}

func (s *Surface) rasterise(text string, x, y float64, style surface.TextStyle, c color.NRGBA) {
	w, h := s.Canvas.Dots()
	img := image.NewAlpha(image.Rect(0, 0, w, h))
	st := style
	st.Size = style.Size / s.Scale
	if err := s.ras.Render(img, text, x/s.Scale, y/s.Scale, st); err != nil {
		return
	}
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			if img.AlphaAt(px, py).A > raster.Threshold {
				s.Canvas.Set(px, py, c)
			}
		}
	}
}

func (s *Surface) SetGlow(float64, color.NRGBA) {}

func (s *Surface) SetAlpha(a float64) { s.alpha = a }
