package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/surface"
)

// spacing between glyphs, in pixels at any size.
const spacing = 1

// Surface draws through raylib into whatever target is active. It also
// measures text with the same fonts, so layout matches what is drawn.
type Surface struct {
	W, H    int
	Regular rl.Font
	Bold    rl.Font

	alpha     float64
	glow      float64
	glowColor color.NRGBA
}

func (s *Surface) Size() (int, int) { return s.W, s.H }

func (s *Surface) font(style surface.TextStyle) rl.Font {
	if style.Bold {
		return s.Bold
	}
	return s.Regular
}

func (s *Surface) col(c color.NRGBA) rl.Color {
	return toColor(c, s.alpha)
}

// toColor converts c, scaling its alpha by a.
func toColor(c color.NRGBA, a float64) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, uint8(math.Round(float64(c.A)*math.Max(0, math.Min(1, a)))))
}

func vec(p dynamo.Vec2) rl.Vector2 { return rl.NewVector2(float32(p.X), float32(p.Y)) }

func dynamoVec(v rl.Vector2) dynamo.Vec2 { return dynamo.V(float64(v.X), float64(v.Y)) }

func (s *Surface) Clear(c color.NRGBA) {
	rl.DrawRectangle(0, 0, int32(s.W), int32(s.H), toColor(c, 1))
}

func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	rl.DrawRectangleRec(rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)), s.col(c))
}

// halo draws two faint rings around a shape of radius r.
func (s *Surface) halo(center rl.Vector2, r float64) {
	if s.glow <= 0 {
		return
	}
	rl.BeginBlendMode(rl.BlendAdditive)
	for i, k := range []float64{0.5, 1} {
		a := s.alpha * 0.25 / float64(i+1)
		rl.DrawCircleV(center, float32(r+s.glow*k), toColor(s.glowColor, a))
	}
	rl.EndBlendMode()
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.NRGBA) {
	center := rl.NewVector2(float32(cx), float32(cy))
	s.halo(center, r)
	rl.DrawCircleV(center, float32(r), s.col(c))
}

func (s *Surface) StrokePolyline(pts []dynamo.Vec2, width float64, c color.NRGBA) {
	col := s.col(c)
	for i := 1; i < len(pts); i++ {
		rl.DrawLineEx(vec(pts[i-1]), vec(pts[i]), float32(width), col)
	}
}

// textOrigin is the offset from the anchor to the text's top-left corner.
func textOrigin(w, size float64, align surface.Align) (float64, float64) {
	if align == surface.AlignCenter {
		return w / 2, size / 2
	}
	return 0, size / 2
}

func (s *Surface) drawText(text string, x, y float64, style surface.TextStyle, col rl.Color) {
	f := s.font(style)
	size := float32(style.Size)
	w := rl.MeasureTextEx(f, text, size, spacing).X
	ox, oy := textOrigin(float64(w), style.Size, style.Align)
	rl.DrawTextPro(f, text, rl.NewVector2(float32(x), float32(y)), rl.NewVector2(float32(ox), float32(oy)),
		float32(style.Rotate*180/math.Pi), size, spacing, col)
}

func (s *Surface) FillText(text string, x, y float64, style surface.TextStyle, c color.NRGBA) {
	if s.glow > 0 {
		rl.BeginBlendMode(rl.BlendAdditive)
		glow := toColor(s.glowColor, s.alpha*0.3)
		for _, d := range []float64{-2, 2} {
			s.drawText(text, x+d, y, style, glow)
			s.drawText(text, x, y+d, style, glow)
		}
		rl.EndBlendMode()
	}
	s.drawText(text, x, y, style, s.col(c))
}

// StrokeText approximates an outline by drawing the text shifted around
// the anchor.
func (s *Surface) StrokeText(text string, x, y float64, style surface.TextStyle, width float64, c color.NRGBA) {
	col := s.col(c)
	for k := 0; k < 8; k++ {
		a := float64(k) * math.Pi / 4
		s.drawText(text, x+width*math.Cos(a), y+width*math.Sin(a), style, col)
	}
}

func (s *Surface) SetGlow(blur float64, c color.NRGBA) { s.glow, s.glowColor = blur, c }
func (s *Surface) SetAlpha(a float64)                  { s.alpha = a }

// MeasureText uses the same fonts the show is drawn with.
func (s *Surface) MeasureText(text string, style surface.TextStyle) (float64, float64) {
	v := rl.MeasureTextEx(s.font(style), text, float32(style.Size), spacing)
	return float64(v.X), float64(v.Y)
}
