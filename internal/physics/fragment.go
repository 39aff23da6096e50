package physics

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/surface"
)

// Fragment is a label flung outward when the wish sphere bursts.
type Fragment struct {
	dynamo.Body
	Text    string
	Angle   float64
	Spin    float64
	Alpha   float64
	Fade    float64
	Gravity float64
	Color   color.NRGBA
}

// Burst is the set of fragments produced by one explosion.
type Burst struct {
	Fragments []Fragment
	Size      float64
}

// Explode throws a fragment for every (text, position) pair radially away
// from center. frames is how long the fragments take to fade out.
func Explode(rng *rand.Rand, center dynamo.Vec2, texts []string, at []dynamo.Vec2, speed, gravity float64, frames int, size float64) *Burst {
	if frames < 1 {
		frames = 1
	}
	b := &Burst{Size: size, Fragments: make([]Fragment, 0, len(texts))}
	for i, text := range texts {
		pos := center
		if i < len(at) {
			pos = at[i]
		}
		dir := pos.Sub(center).Normalize()
		if dir == (dynamo.Vec2{}) {
			dir = dynamo.Polar(rng.Float64()*2*math.Pi, 1)
		}
		b.Fragments = append(b.Fragments, Fragment{
			Body:    dynamo.Body{Pos: pos, Vel: dir.Scale(speed * (0.6 + 0.8*rng.Float64()))},
			Text:    text,
			Spin:    (rng.Float64() - 0.5) * 0.3,
			Alpha:   1,
			Fade:    1 / float64(frames),
			Gravity: gravity,
			Color:   surface.HSL(rng.Float64()*360, 0.8, 0.7),
		})
	}
	return b
}

func (f *Fragment) Update() {
	f.Step(f.Gravity, 1)
	f.Angle += f.Spin
	f.Alpha = math.Max(0, f.Alpha-f.Fade)
}

// Update advances every fragment and reports whether any is still visible.
func (b *Burst) Update() bool {
	alive := false
	for i := range b.Fragments {
		b.Fragments[i].Update()
		if b.Fragments[i].Alpha > 0 {
			alive = true
		}
	}
	return alive
}

func (b *Burst) Draw(s surface.Surface) {
	for _, f := range b.Fragments {
		if f.Alpha <= 0 {
			continue
		}
		s.SetAlpha(f.Alpha)
		s.FillText(f.Text, f.Pos.X, f.Pos.Y, surface.TextStyle{Size: b.Size, Align: surface.AlignCenter, Rotate: f.Angle}, f.Color)
	}
	s.SetAlpha(1)
}
