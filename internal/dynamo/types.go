package dynamo

import (
	"math"
)

// Vec2 is a point or velocity in screen space (pixels, y grows downward).
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64  { return v.Sub(o).Len() }

func (v Vec2) Normalize() Vec2 {
	if l := v.Len(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec2{}
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// EaseToward moves p the fraction ease of the remaining way to target.
// With 0 < ease < 1 the distance shrinks geometrically and never overshoots.
func EaseToward(p, target Vec2, ease float64) Vec2 {
	return p.Add(target.Sub(p).Scale(ease))
}

// Polar returns the vector of the given length pointing at angle (radians).
func Polar(angle, length float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{c * length, s * length}
}

// Body is a point mass integrated once per frame with explicit Euler.
type Body struct {
	Pos, Vel Vec2
}

// Step advances the body: move by velocity, then add gravity to the
// vertical velocity, then damp both components by friction.
// friction == 1 disables damping.
func (b *Body) Step(gravity, friction float64) {
	b.Pos = b.Pos.Add(b.Vel)
	b.Vel.Y += gravity
	b.Vel = b.Vel.Scale(friction)
}

// Drift moves the body by its velocity with no forces applied.
func (b *Body) Drift() {
	b.Pos = b.Pos.Add(b.Vel)
}

// Clamp returns v limited to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
