package physics

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/surface"
)

type Particle struct {
	Pos    dynamo.Vec2
	Target dynamo.Vec2
	Ease   float64
	Color  color.NRGBA
}

// Field is a grow-only particle pool.
type Field struct {
	Particles []Particle

	// Tint, when set, colours particles created from now on. The default
	// picks a random hue from the configured band.
	Tint func(rng *rand.Rand) color.NRGBA

	cfg config.FieldConfig
	rng *rand.Rand
}

func NewField(cfg config.FieldConfig, rng *rand.Rand) *Field {
	return &Field{cfg: cfg, rng: rng}
}

func (f *Field) Len() int { return len(f.Particles) }

func (f *Field) ease() float64 {
	return f.cfg.EaseMin + f.rng.Float64()*f.cfg.EaseSpread
}

func (f *Field) color() color.NRGBA {
	if f.Tint != nil {
		return f.Tint(f.rng)
	}
	return surface.HSL(f.cfg.HueMin+f.rng.Float64()*f.cfg.HueSpread, 1, 0.6)
}

// grow appends particles at spawn until the pool holds n.
func (f *Field) grow(n int, spawn dynamo.Vec2) {
	for len(f.Particles) < n {
		f.Particles = append(f.Particles, Particle{
			Pos:    spawn,
			Target: spawn,
			Ease:   f.ease(),
			Color:  f.color(),
		})
	}
}

// Assign hands points out in order, growing the pool from the viewport
// centre when needed. Each assigned particle draws a fresh ease. Surplus
// particles are sent to random spots below the w x h viewport.
func (f *Field) Assign(points []dynamo.Vec2, w, h float64) {
	f.grow(len(points), dynamo.V(w/2, h/2))
	for i := range f.Particles {
		p := &f.Particles[i]
		if i < len(points) {
			p.Target = points[i]
		} else {
			p.Target = dynamo.V(f.rng.Float64()*w, h+f.rng.Float64()*h)
		}
		p.Ease = f.ease()
	}
}

// Retarget moves targets without touching eases, for shapes that change
// every frame. Particles beyond len(points) keep their targets.
func (f *Field) Retarget(points []dynamo.Vec2, spawn dynamo.Vec2) {
	f.grow(len(points), spawn)
	for i := range points {
		f.Particles[i].Target = points[i]
	}
}

// SetEase gives every particle the same ease.
func (f *Field) SetEase(ease float64) {
	for i := range f.Particles {
		f.Particles[i].Ease = ease
	}
}

// Gather points every particle at c.
func (f *Field) Gather(c dynamo.Vec2) {
	for i := range f.Particles {
		f.Particles[i].Target = c
	}
}

// Tick eases every particle one step toward its target.
func (f *Field) Tick() {
	for i := range f.Particles {
		p := &f.Particles[i]
		p.Pos = dynamo.EaseToward(p.Pos, p.Target, p.Ease)
	}
}

// Spread is the mean and maximum distance between particles and targets.
func (f *Field) Spread() (mean, max float64) {
	if len(f.Particles) == 0 {
		return 0, 0
	}
	for _, p := range f.Particles {
		d := p.Pos.Dist(p.Target)
		mean += d
		max = math.Max(max, d)
	}
	return mean / float64(len(f.Particles)), max
}

// Settled reports whether every particle is within eps of its target.
func (f *Field) Settled(eps float64) bool {
	_, max := f.Spread()
	return max <= eps
}

// Validate returns dynamo.ErrInvalidState if any particle went non-finite.
func (f *Field) Validate() error {
	for _, p := range f.Particles {
		if !p.Pos.IsValid() || !p.Target.IsValid() {
			return dynamo.ErrInvalidState
		}
	}
	return nil
}

// Draw paints on-screen particles as small dots.
func (f *Field) Draw(s surface.Surface) {
	w, h := s.Size()
	r := f.cfg.Size
	if r <= 0 {
		r = 2
	}
	for _, p := range f.Particles {
		if p.Pos.X < -r || p.Pos.Y < -r || p.Pos.X > float64(w)+r || p.Pos.Y > float64(h)+r {
			continue
		}
		s.FillCircle(p.Pos.X, p.Pos.Y, r, p.Color)
	}
}
