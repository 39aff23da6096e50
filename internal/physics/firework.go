package physics

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/surface"
)

// Firework rises from the bottom edge until its vertical velocity turns
// non-negative or it passes ApexY.
type Firework struct {
	dynamo.Body
	ApexY   float64
	Gravity float64
	Hue     float64
	Trail   dynamo.Trail
	Done    bool
}

// Launch fires a projectile from a random point on the bottom edge of a
// w x h viewport toward a random apex in the upper half.
func Launch(rng *rand.Rand, w, h float64, cfg config.FireworkConfig) *Firework {
	return &Firework{
		Body: dynamo.Body{
			Pos: dynamo.V(rng.Float64()*w, h),
			Vel: dynamo.V(
				(rng.Float64()-0.5)*cfg.Drift,
				-(cfg.LaunchSpeedMin + rng.Float64()*cfg.LaunchSpeedRange),
			),
		},
		ApexY:   rng.Float64() * h / 2,
		Gravity: cfg.Gravity,
		Hue:     rng.Float64() * 360,
		Trail:   dynamo.NewTrail(cfg.TrailLen),
	}
}

// Update advances one frame and reports whether the firework just reached
// its apex. A done firework does not move.
func (f *Firework) Update() bool {
	if f.Done {
		return false
	}
	f.Trail.Push(f.Pos)
	f.Step(f.Gravity, 1)
	if f.Vel.Y >= 0 || f.Pos.Y <= f.ApexY {
		f.Done = true
		return true
	}
	return false
}

func (f *Firework) Color() color.NRGBA { return surface.HSL(f.Hue, 1, 0.6) }

// Detonate bursts into between SparksMin and SparksMin+SparksRange-1
// sparks radiating from the current position.
func (f *Firework) Detonate(rng *rand.Rand, cfg config.FireworkConfig) []Spark {
	n := cfg.SparksMin
	if cfg.SparksRange > 0 {
		n += rng.Intn(cfg.SparksRange)
	}
	sparks := make([]Spark, n)
	for i := range sparks {
		speed := cfg.SparkSpeedMin + rng.Float64()*cfg.SparkSpeedRange
		sparks[i] = Spark{
			Body:     dynamo.Body{Pos: f.Pos, Vel: dynamo.Polar(rng.Float64()*2*math.Pi, speed)},
			Alpha:    1,
			Decay:    cfg.DecayMin + rng.Float64()*cfg.DecayRange,
			Gravity:  cfg.SparkGravity,
			Friction: cfg.SparkFriction,
			Color:    surface.HSL(f.Hue+(rng.Float64()-0.5)*40, 1, 0.6),
			Trail:    dynamo.NewTrail(cfg.SparkTrailLen),
		}
	}
	return sparks
}

func (f *Firework) Draw(s surface.Surface) {
	c := f.Color()
	pts := append(f.Trail.Points(), f.Pos)
	s.StrokePolyline(pts, 2, c)
	s.FillCircle(f.Pos.X, f.Pos.Y, 2, surface.White)
}

// Spark is a fading ember. It is removed once Alpha reaches zero.
type Spark struct {
	dynamo.Body
	Alpha    float64
	Decay    float64
	Gravity  float64
	Friction float64
	Color    color.NRGBA
	Trail    dynamo.Trail
}

func (s *Spark) Update() {
	s.Trail.Push(s.Pos)
	s.Step(s.Gravity, s.Friction)
	s.Alpha -= s.Decay
}

func (s *Spark) Dead() bool { return s.Alpha <= 0 }

func (s *Spark) Draw(dst surface.Surface) {
	if s.Dead() {
		return
	}
	dst.SetAlpha(s.Alpha)
	dst.StrokePolyline(append(s.Trail.Points(), s.Pos), 1.5, s.Color)
	dst.SetAlpha(1)
}

// UpdateSparks advances every spark and compacts out the dead ones in place.
func UpdateSparks(sparks []Spark) []Spark {
	live := sparks[:0]
	for i := range sparks {
		sparks[i].Update()
		if !sparks[i].Dead() {
			live = append(live, sparks[i])
		}
	}
	return live
}
