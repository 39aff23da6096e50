// Package sphere places items on a Fibonacci sphere and projects them to
// screen space with depth-based scale, alpha and paint order.
package sphere

import (
	"math"
	"sort"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/dynamo"
)

// GoldenAngle is π(3 − √5).
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

type Point3 struct {
	X, Y, Z float64
}

func (p Point3) Len() float64 { return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z) }

// Points returns n unit vectors spread evenly over the sphere, from y = 1
// down to y = −1. A single item sits at the origin.
func Points(n int) []Point3 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []Point3{{}}
	}
	pts := make([]Point3, n)
	for i := range pts {
		y := 1 - 2*float64(i)/float64(n-1)
		r := math.Sqrt(math.Max(0, 1-y*y))
		s, c := math.Sincos(float64(i) * GoldenAngle)
		pts[i] = Point3{X: c * r, Y: y, Z: s * r}
	}
	return pts
}

// Cache recomputes the point set only when the count changes.
type Cache struct {
	pts []Point3
	n   int
}

func (c *Cache) Points(n int) []Point3 {
	if n != c.n || (n > 0 && c.pts == nil) {
		c.pts, c.n = Points(n), n
	}
	return c.pts
}

// Projected is one item in screen space.
type Projected struct {
	Index int
	Pos   dynamo.Vec2
	// Z is the rotated depth in [−1, 1]; positive faces the viewer.
	Z     float64
	Scale float64
	Alpha float64
}

// Projector rotates the sphere about two axes at a constant rate per frame.
type Projector struct {
	AngleX, AngleY float64
	SpinX, SpinY   float64
	MinScale       float64
	MinAlpha       float64
}

func NewProjector(cfg config.SphereConfig) *Projector {
	return &Projector{
		SpinX:    cfg.SpinX,
		SpinY:    cfg.SpinY,
		MinScale: cfg.MinScale,
		MinAlpha: cfg.MinAlpha,
	}
}

// Advance turns the sphere by one frame of spin.
func (p *Projector) Advance() {
	p.AngleX = math.Mod(p.AngleX+p.SpinX, 2*math.Pi)
	p.AngleY = math.Mod(p.AngleY+p.SpinY, 2*math.Pi)
}

// Rotate applies the Y rotation, then the X rotation.
func (p *Projector) Rotate(pt Point3) Point3 {
	sy, cy := math.Sincos(p.AngleY)
	x := pt.X*cy - pt.Z*sy
	z := pt.X*sy + pt.Z*cy

	sx, cx := math.Sincos(p.AngleX)
	y := pt.Y*cx - z*sx
	z = pt.Y*sx + z*cx
	return Point3{X: x, Y: y, Z: z}
}

// Depth maps z in [−1, 1] to scale and alpha; nearer is larger and opaquer.
func (p *Projector) Depth(z float64) (scale, alpha float64) {
	t := dynamo.Clamp((z+1)/2, 0, 1)
	return p.MinScale + (1-p.MinScale)*t, p.MinAlpha + (1-p.MinAlpha)*t
}

// Project rotates, scales by radius and drops z, returning items sorted
// back to front.
func (p *Projector) Project(pts []Point3, center dynamo.Vec2, radius float64) []Projected {
	out := make([]Projected, len(pts))
	for i, pt := range pts {
		r := p.Rotate(pt)
		scale, alpha := p.Depth(r.Z)
		out[i] = Projected{
			Index: i,
			Pos:   dynamo.V(center.X+r.X*radius, center.Y+r.Y*radius),
			Z:     r.Z,
			Scale: scale,
			Alpha: alpha,
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Z < out[b].Z })
	return out
}

// Positions projects without sorting, indexed like pts.
func (p *Projector) Positions(pts []Point3, center dynamo.Vec2, radius float64) []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(pts))
	for i, pt := range pts {
		r := p.Rotate(pt)
		out[i] = dynamo.V(center.X+r.X*radius, center.Y+r.Y*radius)
	}
	return out
}
