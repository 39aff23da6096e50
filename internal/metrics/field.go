package metrics

import "github.com/san-kum/countdown/internal/sim"

// Convergence tracks the mean distance from particles to their targets.
type Convergence struct {
	name    string
	current float64
	max     float64
}

func NewConvergence() *Convergence {
	return &Convergence{name: "convergence"}
}

func (c *Convergence) Name() string { return c.name }

func (c *Convergence) Observe(f sim.Frame) {
	mean, _ := f.Show.Field().Spread()
	c.current = mean
	if mean > c.max {
		c.max = mean
	}
}

func (c *Convergence) Value() float64 { return c.current }
func (c *Convergence) Max() float64   { return c.max }

func (c *Convergence) Reset() {
	c.current = 0
	c.max = 0
}

// Particles is the size of the field.
type Particles struct {
	name  string
	count int
}

func NewParticles() *Particles {
	return &Particles{name: "particles"}
}

func (p *Particles) Name() string        { return p.name }
func (p *Particles) Observe(f sim.Frame) { p.count = f.Show.Field().Len() }
func (p *Particles) Value() float64      { return float64(p.count) }
func (p *Particles) Reset()              { p.count = 0 }
