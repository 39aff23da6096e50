package metrics

import "github.com/san-kum/countdown/internal/sim"

// Overlaps counts colliding wish pairs; Max reports the worst frame.
type Overlaps struct {
	name    string
	current int
	max     int
}

func NewOverlaps() *Overlaps {
	return &Overlaps{name: "overlaps"}
}

func (o *Overlaps) Name() string { return o.name }

func (o *Overlaps) Observe(f sim.Frame) {
	o.current = 0
	if e := f.Show.Wishes(); e != nil {
		o.current = e.Overlaps()
	}
	if o.current > o.max {
		o.max = o.current
	}
}

func (o *Overlaps) Value() float64 { return float64(o.current) }
func (o *Overlaps) Max() int       { return o.max }

func (o *Overlaps) Reset() {
	o.current = 0
	o.max = 0
}

type Absorbed struct {
	name  string
	count int
}

func NewAbsorbed() *Absorbed {
	return &Absorbed{name: "absorbed"}
}

func (a *Absorbed) Name() string { return a.name }

func (a *Absorbed) Observe(f sim.Frame) {
	if e := f.Show.Wishes(); e != nil {
		a.count = e.Absorbed()
	}
}

func (a *Absorbed) Value() float64 { return float64(a.count) }
func (a *Absorbed) Reset()         { a.count = 0 }
