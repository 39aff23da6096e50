package metrics

import "github.com/san-kum/countdown/internal/sim"

// Sparks tracks live firework sparks and the peak count.
type Sparks struct {
	name    string
	current int
	peak    int
}

func NewSparks() *Sparks {
	return &Sparks{name: "sparks"}
}

func (s *Sparks) Name() string { return s.name }

func (s *Sparks) Observe(f sim.Frame) {
	s.current = len(f.Show.Launcher().Sparks)
	if s.current > s.peak {
		s.peak = s.current
	}
}

func (s *Sparks) Value() float64 { return float64(s.current) }
func (s *Sparks) Peak() int      { return s.peak }

func (s *Sparks) Reset() {
	s.current = 0
	s.peak = 0
}
