package metrics

import (
	"time"

	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/sim"
)

// PhaseTime reports seconds spent in the current phase and accumulates
// the observed time per phase.
type PhaseTime struct {
	name      string
	current   time.Duration
	durations map[director.Phase]time.Duration
	last      time.Time
	phase     director.Phase
}

func NewPhaseTime() *PhaseTime {
	return &PhaseTime{name: "phase_time", durations: make(map[director.Phase]time.Duration)}
}

func (p *PhaseTime) Name() string { return p.name }

func (p *PhaseTime) Observe(f sim.Frame) {
	d := f.Show.Director()
	if !p.last.IsZero() {
		p.durations[p.phase] += f.Time.Sub(p.last)
	}
	p.last = f.Time
	p.phase = d.Phase()
	p.current = f.Time.Sub(d.EnteredAt())
	if d.EnteredAt().IsZero() {
		p.current = f.Elapsed
	}
}

func (p *PhaseTime) Value() float64 { return p.current.Seconds() }

// Durations returns the simulated time spent in each observed phase.
func (p *PhaseTime) Durations() map[director.Phase]time.Duration {
	out := make(map[director.Phase]time.Duration, len(p.durations))
	for k, v := range p.durations {
		out[k] = v
	}
	return out
}

func (p *PhaseTime) Reset() {
	p.current = 0
	p.durations = make(map[director.Phase]time.Duration)
	p.last = time.Time{}
	p.phase = director.Idle
}

// All returns one of each metric in a stable order.
func All() []sim.Metric {
	return []sim.Metric{
		NewConvergence(),
		NewParticles(),
		NewOverlaps(),
		NewAbsorbed(),
		NewSparks(),
		NewPhaseTime(),
	}
}

// Names lists the metric names All returns.
func Names() []string {
	ms := All()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
	}
	return names
}
