package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/show"
)

// Runner steps a show at a fixed rate against a simulated clock.
type Runner struct {
	show      *show.Show
	clock     *director.FakeClock
	metrics   []Metric
	observers []Observer
}

// New wraps s, which must read its time from clock.
func New(s *show.Show, clock *director.FakeClock) *Runner {
	return &Runner{
		show:      s,
		clock:     clock,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }
func (r *Runner) Show() *show.Show       { return r.show }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	dt := cfg.Step()
	steps := int(cfg.Duration / dt)
	result := &Result{
		Times:   make([]float64, 0, steps),
		Series:  make(map[string][]float64),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	start := r.clock.Now()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		f := Frame{Index: i, Time: r.clock.Now(), Elapsed: r.clock.Now().Sub(start), Show: r.show}
		if i == 0 && cfg.Autostart {
			r.show.Activate()
			r.show.Activate()
		}
		for _, obs := range r.observers {
			obs.OnFrame(f)
		}

		if err := r.show.Frame(); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		result.Frames++

		result.Times = append(result.Times, f.Elapsed.Seconds())
		for _, m := range r.metrics {
			m.Observe(f)
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
		}

		r.clock.Advance(dt)
	}

	r.finish(result)
	return result, nil
}

func (r *Runner) finish(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Phases = append(result.Phases[:0], r.show.Director().Transitions()...)
	result.Final = r.show.Phase()
}

// RunWithCallback steps until cb returns false, the duration elapses or
// ctx is cancelled. Metrics are not collected.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, cb func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	dt := cfg.Step()
	start := r.clock.Now()
	for i := 0; r.clock.Now().Sub(start) < cfg.Duration; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := r.show.Frame(); err != nil {
			return err
		}
		if !cb(Frame{Index: i, Time: r.clock.Now(), Elapsed: r.clock.Now().Sub(start), Show: r.show}) {
			return nil
		}
		r.clock.Advance(dt)
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", dynamo.ErrInvalidConfig, cfg.FPS)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %s", dynamo.ErrInvalidConfig, cfg.Duration)
	}
	return nil
}
