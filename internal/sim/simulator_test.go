package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/raster"
	"github.com/san-kum/countdown/internal/show"
)

func newRunner(t *testing.T, seed int64, start, target time.Time) *Runner {
	t.Helper()
	cfg := config.GetPreset("quick")
	cfg.Seed = seed
	ras, err := raster.New("")
	if err != nil {
		t.Fatalf("rasterizer: %v", err)
	}
	clock := director.NewFakeClock(start)
	s := show.New(cfg, clock, target, ras, ras, 800, 600)
	return New(s, clock)
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string    { return "count" }
func (c *countMetric) Observe(f Frame) { c.count++ }
func (c *countMetric) Value() float64  { return float64(c.count) }
func (c *countMetric) Reset()          { c.count = 0 }

func TestRunnerRun(t *testing.T) {
	start := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	r := newRunner(t, 1, start, start.Add(time.Hour))

	metric := &countMetric{}
	r.AddMetric(metric)

	var seen []int
	r.AddObserver(ObserverFunc(func(f Frame) { seen = append(seen, f.Index) }))

	result, err := r.Run(context.Background(), Config{FPS: 50, Duration: 2 * time.Second})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Frames != 100 {
		t.Errorf("expected 100 frames, got %d", result.Frames)
	}
	if len(result.Times) != 100 || result.Times[1] != 0.02 {
		t.Errorf("unexpected times: len %d", len(result.Times))
	}
	if metric.count != 100 || len(seen) != 100 {
		t.Errorf("expected 100 observations, got %d metric and %d observer", metric.count, len(seen))
	}
	if got := result.Metrics["count"]; got != 100 {
		t.Errorf("final metric = %v, want 100", got)
	}
	if len(result.Series["count"]) != 100 {
		t.Errorf("expected a 100-sample series, got %d", len(result.Series["count"]))
	}
	if result.Final != director.Idle {
		t.Errorf("without autostart the show should stay idle, got %s", result.Final)
	}
}

func TestRunnerAutostart(t *testing.T) {
	start := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	r := newRunner(t, 1, start, start.Add(time.Hour))

	result, err := r.Run(context.Background(), Config{FPS: 50, Duration: time.Second, Autostart: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Final != director.Poem {
		t.Errorf("expected poem phase, got %s", result.Final)
	}
	if len(result.Phases) == 0 || result.Phases[0].To != director.Poem {
		t.Errorf("expected a transition into poem, got %v", result.Phases)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	start := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	r := newRunner(t, 1, start, start.Add(time.Hour))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero fps", Config{FPS: 0, Duration: time.Second}},
		{"negative fps", Config{FPS: -1, Duration: time.Second}},
		{"zero duration", Config{FPS: 60, Duration: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Run(context.Background(), tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRunnerCancel(t *testing.T) {
	start := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	r := newRunner(t, 1, start, start.Add(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	r.AddObserver(ObserverFunc(func(f Frame) {
		if f.Index == 9 {
			cancel()
		}
	}))

	result, err := r.Run(ctx, Config{FPS: 60, Duration: time.Minute})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Frames != 10 {
		t.Errorf("expected 10 frames before cancellation, got %d", result.Frames)
	}
}

func TestRunWithCallback(t *testing.T) {
	start := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	r := newRunner(t, 1, start, start.Add(time.Hour))

	calls := 0
	err := r.RunWithCallback(context.Background(), Config{FPS: 10, Duration: 10 * time.Second}, func(f Frame) bool {
		calls++
		return calls < 5
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 5 {
		t.Errorf("expected the callback to stop the run after 5 frames, got %d", calls)
	}
}

func TestEnsemble(t *testing.T) {
	start := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	build := func(seed int64) (*Runner, error) {
		r := newRunner(t, seed, start, start.Add(time.Hour))
		r.AddMetric(&countMetric{})
		return r, nil
	}

	e := NewEnsemble(build, 3, 10)
	results, err := e.Run(context.Background(), Config{FPS: 20, Duration: time.Second})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if got := Mean(results, "count"); got != 20 {
		t.Errorf("mean count = %v, want 20", got)
	}
	if Mean(results, "missing") != 0 {
		t.Error("mean of a missing metric should be 0")
	}
}

func TestEnsembleBuildError(t *testing.T) {
	boom := errors.New("boom")
	e := NewEnsemble(func(int64) (*Runner, error) { return nil, boom }, 2, 0)
	if _, err := e.Run(context.Background(), Config{FPS: 20, Duration: time.Second}); !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}
