package metrics

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/raster"
	"github.com/san-kum/countdown/internal/show"
	"github.com/san-kum/countdown/internal/sim"
)

var target = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func runShow(t *testing.T, start time.Time, d time.Duration, ms ...sim.Metric) *sim.Result {
	t.Helper()
	cfg := config.GetPreset("quick")
	cfg.Seed = 7
	ras, err := raster.New("")
	if err != nil {
		t.Fatalf("rasterizer: %v", err)
	}
	clock := director.NewFakeClock(start)
	r := sim.New(show.New(cfg, clock, target, ras, ras, 800, 600), clock)
	for _, m := range ms {
		r.AddMetric(m)
	}
	result, err := r.Run(context.Background(), sim.Config{FPS: 50, Duration: d, Autostart: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result
}

func TestWishListMetrics(t *testing.T) {
	overlaps := NewOverlaps()
	absorbed := NewAbsorbed()
	phase := NewPhaseTime()
	result := runShow(t, target.Add(-time.Hour), 5*time.Second, overlaps, absorbed, phase)

	if result.Final != director.WishList {
		t.Fatalf("expected wish_list, got %s", result.Final)
	}
	if absorbed.Value() != 0 {
		t.Errorf("nothing was dragged, absorbed = %v", absorbed.Value())
	}
	if overlaps.Max() < int(overlaps.Value()) {
		t.Error("max overlaps below the current value")
	}

	durations := phase.Durations()
	if got := durations[director.Poem]; got != 3*time.Second {
		t.Errorf("poem lasted %s, want 3s", got)
	}
	if got := phase.Value(); math.Abs(got-1.98) > 1e-9 {
		t.Errorf("time in wish_list = %v, want 1.98", got)
	}
}

func TestConvergenceAfterForceJump(t *testing.T) {
	conv := NewConvergence()
	particles := NewParticles()
	cfg := config.GetPreset("quick")
	start := target.Add(-cfg.Timeline.ForceJumpLead() - time.Second)
	result := runShow(t, start, 2900*time.Millisecond, conv, particles)

	if result.Final != director.PreCelebration {
		t.Fatalf("expected pre_celebration, got %s", result.Final)
	}
	if particles.Value() == 0 {
		t.Fatal("the message should populate the field")
	}

	jumped := -1
	for _, tr := range result.Phases {
		if tr.To != director.PreCelebration {
			continue
		}
		at := tr.At.Sub(start).Seconds()
		for i, ts := range result.Times {
			if ts >= at {
				jumped = i
				break
			}
		}
	}
	if jumped < 0 {
		t.Fatal("no sample after entering pre_celebration")
	}

	series := result.Series["convergence"]
	early, late := series[jumped], series[len(series)-1]
	if !(late < early/2) {
		t.Errorf("particles did not converge: %.2f -> %.2f", early, late)
	}
	if conv.Max() < early {
		t.Errorf("max %.2f below an observed value %.2f", conv.Max(), early)
	}
}

func TestCelebrationSparks(t *testing.T) {
	sparks := NewSparks()
	phase := NewPhaseTime()
	cfg := config.GetPreset("quick")
	start := target.Add(-cfg.Timeline.ForceJumpLead() - 500*time.Millisecond)
	result := runShow(t, start, cfg.Timeline.ForceJumpLead()+5*time.Second, sparks, phase)

	if result.Final != director.Celebration {
		t.Fatalf("expected celebration, got %s", result.Final)
	}
	if sparks.Peak() == 0 {
		t.Error("expected at least one firework to detonate")
	}
	if got := phase.Durations()[director.Countdown]; got != cfg.Timeline.CountdownSpan() {
		t.Errorf("countdown lasted %s, want %s", got, cfg.Timeline.CountdownSpan())
	}
}

func TestReset(t *testing.T) {
	for _, m := range All() {
		m.Reset()
		if m.Value() != 0 {
			t.Errorf("%s: value after reset = %v", m.Name(), m.Value())
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()
	want := []string{"convergence", "particles", "overlaps", "absorbed", "sparks", "phase_time"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}
