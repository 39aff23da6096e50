package audio

import (
	"math"
	"testing"
)

func buffer(n int) [][]float32 {
	return [][]float32{make([]float32, n), make([]float32, n)}
}

func TestTriangle(t *testing.T) {
	tests := []struct {
		phase, want float64
	}{
		{0, 1},
		{0.25, 0},
		{0.5, -1},
		{0.75, 0},
		{1.5, -1},
	}
	for _, tt := range tests {
		if got := triangle(tt.phase); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("triangle(%v) = %v, want %v", tt.phase, got, tt.want)
		}
	}
}

func TestProcessBounded(t *testing.T) {
	s := NewSynth(0.25)
	s.SetIntensity(1)
	for i := 0; i < 5; i++ {
		s.Chime(1)
	}
	out := buffer(BufferSize)
	for i := 0; i < 20; i++ {
		s.Process(out)
	}
	nonZero := false
	for _, ch := range out {
		for _, v := range ch {
			if math.IsNaN(float64(v)) || math.Abs(float64(v)) > 2 {
				t.Fatalf("sample out of range: %v", v)
			}
			if v != 0 {
				nonZero = true
			}
		}
	}
	if !nonZero {
		t.Error("synth produced silence")
	}
}

func TestChimesDecay(t *testing.T) {
	s := NewSynth(0.25)
	s.Chime(0.5)
	s.Chime(0.5)
	if s.Voices() != 2 {
		t.Fatalf("expected 2 voices, got %d", s.Voices())
	}
	out := buffer(BufferSize)
	// 0.99985^n < 1e-3/0.35 after about 39000 samples.
	for i := 0; i < 60; i++ {
		s.Process(out)
	}
	if s.Voices() != 0 {
		t.Errorf("chimes should have died out, %d left", s.Voices())
	}
}

func TestSetIntensityClamps(t *testing.T) {
	s := NewSynth(0.25)
	s.SetIntensity(3)
	if s.intensity != 1 {
		t.Errorf("intensity = %v, want 1", s.intensity)
	}
	s.SetIntensity(-1)
	if s.intensity != 0 {
		t.Errorf("intensity = %v, want 0", s.intensity)
	}
}

func TestPlayerInactive(t *testing.T) {
	p := NewPlayer(0.25)
	p.Chime(150)
	if p.Synth.Voices() != 0 {
		t.Error("an inactive player should not queue chimes")
	}
	p.Stop()
}
