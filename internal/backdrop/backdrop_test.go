package backdrop

import (
	"math/rand"
	"testing"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/surface"
)

func TestSkyCounts(t *testing.T) {
	cfg := config.DefaultConfig().Backdrop
	s := New(cfg, 800, 600, rand.New(rand.NewSource(1)))
	if len(s.Stars) != 200 || len(s.Meteors) != 15 || len(s.Constellations) != 3 {
		t.Fatalf("unexpected sky: %d stars, %d meteors, %d constellations",
			len(s.Stars), len(s.Meteors), len(s.Constellations))
	}
	for _, k := range s.Constellations {
		if len(k.Edges) != cfg.ConstellationStars-1 {
			t.Errorf("constellation tree has %d edges", len(k.Edges))
		}
	}
}

func TestTwinkleStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	st := Star{Opacity: 0.99}
	for i := 0; i < 1000; i++ {
		st.Twinkle(rng)
		if st.Opacity < 0 || st.Opacity > 1 {
			t.Fatalf("opacity %v escaped [0, 1]", st.Opacity)
		}
	}
}

func TestMeteorRecycles(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := Meteor{Pos: dynamo.V(-99, 100), Speed: 10}
	m.Update(rng, 800, 600)
	if m.Pos.X < 800 {
		t.Errorf("meteor should restart off the right edge, at %v", m.Pos)
	}
	if m.Pos.Y > 300 {
		t.Errorf("meteor should restart in the top half, at %v", m.Pos)
	}
}

func TestMeteorFallsLeftAndDown(t *testing.T) {
	m := Meteor{Pos: dynamo.V(400, 100), Speed: 10}
	m.Update(rand.New(rand.NewSource(4)), 800, 600)
	if m.Pos.X >= 400 || m.Pos.Y <= 100 {
		t.Errorf("meteor moved to %v", m.Pos)
	}
}

func TestTree(t *testing.T) {
	stars := []Star{
		{Pos: dynamo.V(0, 0)},
		{Pos: dynamo.V(10, 0)},
		{Pos: dynamo.V(100, 0)},
		{Pos: dynamo.V(11, 1)},
	}
	edges := Tree(stars)
	want := [][2]int{{0, 1}, {1, 2}, {1, 3}}
	if len(edges) != len(want) {
		t.Fatalf("Tree = %v", edges)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d = %v, want %v", i, edges[i], want[i])
		}
	}
}

func TestDraw(t *testing.T) {
	s := New(config.DefaultConfig().Backdrop, 800, 600, rand.New(rand.NewSource(5)))
	s.Update()
	rec := surface.NewRecorder(800, 600)
	s.Draw(rec)
	s.DrawMeteors(rec)
	if rec.Count(surface.OpCircle) != 200+3*7 {
		t.Errorf("circles = %d", rec.Count(surface.OpCircle))
	}
	if rec.Count(surface.OpPolyline) != 3*6+15 {
		t.Errorf("lines = %d", rec.Count(surface.OpPolyline))
	}
}
