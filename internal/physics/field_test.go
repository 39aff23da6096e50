package physics

import (
	"math/rand"
	"testing"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/raster"
	"github.com/san-kum/countdown/internal/surface"
)

func newField(seed int64) *Field {
	return NewField(config.DefaultConfig().Field, rand.New(rand.NewSource(seed)))
}

func grid(n int, x0, y0 float64) []dynamo.Vec2 {
	pts := make([]dynamo.Vec2, n)
	for i := range pts {
		pts[i] = dynamo.V(x0+float64(i%10)*7, y0+float64(i/10)*7)
	}
	return pts
}

func TestAssignGrowsFromCentre(t *testing.T) {
	f := newField(1)
	f.Assign(grid(30, 10, 10), 800, 600)

	if f.Len() != 30 {
		t.Fatalf("expected 30 particles, got %d", f.Len())
	}
	for _, p := range f.Particles {
		if p.Pos != dynamo.V(400, 300) {
			t.Fatalf("new particle spawned at %v, want centre", p.Pos)
		}
		if p.Ease < 0.03 || p.Ease >= 0.08 {
			t.Fatalf("ease %v outside [0.03, 0.08)", p.Ease)
		}
	}
}

func TestAssignNeverShrinks(t *testing.T) {
	f := newField(2)
	f.Assign(grid(50, 0, 0), 800, 600)
	f.Assign(grid(10, 0, 0), 800, 600)

	if f.Len() != 50 {
		t.Fatalf("particle count dropped to %d", f.Len())
	}
	for i, p := range f.Particles[10:] {
		if p.Target.Y < 600 || p.Target.Y > 1200 || p.Target.X < 0 || p.Target.X > 800 {
			t.Errorf("surplus particle %d parked at %v, want below viewport", i+10, p.Target)
		}
	}

	f.Assign(nil, 800, 600)
	if f.Len() != 50 {
		t.Errorf("empty assignment changed count to %d", f.Len())
	}
}

func TestTickConvergesMonotonically(t *testing.T) {
	f := newField(3)
	f.Assign(grid(40, 50, 50), 800, 600)

	prev := make([]float64, f.Len())
	for i, p := range f.Particles {
		prev[i] = p.Pos.Dist(p.Target)
	}
	for step := 0; step < 2000 && !f.Settled(0.01); step++ {
		f.Tick()
		for i, p := range f.Particles {
			d := p.Pos.Dist(p.Target)
			if prev[i] > 0.01 && d >= prev[i] {
				t.Fatalf("step %d particle %d: distance %v did not shrink from %v", step, i, d, prev[i])
			}
			prev[i] = d
		}
	}
	if !f.Settled(0.01) {
		t.Error("field did not converge")
	}
	if err := f.Validate(); err != nil {
		t.Error(err)
	}
}

func TestGather(t *testing.T) {
	f := newField(4)
	f.Assign(grid(20, 0, 0), 800, 600)
	c := dynamo.V(400, 300)
	f.Gather(c)
	for _, p := range f.Particles {
		if p.Target != c {
			t.Fatalf("target %v, want %v", p.Target, c)
		}
	}
}

func TestRetargetKeepsEase(t *testing.T) {
	f := newField(5)
	f.Assign(grid(10, 0, 0), 800, 600)
	eases := make([]float64, f.Len())
	for i, p := range f.Particles {
		eases[i] = p.Ease
	}

	f.Retarget(grid(15, 100, 100), dynamo.V(1, 1))
	if f.Len() != 15 {
		t.Fatalf("expected growth to 15, got %d", f.Len())
	}
	for i := range eases {
		if f.Particles[i].Ease != eases[i] {
			t.Errorf("particle %d ease changed", i)
		}
	}
	if f.Particles[14].Pos != dynamo.V(1, 1) {
		t.Errorf("grown particle spawned at %v", f.Particles[14].Pos)
	}
}

func TestNumeralReassignment(t *testing.T) {
	r, err := raster.New("")
	if err != nil {
		t.Fatal(err)
	}
	ten, err := r.Sample("10", 600, 800, 600, 4)
	if err != nil || len(ten) == 0 {
		t.Fatalf("sampling 10: %d points, %v", len(ten), err)
	}
	nine, err := r.Sample("9", 600, 800, 600, 4)
	if err != nil || len(nine) == 0 {
		t.Fatalf("sampling 9: %d points, %v", len(nine), err)
	}

	f := newField(6)
	f.Assign(ten, 800, 600)
	before := make([]dynamo.Vec2, f.Len())
	for i, p := range f.Particles {
		before[i] = p.Target
	}
	count := f.Len()

	f.Assign(nine, 800, 600)
	if f.Len() < count {
		t.Fatalf("particle count fell from %d to %d", count, f.Len())
	}

	unchanged := 0
	for i := range before {
		if f.Particles[i].Target == before[i] {
			unchanged++
		}
	}
	// Row-major sampling can line up a handful of points by coincidence.
	if float64(unchanged) > 0.01*float64(len(before)) {
		t.Errorf("%d of %d targets did not move", unchanged, len(before))
	}
}

func TestFieldDrawSkipsOffscreen(t *testing.T) {
	f := newField(7)
	f.Assign([]dynamo.Vec2{dynamo.V(10, 10)}, 100, 100)
	f.Particles = append(f.Particles, Particle{Pos: dynamo.V(50, 500)})

	rec := surface.NewRecorder(100, 100)
	f.Draw(rec)
	if rec.Count(surface.OpCircle) != 1 {
		t.Errorf("expected 1 circle, got %d", rec.Count(surface.OpCircle))
	}
}
