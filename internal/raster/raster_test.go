package raster

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/surface"
)

func newRasterizer(t *testing.T) *Rasterizer {
	t.Helper()
	r, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestSampleNumeral(t *testing.T) {
	r := newRasterizer(t)

	pts, err := r.Sample("10", 600, 800, 600, 4)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if len(pts) == 0 {
		t.Fatal("expected a non-empty target set")
	}
	for _, p := range pts {
		if p.X < 0 || p.X >= 800 || p.Y < 0 || p.Y >= 600 {
			t.Fatalf("point %v outside canvas", p)
		}
		if int(p.X)%4 != 0 || int(p.Y)%4 != 0 {
			t.Fatalf("point %v off the stride grid", p)
		}
	}
}

func TestSampleStrideDensity(t *testing.T) {
	r := newRasterizer(t)

	fine, err := r.Sample("8", 300, 400, 400, 2)
	if err != nil {
		t.Fatal(err)
	}
	coarse, err := r.Sample("8", 300, 400, 400, 4)
	if err != nil {
		t.Fatal(err)
	}
	// Halving the stride quadruples the grid; allow for edge effects.
	ratio := float64(len(fine)) / float64(len(coarse))
	if ratio < 3 || ratio > 5 {
		t.Errorf("expected roughly 4x points at half stride, got %d vs %d", len(fine), len(coarse))
	}
}

func TestSampleIsStable(t *testing.T) {
	r := newRasterizer(t)
	a, _ := r.Sample("Hello", 120, 800, 600, 4)
	b, _ := r.Sample("Hello", 120, 800, 600, 4)
	if len(a) != len(b) {
		t.Errorf("repeat sampling changed point count: %d vs %d", len(a), len(b))
	}
}

func TestSampleMultilineCentred(t *testing.T) {
	r := newRasterizer(t)
	pts, err := r.Sample("A\nA", 100, 600, 600, 2)
	if err != nil {
		t.Fatal(err)
	}

	var top, bottom int
	var sumX float64
	for _, p := range pts {
		if p.Y < 300 {
			top++
		} else {
			bottom++
		}
		sumX += p.X
	}
	if top == 0 || bottom == 0 {
		t.Fatalf("expected both lines sampled, got top=%d bottom=%d", top, bottom)
	}
	meanX := sumX / float64(len(pts))
	if meanX < 280 || meanX > 320 {
		t.Errorf("lines should be horizontally centred, mean x = %.1f", meanX)
	}
}

func TestSampleEmptyText(t *testing.T) {
	r := newRasterizer(t)
	for _, text := range []string{"", "   ", "\n"} {
		pts, err := r.Sample(text, 100, 800, 600, 4)
		if !errors.Is(err, dynamo.ErrEmptyText) {
			t.Errorf("Sample(%q) error = %v, want ErrEmptyText", text, err)
		}
		if len(pts) != 0 {
			t.Errorf("Sample(%q) returned %d points", text, len(pts))
		}
	}
}

func TestSampleDegenerateCanvas(t *testing.T) {
	r := newRasterizer(t)
	if _, err := r.Sample("1", 100, 0, 600, 4); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero width, got %v", err)
	}
}

func TestSampleMask(t *testing.T) {
	img := image.NewAlpha(image.Rect(0, 0, 8, 8))
	img.SetAlpha(0, 0, color.Alpha{A: 129})
	img.SetAlpha(4, 4, color.Alpha{A: 128})
	img.SetAlpha(4, 0, color.Alpha{A: 255})
	img.SetAlpha(1, 1, color.Alpha{A: 255})

	pts := SampleMask(img, 4)
	want := []dynamo.Vec2{dynamo.V(0, 0), dynamo.V(4, 0)}
	if len(pts) != len(want) {
		t.Fatalf("SampleMask = %v, want %v", pts, want)
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestMeasureText(t *testing.T) {
	r := newRasterizer(t)
	style := surface.TextStyle{Size: 32}

	short, h := r.MeasureText("hi", style)
	long, _ := r.MeasureText("hello there", style)
	if short <= 0 || long <= short {
		t.Errorf("expected widths to grow with text, got %v and %v", short, long)
	}
	if h != 32 {
		t.Errorf("single line height = %v, want 32", h)
	}

	_, h2 := r.MeasureText("a\nb", style)
	if h2 != 32+48 {
		t.Errorf("two line height = %v, want 80", h2)
	}
}

func TestNewFallsBackOnBadFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	if err := os.WriteFile(path, []byte("not a font"), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := New(path)
	if err != nil {
		t.Fatalf("New should fall back, got %v", err)
	}
	if pts, _ := r.Sample("1", 200, 400, 400, 4); len(pts) == 0 {
		t.Error("fallback font should still rasterise")
	}
}
