package surface

import (
	"image/color"
	"testing"

	"github.com/san-kum/countdown/internal/dynamo"
)

func TestHSL(t *testing.T) {
	tests := []struct {
		h, s, l float64
		want    color.NRGBA
	}{
		{0, 1, 0.5, color.NRGBA{255, 0, 0, 255}},
		{120, 1, 0.5, color.NRGBA{0, 255, 0, 255}},
		{240, 1, 0.5, color.NRGBA{0, 0, 255, 255}},
		{360, 1, 0.5, color.NRGBA{255, 0, 0, 255}},
		{-120, 1, 0.5, color.NRGBA{0, 0, 255, 255}},
	}

	for _, tt := range tests {
		if got := HSL(tt.h, tt.s, tt.l); got != tt.want {
			t.Errorf("HSL(%v, %v, %v) = %v, want %v", tt.h, tt.s, tt.l, got, tt.want)
		}
	}
}

func TestHex(t *testing.T) {
	c, err := Hex("#ffcc00")
	if err != nil {
		t.Fatalf("Hex failed: %v", err)
	}
	if c != (color.NRGBA{255, 204, 0, 255}) {
		t.Errorf("unexpected colour %v", c)
	}
	if ToHex(c) != "#ffcc00" {
		t.Errorf("ToHex round trip = %s", ToHex(c))
	}

	if _, err := Hex("gold"); err == nil {
		t.Error("expected error for non-hex colour")
	}
}

func TestWithAlpha(t *testing.T) {
	if WithAlpha(White, 0.5).A != 128 {
		t.Errorf("alpha 0.5 should map to 128, got %d", WithAlpha(White, 0.5).A)
	}
	if WithAlpha(White, 2).A != 255 || WithAlpha(White, -1).A != 0 {
		t.Error("alpha should clamp to [0, 1]")
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(800, 600)
	r.SetAlpha(0.5)
	r.FillCircle(1, 2, 3, White)
	Reset(r)
	Line(r, dynamo.V(0, 0), dynamo.V(10, 10), 1, White)
	r.FillText("hi", 5, 5, TextStyle{Size: 10}, White)

	if r.Count(OpCircle) != 1 || r.Count(OpPolyline) != 1 {
		t.Fatalf("unexpected op counts: %+v", r.Ops)
	}
	if r.Ops[0].Alpha != 0.5 {
		t.Errorf("circle should carry alpha 0.5, got %v", r.Ops[0].Alpha)
	}
	if r.Ops[1].Alpha != 1 {
		t.Errorf("Reset should restore alpha, got %v", r.Ops[1].Alpha)
	}
	if texts := r.Texts(); len(texts) != 1 || texts[0] != "hi" {
		t.Errorf("Texts() = %v", texts)
	}

	w, h := r.MeasureText("abcd", TextStyle{Size: 10})
	if w != 24 || h != 10 {
		t.Errorf("MeasureText = %v x %v", w, h)
	}
}
