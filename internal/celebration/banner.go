package celebration

import (
	"math"
	"math/rand"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/surface"
)

const (
	heartOffset = 15
	topStart    = 80
	bottomInset = 50
	heart       = "♥"
)

var (
	entryFill   = surface.MustHex("#e0ffff")
	entryGlow   = surface.MustHex("#00ffff")
	entryStroke = surface.WithAlpha(surface.Black, 0.9)
	heartFill   = surface.MustHex("#ff3366")
	heartGlow   = surface.MustHex("#ff0000")
)

// Entry is one scrolling message. X is its left edge.
type Entry struct {
	Text    string
	X       float64
	Width   float64
	Hovered bool
}

// Rect is an axis-aligned hit region.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(p dynamo.Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// HeartRect is the clickable heart after the text on a track at y.
func (e *Entry) HeartRect(y, size float64) Rect {
	return Rect{X: e.X + e.Width + heartOffset, Y: y - size/2, W: size, H: size}
}

// Bounds covers the text and its heart.
func (e *Entry) Bounds(y, size float64) Rect {
	return Rect{X: e.X, Y: y - size/2, W: e.Width + heartOffset + size, H: size}
}

// Track is one horizontal lane of entries moving left.
type Track struct {
	Y       float64
	Speed   float64
	Entries []*Entry

	bag  []string
	last string
}

// next draws from a shuffled bag of the pool, refilling when empty and
// avoiding an immediate repeat when the pool has a choice.
func (t *Track) next(pool []string, rng *rand.Rand) string {
	if len(pool) == 0 {
		return ""
	}
	if len(t.bag) == 0 {
		t.bag = append(t.bag[:0], pool...)
		rng.Shuffle(len(t.bag), func(i, j int) { t.bag[i], t.bag[j] = t.bag[j], t.bag[i] })
		if len(t.bag) > 1 && t.bag[len(t.bag)-1] == t.last {
			t.bag[0], t.bag[len(t.bag)-1] = t.bag[len(t.bag)-1], t.bag[0]
		}
	}
	text := t.bag[len(t.bag)-1]
	t.bag = t.bag[:len(t.bag)-1]
	t.last = text
	return text
}

// Banner lays out tracks around the centre of the screen and scrolls them.
type Banner struct {
	Tracks []*Track

	// OnHeart fires when an entry's heart is clicked.
	OnHeart func(text string)

	cfg     config.BannerConfig
	pool    []string
	measure surface.Measurer
	rng     *rand.Rand

	w, h     float64
	fontSize float64
}

func NewBanner(cfg config.BannerConfig, pool []string, m surface.Measurer, rng *rand.Rand) *Banner {
	return &Banner{cfg: cfg, pool: pool, measure: m, rng: rng}
}

func (b *Banner) FontSize() float64 { return b.fontSize }

func (b *Banner) style() surface.TextStyle {
	return surface.TextStyle{Size: b.fontSize, Bold: true}
}

// TrackRows returns the track baselines for a w x h viewport: rows from
// the top down to the safe zone around the centre, and from below it to
// the bottom. There is always at least one row on each side.
func TrackRows(cfg config.BannerConfig, h, scale float64) (top, bottom []float64) {
	font := cfg.FontSize * scale
	step := cfg.LineHeight * font
	safe := cfg.SafeZone * scale
	if step <= 0 {
		return []float64{h * 0.1}, []float64{h * 0.9}
	}
	for y := float64(topStart); y < h/2-safe; y += step {
		top = append(top, y)
	}
	for y := h/2 + safe + bottomInset; y < h-bottomInset; y += step {
		bottom = append(bottom, y)
	}
	if len(top) == 0 {
		top = []float64{math.Min(topStart, h*0.1+font/2)}
	}
	if len(bottom) == 0 {
		bottom = []float64{math.Max(h-bottomInset, h*0.9-font/2)}
	}
	return top, bottom
}

// Layout rebuilds the tracks for a new viewport and text scale.
func (b *Banner) Layout(w, h, scale float64) {
	b.w, b.h = w, h
	b.fontSize = b.cfg.FontSize * scale
	top, bottom := TrackRows(b.cfg, h, scale)

	b.Tracks = b.Tracks[:0]
	for _, y := range append(top, bottom...) {
		t := &Track{Y: y, Speed: b.cfg.SpeedMin + b.rng.Float64()*b.cfg.SpeedRange}
		b.add(t, w+b.rng.Float64()*200)
		b.Tracks = append(b.Tracks, t)
	}
}

func (b *Banner) add(t *Track, x float64) {
	text := t.next(b.pool, b.rng)
	width, _ := b.measure.MeasureText(text, b.style())
	t.Entries = append(t.Entries, &Entry{Text: text, X: x, Width: width})
}

// Update scrolls every track. Hovered entries hold still and entries
// behind them queue up instead of overlapping.
func (b *Banner) Update() {
	for _, t := range b.Tracks {
		for i, e := range t.Entries {
			if e.Hovered {
				continue
			}
			x := e.X - t.Speed
			if i > 0 {
				prev := t.Entries[i-1]
				x = math.Max(x, prev.X+prev.Width+b.cfg.HeartGap)
			}
			e.X = x
		}

		for len(t.Entries) > 0 && t.Entries[0].X < -t.Entries[0].Width-b.cfg.Margin {
			t.Entries[0] = nil
			t.Entries = t.Entries[1:]
		}

		if len(t.Entries) == 0 {
			b.add(t, b.w)
			continue
		}
		last := t.Entries[len(t.Entries)-1]
		if last.X+last.Width+b.cfg.HeartGap+b.cfg.Gap < b.w {
			b.add(t, b.w)
		}
	}
}

// Hover marks the entries under p.
func (b *Banner) Hover(p dynamo.Vec2) {
	for _, t := range b.Tracks {
		for _, e := range t.Entries {
			e.Hovered = e.Bounds(t.Y, b.fontSize).Contains(p)
		}
	}
}

// Click reports whether p hit a heart, firing OnHeart if so.
func (b *Banner) Click(p dynamo.Vec2) bool {
	for _, t := range b.Tracks {
		for _, e := range t.Entries {
			if e.HeartRect(t.Y, b.fontSize).Contains(p) {
				if b.OnHeart != nil {
					b.OnHeart(e.Text)
				}
				return true
			}
		}
	}
	return false
}

func (b *Banner) Draw(s surface.Surface) {
	style := b.style()
	heartStyle := surface.TextStyle{Size: b.fontSize, Bold: true, Align: surface.AlignCenter}
	for _, t := range b.Tracks {
		for _, e := range t.Entries {
			if e.X > b.w || e.X+e.Width+heartOffset+b.fontSize < 0 {
				continue
			}
			s.StrokeText(e.Text, e.X, t.Y, style, 6, entryStroke)
			s.SetGlow(10, entryGlow)
			s.FillText(e.Text, e.X, t.Y, style, entryFill)

			hx := e.X + e.Width + heartOffset + b.fontSize/2
			s.SetGlow(15, heartGlow)
			s.FillText(heart, hx, t.Y, heartStyle, heartFill)
			s.SetGlow(0, heartGlow)
		}
	}
}
