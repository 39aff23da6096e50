// Package backdrop draws the night sky behind every phase: twinkling
// stars, meteors and a few constellation figures.
package backdrop

import (
	"math"
	"math/rand"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/surface"
)

type Star struct {
	Pos     dynamo.Vec2
	Size    float64
	Opacity float64
}

// Twinkle random-walks the opacity within [0, 1].
func (s *Star) Twinkle(rng *rand.Rand) {
	s.Opacity = dynamo.Clamp(s.Opacity+(rng.Float64()-0.5)*0.1, 0, 1)
}

// Meteor falls at 45° from the upper right.
type Meteor struct {
	Pos   dynamo.Vec2
	Len   float64
	Speed float64
	Size  float64
}

var meteorDir = dynamo.Polar(3*math.Pi/4, 1) // left and down in screen space

func (m *Meteor) reset(rng *rand.Rand, w, h float64) {
	m.Pos = dynamo.V(w+rng.Float64()*w, rng.Float64()*h*0.5)
	m.Len = 20 + rng.Float64()*80
	m.Speed = 5 + rng.Float64()*10
	m.Size = 0.5 + rng.Float64()*2
}

// Update moves the meteor and sends it back off the right edge, with a
// random extra delay, once it leaves the viewport.
func (m *Meteor) Update(rng *rand.Rand, w, h float64) {
	m.Pos = m.Pos.Add(meteorDir.Scale(m.Speed))
	if m.Pos.X < -100 || m.Pos.Y > h+100 {
		m.reset(rng, w, h)
		m.Pos.X += rng.Float64() * 2000
	}
}

// Constellation is a small cluster of bright stars joined into a tree.
type Constellation struct {
	Stars []Star
	// Edges index into Stars.
	Edges [][2]int
	phase float64
}

type Sky struct {
	Stars          []Star
	Meteors        []Meteor
	Constellations []Constellation

	cfg  config.BackdropConfig
	rng  *rand.Rand
	w, h float64
}

func New(cfg config.BackdropConfig, w, h float64, rng *rand.Rand) *Sky {
	s := &Sky{cfg: cfg, rng: rng}
	s.Resize(w, h)
	return s
}

// Resize rebuilds the sky for a new viewport.
func (s *Sky) Resize(w, h float64) {
	s.w, s.h = w, h
	s.Stars = make([]Star, s.cfg.Stars)
	for i := range s.Stars {
		s.Stars[i] = Star{
			Pos:     dynamo.V(s.rng.Float64()*w, s.rng.Float64()*h),
			Size:    s.rng.Float64() * 1.5,
			Opacity: s.rng.Float64(),
		}
	}
	s.Meteors = make([]Meteor, s.cfg.Meteors)
	for i := range s.Meteors {
		s.Meteors[i].reset(s.rng, w, h)
	}
	s.Constellations = make([]Constellation, s.cfg.Constellations)
	for i := range s.Constellations {
		s.Constellations[i] = s.constellation()
	}
}

func (s *Sky) constellation() Constellation {
	span := math.Min(s.w, s.h) * 0.15
	c := dynamo.V(span+s.rng.Float64()*math.Max(0, s.w-2*span), span+s.rng.Float64()*math.Max(0, s.h/2-span))
	n := s.cfg.ConstellationStars
	k := Constellation{Stars: make([]Star, n), phase: s.rng.Float64() * 2 * math.Pi}
	for i := range k.Stars {
		k.Stars[i] = Star{
			Pos:     c.Add(dynamo.V((s.rng.Float64()-0.5)*2*span, (s.rng.Float64()-0.5)*span)),
			Size:    1.5 + s.rng.Float64(),
			Opacity: 1,
		}
	}
	k.Edges = Tree(k.Stars)
	return k
}

// Tree joins each star to its nearest predecessor.
func Tree(stars []Star) [][2]int {
	var edges [][2]int
	for i := 1; i < len(stars); i++ {
		best, bestD := 0, math.Inf(1)
		for j := 0; j < i; j++ {
			if d := stars[i].Pos.Dist(stars[j].Pos); d < bestD {
				best, bestD = j, d
			}
		}
		edges = append(edges, [2]int{best, i})
	}
	return edges
}

func (s *Sky) Update() {
	for i := range s.Stars {
		s.Stars[i].Twinkle(s.rng)
	}
	for i := range s.Meteors {
		s.Meteors[i].Update(s.rng, s.w, s.h)
	}
	for i := range s.Constellations {
		s.Constellations[i].phase += 0.02
	}
}

var lineColor = surface.MustHex("#9fb7ff")

// Draw paints stars and constellations. Meteors are drawn separately by
// DrawMeteors so callers can skip them outside the idle phase.
func (s *Sky) Draw(dst surface.Surface) {
	for _, st := range s.Stars {
		dst.FillCircle(st.Pos.X, st.Pos.Y, st.Size, surface.WithAlpha(surface.White, st.Opacity))
	}
	for _, k := range s.Constellations {
		glow := 0.35 + 0.25*math.Sin(k.phase)
		for _, e := range k.Edges {
			surface.Line(dst, k.Stars[e[0]].Pos, k.Stars[e[1]].Pos, 1, surface.WithAlpha(lineColor, glow))
		}
		for _, st := range k.Stars {
			dst.FillCircle(st.Pos.X, st.Pos.Y, st.Size, surface.WithAlpha(surface.White, glow+0.4))
		}
	}
}

func (s *Sky) DrawMeteors(dst surface.Surface) {
	for _, m := range s.Meteors {
		tail := m.Pos.Sub(meteorDir.Scale(m.Len))
		surface.Line(dst, m.Pos, tail, m.Size, surface.WithAlpha(surface.White, 0.5))
	}
}
