// Package layout keeps draggable wish labels apart and feeds them, one
// absorption at a time, into a growing rotating sphere.
package layout

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/sphere"
	"github.com/san-kum/countdown/internal/surface"
)

const (
	// settle is the overlap below which a pair is separated in full.
	settle    = 0.5
	labelPadX = 24
	labelPadY = 12
)

// Item is a draggable label. Pos is the centre of its box. Once Absorbed,
// Pos is written only by the sphere projection.
type Item struct {
	ID       int
	Text     string
	W, H     float64
	Pos      dynamo.Vec2
	Vel      dynamo.Vec2
	Dragging bool
	Absorbed bool
	// Slot is the item's index on the sphere, in absorption order.
	Slot int
}

func (it *Item) Contains(p dynamo.Vec2) bool {
	return math.Abs(p.X-it.Pos.X) <= it.W/2 && math.Abs(p.Y-it.Pos.Y) <= it.H/2
}

// Radius is the half-diagonal of the item's box.
func (it *Item) Radius() float64 { return math.Hypot(it.W, it.H) / 2 }

// Collides reports whether the boxes of a and b come closer than pad on
// both axes.
func Collides(a, b *Item, pad float64) bool {
	return math.Abs(a.Pos.X-b.Pos.X) < (a.W+b.W)/2+pad &&
		math.Abs(a.Pos.Y-b.Pos.Y) < (a.H+b.H)/2+pad
}

type Engine struct {
	Items []*Item
	Total int

	// OnAbsorb fires once per absorbed item; OnComplete fires once when
	// every expected item has been absorbed.
	OnAbsorb   func(*Item)
	OnComplete func()

	cfg       config.LayoutConfig
	rng       *rand.Rand
	measure   surface.Measurer
	labelSize float64

	w, h     float64
	absorbed int
	done     bool

	radius    float64
	radiusVel float64
	target    float64
	spring    harmonica.Spring

	proj  *sphere.Projector
	cache sphere.Cache

	drag       *Item
	dragOffset dynamo.Vec2
	nextID     int
}

// NewEngine expects total labels in a w x h viewport.
func NewEngine(cfg config.LayoutConfig, sph config.SphereConfig, fps, total int, w, h float64, m surface.Measurer, labelSize float64, rng *rand.Rand) *Engine {
	return &Engine{
		Total:     total,
		cfg:       cfg,
		rng:       rng,
		measure:   m,
		labelSize: labelSize,
		w:         w,
		h:         h,
		spring:    harmonica.NewSpring(harmonica.FPS(fps), cfg.SpringFrequency, cfg.SpringDamping),
		proj:      sphere.NewProjector(sph),
	}
}

func (e *Engine) Center() dynamo.Vec2 { return dynamo.V(e.w/2, e.h/2) }
func (e *Engine) Absorbed() int       { return e.absorbed }
func (e *Engine) Complete() bool      { return e.done }

// Active reports whether the sphere has been seeded.
func (e *Engine) Active() bool { return e.absorbed > 0 }

// Radius is the drawn sphere radius; TargetRadius is where it is heading.
func (e *Engine) Radius() float64       { return e.radius }
func (e *Engine) TargetRadius() float64 { return e.target }

func (e *Engine) maxRadius() float64 {
	return e.cfg.MaxFraction * math.Min(e.w, e.h)
}

// RadiusFor is the sphere radius for count absorbed items.
func (e *Engine) RadiusFor(count int) float64 {
	if count <= 0 {
		return 0
	}
	r := e.cfg.BaseRadius + math.Sqrt(float64(count))*e.cfg.Growth
	return math.Min(r, e.maxRadius())
}

// Spawn adds a label at a random spot with a random wander heading.
func (e *Engine) Spawn(text string) *Item {
	tw, th := e.measure.MeasureText(text, surface.TextStyle{Size: e.labelSize})
	it := &Item{
		ID:   e.nextID,
		Text: text,
		W:    tw + labelPadX,
		H:    th + labelPadY,
		Vel:  dynamo.Polar(e.rng.Float64()*2*math.Pi, e.cfg.WanderSpeed),
	}
	e.nextID++
	it.Pos = dynamo.V(
		it.W/2+e.rng.Float64()*math.Max(0, e.w-it.W),
		it.H/2+e.rng.Float64()*math.Max(0, e.h-it.H),
	)
	e.Items = append(e.Items, it)
	return it
}

// Free returns the items still owned by the layout.
func (e *Engine) Free() []*Item {
	var out []*Item
	for _, it := range e.Items {
		if !it.Absorbed {
			out = append(out, it)
		}
	}
	return out
}

// Step runs one frame: wander, relaxation, drag triggers, sphere spin and
// radius smoothing.
func (e *Engine) Step() {
	e.wander()
	e.Relax()
	e.checkDrag()

	if e.Active() {
		e.proj.Advance()
		prev := e.radius
		e.radius, e.radiusVel = e.spring.Update(e.radius, e.radiusVel, e.target)
		e.radius = math.Max(prev, math.Min(e.radius, e.target))
		e.placeAbsorbed()
	}
}

func (e *Engine) wander() {
	for _, it := range e.Items {
		if it.Absorbed || it.Dragging {
			continue
		}
		it.Pos = it.Pos.Add(it.Vel)
		if it.Pos.X < it.W/2 || it.Pos.X > e.w-it.W/2 {
			it.Vel.X = -it.Vel.X
		}
		if it.Pos.Y < it.H/2 || it.Pos.Y > e.h-it.H/2 {
			it.Vel.Y = -it.Vel.Y
		}
	}
}

// Relax pushes free items off the sphere, separates overlapping pairs over
// a fixed number of iterations and clamps everything into the viewport.
func (e *Engine) Relax() {
	free := e.Items[:0:0]
	for _, it := range e.Items {
		if !it.Absorbed && !it.Dragging {
			free = append(free, it)
		}
	}

	if e.Active() {
		c := e.Center()
		for _, it := range free {
			limit := e.radius + it.Radius() + e.cfg.RepelBuffer
			off := it.Pos.Sub(c)
			d := off.Len()
			if d >= limit {
				continue
			}
			dir := off.Normalize()
			if d == 0 {
				dir = dynamo.V(0, -1)
			}
			it.Pos = it.Pos.Add(dir.Scale((limit - d) * e.cfg.RepelFactor))
		}
	}

	for iter := 0; iter < e.cfg.Iterations; iter++ {
		for i := 0; i < len(free); i++ {
			for j := i + 1; j < len(free); j++ {
				e.separate(free[i], free[j])
			}
		}
	}

	for _, it := range free {
		e.clamp(it)
	}
}

// separate moves a and b apart along the axis of least penetration by a
// fraction of their overlap, resolving small overlaps in full.
func (e *Engine) separate(a, b *Item) {
	pad := e.cfg.Padding
	dx, dy := b.Pos.X-a.Pos.X, b.Pos.Y-a.Pos.Y
	ox := (a.W+b.W)/2 + pad - math.Abs(dx)
	oy := (a.H+b.H)/2 + pad - math.Abs(dy)
	if ox <= 0 || oy <= 0 {
		return
	}

	push := func(overlap float64) float64 {
		if overlap <= settle {
			return overlap + 1e-3
		}
		return math.Max(overlap*e.cfg.Correction, settle)
	}
	if ox < oy {
		s := push(ox) / 2
		if dx < 0 {
			s = -s
		}
		a.Pos.X -= s
		b.Pos.X += s
	} else {
		s := push(oy) / 2
		if dy < 0 {
			s = -s
		}
		a.Pos.Y -= s
		b.Pos.Y += s
	}
}

func (e *Engine) clamp(it *Item) {
	it.Pos.X = dynamo.Clamp(it.Pos.X, it.W/2, e.w-it.W/2)
	it.Pos.Y = dynamo.Clamp(it.Pos.Y, it.H/2, e.h-it.H/2)
}

// Overlaps counts colliding pairs among free items.
func (e *Engine) Overlaps() int {
	free := e.Free()
	n := 0
	for i := 0; i < len(free); i++ {
		for j := i + 1; j < len(free); j++ {
			if Collides(free[i], free[j], e.cfg.Padding) {
				n++
			}
		}
	}
	return n
}

// PointerDown grabs the topmost free item under p.
func (e *Engine) PointerDown(p dynamo.Vec2) bool {
	for i := len(e.Items) - 1; i >= 0; i-- {
		it := e.Items[i]
		if it.Absorbed || !it.Contains(p) {
			continue
		}
		it.Dragging = true
		e.drag = it
		e.dragOffset = it.Pos.Sub(p)
		return true
	}
	return false
}

// Grab starts dragging it from its centre.
func (e *Engine) Grab(it *Item) {
	if it.Absorbed {
		return
	}
	if e.drag != nil {
		e.drag.Dragging = false
	}
	it.Dragging = true
	e.drag, e.dragOffset = it, dynamo.Vec2{}
}

func (e *Engine) PointerMove(p dynamo.Vec2) {
	if e.drag == nil {
		return
	}
	e.drag.Pos = p.Add(e.dragOffset)
	e.clamp(e.drag)
}

func (e *Engine) PointerUp(p dynamo.Vec2) {
	if e.drag == nil {
		return
	}
	e.PointerMove(p)
	e.checkDrag()
	if e.drag != nil {
		e.drag.Dragging = false
		e.drag = nil
	}
}

// Dragging returns the item under the pointer, if any.
func (e *Engine) Dragging() *Item { return e.drag }

func (e *Engine) checkDrag() {
	it := e.drag
	if it == nil || it.Absorbed {
		return
	}
	c := e.Center()

	if e.Active() && it.Pos.Dist(c) <= e.radius {
		e.absorb(it)
		return
	}
	for _, other := range e.Items {
		if other == it || other.Absorbed {
			continue
		}
		if Collides(it, other, 0) {
			e.absorb(it)
			e.absorb(other)
			return
		}
	}
	// A lone label with no partner and no sphere yet seeds it at the centre.
	if !e.Active() && len(e.Free()) == 1 && e.absorbed+1 == e.Total && it.Pos.Dist(c) <= e.cfg.BaseRadius {
		e.absorb(it)
	}
}

func (e *Engine) absorb(it *Item) {
	if it.Absorbed {
		return
	}
	if it == e.drag {
		e.drag = nil
	}
	it.Dragging = false
	it.Absorbed = true
	it.Slot = e.absorbed
	it.Vel = dynamo.Vec2{}
	e.absorbed++
	e.target = math.Max(e.target, e.RadiusFor(e.absorbed))

	if e.OnAbsorb != nil {
		e.OnAbsorb(it)
	}
	if e.absorbed >= e.Total && !e.done {
		e.done = true
		if e.OnComplete != nil {
			e.OnComplete()
		}
	}
}

// AbsorbAll moves every free item onto the sphere.
func (e *Engine) AbsorbAll() {
	for _, it := range e.Items {
		e.absorb(it)
	}
}

func (e *Engine) absorbedItems() []*Item {
	out := make([]*Item, e.absorbed)
	for _, it := range e.Items {
		if it.Absorbed && it.Slot < len(out) {
			out[it.Slot] = it
		}
	}
	return out
}

func (e *Engine) placeAbsorbed() {
	items := e.absorbedItems()
	pos := e.proj.Positions(e.cache.Points(len(items)), e.Center(), e.radius)
	for i, it := range items {
		if it != nil {
			it.Pos = pos[i]
		}
	}
}

// Resize refits the viewport. The sphere cap follows the new size, and
// free items are pulled back inside.
func (e *Engine) Resize(w, h float64) {
	e.w, e.h = w, h
	e.target = math.Min(e.target, e.maxRadius())
	if e.radius > e.target {
		e.radius, e.radiusVel = e.target, 0
	}
	for _, it := range e.Items {
		if !it.Absorbed {
			e.clamp(it)
		}
	}
}
