package layout

import (
	"fmt"

	"github.com/san-kum/countdown/internal/surface"
)

var (
	labelFill   = surface.WithAlpha(surface.White, 0.12)
	labelDrag   = surface.WithAlpha(surface.MustHex("#ffcc00"), 0.3)
	labelText   = surface.White
	sphereGlow  = surface.MustHex("#ff8fb1")
	counterText = surface.WithAlpha(surface.White, 0.8)
)

// Draw paints the sphere with its labels back to front, then the free
// labels on top, then the counter.
func (e *Engine) Draw(s surface.Surface) {
	c := e.Center()
	if e.Active() {
		s.SetGlow(30, sphereGlow)
		s.SetAlpha(0.15)
		s.FillCircle(c.X, c.Y, e.radius, sphereGlow)
		surface.Reset(s)

		items := e.absorbedItems()
		for _, p := range e.proj.Project(e.cache.Points(len(items)), c, e.radius) {
			it := items[p.Index]
			if it == nil {
				continue
			}
			s.SetAlpha(p.Alpha)
			s.FillText(it.Text, p.Pos.X, p.Pos.Y, surface.TextStyle{Size: e.labelSize * p.Scale, Align: surface.AlignCenter}, labelText)
		}
		s.SetAlpha(1)
	}

	for _, it := range e.Items {
		if it.Absorbed {
			continue
		}
		fill := labelFill
		if it.Dragging {
			fill = labelDrag
		}
		s.FillRect(it.Pos.X-it.W/2, it.Pos.Y-it.H/2, it.W, it.H, fill)
		s.FillText(it.Text, it.Pos.X, it.Pos.Y, surface.TextStyle{Size: e.labelSize, Align: surface.AlignCenter}, labelText)
	}

	if e.Total > 0 {
		s.FillText(fmt.Sprintf("%d / %d", e.absorbed, e.Total), c.X, 40, surface.TextStyle{Size: e.labelSize, Align: surface.AlignCenter}, counterText)
	}
}
