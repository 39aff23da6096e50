package show

import (
	"image/color"
	"math"

	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/surface"
)

var (
	trailClear = surface.WithAlpha(surface.Black, 0.2)
	dimText    = surface.WithAlpha(surface.White, 0.7)
	promptText = surface.MustHex("#ffd6e0")
)

const (
	poemLineHeight = 1.8
	poemFadeIn     = 1.0 // seconds
)

// Draw renders background, decoration, particles, overlay and celebration,
// in that order.
func (s *Show) Draw(dst surface.Surface) {
	surface.Reset(dst)
	dst.Clear(trailClear)

	phase := s.dir.Phase()
	s.sky.Draw(dst)
	if phase == director.Idle || phase == director.Celebration {
		s.sky.DrawMeteors(dst)
	}

	s.field.Draw(dst)

	switch phase {
	case director.Idle:
		s.drawIdle(dst)
	case director.Poem:
		s.drawPoem(dst)
	case director.WishList:
		if s.wishes != nil {
			s.wishes.Draw(dst)
		}
		if hint := s.cfg.Content.Hint; hint != "" && s.burst == nil {
			dst.FillText(hint, float64(s.w)/2, float64(s.h)-40,
				surface.TextStyle{Size: s.cfg.Text.LabelSize * s.scale(), Align: surface.AlignCenter}, dimText)
		}
	}
	if s.burst != nil {
		s.burst.Draw(dst)
	}

	if phase == director.Celebration {
		s.launcher.Draw(dst)
		s.banner.Draw(dst)
	}
	surface.Reset(dst)
}

func (s *Show) textColor() color.NRGBA {
	c, err := surface.Hex(s.cfg.Text.Color)
	if err != nil {
		return surface.White
	}
	return c
}

func (s *Show) drawIdle(dst surface.Surface) {
	c := dynamo.V(float64(s.w)/2, float64(s.h)/2)
	scale := s.scale()

	dst.SetGlow(20, s.textColor())
	dst.FillText(director.FormatRemaining(s.dir.Remaining()), c.X, c.Y,
		surface.TextStyle{Size: s.cfg.Text.MessageSize * scale, Bold: true, Align: surface.AlignCenter}, s.textColor())
	dst.SetGlow(0, s.textColor())

	prompt := "click to begin"
	if s.dir.StartPending() {
		prompt = "ready? click again"
	}
	dst.FillText(prompt, c.X, c.Y+s.cfg.Text.MessageSize*scale,
		surface.TextStyle{Size: s.cfg.Text.LabelSize * scale, Align: surface.AlignCenter}, promptText)
}

func (s *Show) drawPoem(dst surface.Surface) {
	lines := s.cfg.Content.Poem
	size := s.cfg.Text.PoemSize * s.scale()
	lh := size * poemLineHeight
	top := float64(s.h)/2 - float64(len(lines)-1)*lh/2
	style := surface.TextStyle{Size: size, Align: surface.AlignCenter}

	for i, at := range s.poemAt {
		if i >= len(lines) {
			break
		}
		alpha := math.Min(1, s.now.Sub(at).Seconds()/poemFadeIn)
		dst.SetAlpha(math.Max(0, alpha))
		dst.FillText(lines[i], float64(s.w)/2, top+float64(i)*lh, style, s.textColor())
	}
	dst.SetAlpha(1)
}
