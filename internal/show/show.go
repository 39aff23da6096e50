// Package show owns the whole simulation context: the director, the
// particle field, the wish layout, the celebration overlay and the sky.
// Front-ends call Frame once per display refresh and Draw right after,
// always from the same goroutine.
package show

import (
	"errors"
	"log"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/san-kum/countdown/internal/backdrop"
	"github.com/san-kum/countdown/internal/celebration"
	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/layout"
	"github.com/san-kum/countdown/internal/physics"
	"github.com/san-kum/countdown/internal/sphere"
	"github.com/san-kum/countdown/internal/surface"
)

// Sampler turns text into particle targets on a w x h canvas.
type Sampler interface {
	Sample(text string, size float64, w, h, stride int) ([]dynamo.Vec2, error)
}

// Hooks reach the collaborators outside the simulation.
type Hooks struct {
	OnStart    func()
	OnHeart    func(text string)
	OnDetonate func(sparks int)
	OnPhase    func(from, to director.Phase)
}

type fieldMode int

const (
	fieldIdle fieldMode = iota
	fieldText
	fieldSphere
)

type Show struct {
	Hooks Hooks

	cfg     *config.Config
	clock   director.Clock
	rng     *rand.Rand
	sampler Sampler
	measure surface.Measurer

	dir      *director.Director
	sky      *backdrop.Sky
	field    *physics.Field
	wishes   *layout.Engine
	burst    *physics.Burst
	launcher *celebration.Launcher
	banner   *celebration.Banner
	spin     *sphere.Projector
	ball     sphere.Cache

	w, h  int
	now   time.Time
	frame int

	mode     fieldMode
	text     string
	textSize float64
	poemAt   []time.Time
	greeted  bool
}

// New builds a show for a w x h viewport counting down to target, reading
// time from clock.
func New(cfg *config.Config, clock director.Clock, target time.Time, sampler Sampler, m surface.Measurer, w, h int) *Show {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Show{
		cfg:      cfg,
		clock:    clock,
		rng:      rng,
		sampler:  sampler,
		measure:  m,
		w:        w,
		h:        h,
		sky:      backdrop.New(cfg.Backdrop, float64(w), float64(h), rng),
		field:    physics.NewField(cfg.Field, rng),
		launcher: celebration.NewLauncher(cfg.Fireworks, rng),
		banner:   celebration.NewBanner(cfg.Banner, cfg.Content.Blessings, m, rng),
		spin:     sphere.NewProjector(cfg.Sphere),
	}
	s.dir = director.New(cfg.Timeline, target, cfg.WatchEvery, director.Script{
		PoemLines: len(cfg.Content.Poem),
		Wishes:    len(cfg.Content.Wishes),
	})
	s.dir.Verbose = cfg.Verbose
	s.dir.Hooks = director.Hooks{
		OnEnter:    s.onEnter,
		OnStart:    s.onStart,
		OnPoemLine: s.onPoemLine,
		OnSpawn:    s.onSpawn,
		OnExplode:  s.onExplode,
		OnGather:   func() { s.field.Gather(s.center()) },
		OnTick:     func(n int) { s.showText(strconv.Itoa(n), cfg.Text.NumeralSize) },
		OnGreeting: s.onGreeting,
	}
	s.launcher.OnDetonate = func(n int) {
		if s.Hooks.OnDetonate != nil {
			s.Hooks.OnDetonate(n)
		}
	}
	s.banner.OnHeart = func(text string) {
		if s.Hooks.OnHeart != nil {
			s.Hooks.OnHeart(text)
		}
	}
	return s
}

func (s *Show) Director() *director.Director    { return s.dir }
func (s *Show) Field() *physics.Field           { return s.field }
func (s *Show) Wishes() *layout.Engine          { return s.wishes }
func (s *Show) Launcher() *celebration.Launcher { return s.launcher }
func (s *Show) Banner() *celebration.Banner     { return s.banner }
func (s *Show) Phase() director.Phase           { return s.dir.Phase() }
func (s *Show) Size() (int, int)                { return s.w, s.h }
func (s *Show) FrameCount() int                 { return s.frame }
func (s *Show) Text() string                    { return s.text }
func (s *Show) Config() *config.Config          { return s.cfg }
func (s *Show) Greeted() bool                   { return s.greeted }

func (s *Show) center() dynamo.Vec2 { return dynamo.V(float64(s.w)/2, float64(s.h)/2) }

func (s *Show) scale() float64 { return s.cfg.TextScale(s.w) }

// showText samples text at base size (before text scaling) into the field.
func (s *Show) showText(text string, base float64) {
	s.text, s.textSize, s.mode = text, base, fieldText
	s.field.Assign(s.sample(text, base), float64(s.w), float64(s.h))
}

func (s *Show) sample(text string, base float64) []dynamo.Vec2 {
	pts, err := s.sampler.Sample(text, base*s.scale(), s.w, s.h, s.cfg.Text.Stride)
	switch {
	case errors.Is(err, dynamo.ErrEmptyText):
		return nil
	case err != nil:
		log.Printf("[Show] sample %q: %v", text, err)
		return nil
	}
	return pts
}

func (s *Show) onEnter(from, to director.Phase, at time.Time) {
	switch to {
	case director.Poem:
		s.poemAt = s.poemAt[:0]
	case director.WishList:
		s.wishes = layout.NewEngine(s.cfg.Layout, s.cfg.Sphere, s.cfg.FPS, len(s.cfg.Content.Wishes),
			float64(s.w), float64(s.h), s.measure, s.cfg.Text.LabelSize*s.scale(), s.rng)
		s.wishes.OnComplete = func() { s.dir.WishesComplete(s.clock.Now()) }
		if len(s.cfg.Content.Wishes) == 0 {
			s.dir.WishesComplete(at)
		}
	case director.Question:
		s.wishes = nil
		s.showText(s.cfg.Content.Question, s.cfg.Text.QuestionSize)
	case director.PreCelebration:
		s.wishes, s.burst = nil, nil
		s.showText(s.cfg.Content.PreCelebration, s.cfg.Text.MessageSize)
	case director.Celebration:
		s.mode, s.text = fieldSphere, ""
		s.field.Assign(s.spherePoints(), float64(s.w), float64(s.h))
		s.field.SetEase(s.cfg.Field.SphereEase)
		s.banner.Layout(float64(s.w), float64(s.h), s.scale())
	}
	if s.Hooks.OnPhase != nil {
		s.Hooks.OnPhase(from, to)
	}
}

func (s *Show) onStart() {
	if s.Hooks.OnStart != nil {
		s.Hooks.OnStart()
	}
}

func (s *Show) onPoemLine(i int) {
	for len(s.poemAt) <= i {
		s.poemAt = append(s.poemAt, s.now)
	}
}

func (s *Show) onSpawn(i int) {
	if s.wishes != nil && i < len(s.cfg.Content.Wishes) {
		s.wishes.Spawn(s.cfg.Content.Wishes[i])
	}
}

func (s *Show) onExplode() {
	if s.wishes == nil {
		return
	}
	var texts []string
	var at []dynamo.Vec2
	for _, it := range s.wishes.Items {
		texts = append(texts, it.Text)
		at = append(at, it.Pos)
	}
	frames := int(s.cfg.Timeline.ExplodeFor.Seconds() * float64(s.cfg.FPS))
	s.burst = physics.Explode(s.rng, s.wishes.Center(), texts, at,
		s.cfg.Layout.ExplodeSpeed, s.cfg.Layout.ExplodeGravity, frames, s.cfg.Text.LabelSize*s.scale())
	s.wishes = nil
}

func (s *Show) onGreeting() {
	s.greeted = true
	s.showText(s.cfg.GreetingFor(s.dir.Target()), s.cfg.Text.GreetingSize)
}

func (s *Show) sphereRadius() float64 {
	return s.cfg.Sphere.Fraction * math.Min(float64(s.w), float64(s.h))
}

func (s *Show) spherePoints() []dynamo.Vec2 {
	return s.spin.Positions(s.ball.Points(s.cfg.Field.SphereCount), s.center(), s.sphereRadius())
}

// Frame advances the simulation to the clock's current time.
func (s *Show) Frame() error {
	now := s.clock.Now()
	s.now = now
	s.frame++
	s.dir.Update(now)
	s.sky.Update()

	if s.mode == fieldSphere {
		s.spin.Advance()
		s.field.Retarget(s.spherePoints(), s.center())
	}
	s.field.Tick()

	if s.wishes != nil {
		s.wishes.Step()
	}
	if s.burst != nil && !s.burst.Update() {
		s.burst = nil
	}
	if s.dir.Phase() == director.Celebration {
		s.launcher.Update(float64(s.w), float64(s.h))
		s.banner.Update()
	}

	if err := s.field.Validate(); err != nil {
		return &dynamo.FrameError{Frame: s.frame, Phase: s.dir.Phase().String(), Wrapped: err}
	}
	return nil
}

// Resize refits every pixel-space structure to a new viewport.
func (s *Show) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == s.w && h == s.h) {
		return
	}
	s.w, s.h = w, h
	s.sky.Resize(float64(w), float64(h))
	if s.wishes != nil {
		s.wishes.Resize(float64(w), float64(h))
	}
	if s.mode == fieldText && s.text != "" {
		s.field.Assign(s.sample(s.text, s.textSize), float64(w), float64(h))
	}
	if s.dir.Phase() == director.Celebration {
		s.banner.Layout(float64(w), float64(h), s.scale())
	}
}

// Activate is the start control: the first press asks for confirmation,
// the second starts the show.
func (s *Show) Activate() {
	if s.dir.Phase() != director.Idle {
		return
	}
	if !s.dir.StartPending() {
		s.dir.RequestStart()
		return
	}
	s.dir.ConfirmStart(s.clock.Now())
}

// DragAllWishes drags every free wish into the sphere through the pointer
// path, merging the first two to seed the sphere if needed. It returns how
// many wishes were absorbed.
func (s *Show) DragAllWishes() int {
	e := s.wishes
	if e == nil {
		return 0
	}
	before := e.Absorbed()
	c := e.Center()
	free := e.Free()
	if !e.Active() && len(free) >= 2 {
		e.Grab(free[0])
		e.PointerUp(free[1].Pos)
		free = e.Free()
	}
	for _, it := range free {
		e.Grab(it)
		e.PointerUp(c)
	}
	return e.Absorbed() - before
}

func (s *Show) PointerDown(p dynamo.Vec2) {
	switch s.dir.Phase() {
	case director.Idle:
		s.Activate()
	case director.WishList:
		if s.wishes != nil {
			s.wishes.PointerDown(p)
		}
	case director.Celebration:
		s.banner.Click(p)
	}
}

func (s *Show) PointerMove(p dynamo.Vec2) {
	if s.wishes != nil {
		s.wishes.PointerMove(p)
	}
	if s.dir.Phase() == director.Celebration {
		s.banner.Hover(p)
	}
}

func (s *Show) PointerUp(p dynamo.Vec2) {
	if s.wishes != nil {
		s.wishes.PointerUp(p)
	}
}
