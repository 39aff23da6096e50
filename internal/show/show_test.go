package show_test

import (
	"errors"
	"math"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/show"
	"github.com/san-kum/countdown/internal/surface"
)

// gridSampler lays out twenty points per rune so tests do not depend on
// font rasterisation.
type gridSampler struct {
	calls []string
}

func (g *gridSampler) Sample(text string, size float64, w, h, stride int) ([]dynamo.Vec2, error) {
	g.calls = append(g.calls, text)
	if strings.TrimSpace(text) == "" {
		return nil, dynamo.ErrEmptyText
	}
	pts := make([]dynamo.Vec2, 20*len([]rune(text)))
	for i := range pts {
		pts[i] = dynamo.V(float64(w)/4+float64(i%20*stride), float64(h)/4+float64(i/20*stride))
	}
	return pts, nil
}

var _ = Describe("Show", func() {
	const frame = 20 * time.Millisecond

	var (
		cfg     *config.Config
		clock   *director.FakeClock
		target  time.Time
		sampler *gridSampler
		s       *show.Show
		phases  []director.Phase
	)

	run := func(d time.Duration) {
		for end := clock.Now().Add(d); clock.Now().Before(end); {
			clock.Advance(frame)
			Expect(s.Frame()).To(Succeed())
		}
	}

	build := func(start time.Time) {
		clock = director.NewFakeClock(start)
		sampler = &gridSampler{}
		s = show.New(cfg, clock, target, sampler, surface.NewRecorder(800, 600), 800, 600)
		s.Hooks.OnPhase = func(_, to director.Phase) { phases = append(phases, to) }
	}

	BeforeEach(func() {
		cfg = config.GetPreset("quick")
		cfg.Seed = 7
		cfg.Content.Wishes = []string{"health", "music", "home", "tea"}
		target = time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
		phases = nil
		build(target.Add(-10 * time.Minute))
	})

	It("needs two presses of the start control", func() {
		started := 0
		s.Hooks.OnStart = func() { started++ }
		run(time.Second)

		s.Activate()
		Expect(s.Phase()).To(Equal(director.Idle))
		s.PointerDown(dynamo.V(10, 10))
		Expect(s.Phase()).To(Equal(director.Poem))
		Expect(started).To(Equal(1))
	})

	It("plays the whole show on the normal path", func() {
		s.Activate()
		s.Activate()
		run(cfg.Timeline.PoemHold + frame)
		Expect(s.Phase()).To(Equal(director.WishList))

		run(time.Duration(len(cfg.Content.Wishes)+1) * cfg.Timeline.SpawnEvery)
		Expect(s.Wishes().Items).To(HaveLen(4))
		Expect(s.DragAllWishes()).To(Equal(4))
		Expect(s.Wishes().Complete()).To(BeTrue())

		run(cfg.Timeline.WishHold + cfg.Timeline.ExplodeFor + frame)
		Expect(s.Phase()).To(Equal(director.Question))
		Expect(s.Text()).To(Equal(cfg.Content.Question))

		run(cfg.Timeline.QuestionHold + cfg.Timeline.GatherFor)
		Expect(s.Phase()).To(Equal(director.Countdown))
		Expect(s.Text()).To(Equal("10"))

		count := s.Field().Len()
		run(cfg.Timeline.Tick)
		Expect(s.Text()).To(Equal("9"))
		Expect(s.Field().Len()).To(BeNumerically(">=", count))

		run(cfg.Timeline.CountdownSpan())
		Expect(s.Phase()).To(Equal(director.Celebration))
		Expect(s.Field().Len()).To(BeNumerically(">=", cfg.Field.SphereCount))

		run(cfg.Timeline.SphereHold + frame)
		Expect(s.Greeted()).To(BeTrue())
		Expect(s.Text()).To(Equal("Hello 2027"))

		Expect(phases).To(Equal([]director.Phase{
			director.Poem, director.WishList, director.Question,
			director.Countdown, director.Celebration,
		}))
	})

	It("grows the field monotonically through the countdown", func() {
		s.Activate()
		s.Activate()
		run(cfg.Timeline.PoemHold + time.Second)
		s.DragAllWishes()
		run(cfg.Timeline.WishHold + cfg.Timeline.ExplodeFor + cfg.Timeline.QuestionHold + cfg.Timeline.GatherFor + frame)
		Expect(s.Phase()).To(Equal(director.Countdown))

		prev := s.Field().Len()
		for i := 0; i < cfg.Timeline.Ticks; i++ {
			run(cfg.Timeline.Tick)
			Expect(s.Field().Len()).To(BeNumerically(">=", prev))
			prev = s.Field().Len()
		}
	})

	Context("when the deadline arrives during the wish list", func() {
		BeforeEach(func() {
			cfg.Timeline.WishHold = 5 * time.Second
			lead := cfg.Timeline.ForceJumpLead()
			build(target.Add(-lead - cfg.Timeline.PoemHold - 2*time.Second))
			s.Activate()
			s.Activate()
			run(cfg.Timeline.PoemHold + 500*time.Millisecond)
			Expect(s.Phase()).To(Equal(director.WishList))
		})

		It("skips straight to pre-celebration and voids the burst", func() {
			Expect(s.DragAllWishes()).To(Equal(4))
			run(2500 * time.Millisecond)
			Expect(s.Phase()).To(Equal(director.PreCelebration))
			Expect(s.Wishes()).To(BeNil())
			Expect(s.Text()).To(Equal(cfg.Content.PreCelebration))

			clock.Set(target.Add(-cfg.Timeline.CountdownSpan()))
			Expect(s.Frame()).To(Succeed())
			Expect(s.Phase()).To(Equal(director.Countdown))
			Expect(s.Text()).To(Equal("10"))

			run(3 * time.Second)
			Expect(phases).NotTo(ContainElement(director.Question))
			Expect(s.Text()).To(Equal("7"))
		})
	})

	It("resamples text on resize", func() {
		s.Activate()
		s.Activate()
		run(cfg.Timeline.PoemHold + time.Second)
		s.DragAllWishes()
		run(cfg.Timeline.WishHold + cfg.Timeline.ExplodeFor + frame)
		Expect(s.Phase()).To(Equal(director.Question))

		calls := len(sampler.calls)
		s.Resize(1024, 768)
		Expect(sampler.calls).To(HaveLen(calls + 1))
		Expect(sampler.calls[calls]).To(Equal(cfg.Content.Question))
		w, h := s.Size()
		Expect([]int{w, h}).To(Equal([]int{1024, 768}))

		s.Resize(1024, 768)
		Expect(sampler.calls).To(HaveLen(calls + 1))
	})

	It("reports non-finite particles as a frame error", func() {
		run(frame)
		s.Field().Particles = append(s.Field().Particles, physicsNaN())
		clock.Advance(frame)
		err := s.Frame()
		Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		var fe *dynamo.FrameError
		Expect(errors.As(err, &fe)).To(BeTrue())
		Expect(fe.Phase).To(Equal("idle"))
	})

	Describe("Draw", func() {
		It("clears with a translucent black first", func() {
			run(frame)
			rec := surface.NewRecorder(800, 600)
			s.Draw(rec)
			Expect(rec.Ops).NotTo(BeEmpty())
			Expect(rec.Ops[0].Kind).To(Equal(surface.OpClear))
			Expect(rec.Ops[0].Color.A).To(BeNumerically("<", 255))
			Expect(rec.Texts()).To(ContainElement("00:09:59"))
		})

		It("paints fireworks and banners during the celebration", func() {
			clock.Set(target.Add(time.Second))
			s.Activate()
			s.Activate()
			run(3 * time.Second)
			Expect(s.Phase()).To(Equal(director.Celebration))

			var hearts []string
			s.Hooks.OnHeart = func(text string) { hearts = append(hearts, text) }
			tr := s.Banner().Tracks[0]
			e := tr.Entries[0]
			e.X = 100
			hr := e.HeartRect(tr.Y, s.Banner().FontSize())
			s.PointerDown(dynamo.V(hr.X+1, hr.Y+1))
			Expect(hearts).To(Equal([]string{e.Text}))

			rec := surface.NewRecorder(800, 600)
			s.Draw(rec)
			Expect(rec.Count(surface.OpStroke)).To(BeNumerically(">", 0))
			Expect(math.IsNaN(rec.Ops[len(rec.Ops)-1].Alpha)).To(BeFalse())
		})
	})
})
