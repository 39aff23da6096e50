package director_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/dynamo"
)

var _ = Describe("Phase", func() {
	It("round-trips through its name", func() {
		for _, p := range director.Phases() {
			parsed, err := director.ParsePhase(p.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(p))
		}
	})

	It("rejects unknown names", func() {
		_, err := director.ParsePhase("encore")
		Expect(errors.Is(err, dynamo.ErrUnknownPhase)).To(BeTrue())
	})

	DescribeTable("legal transitions",
		func(from, to director.Phase, ok bool) {
			Expect(director.CanTransition(from, to)).To(Equal(ok))
		},
		Entry("idle to poem", director.Idle, director.Poem, true),
		Entry("idle straight to countdown", director.Idle, director.Countdown, false),
		Entry("wish list force-jump", director.WishList, director.PreCelebration, true),
		Entry("pre-celebration to countdown", director.PreCelebration, director.Countdown, true),
		Entry("countdown back to pre-celebration", director.Countdown, director.PreCelebration, false),
		Entry("celebration is terminal", director.Celebration, director.Idle, false),
	)
})

var _ = Describe("Scheduler", func() {
	var (
		s   director.Scheduler
		t0  time.Time
		log []string
	)

	BeforeEach(func() {
		s = director.Scheduler{}
		t0 = time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)
		log = nil
	})

	It("fires due callbacks in due order", func() {
		s.After(t0, 2*time.Second, func() { log = append(log, "b") })
		s.After(t0, time.Second, func() { log = append(log, "a") })
		s.After(t0, 5*time.Second, func() { log = append(log, "c") })

		Expect(s.Run(t0.Add(3 * time.Second))).To(Equal(2))
		Expect(log).To(Equal([]string{"a", "b"}))
		Expect(s.Pending()).To(Equal(1))
	})

	It("drops callbacks from a stale generation", func() {
		s.After(t0, time.Second, func() { log = append(log, "stale") })
		s.Invalidate()
		s.After(t0, time.Second, func() { log = append(log, "fresh") })

		s.Run(t0.Add(time.Minute))
		Expect(log).To(Equal([]string{"fresh"}))
	})

	It("stops a batch when a callback invalidates", func() {
		s.After(t0, time.Second, func() { log = append(log, "first"); s.Invalidate() })
		s.After(t0, time.Second, func() { log = append(log, "second") })

		s.Run(t0.Add(time.Minute))
		Expect(log).To(Equal([]string{"first"}))
	})
})

var _ = Describe("Director", func() {
	var (
		tl     config.TimelineConfig
		target time.Time
		clock  *director.FakeClock
		d      *director.Director
		events []string
	)

	record := func(format string) func(int) {
		return func(i int) { events = append(events, format+string(rune('0'+i))) }
	}

	step := func(dur time.Duration) {
		const frame = 50 * time.Millisecond
		for end := clock.Now().Add(dur); clock.Now().Before(end); {
			clock.Advance(frame)
			d.Update(clock.Now())
		}
	}

	BeforeEach(func() {
		tl = config.DefaultConfig().Timeline
		target = time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
		clock = director.NewFakeClock(target.Add(-time.Hour))
		events = nil
		d = director.New(tl, target, 250*time.Millisecond, director.Script{PoemLines: 3, Wishes: 4})
		d.Hooks = director.Hooks{
			OnPoemLine: record("line"),
			OnSpawn:    record("spawn"),
			OnExplode:  func() { events = append(events, "explode") },
			OnGather:   func() { events = append(events, "gather") },
			OnGreeting: func() { events = append(events, "greeting") },
		}
	})

	It("waits in idle until the start is confirmed", func() {
		step(time.Minute)
		Expect(d.Phase()).To(Equal(director.Idle))
		Expect(d.ConfirmStart(clock.Now())).To(BeFalse())

		d.RequestStart()
		Expect(d.StartPending()).To(BeTrue())
		Expect(d.ConfirmStart(clock.Now())).To(BeTrue())
		Expect(d.Phase()).To(Equal(director.Poem))
	})

	It("reports the remaining time from the watch", func() {
		d.Update(clock.Now())
		Expect(d.Remaining()).To(Equal(time.Hour))
		step(10 * time.Second)
		Expect(d.Remaining()).To(BeNumerically("~", time.Hour-10*time.Second, 300*time.Millisecond))
	})

	It("keeps the watch on a fixed interval", func() {
		d.Update(clock.Now())
		for i := 0; i < 50; i++ {
			clock.Advance(20 * time.Millisecond)
			d.Update(clock.Now())
		}
		Expect(d.Remaining()).To(Equal(time.Hour - time.Second))

		clock.Advance(10 * time.Second)
		d.Update(clock.Now())
		Expect(d.Remaining()).To(Equal(time.Hour - 11*time.Second))
	})

	It("runs the full sequence on the normal path", func() {
		started := false
		d.Hooks.OnStart = func() { started = true }
		d.RequestStart()
		d.ConfirmStart(clock.Now())
		Expect(started).To(BeTrue())

		step(tl.PoemHold)
		Expect(d.Phase()).To(Equal(director.WishList))
		Expect(events[:3]).To(Equal([]string{"line0", "line1", "line2"}))

		step(time.Second)
		Expect(events).To(ContainElements("spawn0", "spawn1", "spawn2", "spawn3"))

		d.WishesComplete(clock.Now())
		step(tl.WishHold + 100*time.Millisecond)
		Expect(events).To(ContainElement("explode"))
		Expect(d.Phase()).To(Equal(director.WishList))

		step(tl.ExplodeFor)
		Expect(d.Phase()).To(Equal(director.Question))

		step(tl.QuestionHold + tl.GatherFor)
		Expect(events).To(ContainElement("gather"))
		Expect(d.Phase()).To(Equal(director.Countdown))

		var ticks []int
		d.Hooks.OnTick = func(n int) { ticks = append(ticks, n) }
		step(tl.CountdownSpan())
		Expect(d.Phase()).To(Equal(director.Celebration))
		Expect(ticks).To(HaveLen(tl.Ticks - 1))
		Expect(ticks[len(ticks)-1]).To(Equal(1))

		step(tl.SphereHold)
		Expect(events).To(ContainElement("greeting"))
		for _, tr := range d.Transitions() {
			Expect(tr.Forced).To(BeFalse())
		}
	})

	It("counts down from ten in one-second steps", func() {
		var ticks []int
		d.Hooks.OnTick = func(n int) { ticks = append(ticks, n) }
		d.RequestStart()
		d.ConfirmStart(clock.Now())
		step(tl.PoemHold)
		d.WishesComplete(clock.Now())
		step(tl.WishHold + tl.ExplodeFor + tl.QuestionHold + tl.GatherFor)
		Expect(d.Phase()).To(Equal(director.Countdown))

		step(tl.CountdownSpan() + tl.Tick)
		Expect(ticks).To(Equal([]int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}))
	})

	Context("when the deadline arrives during the wish list", func() {
		BeforeEach(func() {
			clock.Set(target.Add(-tl.ForceJumpLead() - tl.PoemHold - time.Second))
			d.RequestStart()
			d.ConfirmStart(clock.Now())
			step(tl.PoemHold)
			Expect(d.Phase()).To(Equal(director.WishList))
			events = nil
		})

		It("force-jumps to pre-celebration and voids wish timers", func() {
			d.WishesComplete(clock.Now())
			Expect(d.Scheduler().Pending()).To(BeNumerically(">", 0))

			step(time.Second + 300*time.Millisecond)
			Expect(d.Phase()).To(Equal(director.PreCelebration))
			Expect(d.Scheduler().Pending()).To(Equal(0))

			last := d.Transitions()[len(d.Transitions())-1]
			Expect(last.From).To(Equal(director.WishList))
			Expect(last.Forced).To(BeTrue())

			step(tl.WishHold + tl.ExplodeFor)
			Expect(events).NotTo(ContainElement("explode"))
			Expect(d.Phase()).NotTo(Equal(director.Question))
		})

		It("starts the countdown exactly ten seconds before the target", func() {
			step(time.Second + 300*time.Millisecond)
			Expect(d.Phase()).To(Equal(director.PreCelebration))

			clock.Set(target.Add(-tl.CountdownSpan() + 17*time.Millisecond))
			d.Update(clock.Now())
			Expect(d.Phase()).To(Equal(director.Countdown))
			Expect(d.EnteredAt()).To(Equal(target.Add(-tl.CountdownSpan())))
			Expect(d.Numeral()).To(Equal(10))

			clock.Set(target)
			d.Update(clock.Now())
			Expect(d.Phase()).To(Equal(director.Celebration))
			Expect(d.EnteredAt()).To(Equal(target))
		})
	})

	It("catches up when started after the target", func() {
		clock.Set(target.Add(time.Minute))
		d.RequestStart()
		d.ConfirmStart(clock.Now())
		d.Update(clock.Now())
		Expect(d.Phase()).To(Equal(director.Celebration))

		var path []director.Phase
		for _, tr := range d.Transitions() {
			path = append(path, tr.To)
		}
		Expect(path).To(Equal([]director.Phase{
			director.Poem, director.PreCelebration, director.Countdown, director.Celebration,
		}))
	})
})

var _ = DescribeTable("FormatRemaining",
	func(d time.Duration, want string) {
		Expect(director.FormatRemaining(d)).To(Equal(want))
	},
	Entry("zero", time.Duration(0), "00:00:00"),
	Entry("negative", -time.Second, "00:00:00"),
	Entry("minutes", 90*time.Second+500*time.Millisecond, "00:01:30"),
	Entry("days", 50*time.Hour+3*time.Minute+4*time.Second, "2d 02:03:04"),
)
