// Package director sequences the show's phases against the wall clock.
//
// State is a (phase, enteredAt) pair. Update checks elapsed time against
// the per-phase durations in [config.TimelineConfig]; intra-phase events
// (poem lines, wish spawns, the burst, the gather, the greeting) run
// through a generation-guarded [Scheduler]. The watch, run every
// WatchEvery, refreshes the countdown display and applies the force-jump:
// once the target is closer than the pre-celebration hold plus the full
// numeral countdown, any interactive phase is abandoned for PreCelebration,
// which hands over to Countdown exactly Ticks*Tick before the target.
package director

import (
	"fmt"
	"log"
	"time"

	"github.com/san-kum/countdown/internal/config"
)

// Hooks receive the director's events. Nil hooks are skipped.
type Hooks struct {
	OnEnter    func(from, to Phase, at time.Time)
	OnStart    func()
	OnPoemLine func(i int)
	OnSpawn    func(i int)
	OnExplode  func()
	OnGather   func()
	OnTick     func(n int)
	OnGreeting func()
}

// Script sizes the content-driven parts of the timeline.
type Script struct {
	PoemLines int
	Wishes    int
}

type Transition struct {
	From, To Phase
	At       time.Time
	Forced   bool
}

func (t Transition) String() string {
	s := fmt.Sprintf("%s -> %s at %s", t.From, t.To, t.At.Format("15:04:05.000"))
	if t.Forced {
		s += " (forced)"
	}
	return s
}

type Director struct {
	Hooks   Hooks
	Verbose bool

	tl         config.TimelineConfig
	target     time.Time
	watchEvery time.Duration
	script     Script
	sched      Scheduler

	phase     Phase
	enteredAt time.Time
	history   []Transition

	startPending   bool
	wishesDoneAt   time.Time
	countdownStart time.Time
	numeral        int

	lastWatch time.Time
	remaining time.Duration
}

func New(tl config.TimelineConfig, target time.Time, watchEvery time.Duration, script Script) *Director {
	return &Director{
		tl:         tl,
		target:     target,
		watchEvery: watchEvery,
		script:     script,
	}
}

func (d *Director) Phase() Phase                { return d.phase }
func (d *Director) EnteredAt() time.Time        { return d.enteredAt }
func (d *Director) Target() time.Time           { return d.target }
func (d *Director) Scheduler() *Scheduler       { return &d.sched }
func (d *Director) Transitions() []Transition   { return d.history }
func (d *Director) StartPending() bool          { return d.startPending }
func (d *Director) Remaining() time.Duration    { return d.remaining }
func (d *Director) Numeral() int                { return d.numeral }
func (d *Director) WishesDone() bool            { return !d.wishesDoneAt.IsZero() }
func (d *Director) ForceJumpAt() time.Time      { return d.target.Add(-d.tl.ForceJumpLead()) }
func (d *Director) CountdownStartAt() time.Time { return d.target.Add(-d.tl.CountdownSpan()) }

// RequestStart asks for confirmation before leaving Idle.
func (d *Director) RequestStart() {
	if d.phase == Idle {
		d.startPending = true
	}
}

func (d *Director) CancelStart() { d.startPending = false }

// ConfirmStart enters Poem if a start was requested.
func (d *Director) ConfirmStart(now time.Time) bool {
	if d.phase != Idle || !d.startPending {
		return false
	}
	d.startPending = false
	if d.Hooks.OnStart != nil {
		d.Hooks.OnStart()
	}
	return d.enter(Poem, now, false)
}

// WishesComplete starts the hold before the wish sphere bursts.
func (d *Director) WishesComplete(now time.Time) {
	if d.phase != WishList || d.WishesDone() {
		return
	}
	d.wishesDoneAt = now
	d.sched.After(now, d.tl.WishHold, func() {
		if d.Hooks.OnExplode != nil {
			d.Hooks.OnExplode()
		}
	})
}

// Update runs the watch when due, then advances phases and fires due
// callbacks until nothing changes.
func (d *Director) Update(now time.Time) {
	if d.lastWatch.IsZero() || now.Sub(d.lastWatch) >= d.watchEvery {
		// Checks stay on a fixed grid unless a whole interval was missed.
		if d.lastWatch.IsZero() || now.Sub(d.lastWatch) >= 2*d.watchEvery {
			d.lastWatch = now
		} else {
			d.lastWatch = d.lastWatch.Add(d.watchEvery)
		}
		d.Watch(now)
	}
	for i := 0; i < 2*len(phaseNames); i++ {
		changed := d.advance(now)
		d.sched.Run(now)
		if !changed {
			break
		}
	}
	if d.phase == Countdown {
		d.tick(now)
	}
}

// Watch refreshes the remaining time and applies the force-jump.
func (d *Director) Watch(now time.Time) {
	d.remaining = d.target.Sub(now)
	if d.remaining < 0 {
		d.remaining = 0
	}
	if d.phase.Interactive() && !now.Before(d.ForceJumpAt()) {
		d.enter(PreCelebration, now, true)
	}
}

// advance applies at most one timed transition.
func (d *Director) advance(now time.Time) bool {
	elapsed := now.Sub(d.enteredAt)
	switch d.phase {
	case Poem:
		if elapsed >= d.tl.PoemHold {
			return d.enter(WishList, d.enteredAt.Add(d.tl.PoemHold), false)
		}
	case WishList:
		if d.WishesDone() {
			at := d.wishesDoneAt.Add(d.tl.WishHold + d.tl.ExplodeFor)
			if !now.Before(at) {
				return d.enter(Question, at, false)
			}
		}
	case Question:
		if hold := d.tl.QuestionHold + d.tl.GatherFor; elapsed >= hold {
			return d.enter(Countdown, d.enteredAt.Add(hold), false)
		}
	case PreCelebration:
		if at := d.CountdownStartAt(); !now.Before(at) {
			return d.enter(Countdown, at, false)
		}
	case Countdown:
		if now.Sub(d.countdownStart) >= d.tl.CountdownSpan() {
			return d.enter(Celebration, d.countdownStart.Add(d.tl.CountdownSpan()), false)
		}
	}
	return false
}

// tick reports each new numeral once.
func (d *Director) tick(now time.Time) {
	n := d.tl.Ticks - int(now.Sub(d.countdownStart)/d.tl.Tick)
	if n < 1 || n == d.numeral {
		return
	}
	d.numeral = n
	if d.Hooks.OnTick != nil {
		d.Hooks.OnTick(n)
	}
}

// enter switches phase if the edge is legal, invalidating every pending
// callback of the old phase.
func (d *Director) enter(to Phase, at time.Time, forced bool) bool {
	from := d.phase
	if !CanTransition(from, to) {
		return false
	}
	d.sched.Invalidate()
	d.phase, d.enteredAt = to, at
	d.history = append(d.history, Transition{From: from, To: to, At: at, Forced: forced})
	if d.Verbose {
		log.Printf("[Director] %s", d.history[len(d.history)-1])
	}
	if d.Hooks.OnEnter != nil {
		d.Hooks.OnEnter(from, to, at)
	}
	d.schedule(to, at)
	return true
}

func (d *Director) schedule(p Phase, at time.Time) {
	switch p {
	case Poem:
		for i := 0; i < d.script.PoemLines; i++ {
			i := i
			d.sched.After(at, time.Duration(i)*d.tl.LineStagger, func() {
				if d.Hooks.OnPoemLine != nil {
					d.Hooks.OnPoemLine(i)
				}
			})
		}
	case WishList:
		for i := 0; i < d.script.Wishes; i++ {
			i := i
			d.sched.After(at, time.Duration(i)*d.tl.SpawnEvery, func() {
				if d.Hooks.OnSpawn != nil {
					d.Hooks.OnSpawn(i)
				}
			})
		}
	case Question:
		d.sched.After(at, d.tl.QuestionHold, func() {
			if d.Hooks.OnGather != nil {
				d.Hooks.OnGather()
			}
		})
	case Countdown:
		d.countdownStart = at
		d.numeral = 0
	case Celebration:
		d.numeral = 0
		d.sched.After(at, d.tl.SphereHold, func() {
			if d.Hooks.OnGreeting != nil {
				d.Hooks.OnGreeting()
			}
		})
	}
}

// FormatRemaining renders a countdown as "Dd HH:MM:SS", dropping the day
// part under 24 hours.
func FormatRemaining(r time.Duration) string {
	if r < 0 {
		r = 0
	}
	secs := int64(r / time.Second)
	days := secs / 86400
	h, m, s := (secs/3600)%24, (secs/60)%60, secs%60
	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
