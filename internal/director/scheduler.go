package director

import (
	"sort"
	"time"
)

type task struct {
	due time.Time
	gen uint64
	seq int
	fn  func()
}

// Scheduler holds one-shot deferred callbacks. Every callback is tagged
// with the generation current when it was scheduled; Invalidate bumps the
// generation, so callbacks from a stale phase never run.
type Scheduler struct {
	tasks []task
	gen   uint64
	seq   int
}

func (s *Scheduler) Generation() uint64 { return s.gen }

// At schedules fn for the first Run at or after due.
func (s *Scheduler) At(due time.Time, fn func()) {
	s.tasks = append(s.tasks, task{due: due, gen: s.gen, seq: s.seq, fn: fn})
	s.seq++
}

// After schedules fn d after from.
func (s *Scheduler) After(from time.Time, d time.Duration, fn func()) {
	s.At(from.Add(d), fn)
}

// Invalidate turns every pending callback into a no-op.
func (s *Scheduler) Invalidate() {
	s.gen++
}

// Pending counts callbacks that would still run.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if t.gen == s.gen {
			n++
		}
	}
	return n
}

// Run fires due callbacks in due order, ties in scheduling order. A
// callback that invalidates the scheduler stops later ones in the batch.
func (s *Scheduler) Run(now time.Time) int {
	var due, rest []task
	for _, t := range s.tasks {
		switch {
		case t.gen != s.gen:
		case !t.due.After(now):
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	s.tasks = rest
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})

	fired := 0
	for _, t := range due {
		if t.gen != s.gen {
			continue
		}
		t.fn()
		fired++
	}
	return fired
}
