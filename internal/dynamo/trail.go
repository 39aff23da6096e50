package dynamo

// Trail is a bounded ring of recent positions. Pushing onto a full trail
// overwrites the oldest sample.
type Trail struct {
	pts  []Vec2
	head int
	n    int
}

func NewTrail(capacity int) Trail {
	if capacity < 1 {
		capacity = 1
	}
	return Trail{pts: make([]Vec2, capacity)}
}

func (t *Trail) Push(p Vec2) {
	if len(t.pts) == 0 {
		*t = NewTrail(1)
	}
	t.pts[t.head] = p
	t.head = (t.head + 1) % len(t.pts)
	if t.n < len(t.pts) {
		t.n++
	}
}

func (t *Trail) Len() int { return t.n }
func (t *Trail) Cap() int { return len(t.pts) }

// Points returns the samples oldest first.
func (t *Trail) Points() []Vec2 {
	out := make([]Vec2, 0, t.n)
	start := t.head - t.n
	if start < 0 {
		start += len(t.pts)
	}
	for i := 0; i < t.n; i++ {
		out = append(out, t.pts[(start+i)%len(t.pts)])
	}
	return out
}

func (t *Trail) Reset() {
	t.head, t.n = 0, 0
}
