package director

import (
	"fmt"

	"github.com/san-kum/countdown/internal/dynamo"
)

type Phase int

const (
	Idle Phase = iota
	Poem
	WishList
	Question
	Countdown
	PreCelebration
	Celebration
)

var phaseNames = [...]string{
	Idle:           "idle",
	Poem:           "poem",
	WishList:       "wish_list",
	Question:       "question",
	Countdown:      "countdown",
	PreCelebration: "pre_celebration",
	Celebration:    "celebration",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return Idle, fmt.Errorf("%w: %q", dynamo.ErrUnknownPhase, s)
}

// Phases lists every phase in order.
func Phases() []Phase {
	out := make([]Phase, len(phaseNames))
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// Interactive phases are abandoned by the force-jump.
func (p Phase) Interactive() bool {
	return p == Poem || p == WishList || p == Question
}

// transitions lists the legal edges. Everything else is ignored, which
// makes every timed transition safe to race with the force-jump.
var transitions = map[Phase][]Phase{
	Idle:           {Poem},
	Poem:           {WishList, PreCelebration},
	WishList:       {Question, PreCelebration},
	Question:       {Countdown, PreCelebration},
	Countdown:      {Celebration},
	PreCelebration: {Countdown},
}

func CanTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}
