package sim

import (
	"time"

	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/show"
)

// Frame is what observers and metrics see after each simulated refresh.
type Frame struct {
	Index   int
	Time    time.Time
	Elapsed time.Duration
	Show    *show.Show
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Observer is called before each frame is simulated, so input it injects
// takes effect in that frame.
type Observer interface {
	OnFrame(f Frame)
}

type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Config struct {
	FPS      int
	Duration time.Duration
	// Autostart presses the start control twice on the first frame.
	Autostart bool
}

func (c Config) Step() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

type Result struct {
	Frames  int
	Times   []float64 // seconds since the run started
	Series  map[string][]float64
	Metrics map[string]float64
	Phases  []director.Transition
	Final   director.Phase
	Errors  []error
}
