// Package automation drives a show from a YAML scenario of timed input
// steps, so headless runs can exercise the interactive phases.
package automation

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/show"
	"github.com/san-kum/countdown/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	ActionStart   = "start"
	ActionConfirm = "confirm"
	ActionDragAll = "drag_all"
	ActionDrag    = "drag"
	ActionMove    = "move"
	ActionClick   = "click"
	ActionResize  = "resize"
)

// Scenario is a list of input steps, each fired once the run has been
// going for At.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) Vec() dynamo.Vec2 { return dynamo.V(p.X, p.Y) }

type Step struct {
	At     time.Duration `yaml:"at"`
	Action string        `yaml:"action"`
	From   *Point        `yaml:"from,omitempty"`
	To     *Point        `yaml:"to,omitempty"`
	Width  int           `yaml:"width,omitempty"`
	Height int           `yaml:"height,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(scenario.Steps, func(i, j int) bool {
		return scenario.Steps[i].At < scenario.Steps[j].At
	})
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("%w: step %d (%s): %v", dynamo.ErrScenario, i+1, st.Action, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	if st.At < 0 {
		return fmt.Errorf("negative offset %s", st.At)
	}
	switch st.Action {
	case ActionStart, ActionConfirm, ActionDragAll:
	case ActionDrag:
		if st.From == nil || st.To == nil {
			return fmt.Errorf("drag needs from and to")
		}
	case ActionMove, ActionClick:
		if st.To == nil {
			return fmt.Errorf("%s needs to", st.Action)
		}
	case ActionResize:
		if st.Width <= 0 || st.Height <= 0 {
			return fmt.Errorf("resize needs a positive width and height")
		}
	case "":
		return fmt.Errorf("missing action")
	default:
		return fmt.Errorf("unknown action")
	}
	return nil
}

// Apply performs one step against s.
func Apply(s *show.Show, st Step) {
	switch st.Action {
	case ActionStart, ActionConfirm:
		s.Activate()
	case ActionDragAll:
		s.DragAllWishes()
	case ActionDrag:
		s.PointerDown(st.From.Vec())
		s.PointerMove(st.To.Vec())
		s.PointerUp(st.To.Vec())
	case ActionMove:
		s.PointerMove(st.To.Vec())
	case ActionClick:
		s.PointerDown(st.To.Vec())
		s.PointerUp(st.To.Vec())
	case ActionResize:
		s.Resize(st.Width, st.Height)
	}
}

// Player feeds a scenario into a runner as an observer.
type Player struct {
	scenario *Scenario
	next     int
	Fired    []Step
}

func NewPlayer(s *Scenario) *Player {
	return &Player{scenario: s}
}

func (p *Player) OnFrame(f sim.Frame) {
	for p.next < len(p.scenario.Steps) && p.scenario.Steps[p.next].At <= f.Elapsed {
		st := p.scenario.Steps[p.next]
		Apply(f.Show, st)
		p.Fired = append(p.Fired, st)
		p.next++
	}
}

// Done reports whether every step has fired.
func (p *Player) Done() bool { return p.next >= len(p.scenario.Steps) }

// Walkthrough is the built-in scenario: start, confirm, then drag every
// wish into the sphere once they have all spawned.
func Walkthrough(cfg *config.Config) *Scenario {
	tl := cfg.Timeline
	wishesAt := tl.PoemHold + time.Duration(len(cfg.Content.Wishes))*tl.SpawnEvery + time.Second
	return &Scenario{
		Name:        "walkthrough",
		Description: "start the show and gather every wish",
		Steps: []Step{
			{At: 0, Action: ActionStart},
			{At: 500 * time.Millisecond, Action: ActionConfirm},
			{At: 500*time.Millisecond + wishesAt, Action: ActionDragAll},
		},
	}
}
