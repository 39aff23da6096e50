package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/show"
)

const historyCapacity = 600

// Reserved rows under the canvas for the status bar.
const statusRows = 6

type TickMsg time.Time

// Model runs a show inside the terminal, one frame per tick.
type Model struct {
	show     *show.Show
	surf     *Surface
	fps      int
	theme    Theme
	start    time.Time
	spread   []float64
	err      error
	showHelp bool

	recording bool
	frames    []*image.Paletted
	GIFPath   string
}

// NewModel drives s, which should have been built for surf.Size().
func NewModel(s *show.Show, surf *Surface, fps int, theme Theme) Model {
	return Model{
		show:    s,
		surf:    surf,
		fps:     fps,
		theme:   theme,
		start:   time.Now(),
		spread:  make([]float64, 0, historyCapacity),
		GIFPath: "countdown.gif",
	}
}

func (m Model) Show() *show.Show { return m.show }
func (m Model) Err() error       { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case "enter", " ":
			m.show.Activate()
		case "d":
			m.show.DragAllWishes()
		case "t":
			m.theme = NextTheme(m.theme)
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording, m.frames = false, nil
			} else {
				m.recording, m.frames = true, make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		p := m.surf.ToPixel(msg.X-padLeft, msg.Y-padTop)
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button == tea.MouseButtonLeft {
				m.show.PointerDown(p)
			}
		case tea.MouseActionMotion:
			m.show.PointerMove(p)
		case tea.MouseActionRelease:
			m.show.PointerUp(p)
		}
	case tea.WindowSizeMsg:
		m.surf.Resize(msg.Width-2*padLeft, msg.Height-2*padTop-statusRows)
		m.show.Resize(m.surf.Size())
	case TickMsg:
		if err := m.show.Frame(); err != nil {
			m.err = err
			log.Printf("[Live] %v", err)
			return m, tea.Quit
		}
		m.record()
		m.show.Draw(m.surf)
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) record() {
	mean, _ := m.show.Field().Spread()
	m.spread = append(m.spread, mean)
	if len(m.spread) > historyCapacity {
		m.spread = m.spread[1:]
	}
}

func (m Model) View() string {
	t := m.theme
	d := m.show.Director()
	width := m.surf.Canvas.Width

	var s strings.Builder
	title := GradientText("countdown", t.Primary, t.Secondary)
	phase := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(d.Phase().String())
	s.WriteString(title + "  " + phase)
	if m.recording {
		s.WriteString("  " + lipgloss.NewStyle().Foreground(t.Warning).Blink(true).Render("● REC"))
	}
	s.WriteString("\n")

	label := labelStyle.Foreground(t.Muted)
	value := lipgloss.NewStyle().Foreground(t.Text)
	remaining := d.Remaining()
	s.WriteString(label.Render("Remaining") + value.Render(director.FormatRemaining(remaining)) + "  ")
	if total := d.Target().Sub(m.start); total > 0 {
		s.WriteString(ProgressBar(1-remaining.Seconds()/total.Seconds(), 20, t))
	}
	s.WriteString("\n")
	s.WriteString(label.Render("Particles") + value.Render(fmt.Sprintf("%-6d", m.show.Field().Len())) + " " +
		SparklineChart(m.spread, min(40, width), t) + "\n")
	if e := m.show.Wishes(); e != nil {
		s.WriteString(label.Render("Wishes") + value.Render(fmt.Sprintf("%d gathered", e.Absorbed())) + "\n")
	}
	s.WriteString(helpStyle.Foreground(t.Muted).Render("enter:start  d:gather  t:theme  g:gif  ?:help  q:quit"))

	view := lipgloss.JoinVertical(lipgloss.Left,
		canvasStyle.Render(m.surf.Canvas.Render()),
		statusStyle.BorderForeground(t.Muted).Render(s.String()))
	if m.showHelp {
		help := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Primary).Padding(0, 2).Render(
			"enter / space  start, then confirm\n" +
				"mouse          drag wishes, hover and click banners\n" +
				"d              drag every wish into the sphere\n" +
				"t              cycle themes\n" +
				"g              toggle GIF recording\n" +
				"q              quit")
		return help + "\n" + Separator(width, t) + "\n" + view
	}
	return view
}

// captureFrame paints lit dots into a two-colour frame, 4x4 pixels each.
func (m *Model) captureFrame() {
	const dot = 4
	cv := m.surf.Canvas
	w, h := cv.Dots()
	img := image.NewPaletted(image.Rect(0, 0, w*dot, h*dot), color.Palette{color.Black, color.White})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !cv.Lit(x, y) {
				continue
			}
			for py := 0; py < dot; py++ {
				for px := 0; px < dot; px++ {
					img.SetColorIndex(x*dot+px, y*dot+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	delay := 100 / m.fps
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(m.GIFPath)
	if err != nil {
		log.Printf("[Live] gif: %v", err)
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		log.Printf("[Live] gif: %v", err)
	}
}

// Run starts the terminal program and blocks until it exits.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
