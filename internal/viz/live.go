package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/arduck/internal/input"
	"github.com/san-kum/arduck/internal/metrics"
	"github.com/san-kum/arduck/internal/scene"
	"github.com/san-kum/arduck/internal/sim"
)

const historyCapacity = 300

// Terminal is the Surface of the live view. Its size is in braille dots;
// frames are presented by Bubble Tea redrawing the view.
type Terminal struct {
	cols, rows int
}

func NewTerminal(cols, rows int) *Terminal { return &Terminal{cols: cols, rows: rows} }

func (t *Terminal) Width() int      { return t.cols * 2 }
func (t *Terminal) Height() int     { return t.rows * 4 }
func (t *Terminal) EndFrame() error { return nil }

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a bootstrapped loop from Bubble Tea ticks and feeds mouse
// and keyboard events to the touch tracker.
type Model struct {
	ctx      context.Context
	title    string
	loop     *sim.Loop
	renderer *Renderer
	tracker  *input.Tracker

	height  *metrics.MeanHeight
	settled *metrics.Settled

	heightHistory []float64
	energyHistory []float64
	lastTick      time.Time
	fps           float64
	showHelp      bool
	err           error
}

func NewModel(ctx context.Context, title string, loop *sim.Loop, renderer *Renderer, tracker *input.Tracker) Model {
	height := metrics.NewMeanHeight()
	settled := metrics.NewSettled(0.05, loop.Ground().Position.Y()+2*loop.Config().Balls.Radius)
	loop.AddMetric(height)
	loop.AddMetric(settled)

	return Model{
		ctx:           ctx,
		title:         title,
		loop:          loop,
		renderer:      renderer,
		tracker:       tracker,
		height:        height,
		settled:       settled,
		heightHistory: make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

// Err is the error that ended the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.tracker.Toggle()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button == tea.MouseButtonLeft && m.tracker.OnStartShouldSet() {
				m.tracker.OnGrant()
			}
		case tea.MouseActionRelease:
			m.tracker.OnRelease()
		}
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
				m.fps = 0.9*m.fps + 0.1/dt
			}
		}
		m.lastTick = now

		if err := m.loop.Tick(m.ctx); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.heightHistory = appendCapped(m.heightHistory, m.height.Value())
		m.energyHistory = appendCapped(m.energyHistory, metrics.TotalKineticEnergy(m.loop.Registry().Pairs()))
		return m, tick()
	}
	return m, nil
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(renderCanvas(m.renderer.Canvas()))

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render("STOPPED") + "\n\n")
	case m.tracker.Touching():
		s.WriteString(StatusTouching.Render("TOUCHING") + "\n\n")
	default:
		s.WriteString(StatusIdle.Render("IDLE") + "\n\n")
	}

	if len(m.heightHistory) > 1 {
		chart := asciigraph.Plot(m.heightHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("mean height"))
		s.WriteString(chart + "\n\n")
	}

	stats := m.renderer.Stats()
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.loop.World().Time()))
	row("Frame", fmt.Sprintf("%d", m.loop.Frames()))
	row("FPS", fmt.Sprintf("%.0f", m.fps))
	row("Ducks", fmt.Sprintf("%d", m.loop.Registry().Len()))
	row("Settled", fmt.Sprintf("%.0f%%", 100*m.settled.Value()))
	row("Edges", fmt.Sprintf("%d", stats.Edges))
	row("Light", fmt.Sprintf("%.2f", stats.Light))
	s.WriteString(MetricLabel.Render("Energy") + SparklineChart(m.energyHistory, 24) + "\n")

	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(KeyHint.Render("mouse:Pull SP:Latch T:Theme\n?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Mouse    - Hold to pull the ducks   ║
║  Space    - Latch touch on or off    ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// renderCanvas colours dots by their tint and the background by the
// theme, merging runs of equal colour.
func renderCanvas(c *Canvas) string {
	if c == nil {
		return ""
	}
	feed := lipgloss.NewStyle().Foreground(CurrentTheme.Feed)

	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		var run strings.Builder
		var runStyle lipgloss.Style
		var runKey string
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(runStyle.Render(run.String()))
				run.Reset()
			}
		}
		for col := 0; col < c.Width; col++ {
			r, dots := c.Cell(col, row)
			key, style := "feed", feed
			if dots {
				tint := c.Tint[row][col]
				if tint == (scene.Color{}) {
					tint = scene.Color{R: 1, G: 1, B: 1}
				}
				fg := colorOf(tint)
				key, style = string(fg), lipgloss.NewStyle().Foreground(fg)
			}
			if key != runKey {
				flush()
				runKey, runStyle = key, style
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

// RunLive runs the live view until the user quits, ctx ends, or the loop
// gives up.
func RunLive(ctx context.Context, m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if e, ok := final.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}
