package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var presetInfo = map[string]string{
	"duck":    "twenty rubber ducks",
	"rain":    "a hundred from higher up",
	"moon":    "lunar gravity",
	"bouncy":  "springy floor",
	"offline": "built-in model, no network",
}

// Starter bootstraps a scene for a preset and returns its live view.
type Starter func(preset string) (Model, error)

// Picker lists presets and hands over to the live view of the chosen one.
type Picker struct {
	presets []string
	cursor  int
	start   Starter
	live    *Model
	err     error
}

func NewPicker(presets []string, start Starter) Picker {
	return Picker{presets: presets, start: start}
}

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.presets) == 0 {
			return m, nil
		}
		live, err := m.start(m.presets[m.cursor])
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.live = &live
		return m, live.Init()
	}
	return m, nil
}

// Err is the error that ended the program, if any.
func (m Picker) Err() error {
	if m.live != nil {
		return m.live.Err()
	}
	return m.err
}

func (m Picker) View() string {
	if m.live != nil {
		return m.live.View()
	}

	var b strings.Builder
	sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	b.WriteString("\n\n    " + GradientText("ARDUCK", CurrentTheme.Primary, CurrentTheme.Accent) + "\n    " + sub.Render("drop ducks into the room") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Render("▸"),
				lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true).Render(fmt.Sprintf("%-10s", name)),
				lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n",
				lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render(fmt.Sprintf("  %-10s", name)),
				lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + KeyHint.Render("j/k navigate  enter start  q quit") + "\n")
	return b.String()
}
