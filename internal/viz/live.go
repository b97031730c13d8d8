package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/sominlee1211/simsopt/internal/tracing"
)

const (
	graphWidth  = 70
	graphHeight = 12
	historyLen  = 400
)

type TickMsg time.Time

// Model replays a finished trace sample by sample, plotting a chosen state
// component as it advances.
type Model struct {
	result    *tracing.Result
	mode      string
	component int

	cursor  int
	speed   int
	running bool
	history []float64
}

func NewModel(result *tracing.Result, mode string, component int) Model {
	return Model{
		result:    result,
		mode:      mode,
		component: component,
		speed:     1,
		running:   true,
		history:   make([]float64, 0, historyLen),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.cursor = 0
			m.history = m.history[:0]
			m.running = true
		case "+", "=":
			if m.speed < 64 {
				m.speed *= 2
			}
		case "-":
			if m.speed > 1 {
				m.speed /= 2
			}
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.speed && m.cursor < len(m.result.Samples)-1; i++ {
		m.cursor++
		s := m.result.Samples[m.cursor]
		if m.component < len(s.Y) {
			m.history = append(m.history, s.Y[m.component])
			if len(m.history) > historyLen {
				m.history = m.history[1:]
			}
		}
	}
	if m.cursor >= len(m.result.Samples)-1 {
		m.running = false
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("trace replay: %s", m.mode)))
	b.WriteRune('\n')

	if len(m.history) >= 2 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Width(graphWidth),
			asciigraph.Height(graphHeight),
			asciigraph.Caption(fmt.Sprintf("y%d", m.component)),
		)
		b.WriteString(frameStyle.Render(graph))
		b.WriteRune('\n')
	}

	cur := m.result.Samples[m.cursor]
	stats := []string{
		labelStyle.Render("t") + valueStyle.Render(fmt.Sprintf("%.6g", cur.T)),
		labelStyle.Render("sample") + valueStyle.Render(fmt.Sprintf("%d / %d", m.cursor+1, len(m.result.Samples))),
		labelStyle.Render("speed") + valueStyle.Render(fmt.Sprintf("%dx", m.speed)),
	}
	for i, v := range cur.Y {
		stats = append(stats, labelStyle.Render(fmt.Sprintf("y%d", i))+valueStyle.Render(fmt.Sprintf("%.6g", v)))
	}
	if n := countHitsBefore(m.result, cur.T); n > 0 {
		stats = append(stats, eventStyle.Render(fmt.Sprintf("events so far: %d", n)))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, stats...))

	b.WriteString(helpStyle.Render("space pause · r restart · +/- speed · q quit"))
	return b.String()
}

func countHitsBefore(res *tracing.Result, t float64) int {
	n := 0
	for _, hit := range res.Hits {
		if hit.T <= t {
			n++
		}
	}
	return n
}

// Live runs the replay UI until the user quits.
func Live(result *tracing.Result, mode string, component int) error {
	if len(result.Samples) == 0 {
		return fmt.Errorf("viz: trace has no samples to replay")
	}
	p := tea.NewProgram(NewModel(result, mode, component))
	_, err := p.Run()
	return err
}
