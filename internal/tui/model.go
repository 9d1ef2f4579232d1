package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sumbench/internal/bench"
	"github.com/agbru/sumbench/internal/format"
	"github.com/agbru/sumbench/internal/ui"
)

const (
	defaultWidth = 80
	nameWidth    = 18
	// Columns taken by everything on a row except the sparkline.
	rowFixedWidth = nameWidth + 42
	minSparkline  = 10
)

// TrialMsg reports one completed trial.
type TrialMsg struct {
	StrategyIndex int
	bench.Progress
}

// DoneMsg tells the dashboard that no more trials will arrive.
type DoneMsg struct{}

type strategyRow struct {
	name       string
	trials     int
	iterations int
	times      []float64
	total      float64
}

func (r strategyRow) mean() float64 {
	if len(r.times) == 0 {
		return 0
	}
	return r.total / float64(len(r.times))
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	rows     []strategyRow
	active   int
	keymap   KeyMap
	help     help.Model
	width    int
	stop     func()
	done     bool
	stopping bool
}

// NewModel returns a dashboard for the given strategies, in run order. stop
// is called when the user asks to quit; it may be nil.
func NewModel(strategies []string, stop func()) Model {
	rows := make([]strategyRow, len(strategies))
	for i, name := range strategies {
		rows[i] = strategyRow{name: name}
	}
	return Model{
		rows:   rows,
		active: -1,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		width:  defaultWidth,
		stop:   stop,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			if !m.stopping && m.stop != nil {
				m.stop()
			}
			m.stopping = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case TrialMsg:
		if msg.StrategyIndex < 0 || msg.StrategyIndex >= len(m.rows) {
			return m, nil
		}
		row := &m.rows[msg.StrategyIndex]
		ms := format.Millis(msg.Elapsed)
		row.trials = msg.Trial + 1
		row.iterations = msg.Iterations
		row.times = append(row.times, ms)
		row.total += ms
		m.active = msg.StrategyIndex
		return m, nil

	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	styles := ui.CurrentTableStyles()

	status := "running"
	switch {
	case m.stopping:
		status = "stopping"
	case m.done:
		status = "done"
	}

	lines := []string{styles.Title.Render("sumbench") + "  " + styles.Dim.Render(status)}
	lines = append(lines, styles.Header.Render(fmt.Sprintf("%-*s %9s %10s %10s  %s", nameWidth, "Strategy", "Trials", "Last ms", "Mean ms", "Trend")))

	spark := max(m.width-rowFixedWidth, minSparkline)
	for i, r := range m.rows {
		last := "-"
		mean := "-"
		if n := len(r.times); n > 0 {
			last = format.FormatMillis(r.times[n-1])
			mean = format.FormatMillis(r.mean())
		}
		trials := "-"
		if r.iterations > 0 {
			trials = fmt.Sprintf("%d/%d", r.trials, r.iterations)
		}
		line := fmt.Sprintf("%-*s %9s %10s %10s  %s", nameWidth, r.name, trials, last, mean, format.Sparkline(r.times, spark))
		style := styles.Cell
		if i == m.active && !m.done {
			style = styles.Best
		}
		lines = append(lines, style.Render(line))
	}

	lines = append(lines, "", m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
