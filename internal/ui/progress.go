package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mend/internal/catalog"
	"mend/internal/repair"
)

type progressModel struct {
	title   string
	events  <-chan repair.Event
	spinner spinner.Model
	prog    progress.Model
	items   []projectItem
	index   map[string]int
	applied int
	width   int
	done    bool
	stopped bool
}

type projectItem struct {
	name      string
	status    string
	iteration int
	max       int
	remaining int
	finished  bool
}

type eventMsg repair.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders repair progress,
// one line per project. The model quits when events is closed.
func NewProgressModel(title string, projects []string, events <-chan repair.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	items := make([]projectItem, 0, len(projects))
	index := make(map[string]int, len(projects))
	for i, name := range projects {
		items = append(items, projectItem{name: name, status: "queued"})
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(repair.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.stopped = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d fixes applied)", m.title, m.applied)
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	passWidth := 14
	nameWidth := m.width - statusWidth - passWidth - 6
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		name := truncate(item.name, nameWidth)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		pass := ""
		if item.iteration > 0 {
			pass = fmt.Sprintf("pass %d/%d", item.iteration, item.max)
		}
		line := fmt.Sprintf("  %s %-*s %s", statusStyled, passWidth, pass, name)
		if item.iteration > 0 && !item.finished {
			line += fmt.Sprintf(" (%d left)", item.remaining)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

// Interrupted reports whether the user quit the view before the sessions
// finished.
func Interrupted(model tea.Model) bool {
	m, ok := model.(*progressModel)
	return ok && m.stopped
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev repair.Event) tea.Cmd {
	idx, ok := m.index[ev.Project]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if ev.Iteration > 0 {
		item.iteration = ev.Iteration
	}
	if ev.Max > 0 {
		item.max = ev.Max
	}

	switch ev.Kind {
	case repair.EventStarted:
		item.status = "started"
	case repair.EventVerifying:
		item.status = "verifying"
	case repair.EventVerified:
		item.status = "fixing"
		item.remaining = ev.Remaining
	case repair.EventFixed:
		if ev.Fix != nil && ev.Fix.Outcome == catalog.OutcomeApplied {
			m.applied++
		}
	case repair.EventFinished:
		item.status = strings.ToLower(ev.Status.String())
		item.finished = true
	}

	// Calculate progress
	total := 0.0
	for _, it := range m.items {
		total += progressFromItem(it)
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromItem(it projectItem) float64 {
	if it.finished {
		return 1.0
	}
	if it.max <= 0 || it.iteration <= 0 {
		return 0.0
	}
	// estimate only, capped below done
	return min(0.9, float64(it.iteration)/float64(it.max)*3)
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "converged":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "aborted":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "stalled":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "started", "verifying", "fixing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
