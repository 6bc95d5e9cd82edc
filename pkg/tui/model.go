package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/vical/pkg/calendar"
	"tableflip.dev/vical/pkg/interp"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	modeStyle   = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Bold(true)
)

// Model is the bubbletea shell around the interpreter.
type Model struct {
	it       *interp.Interpreter
	grid     GridOptions
	width    int
	quitting bool
}

// NewModel wraps an interpreter for interactive use.
func NewModel(it *interp.Interpreter) Model {
	return Model{it: it, grid: DefaultGridOptions()}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if eff := m.it.Feed(msg.String()); eff.Quit {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.it.Snapshot()

	var b strings.Builder
	b.WriteString(m.viewTitle(snap))
	b.WriteString("\n\n")
	b.WriteString(m.viewGrid(snap))
	b.WriteString("\n\n")
	b.WriteString(m.viewDay(snap))
	b.WriteString("\n")
	b.WriteString(m.viewLegend(snap))
	b.WriteString("\n")
	b.WriteString(m.viewStatus(snap))
	return b.String()
}

func (m Model) viewTitle(snap interp.Snapshot) string {
	title := fmt.Sprintf("%s %d", snap.State.DisplayedMonth, snap.State.DisplayedYear)
	return titleStyle.Render(title)
}

func (m Model) viewGrid(snap interp.Snapshot) string {
	busy := make(map[int]bool)
	for _, t := range snap.MonthTasks {
		busy[t.Date.Day] = true
	}

	today := calendar.Today()
	days := make([]Day, 0, 31)
	first := calendar.Date{Year: snap.State.DisplayedYear, Month: snap.State.DisplayedMonth, Day: 1}
	for d := 1; d <= first.DaysInMonth(); d++ {
		on := calendar.Date{Year: first.Year, Month: first.Month, Day: d}
		days = append(days, Day{
			Day:      d,
			HasTasks: busy[d],
			IsToday:  on == today,
			IsCursor: on == snap.State.Cursor,
		})
	}
	return RenderMonth(first.Year, first.Month, days, m.grid)
}

func (m Model) viewDay(snap interp.Snapshot) string {
	var b strings.Builder
	b.WriteString(faintStyle.Render(snap.State.Cursor.String()))
	b.WriteString("\n")
	if len(snap.DayTasks) == 0 {
		b.WriteString(faintStyle.Render("  no tasks"))
		b.WriteString("\n")
		return b.String()
	}
	for i, t := range snap.DayTasks {
		marker := "  "
		if i == snap.TaskIndex {
			marker = "> "
		}
		line := fmt.Sprintf("• %s", t.Title)
		style := subcalStyle(snap, t.SubcalendarID)
		if t.Completed {
			line = fmt.Sprintf("✘ %s", t.Title)
			style = doneStyle
		}
		b.WriteString(marker + style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewLegend(snap interp.Snapshot) string {
	if len(snap.Subcalendars) == 0 {
		return faintStyle.Render("no subcalendars")
	}
	parts := make([]string, 0, len(snap.Subcalendars))
	for _, sc := range snap.Subcalendars {
		s := lipgloss.NewStyle().Foreground(ansiOf(sc.Color))
		name := sc.Name
		if snap.HasActive && sc.ID == snap.Active.ID {
			name = "[" + name + "]"
			s = s.Inherit(activeStyle)
		}
		parts = append(parts, s.Render(name))
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewStatus(snap interp.Snapshot) string {
	mode := modeStyle.Render(snap.Mode.String())
	switch snap.Mode {
	case interp.Insert:
		return mode + " " + snap.Input + "█"
	case interp.CommandLine:
		return mode + " :" + snap.Input + "█"
	}
	line := mode + " " + statusStyle.Render(snap.Status)
	if snap.Pending != "" {
		line += "  " + faintStyle.Render(snap.Pending)
	}
	return line
}

// subcalStyle colors a task line by its owning subcalendar, falling
// back to the terminal default when the owner is not in the snapshot.
func subcalStyle(snap interp.Snapshot, subcalID int64) lipgloss.Style {
	for _, sc := range snap.Subcalendars {
		if sc.ID == subcalID {
			return lipgloss.NewStyle().Foreground(ansiOf(sc.Color))
		}
	}
	return lipgloss.NewStyle()
}

func ansiOf(c calendar.Color) lipgloss.Color {
	switch c {
	case calendar.Red:
		return lipgloss.Color("1")
	case calendar.Green:
		return lipgloss.Color("2")
	case calendar.Yellow:
		return lipgloss.Color("3")
	case calendar.Magenta:
		return lipgloss.Color("5")
	case calendar.Cyan:
		return lipgloss.Color("6")
	default:
		return lipgloss.Color("4")
	}
}

// Run starts the interactive program and blocks until quit.
func Run(it *interp.Interpreter) error {
	p := tea.NewProgram(NewModel(it), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
