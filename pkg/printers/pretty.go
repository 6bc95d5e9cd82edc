// Package printers renders read-only calendar views for the CLI
// surfaces, outside the interactive TUI.
package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/vical/pkg/calendar"
)

// PrettyPrint writes colored terminal output. ShowID adds the numeric
// task ids in a faint column.
type PrettyPrint struct {
	ShowID bool
}

var spacing = strings.Repeat(" ", len("12345  "))

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" task")
	default:
		_, _ = c.Println(" tasks")
	}
}

// Tasks prints a task list, one per line, glyphed by completion and
// colored by owning subcalendar.
func (pp *PrettyPrint) Tasks(m *calendar.Model, tasks ...calendar.Task) {
	if len(tasks) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Print(spacing)
		}
		_, _ = f.Print(" none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	for _, t := range tasks {
		if pp.ShowID {
			id := fmt.Sprintf("%d", t.ID)
			_, _ = y.Print(id)
			_, _ = y.Print(strings.Repeat(" ", max(1, len(spacing)-len(id))))
		}
		glyph := "•"
		line := color.New(fgOf(m, t.SubcalendarID))
		if t.Completed {
			glyph = "✘"
			line = color.New(color.Faint, color.CrossedOut)
		}
		_, _ = line.Printf("%s %s  %s\n", glyph, t.Date, t.Title)
	}
	fmt.Println("")
}

// Subcalendars prints the subcalendar roster as a table.
func (pp *PrettyPrint) Subcalendars(m *calendar.Model) {
	table := uitable.New()
	table.AddRow("NAME", "COLOR", "VISIBLE", "TASKS")

	counts := make(map[int64]int)
	for _, t := range m.TaskRecords() {
		counts[t.SubcalendarID]++
	}

	for _, sc := range m.Subcalendars() {
		name := color.New(fgOfColor(sc.Color)).Sprint(sc.Name)
		visible := "yes"
		if !sc.Visible {
			visible = "no"
			name = color.New(color.Faint).Sprint(sc.Name)
		}
		table.AddRow(name, sc.Color.String(), visible, fmt.Sprintf("%d", counts[sc.ID]))
	}
	fmt.Println(table)
}

func fgOf(m *calendar.Model, subcalID int64) color.Attribute {
	if sc, ok := m.Subcalendar(subcalID); ok {
		return fgOfColor(sc.Color)
	}
	return color.FgWhite
}

func fgOfColor(c calendar.Color) color.Attribute {
	switch c {
	case calendar.Red:
		return color.FgRed
	case calendar.Green:
		return color.FgGreen
	case calendar.Yellow:
		return color.FgYellow
	case calendar.Magenta:
		return color.FgMagenta
	case calendar.Cyan:
		return color.FgCyan
	default:
		return color.FgBlue
	}
}
