// Package tui is the interactive terminal frontend. It projects
// interpreter snapshots onto the screen and feeds keystrokes back; all
// command semantics live in the interpreter.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/vical/pkg/calendar"
)

// Day describes a single cell in the month grid.
type Day struct {
	Day      int
	HasTasks bool
	IsToday  bool
	IsCursor bool
}

// GridOptions controls month grid styling.
type GridOptions struct {
	HeaderStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
	BusyStyle   lipgloss.Style
	TodayStyle  lipgloss.Style
	CursorStyle lipgloss.Style
	ShowHeader  bool
}

// DefaultGridOptions returns the styling used for the month grid.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		HeaderStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		EmptyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		BusyStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		TodayStyle:  lipgloss.NewStyle().Underline(true),
		CursorStyle: lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")),
		ShowHeader:  true,
	}
}

// RenderMonth produces the multi-line grid for one month. Weeks start
// on Sunday; cells outside the month are blank.
func RenderMonth(year int, month time.Month, days []Day, opts GridOptions) string {
	first := calendar.Date{Year: year, Month: month, Day: 1}
	daysInMonth := first.DaysInMonth()

	byDay := make(map[int]Day, len(days))
	for _, d := range days {
		if d.Day >= 1 && d.Day <= daysInMonth {
			byDay[d.Day] = d
		}
	}

	var lines []string
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render("Su Mo Tu We Th Fr Sa"))
	}

	startOffset := int(first.Weekday())
	totalCells := startOffset + daysInMonth
	rows := (totalCells + 6) / 7

	for row := 0; row < rows; row++ {
		var cells []string
		for col := 0; col < 7; col++ {
			cellIdx := row*7 + col
			day := cellIdx - startOffset + 1
			if day < 1 || day > daysInMonth {
				cells = append(cells, opts.EmptyStyle.Render("  "))
				continue
			}
			cells = append(cells, renderDay(byDay[day], day, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	return strings.Join(lines, "\n")
}

func renderDay(info Day, day int, opts GridOptions) string {
	text := fmt.Sprintf("%2d", day)

	style := opts.EmptyStyle
	if info.HasTasks {
		style = opts.BusyStyle
	}
	if info.IsToday {
		style = style.Inherit(opts.TodayStyle)
	}
	if info.IsCursor {
		style = style.Inherit(opts.CursorStyle)
	}
	return style.Render(text)
}
