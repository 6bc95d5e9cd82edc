package calendar

import "time"

// State tracks the cursor position on the date grid and the month being
// displayed. The displayed month always follows the cursor: paging a
// month moves the cursor with the grid, clamped to the last valid day
// of the target month, so the cursor is never off-grid.
type State struct {
	Cursor         Date
	DisplayedYear  int
	DisplayedMonth time.Month
}

// NewState returns a state with the cursor on the given date.
func NewState(on Date) State {
	s := State{Cursor: on}
	s.sync()
	return s
}

// MoveDays moves the cursor n days, paging the displayed month along
// with it when a month boundary is crossed.
func (s *State) MoveDays(n int) {
	s.Cursor = s.Cursor.AddDays(n)
	s.sync()
}

// MoveMonths pages the displayed month by n, carrying the cursor to the
// same day-of-month clamped to the target month's length.
func (s *State) MoveMonths(n int) {
	s.Cursor = s.Cursor.AddMonths(n)
	s.sync()
}

// GotoMonthStart jumps the cursor to the first day of the displayed month.
func (s *State) GotoMonthStart() {
	s.Cursor = s.Cursor.StartOfMonth()
	s.sync()
}

// GotoMonthEnd jumps the cursor to the last day of the displayed month.
func (s *State) GotoMonthEnd() {
	s.Cursor = s.Cursor.EndOfMonth()
	s.sync()
}

// Goto jumps the cursor to an arbitrary date.
func (s *State) Goto(d Date) {
	s.Cursor = d
	s.sync()
}

func (s *State) sync() {
	s.DisplayedYear = s.Cursor.Year
	s.DisplayedMonth = s.Cursor.Month
}
