package interp

import "tableflip.dev/vical/pkg/calendar"

// Snapshot is a value copy of everything the view needs to render one
// frame. The projector never reaches back into the model.
type Snapshot struct {
	State   calendar.State
	Mode    Mode
	Pending string
	Input   string
	Status  string

	Subcalendars []calendar.Subcalendar // visible, in creation order
	Active       calendar.Subcalendar
	HasActive    bool

	MonthTasks []calendar.Task // visible tasks in the displayed month
	DayTasks   []calendar.Task // visible tasks under the cursor
	TaskIndex  int             // selected position within DayTasks
}

// Snapshot captures the current interpreter and model state.
func (it *Interpreter) Snapshot() Snapshot {
	it.clampSelection()

	var visible []calendar.Subcalendar
	for _, sc := range it.model.Subcalendars() {
		if sc.Visible {
			visible = append(visible, sc)
		}
	}

	active, hasActive := it.activeSubcal()

	return Snapshot{
		State:        it.state,
		Mode:         it.mode,
		Pending:      it.pending,
		Input:        string(it.input),
		Status:       it.status,
		Subcalendars: visible,
		Active:       active,
		HasActive:    hasActive,
		MonthTasks:   it.model.TasksInMonth(it.state.DisplayedYear, it.state.DisplayedMonth),
		DayTasks:     it.model.TasksOn(it.state.Cursor),
		TaskIndex:    it.taskIdx,
	}
}

// Model exposes the live model for read-only CLI surfaces.
func (it *Interpreter) Model() *calendar.Model { return it.model }
