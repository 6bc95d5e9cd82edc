// Package interp is the modal command interpreter: it owns the current
// mode, the pending keystroke buffer, and the cursor state, feeds
// keystrokes through the grammar, and applies resolved actions to the
// calendar model with write-through persistence.
package interp

import (
	"fmt"
	"strings"

	"tableflip.dev/vical/pkg/calendar"
	"tableflip.dev/vical/pkg/grammar"
	"tableflip.dev/vical/pkg/store"
)

// Mode is the interpreter's keystroke interpretation context.
type Mode int

const (
	Normal Mode = iota
	Insert
	CommandLine
)

func (m Mode) String() string {
	switch m {
	case Insert:
		return "INSERT"
	case CommandLine:
		return "COMMAND"
	default:
		return "NORMAL"
	}
}

const maxHistory = 50

// Effect reports what a keystroke did, for the host loop.
type Effect struct {
	Quit   bool
	Status string
	Err    error
}

// Interpreter is the stateful modal loop. One keystroke in, at most one
// committed mutation and one persistence write out.
type Interpreter struct {
	model   *calendar.Model
	persist store.Persistence
	state   calendar.State

	mode    Mode
	pending string // Normal-mode count/prefix buffer
	input   []rune // Insert and CommandLine text buffer
	editID  int64  // task being retitled in Insert; zero creates

	active  int // active subcalendar position, cycled with ]/[
	taskIdx int // selected task within the cursor day

	undo []*calendar.Model
	redo []*calendar.Model

	status string
}

// New returns an interpreter in Normal mode with the cursor on today.
func New(m *calendar.Model, p store.Persistence) *Interpreter {
	return NewAt(m, p, calendar.Today())
}

// NewAt starts the cursor on a specific date.
func NewAt(m *calendar.Model, p store.Persistence, on calendar.Date) *Interpreter {
	return &Interpreter{
		model:   m,
		persist: p,
		state:   calendar.NewState(on),
		status:  "vical - :help for help, :q to quit",
	}
}

// Mode returns the current mode.
func (it *Interpreter) Mode() Mode { return it.mode }

// Feed interprets a single keystroke and returns its effect. All
// recoverable errors surface as status text; Feed never panics the
// host loop.
func (it *Interpreter) Feed(key string) Effect {
	switch it.mode {
	case Insert:
		return it.feedInsert(key)
	case CommandLine:
		return it.feedCommandLine(key)
	default:
		return it.feedNormal(key)
	}
}

func (it *Interpreter) feedNormal(key string) Effect {
	res := grammar.Resolve(it.pending, key)
	switch res.Status {
	case grammar.Pending:
		it.pending = res.Buffer
		return Effect{}
	case grammar.Invalid:
		typed := it.pending + key
		it.pending = ""
		return it.info(fmt.Sprintf("Not a command: %s", typed))
	}
	it.pending = ""
	return it.apply(res.Action)
}

func (it *Interpreter) apply(a grammar.Action) Effect {
	switch a.Op {
	case grammar.OpNone:
		it.status = ""
		return Effect{}

	case grammar.OpMoveLeft:
		return it.move(-a.Count)
	case grammar.OpMoveRight:
		return it.move(a.Count)
	case grammar.OpMoveUp:
		return it.move(-7 * a.Count)
	case grammar.OpMoveDown:
		return it.move(7 * a.Count)
	case grammar.OpMonthStart:
		it.state.GotoMonthStart()
		it.taskIdx = 0
		return Effect{}
	case grammar.OpMonthEnd:
		it.state.GotoMonthEnd()
		it.taskIdx = 0
		return Effect{}
	case grammar.OpNextMonth:
		it.state.MoveMonths(a.Count)
		it.taskIdx = 0
		return Effect{}
	case grammar.OpPrevMonth:
		it.state.MoveMonths(-a.Count)
		it.taskIdx = 0
		return Effect{}
	case grammar.OpGotoToday:
		it.state.Goto(calendar.Today())
		it.taskIdx = 0
		return it.info("goto: today")

	case grammar.OpNextSubcal:
		return it.cycleSubcal(a.Count)
	case grammar.OpPrevSubcal:
		return it.cycleSubcal(-a.Count)

	case grammar.OpNextTask:
		return it.selectTask(a.Count)
	case grammar.OpPrevTask:
		return it.selectTask(-a.Count)

	case grammar.OpInsertTask:
		sc, ok := it.activeSubcal()
		if !ok {
			return it.info("No subcalendar - :newcal <name> first")
		}
		it.enterInsert(0, "")
		return it.info(fmt.Sprintf("New task on %s in '%s'", it.state.Cursor, sc.Name))
	case grammar.OpChangeTask:
		t, ok := it.selectedTask()
		if !ok {
			return it.info("No task under cursor")
		}
		it.enterInsert(t.ID, t.Title)
		return it.info("Change task title")

	case grammar.OpToggleDone:
		return it.toggleSelected()
	case grammar.OpDeleteTask:
		return it.deleteSelected()

	case grammar.OpToggleVisible:
		return it.toggleVisible("")
	case grammar.OpCycleColor:
		return it.cycleColor()

	case grammar.OpUndo:
		return it.doUndo()
	case grammar.OpRedo:
		return it.doRedo()

	case grammar.OpWriteQuit:
		return it.writeQuit()
	case grammar.OpQuitBang:
		return Effect{Quit: true}

	case grammar.OpEnterCommandLine:
		it.mode = CommandLine
		it.input = nil
		it.status = ""
		return Effect{}
	}
	return Effect{}
}

func (it *Interpreter) move(days int) Effect {
	it.state.MoveDays(days)
	it.taskIdx = 0
	return Effect{}
}

func (it *Interpreter) cycleSubcal(by int) Effect {
	n := it.model.NumSubcalendars()
	if n == 0 {
		return it.info("No subcalendars")
	}
	it.active = ((it.active+by)%n + n) % n
	sc, _ := it.model.SubcalendarAt(it.active)
	return it.info(fmt.Sprintf("Subcalendar: %s", sc.Name))
}

func (it *Interpreter) selectTask(by int) Effect {
	tasks := it.model.TasksOn(it.state.Cursor)
	if len(tasks) == 0 {
		return it.info("No tasks on this day")
	}
	it.taskIdx += by
	if it.taskIdx < 0 {
		it.taskIdx = 0
	}
	if it.taskIdx >= len(tasks) {
		it.taskIdx = len(tasks) - 1
	}
	return Effect{}
}

func (it *Interpreter) enterInsert(editID int64, prefill string) {
	it.mode = Insert
	it.editID = editID
	it.input = []rune(prefill)
}

func (it *Interpreter) feedInsert(key string) Effect {
	switch key {
	case "enter":
		return it.commitInsert()
	case "esc":
		it.mode = Normal
		it.input = nil
		it.editID = 0
		return it.info("Cancelled")
	case "backspace":
		if len(it.input) > 0 {
			it.input = it.input[:len(it.input)-1]
		}
		return Effect{}
	default:
		return it.typeKey(key)
	}
}

func (it *Interpreter) commitInsert() Effect {
	title := strings.TrimSpace(string(it.input))
	if title == "" {
		return it.info("Task title must not be empty")
	}
	editID := it.editID
	it.mode = Normal
	it.input = nil
	it.editID = 0

	if editID != 0 {
		return it.commit(fmt.Sprintf("Renamed task to '%s'", title), func(m *calendar.Model) error {
			return m.RetitleTask(editID, title)
		})
	}

	sc, ok := it.activeSubcal()
	if !ok {
		return it.info("No subcalendar - :newcal <name> first")
	}
	on := it.state.Cursor
	return it.commit(fmt.Sprintf("Created task '%s'", title), func(m *calendar.Model) error {
		_, err := m.AddTask(sc.ID, on, title)
		return err
	})
}

func (it *Interpreter) feedCommandLine(key string) Effect {
	switch key {
	case "enter":
		line := strings.TrimSpace(string(it.input))
		it.mode = Normal
		it.input = nil
		return it.exec(line)
	case "esc":
		it.mode = Normal
		it.input = nil
		return Effect{}
	case "backspace":
		if len(it.input) > 0 {
			it.input = it.input[:len(it.input)-1]
			return Effect{}
		}
		it.mode = Normal
		return Effect{}
	default:
		return it.typeKey(key)
	}
}

// typeKey appends a printable keystroke to the text buffer, ignoring
// everything else (function keys, chords).
func (it *Interpreter) typeKey(key string) Effect {
	if key == "space" {
		key = " "
	}
	if r := []rune(key); len(r) == 1 {
		it.input = append(it.input, r[0])
	}
	return Effect{}
}

func (it *Interpreter) toggleSelected() Effect {
	t, ok := it.selectedTask()
	if !ok {
		return it.info("No task under cursor")
	}
	return it.commit("", func(m *calendar.Model) error {
		after, err := m.ToggleTask(t.ID)
		if err != nil {
			return err
		}
		if after.Completed {
			it.status = fmt.Sprintf("Completed '%s'", after.Title)
		} else {
			it.status = fmt.Sprintf("Reopened '%s'", after.Title)
		}
		return nil
	})
}

func (it *Interpreter) deleteSelected() Effect {
	t, ok := it.selectedTask()
	if !ok {
		return it.info("No task under cursor")
	}
	eff := it.commit(fmt.Sprintf("Deleted '%s'", t.Title), func(m *calendar.Model) error {
		return m.DeleteTask(t.ID)
	})
	it.clampTaskIdx()
	return eff
}

// toggleVisible toggles the named subcalendar, or the active one when
// name is empty.
func (it *Interpreter) toggleVisible(name string) Effect {
	sc, ok := it.targetSubcal(name)
	if !ok {
		return it.info("No such subcalendar")
	}
	return it.commit("", func(m *calendar.Model) error {
		visible, err := m.ToggleVisible(sc.ID)
		if err != nil {
			return err
		}
		if visible {
			it.status = fmt.Sprintf("'%s' unhidden", sc.Name)
		} else {
			it.status = fmt.Sprintf("'%s' hidden", sc.Name)
		}
		return nil
	})
}

func (it *Interpreter) cycleColor() Effect {
	sc, ok := it.activeSubcal()
	if !ok {
		return it.info("No subcalendar selected")
	}
	next := sc.Color.Next()
	return it.commit(fmt.Sprintf("'%s' is now %s", sc.Name, next), func(m *calendar.Model) error {
		return m.SetColor(sc.ID, next)
	})
}

// commit runs one mutation with undo capture and a synchronous
// write-through save. A failed save rolls the model back to the last
// durable state, so memory and disk never silently diverge.
func (it *Interpreter) commit(okStatus string, mutate func(*calendar.Model) error) Effect {
	before := it.model.Clone()
	if err := mutate(it.model); err != nil {
		return it.fail(err)
	}
	if err := it.persist.Save(it.model); err != nil {
		it.model = before
		it.clampSelection()
		return it.fail(fmt.Errorf("save failed, change dropped: %w", err))
	}
	it.undo = append(it.undo, before)
	if len(it.undo) > maxHistory {
		it.undo = it.undo[1:]
	}
	it.redo = nil
	if okStatus != "" {
		it.status = okStatus
	}
	return Effect{Status: it.status}
}

func (it *Interpreter) doUndo() Effect {
	if len(it.undo) == 0 {
		return it.info("Nothing to undo")
	}
	prev := it.undo[len(it.undo)-1]
	if err := it.persist.Save(prev); err != nil {
		return it.fail(fmt.Errorf("save failed: %w", err))
	}
	it.undo = it.undo[:len(it.undo)-1]
	it.redo = append(it.redo, it.model)
	it.model = prev
	it.clampSelection()
	return it.info("Undo")
}

func (it *Interpreter) doRedo() Effect {
	if len(it.redo) == 0 {
		return it.info("Nothing to redo")
	}
	next := it.redo[len(it.redo)-1]
	if err := it.persist.Save(next); err != nil {
		return it.fail(fmt.Errorf("save failed: %w", err))
	}
	it.redo = it.redo[:len(it.redo)-1]
	it.undo = append(it.undo, it.model)
	it.model = next
	it.clampSelection()
	return it.info("Redo")
}

func (it *Interpreter) write() Effect {
	if err := it.persist.Save(it.model); err != nil {
		return it.fail(fmt.Errorf("write failed: %w", err))
	}
	return it.info("Changes saved")
}

func (it *Interpreter) writeQuit() Effect {
	if err := it.persist.Save(it.model); err != nil {
		return it.fail(fmt.Errorf("write failed: %w", err))
	}
	return Effect{Quit: true}
}

func (it *Interpreter) selectedTask() (calendar.Task, bool) {
	tasks := it.model.TasksOn(it.state.Cursor)
	if len(tasks) == 0 {
		return calendar.Task{}, false
	}
	if it.taskIdx >= len(tasks) {
		it.taskIdx = len(tasks) - 1
	}
	return tasks[it.taskIdx], true
}

func (it *Interpreter) activeSubcal() (calendar.Subcalendar, bool) {
	if n := it.model.NumSubcalendars(); n == 0 {
		return calendar.Subcalendar{}, false
	} else if it.active >= n {
		it.active = n - 1
	}
	return it.model.SubcalendarAt(it.active)
}

// targetSubcal resolves a subcalendar by name, falling back to the
// active one for an empty name.
func (it *Interpreter) targetSubcal(name string) (calendar.Subcalendar, bool) {
	if name == "" {
		return it.activeSubcal()
	}
	return it.model.SubcalendarByName(name)
}

func (it *Interpreter) clampSelection() {
	if n := it.model.NumSubcalendars(); n == 0 {
		it.active = 0
	} else if it.active >= n {
		it.active = n - 1
	}
	it.clampTaskIdx()
}

func (it *Interpreter) clampTaskIdx() {
	n := len(it.model.TasksOn(it.state.Cursor))
	if n == 0 {
		it.taskIdx = 0
	} else if it.taskIdx >= n {
		it.taskIdx = n - 1
	}
}

func (it *Interpreter) info(msg string) Effect {
	it.status = msg
	return Effect{Status: msg}
}

func (it *Interpreter) fail(err error) Effect {
	it.status = err.Error()
	return Effect{Status: it.status, Err: err}
}
