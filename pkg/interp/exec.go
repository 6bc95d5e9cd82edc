package interp

import (
	"fmt"
	"strings"

	"tableflip.dev/vical/pkg/calendar"
)

// exec runs one command line entered after ':'. Unknown commands and
// bad arguments surface as status text; only quit effects escape.
func (it *Interpreter) exec(line string) Effect {
	if line == "" {
		return Effect{}
	}
	cmd := strings.Fields(line)[0]
	rest := strings.TrimSpace(strings.TrimPrefix(line, cmd))

	switch cmd {
	case "q", "q!", "quit", "quit!":
		return Effect{Quit: true}

	case "w", "write":
		return it.write()

	case "wq", "x", "writequit":
		return it.writeQuit()

	case "undo":
		return it.doUndo()
	case "redo":
		return it.doRedo()

	case "goto":
		return it.gotoDate(rest)

	case "newcal", "create-subcalendar":
		return it.newSubcal(rest)
	case "renamecal", "rename-subcalendar":
		return it.renameSubcal(rest)
	case "delcal", "delete-subcalendar":
		return it.deleteSubcal(rest)
	case "hide":
		return it.toggleVisible(rest)
	case "color":
		return it.setColor(rest)

	case "newtask":
		return it.newTask(rest)
	case "rename":
		return it.renameTask(rest)
	case "redate":
		return it.redateTask(rest)
	case "recal":
		return it.recalTask(rest)
	case "deltask":
		return it.deleteSelected()
	case "complete":
		return it.toggleSelected()

	case "help":
		return it.info("h/j/k/l move  i new  cw edit  dd delete  x done  ]/[ subcal  zc hide  * color  u/U undo/redo  ZZ save+quit")
	}
	return it.info(fmt.Sprintf("Unknown command: %s", cmd))
}

func (it *Interpreter) gotoDate(arg string) Effect {
	if arg == "" || arg == "today" {
		it.state.Goto(calendar.Today())
		it.taskIdx = 0
		return it.info("goto: today")
	}
	d, err := calendar.ParseDate(arg)
	if err != nil {
		return it.info(fmt.Sprintf("Bad date '%s' (want yyyy-mm-dd)", arg))
	}
	it.state.Goto(d)
	it.taskIdx = 0
	return it.info(fmt.Sprintf("goto: %s", d))
}

func (it *Interpreter) newSubcal(name string) Effect {
	if name == "" {
		return it.info("Usage: newcal <name>")
	}
	// New subcalendars walk the palette so adjacent ones differ.
	color := calendar.Palette()[it.model.NumSubcalendars()%len(calendar.Palette())]
	eff := it.commit(fmt.Sprintf("Created subcalendar '%s'", name), func(m *calendar.Model) error {
		_, err := m.AddSubcalendar(name, color)
		return err
	})
	if eff.Err == nil {
		it.active = it.model.NumSubcalendars() - 1
	}
	return eff
}

func (it *Interpreter) renameSubcal(name string) Effect {
	if name == "" {
		return it.info("Usage: renamecal <new name>")
	}
	sc, ok := it.activeSubcal()
	if !ok {
		return it.info("No subcalendar selected")
	}
	return it.commit(fmt.Sprintf("Renamed '%s' to '%s'", sc.Name, name), func(m *calendar.Model) error {
		return m.RenameSubcalendar(sc.ID, name)
	})
}

// deleteSubcal removes the named subcalendar (or the active one) along
// with every task it owns, in one committed mutation.
func (it *Interpreter) deleteSubcal(name string) Effect {
	sc, ok := it.targetSubcal(name)
	if !ok {
		return it.info("No such subcalendar")
	}
	eff := it.commit("", func(m *calendar.Model) error {
		removed, err := m.DeleteSubcalendar(sc.ID)
		if err != nil {
			return err
		}
		it.status = fmt.Sprintf("Deleted '%s' and %d task(s)", sc.Name, removed)
		return nil
	})
	it.clampSelection()
	return eff
}

func (it *Interpreter) setColor(arg string) Effect {
	sc, ok := it.activeSubcal()
	if !ok {
		return it.info("No subcalendar selected")
	}
	color, err := calendar.ParseColor(arg)
	if err != nil {
		return it.info(fmt.Sprintf("Unknown color '%s' (try: %s)", arg, paletteNames()))
	}
	return it.commit(fmt.Sprintf("'%s' is now %s", sc.Name, color), func(m *calendar.Model) error {
		return m.SetColor(sc.ID, color)
	})
}

func (it *Interpreter) newTask(title string) Effect {
	if title == "" {
		return it.info("Usage: newtask <title>")
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

func (it *Interpreter) renameTask(title string) Effect {
	if title == "" {
		return it.info("Usage: rename <new title>")
	}
	t, ok := it.selectedTask()
	if !ok {
		return it.info("No task under cursor")
	}
	return it.commit(fmt.Sprintf("Renamed task to '%s'", title), func(m *calendar.Model) error {
		return m.RetitleTask(t.ID, title)
	})
}

func (it *Interpreter) redateTask(arg string) Effect {
	t, ok := it.selectedTask()
	if !ok {
		return it.info("No task under cursor")
	}
	d, err := calendar.ParseDate(arg)
	if err != nil {
		return it.info(fmt.Sprintf("Bad date '%s' (want yyyy-mm-dd)", arg))
	}
	return it.commit(fmt.Sprintf("Moved '%s' to %s", t.Title, d), func(m *calendar.Model) error {
		return m.RescheduleTask(t.ID, d)
	})
}

// recalTask moves the selected task to another subcalendar by name.
func (it *Interpreter) recalTask(name string) Effect {
	t, ok := it.selectedTask()
	if !ok {
		return it.info("No task under cursor")
	}
	sc, ok := it.model.SubcalendarByName(name)
	if !ok {
		return it.info(fmt.Sprintf("No such subcalendar: %s", name))
	}
	return it.commit(fmt.Sprintf("Moved '%s' to '%s'", t.Title, sc.Name), func(m *calendar.Model) error {
		return m.ReassignTask(t.ID, sc.ID)
	})
}

func paletteNames() string {
	names := make([]string, 0, len(calendar.Palette()))
	for _, c := range calendar.Palette() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}
