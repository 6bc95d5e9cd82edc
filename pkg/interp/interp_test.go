package interp

import (
	"errors"
	"testing"
	"time"

	"tableflip.dev/vical/pkg/calendar"
)

var sept14 = calendar.Date{Year: 2026, Month: time.September, Day: 14}

type fakePersistence struct {
	saves int
	fail  bool
	last  *calendar.Model
}

func (f *fakePersistence) Load() (*calendar.Model, error) {
	return calendar.Default(), nil
}

func (f *fakePersistence) Save(m *calendar.Model) error {
	if f.fail {
		return errors.New("disk full")
	}
	f.saves++
	f.last = m.Clone()
	return nil
}

func newTestInterp(t *testing.T) (*Interpreter, *fakePersistence) {
	t.Helper()
	fake := &fakePersistence{}
	return NewAt(calendar.Default(), fake, sept14), fake
}

func feed(t *testing.T, it *Interpreter, keys ...string) Effect {
	t.Helper()
	var eff Effect
	for _, k := range keys {
		eff = it.Feed(k)
	}
	return eff
}

func typeString(t *testing.T, it *Interpreter, s string) {
	t.Helper()
	for _, r := range s {
		it.Feed(string(r))
	}
}

func TestInsertTaskCommits(t *testing.T) {
	it, fake := newTestInterp(t)

	feed(t, it, "i")
	if it.Mode() != Insert {
		t.Fatalf("expected Insert mode, got %v", it.Mode())
	}
	typeString(t, it, "Buy milk")
	eff := feed(t, it, "enter")
	if eff.Err != nil {
		t.Fatalf("unexpected error: %v", eff.Err)
	}
	if it.Mode() != Normal {
		t.Fatalf("expected Normal mode after commit, got %v", it.Mode())
	}

	snap := it.Snapshot()
	if len(snap.DayTasks) != 1 || snap.DayTasks[0].Title != "Buy milk" {
		t.Fatalf("unexpected day tasks: %+v", snap.DayTasks)
	}
	if fake.saves != 1 {
		t.Fatalf("expected exactly 1 save, got %d", fake.saves)
	}
	if fake.last.NumTasks() != 1 {
		t.Fatalf("saved model missing the task")
	}
}

func TestInsertEmptyTitleRejected(t *testing.T) {
	it, fake := newTestInterp(t)

	feed(t, it, "i", "enter")
	if it.Mode() != Insert {
		t.Fatalf("empty commit should stay in Insert, got %v", it.Mode())
	}
	feed(t, it, " ", " ", "enter")
	if it.Mode() != Insert {
		t.Fatalf("whitespace-only commit should stay in Insert, got %v", it.Mode())
	}
	feed(t, it, "esc")
	if it.Mode() != Normal {
		t.Fatalf("esc should cancel Insert, got %v", it.Mode())
	}
	if fake.saves != 0 || it.Model().NumTasks() != 0 {
		t.Fatalf("rejected commit must not create a task or save")
	}
}

func TestCountedMotion(t *testing.T) {
	it, _ := newTestInterp(t)

	feed(t, it, "3", "l")
	if got := it.Snapshot().State.Cursor; got != sept14.AddDays(3) {
		t.Fatalf("unexpected cursor: %v", got)
	}
	feed(t, it, "2", "k")
	if got := it.Snapshot().State.Cursor; got != sept14.AddDays(3-14) {
		t.Fatalf("unexpected cursor: %v", got)
	}
}

func TestMonthMotions(t *testing.T) {
	it, _ := newTestInterp(t)

	feed(t, it, "0")
	if got := it.Snapshot().State.Cursor.Day; got != 1 {
		t.Fatalf("0 should jump to month start, got day %d", got)
	}
	feed(t, it, "$")
	if got := it.Snapshot().State.Cursor.Day; got != 30 {
		t.Fatalf("$ should jump to month end, got day %d", got)
	}
	feed(t, it, ")")
	snap := it.Snapshot()
	if snap.State.DisplayedMonth != time.October {
		t.Fatalf("expected October, got %v", snap.State.DisplayedMonth)
	}
	feed(t, it, "g", "g")
	if got := it.Snapshot().State.Cursor; got != calendar.Today() {
		t.Fatalf("gg should jump to today, got %v", got)
	}
}

func TestMonthPagingClampsCursor(t *testing.T) {
	fake := &fakePersistence{}
	it := NewAt(calendar.Default(), fake, calendar.Date{Year: 2026, Month: time.January, Day: 31})

	feed(t, it, ")")
	want := calendar.Date{Year: 2026, Month: time.February, Day: 28}
	if got := it.Snapshot().State.Cursor; got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestToggleDoneInvolution(t *testing.T) {
	it, fake := newTestInterp(t)
	feed(t, it, "i")
	typeString(t, it, "flip")
	feed(t, it, "enter")

	feed(t, it, "x")
	if snap := it.Snapshot(); !snap.DayTasks[0].Completed {
		t.Fatalf("expected completed after x")
	}
	feed(t, it, " ")
	if snap := it.Snapshot(); snap.DayTasks[0].Completed {
		t.Fatalf("expected open after second toggle")
	}
	if fake.saves != 3 {
		t.Fatalf("each toggle should save, got %d saves", fake.saves)
	}
}

func TestDeleteTask(t *testing.T) {
	it, _ := newTestInterp(t)
	feed(t, it, "i")
	typeString(t, it, "doomed")
	feed(t, it, "enter")

	feed(t, it, "d", "d")
	if snap := it.Snapshot(); len(snap.DayTasks) != 0 {
		t.Fatalf("task should be gone: %+v", snap.DayTasks)
	}
}

func TestChangeTaskPrefillsTitle(t *testing.T) {
	it, _ := newTestInterp(t)
	feed(t, it, "i")
	typeString(t, it, "old name")
	feed(t, it, "enter")

	feed(t, it, "c", "w")
	if it.Mode() != Insert {
		t.Fatalf("cw should enter Insert, got %v", it.Mode())
	}
	if got := it.Snapshot().Input; got != "old name" {
		t.Fatalf("expected prefilled title, got %q", got)
	}
	for range "old name" {
		feed(t, it, "backspace")
	}
	typeString(t, it, "new name")
	feed(t, it, "enter")

	snap := it.Snapshot()
	if len(snap.DayTasks) != 1 || snap.DayTasks[0].Title != "new name" {
		t.Fatalf("retitle failed: %+v", snap.DayTasks)
	}
}

func TestDeleteSubcalendarCascadesInOneSave(t *testing.T) {
	it, fake := newTestInterp(t)
	feed(t, it, "i")
	typeString(t, it, "casualty")
	feed(t, it, "enter")
	before := fake.saves

	feed(t, it, ":")
	typeString(t, it, "delcal Default")
	eff := feed(t, it, "enter")
	if eff.Err != nil {
		t.Fatalf("unexpected error: %v", eff.Err)
	}
	if it.Model().NumSubcalendars() != 0 || it.Model().NumTasks() != 0 {
		t.Fatalf("cascade incomplete: %d subcals, %d tasks",
			it.Model().NumSubcalendars(), it.Model().NumTasks())
	}
	if fake.saves != before+1 {
		t.Fatalf("cascade must be one committed save, got %d extra", fake.saves-before)
	}
}

func TestDeleteSubcalendarByAlias(t *testing.T) {
	it, _ := newTestInterp(t)
	feed(t, it, ":")
	typeString(t, it, "delete-subcalendar Default")
	feed(t, it, "enter")
	if it.Model().NumSubcalendars() != 0 {
		t.Fatalf("alias did not delete the subcalendar")
	}
}

func TestHiddenSubcalendarLeavesSnapshotNotStore(t *testing.T) {
	it, fake := newTestInterp(t)
	feed(t, it, "i")
	typeString(t, it, "still stored")
	feed(t, it, "enter")

	feed(t, it, "z", "c")
	snap := it.Snapshot()
	if len(snap.DayTasks) != 0 || len(snap.MonthTasks) != 0 {
		t.Fatalf("hidden tasks leaked into the snapshot")
	}
	if len(snap.Subcalendars) != 0 {
		t.Fatalf("hidden subcalendar leaked into the snapshot")
	}
	if fake.last.NumTasks() != 1 {
		t.Fatalf("hiding must not drop tasks from the saved model")
	}

	feed(t, it, "z", "c")
	if snap := it.Snapshot(); len(snap.DayTasks) != 1 {
		t.Fatalf("unhide did not restore the task view")
	}
}

func TestSaveFailureRollsBack(t *testing.T) {
	it, fake := newTestInterp(t)
	feed(t, it, "i")
	typeString(t, it, "durable")
	feed(t, it, "enter")

	fake.fail = true
	feed(t, it, "i")
	typeString(t, it, "lost")
	eff := feed(t, it, "enter")
	if eff.Err == nil {
		t.Fatalf("expected a save error")
	}
	if it.Model().NumTasks() != 1 {
		t.Fatalf("failed save must roll back, have %d tasks", it.Model().NumTasks())
	}
	if fake.last.NumTasks() != 1 {
		t.Fatalf("durable state changed on failure")
	}

	// The session survives and later commits work again.
	fake.fail = false
	feed(t, it, "i")
	typeString(t, it, "recovered")
	if eff := feed(t, it, "enter"); eff.Err != nil {
		t.Fatalf("unexpected error after recovery: %v", eff.Err)
	}
	if it.Model().NumTasks() != 2 {
		t.Fatalf("expected 2 tasks after recovery, got %d", it.Model().NumTasks())
	}
}

func TestUndoRedo(t *testing.T) {
	it, fake := newTestInterp(t)
	feed(t, it, "i")
	typeString(t, it, "ephemeral")
	feed(t, it, "enter")

	feed(t, it, "u")
	if it.Model().NumTasks() != 0 {
		t.Fatalf("undo did not remove the task")
	}
	if fake.last.NumTasks() != 0 {
		t.Fatalf("undo must persist the restored state")
	}

	feed(t, it, "U")
	if it.Model().NumTasks() != 1 {
		t.Fatalf("redo did not restore the task")
	}
	if fake.last.NumTasks() != 1 {
		t.Fatalf("redo must persist the restored state")
	}

	eff := feed(t, it, "u", "u")
	if eff.Quit || it.Model().NumTasks() != 0 {
		t.Fatalf("undo past the oldest state should be a no-op")
	}
}

func TestNewCommitInvalidatesRedo(t *testing.T) {
	it, _ := newTestInterp(t)
	feed(t, it, "i")
	typeString(t, it, "one")
	feed(t, it, "enter")
	feed(t, it, "u")

	feed(t, it, "i")
	typeString(t, it, "two")
	feed(t, it, "enter")

	feed(t, it, "U")
	tasks := it.Snapshot().DayTasks
	if len(tasks) != 1 || tasks[0].Title != "two" {
		t.Fatalf("redo after a new commit should be empty: %+v", tasks)
	}
}

func TestQuitCommands(t *testing.T) {
	it, _ := newTestInterp(t)

	feed(t, it, ":")
	typeString(t, it, "q")
	if eff := feed(t, it, "enter"); !eff.Quit {
		t.Fatalf(":q should quit")
	}

	it2, _ := newTestInterp(t)
	if eff := feed(t, it2, "Z", "Q"); !eff.Quit {
		t.Fatalf("ZQ should quit without saving")
	}

	it3, fake3 := newTestInterp(t)
	if eff := feed(t, it3, "Z", "Z"); !eff.Quit {
		t.Fatalf("ZZ should save and quit")
	}
	if fake3.saves != 1 {
		t.Fatalf("ZZ should save once, got %d", fake3.saves)
	}
}

func TestWriteQuitStaysOnSaveFailure(t *testing.T) {
	it, fake := newTestInterp(t)
	fake.fail = true
	eff := feed(t, it, "Z", "Z")
	if eff.Quit {
		t.Fatalf("ZZ must not quit when the save fails")
	}
	if eff.Err == nil {
		t.Fatalf("expected a save error")
	}
}

func TestExCommandsManageSubcalendars(t *testing.T) {
	it, _ := newTestInterp(t)

	feed(t, it, ":")
	typeString(t, it, "newcal Work")
	feed(t, it, "enter")
	if it.Model().NumSubcalendars() != 2 {
		t.Fatalf("newcal did not create a subcalendar")
	}
	// The new subcalendar becomes active.
	if snap := it.Snapshot(); !snap.HasActive || snap.Active.Name != "Work" {
		t.Fatalf("unexpected active subcalendar: %+v", snap.Active)
	}

	feed(t, it, ":")
	typeString(t, it, "color green")
	feed(t, it, "enter")
	sc, _ := it.Model().SubcalendarByName("Work")
	if sc.Color != calendar.Green {
		t.Fatalf("color command failed: %v", sc.Color)
	}

	feed(t, it, ":")
	typeString(t, it, "renamecal Play")
	feed(t, it, "enter")
	if _, ok := it.Model().SubcalendarByName("Play"); !ok {
		t.Fatalf("renamecal failed")
	}
}

func TestExRecalMovesTask(t *testing.T) {
	it, _ := newTestInterp(t)
	feed(t, it, ":")
	typeString(t, it, "newcal Work")
	feed(t, it, "enter")

	// Active is Work; create the task there, then move it to Default.
	feed(t, it, "i")
	typeString(t, it, "roaming")
	feed(t, it, "enter")

	feed(t, it, ":")
	typeString(t, it, "recal Nowhere")
	eff := feed(t, it, "enter")
	if eff.Err != nil {
		t.Fatalf("unknown target should be a status, not an error: %v", eff.Err)
	}
	feed(t, it, ":")
	typeString(t, it, "recal Default")
	feed(t, it, "enter")

	def, _ := it.Model().SubcalendarByName(calendar.DefaultName)
	task := it.Snapshot().DayTasks[0]
	if task.SubcalendarID != def.ID {
		t.Fatalf("recal did not move the task: %+v", task)
	}
}

func TestExGoto(t *testing.T) {
	it, _ := newTestInterp(t)
	feed(t, it, ":")
	typeString(t, it, "goto 2027-01-05")
	feed(t, it, "enter")
	want := calendar.Date{Year: 2027, Month: time.January, Day: 5}
	if got := it.Snapshot().State.Cursor; got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestUnknownExCommand(t *testing.T) {
	it, _ := newTestInterp(t)
	feed(t, it, ":")
	typeString(t, it, "frobnicate")
	eff := feed(t, it, "enter")
	if eff.Quit || eff.Err != nil {
		t.Fatalf("unknown command must be recoverable: %+v", eff)
	}
	if it.Snapshot().Status == "" {
		t.Fatalf("expected a status message")
	}
}

func TestInvalidKeystrokeIsRecoverable(t *testing.T) {
	it, _ := newTestInterp(t)
	eff := feed(t, it, "g", "x")
	if eff.Quit || eff.Err != nil {
		t.Fatalf("invalid sequence must be recoverable: %+v", eff)
	}
	// The buffer is cleared; the next motion works normally.
	feed(t, it, "l")
	if got := it.Snapshot().State.Cursor; got != sept14.AddDays(1) {
		t.Fatalf("unexpected cursor after recovery: %v", got)
	}
}

func TestTaskSelectionCycles(t *testing.T) {
	it, _ := newTestInterp(t)
	for _, title := range []string{"first", "second", "third"} {
		feed(t, it, "i")
		typeString(t, it, title)
		feed(t, it, "enter")
	}

	feed(t, it, "g", "j")
	if got := it.Snapshot().TaskIndex; got != 1 {
		t.Fatalf("gj should select the next task, index %d", got)
	}
	feed(t, it, "g", "j", "g", "j")
	if got := it.Snapshot().TaskIndex; got != 2 {
		t.Fatalf("selection should clamp at the last task, index %d", got)
	}
	feed(t, it, "g", "k")
	if got := it.Snapshot().TaskIndex; got != 1 {
		t.Fatalf("gk should select the previous task, index %d", got)
	}
	// Moving the cursor resets the selection.
	feed(t, it, "l", "h")
	if got := it.Snapshot().TaskIndex; got != 0 {
		t.Fatalf("motion should reset the selection, index %d", got)
	}
}
