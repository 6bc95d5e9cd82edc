package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultName is the subcalendar created for a fresh model.
const DefaultName = "Default"

var (
	ErrNoSuchSubcalendar = errors.New("calendar: no such subcalendar")
	ErrNoSuchTask        = errors.New("calendar: no such task")
	ErrEmptyTitle        = errors.New("calendar: task title must not be empty")
	ErrEmptyName         = errors.New("calendar: subcalendar name must not be empty")
)

// Model owns all persisted calendar state: the ordered subcalendars,
// their tasks, and the monotonic id arenas. Ids are never reused, and
// every task's subcalendar id resolves to a live subcalendar; deleting
// a subcalendar cascades to its tasks through the ownership index.
type Model struct {
	subcals []*Subcalendar
	tasks   map[int64]*Task
	owned   map[int64][]int64 // subcalendar id -> owned task ids

	nextSubcalID int64
	nextTaskID   int64
}

// NewModel returns an empty model with no subcalendars.
func NewModel() *Model {
	return &Model{
		tasks:        make(map[int64]*Task),
		owned:        make(map[int64][]int64),
		nextSubcalID: 1,
		nextTaskID:   1,
	}
}

// Default returns a fresh model holding the single Default subcalendar.
func Default() *Model {
	m := NewModel()
	if _, err := m.AddSubcalendar(DefaultName, Blue); err != nil {
		panic(err) // constant input cannot fail
	}
	return m
}

// FromRecords rebuilds a model from persisted records, validating
// referential integrity. Id counters are floored to one past the
// largest persisted id so restarts never reuse an id.
func FromRecords(subcals []Subcalendar, tasks []Task, nextSubcalID, nextTaskID int64) (*Model, error) {
	m := NewModel()
	for _, sc := range subcals {
		sc := sc
		if sc.ID <= 0 {
			return nil, fmt.Errorf("calendar: subcalendar %q has invalid id %d", sc.Name, sc.ID)
		}
		if _, ok := m.owned[sc.ID]; ok {
			return nil, fmt.Errorf("calendar: duplicate subcalendar id %d", sc.ID)
		}
		m.subcals = append(m.subcals, &sc)
		m.owned[sc.ID] = nil
		if sc.ID >= m.nextSubcalID {
			m.nextSubcalID = sc.ID + 1
		}
	}
	for _, t := range tasks {
		t := t
		if t.ID <= 0 {
			return nil, fmt.Errorf("calendar: task %q has invalid id %d", t.Title, t.ID)
		}
		if _, ok := m.tasks[t.ID]; ok {
			return nil, fmt.Errorf("calendar: duplicate task id %d", t.ID)
		}
		if _, ok := m.owned[t.SubcalendarID]; !ok {
			return nil, fmt.Errorf("calendar: task %d references missing subcalendar %d", t.ID, t.SubcalendarID)
		}
		if !t.Date.IsValid() {
			return nil, fmt.Errorf("calendar: task %d has invalid date", t.ID)
		}
		m.tasks[t.ID] = &t
		m.owned[t.SubcalendarID] = append(m.owned[t.SubcalendarID], t.ID)
		if t.ID >= m.nextTaskID {
			m.nextTaskID = t.ID + 1
		}
	}
	if nextSubcalID > m.nextSubcalID {
		m.nextSubcalID = nextSubcalID
	}
	if nextTaskID > m.nextTaskID {
		m.nextTaskID = nextTaskID
	}
	return m, nil
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	c := NewModel()
	c.nextSubcalID = m.nextSubcalID
	c.nextTaskID = m.nextTaskID
	for _, sc := range m.subcals {
		dup := *sc
		c.subcals = append(c.subcals, &dup)
		c.owned[sc.ID] = append([]int64(nil), m.owned[sc.ID]...)
	}
	for id, t := range m.tasks {
		dup := *t
		c.tasks[id] = &dup
	}
	return c
}

// NumSubcalendars returns the subcalendar count, hidden included.
func (m *Model) NumSubcalendars() int {
	return len(m.subcals)
}

// Subcalendars returns an ordered copy of all subcalendars.
func (m *Model) Subcalendars() []Subcalendar {
	out := make([]Subcalendar, 0, len(m.subcals))
	for _, sc := range m.subcals {
		out = append(out, *sc)
	}
	return out
}

// SubcalendarAt returns the subcalendar at a position in creation order.
func (m *Model) SubcalendarAt(i int) (Subcalendar, bool) {
	if i < 0 || i >= len(m.subcals) {
		return Subcalendar{}, false
	}
	return *m.subcals[i], true
}

// Subcalendar looks up a subcalendar by id.
func (m *Model) Subcalendar(id int64) (Subcalendar, bool) {
	if sc := m.subcal(id); sc != nil {
		return *sc, true
	}
	return Subcalendar{}, false
}

// SubcalendarByName looks up a subcalendar by its display name.
func (m *Model) SubcalendarByName(name string) (Subcalendar, bool) {
	for _, sc := range m.subcals {
		if strings.EqualFold(sc.Name, name) {
			return *sc, true
		}
	}
	return Subcalendar{}, false
}

// AddSubcalendar creates a new visible subcalendar.
func (m *Model) AddSubcalendar(name string, c Color) (Subcalendar, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Subcalendar{}, ErrEmptyName
	}
	sc := &Subcalendar{ID: m.nextSubcalID, Name: name, Color: c, Visible: true}
	m.nextSubcalID++
	m.subcals = append(m.subcals, sc)
	m.owned[sc.ID] = nil
	return *sc, nil
}

// RenameSubcalendar changes a subcalendar's display name.
func (m *Model) RenameSubcalendar(id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	sc := m.subcal(id)
	if sc == nil {
		return ErrNoSuchSubcalendar
	}
	sc.Name = name
	return nil
}

// SetColor changes a subcalendar's palette color.
func (m *Model) SetColor(id int64, c Color) error {
	sc := m.subcal(id)
	if sc == nil {
		return ErrNoSuchSubcalendar
	}
	sc.Color = c
	return nil
}

// ToggleVisible flips a subcalendar's visibility and returns the new value.
func (m *Model) ToggleVisible(id int64) (bool, error) {
	sc := m.subcal(id)
	if sc == nil {
		return false, ErrNoSuchSubcalendar
	}
	sc.Visible = !sc.Visible
	return sc.Visible, nil
}

// DeleteSubcalendar removes a subcalendar and cascades to every task it
// owns, returning the number of tasks removed with it.
func (m *Model) DeleteSubcalendar(id int64) (int, error) {
	idx := -1
	for i, sc := range m.subcals {
		if sc.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrNoSuchSubcalendar
	}
	removed := len(m.owned[id])
	for _, tid := range m.owned[id] {
		delete(m.tasks, tid)
	}
	delete(m.owned, id)
	m.subcals = append(m.subcals[:idx], m.subcals[idx+1:]...)
	return removed, nil
}

// AddTask creates a task on the given date owned by the given
// subcalendar. The title must be non-empty and the subcalendar must
// exist; neither failure mutates the model.
func (m *Model) AddTask(subcalID int64, d Date, title string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	if m.subcal(subcalID) == nil {
		return Task{}, ErrNoSuchSubcalendar
	}
	if !d.IsValid() {
		return Task{}, fmt.Errorf("calendar: invalid task date %v", d)
	}
	t := &Task{ID: m.nextTaskID, SubcalendarID: subcalID, Date: d, Title: title}
	m.nextTaskID++
	m.tasks[t.ID] = t
	m.owned[subcalID] = append(m.owned[subcalID], t.ID)
	return *t, nil
}

// Task looks up a task by id.
func (m *Model) Task(id int64) (Task, bool) {
	if t, ok := m.tasks[id]; ok {
		return *t, true
	}
	return Task{}, false
}

// RetitleTask replaces a task's title.
func (m *Model) RetitleTask(id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t, ok := m.tasks[id]
	if !ok {
		return ErrNoSuchTask
	}
	t.Title = title
	return nil
}

// RescheduleTask moves a task to another date.
func (m *Model) RescheduleTask(id int64, d Date) error {
	t, ok := m.tasks[id]
	if !ok {
		return ErrNoSuchTask
	}
	if !d.IsValid() {
		return fmt.Errorf("calendar: invalid task date %v", d)
	}
	t.Date = d
	return nil
}

// ReassignTask moves a task to a different subcalendar, keeping the
// ownership index consistent. The target must exist.
func (m *Model) ReassignTask(id int64, subcalID int64) error {
	t, ok := m.tasks[id]
	if !ok {
		return ErrNoSuchTask
	}
	if m.subcal(subcalID) == nil {
		return ErrNoSuchSubcalendar
	}
	if t.SubcalendarID == subcalID {
		return nil
	}
	m.disown(t.SubcalendarID, id)
	t.SubcalendarID = subcalID
	m.owned[subcalID] = append(m.owned[subcalID], id)
	return nil
}

// ToggleTask flips a task's completed flag and returns the new record.
func (m *Model) ToggleTask(id int64) (Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return Task{}, ErrNoSuchTask
	}
	t.Completed = !t.Completed
	return *t, nil
}

// DeleteTask removes a single task.
func (m *Model) DeleteTask(id int64) error {
	t, ok := m.tasks[id]
	if !ok {
		return ErrNoSuchTask
	}
	m.disown(t.SubcalendarID, id)
	delete(m.tasks, id)
	return nil
}

// TasksOn returns the tasks on a date whose subcalendar is visible,
// in creation order.
func (m *Model) TasksOn(d Date) []Task {
	var out []Task
	for _, t := range m.tasks {
		if t.Date != d {
			continue
		}
		if sc := m.subcal(t.SubcalendarID); sc == nil || !sc.Visible {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TasksInMonth returns the month's tasks on visible subcalendars,
// ordered by date then creation.
func (m *Model) TasksInMonth(year int, month time.Month) []Task {
	var out []Task
	for _, t := range m.tasks {
		if t.Date.Year != year || t.Date.Month != month {
			continue
		}
		if sc := m.subcal(t.SubcalendarID); sc == nil || !sc.Visible {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TaskRecords returns every task, hidden subcalendars included, ordered
// by id for persistence.
func (m *Model) TaskRecords() []Task {
	out := make([]Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NumTasks returns the total task count, hidden subcalendars included.
func (m *Model) NumTasks() int {
	return len(m.tasks)
}

// NextIDs exposes the arena counters for persistence.
func (m *Model) NextIDs() (subcalID, taskID int64) {
	return m.nextSubcalID, m.nextTaskID
}

func (m *Model) subcal(id int64) *Subcalendar {
	for _, sc := range m.subcals {
		if sc.ID == id {
			return sc
		}
	}
	return nil
}

func (m *Model) disown(subcalID, taskID int64) {
	ids := m.owned[subcalID]
	for i, tid := range ids {
		if tid == taskID {
			m.owned[subcalID] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}
