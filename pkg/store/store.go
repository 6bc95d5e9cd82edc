package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tableflip.dev/vical/pkg/calendar"
)

// ErrCorrupt marks a store file that exists but cannot be decoded into
// a valid model. Callers must treat it as fatal rather than start from
// an empty model over real data.
var ErrCorrupt = errors.New("store: calendar data is corrupt")

// Persistence is the persistence contract for the calendar model. The
// gateway is the sole reader and writer of the store file; concurrent
// processes are not supported (last writer wins).
type Persistence interface {
	Load() (*calendar.Model, error)
	Save(*calendar.Model) error
}

// Open creates a file-backed Persistence using the provided config.
func Open(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if cfg.Path() == "" {
		return nil, errors.New("store: store path is empty")
	}
	return &gateway{path: cfg.Path()}, nil
}

// OpenPath creates a file-backed Persistence at an explicit path.
func OpenPath(path string) (Persistence, error) {
	return Open(&fileConfig{path: path})
}

type gateway struct {
	path string
}

// document is the on-disk schema. The id counters persist so ids are
// never reused across sessions.
type document struct {
	Subcalendars      []calendar.Subcalendar `json:"subcalendars"`
	Tasks             []calendar.Task        `json:"tasks"`
	NextSubcalendarID int64                  `json:"next_subcalendar_id"`
	NextTaskID        int64                  `json:"next_task_id"`
}

// Load reads the store file. A missing file yields a fresh model with
// the Default subcalendar; anything unreadable or referentially broken
// yields ErrCorrupt.
func (g *gateway) Load() (*calendar.Model, error) {
	data, err := os.ReadFile(g.path)
	if errors.Is(err, os.ErrNotExist) {
		return calendar.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: reading %s: %w", g.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, g.path, err)
	}
	m, err := calendar.FromRecords(doc.Subcalendars, doc.Tasks, doc.NextSubcalendarID, doc.NextTaskID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, g.path, err)
	}
	return m, nil
}

// Save writes the whole model atomically: marshal, write a temp file in
// the store directory, then rename into place. A crash mid-write leaves
// the previous file intact.
func (g *gateway) Save(m *calendar.Model) error {
	nextSubcal, nextTask := m.NextIDs()
	doc := document{
		Subcalendars:      m.Subcalendars(),
		Tasks:             m.TaskRecords(),
		NextSubcalendarID: nextSubcal,
		NextTaskID:        nextTask,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding model: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return fmt.Errorf("store: ensure data directory: %w", err)
	}
	tmp := g.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, g.path); err != nil {
		return fmt.Errorf("store: committing %s: %w", g.path, err)
	}
	return nil
}
