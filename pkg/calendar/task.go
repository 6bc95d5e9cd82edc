package calendar

// Subcalendar is a named, colored, independently hideable grouping that
// owns a set of tasks. Hidden subcalendars keep their tasks in storage
// but are excluded from the calendar view and date queries.
type Subcalendar struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Color   Color  `json:"color"`
	Visible bool   `json:"visible"`
}

// Task is a single-day todo item owned by exactly one subcalendar.
type Task struct {
	ID            int64  `json:"id"`
	SubcalendarID int64  `json:"subcalendar_id"`
	Date          Date   `json:"date"`
	Title         string `json:"title"`
	Completed     bool   `json:"completed"`
}
