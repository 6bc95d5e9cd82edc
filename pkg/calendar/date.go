package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

const layoutISO = "2006-01-02"

// Date is a civil calendar date with no time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Today returns the current local date.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses an ISO "2006-01-02" date.
func ParseDate(v string) (Date, error) {
	t, err := time.Parse(layoutISO, v)
	if err != nil {
		return Date{}, fmt.Errorf("calendar: invalid date %q: %w", v, err)
	}
	return DateOf(t), nil
}

// Time returns the date at midnight UTC. All date arithmetic routes
// through time.Date so only real Gregorian dates can be produced.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsValid reports whether the date exists on the Gregorian calendar.
func (d Date) IsValid() bool {
	return DateOf(d.Time()) == d
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays returns the date n days later (earlier when n is negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// AddMonths returns the date n months away. The day is clamped to the
// last valid day of the target month, so Jan 31 + 1 month is Feb 28/29.
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	target := Date{Year: first.Year(), Month: first.Month(), Day: d.Day}
	if last := target.DaysInMonth(); target.Day > last {
		target.Day = last
	}
	return target
}

// StartOfMonth returns the first day of the date's month.
func (d Date) StartOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// EndOfMonth returns the last day of the date's month.
func (d Date) EndOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: d.DaysInMonth()}
}

// DaysInMonth returns the number of days in the date's month.
func (d Date) DaysInMonth() int {
	first := time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// SameMonth reports whether both dates fall in the same month and year.
func (d Date) SameMonth(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

func (d Date) String() string {
	return d.Time().Format(layoutISO)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d)), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseDate(v)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
