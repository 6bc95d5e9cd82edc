package calendar

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 2026 || d.Month != time.September || d.Day != 14 {
		t.Fatalf("unexpected date: %v", d)
	}

	if _, err := ParseDate("2026-02-29"); err == nil {
		t.Fatalf("expected error for feb 29 in a non-leap year")
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}

func TestLeapYear(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("2024 is a leap year: %v", err)
	}
	if d.DaysInMonth() != 29 {
		t.Fatalf("expected 29 days, got %d", d.DaysInMonth())
	}
}

func TestAddDaysCrossesMonths(t *testing.T) {
	d := Date{Year: 2026, Month: time.September, Day: 30}
	got := d.AddDays(1)
	want := Date{Year: 2026, Month: time.October, Day: 1}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}

	got = (Date{Year: 2026, Month: time.January, Day: 1}).AddDays(-1)
	want = Date{Year: 2025, Month: time.December, Day: 31}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAddMonthsClampsDay(t *testing.T) {
	d := Date{Year: 2026, Month: time.January, Day: 31}
	got := d.AddMonths(1)
	want := Date{Year: 2026, Month: time.February, Day: 28}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// Clamping does not stick: paging back returns to a short day, not
	// the original day 31.
	got = got.AddMonths(-1)
	want = Date{Year: 2026, Month: time.January, Day: 28}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := Date{Year: 2026, Month: time.September, Day: 14}
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2026-09-14"` {
		t.Fatalf("unexpected encoding: %s", b)
	}

	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip changed date: %v", back)
	}
}

func TestMonthEdges(t *testing.T) {
	d := Date{Year: 2026, Month: time.September, Day: 14}
	if got := d.StartOfMonth(); got.Day != 1 {
		t.Fatalf("unexpected month start: %v", got)
	}
	if got := d.EndOfMonth(); got.Day != 30 {
		t.Fatalf("unexpected month end: %v", got)
	}
}
