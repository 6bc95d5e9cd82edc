package tui

import (
	"strings"
	"testing"
	"time"
)

func TestRenderMonthLayout(t *testing.T) {
	// September 2026 starts on a Tuesday and has 30 days.
	out := RenderMonth(2026, time.September, nil, GridOptions{ShowHeader: true})
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header plus 5 week rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "Su Mo Tu We Th Fr Sa") {
		t.Fatalf("missing weekday header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "      ") {
		t.Fatalf("first week should pad Sunday and Monday: %q", lines[1])
	}
	if !strings.Contains(lines[1], " 1") {
		t.Fatalf("day 1 missing from first week: %q", lines[1])
	}
	if !strings.Contains(lines[5], "30") {
		t.Fatalf("day 30 missing from last week: %q", lines[5])
	}
	if strings.Contains(out, "31") {
		t.Fatalf("day 31 rendered for a 30-day month")
	}
}

func TestRenderMonthWithoutHeader(t *testing.T) {
	out := RenderMonth(2026, time.February, nil, GridOptions{})
	if strings.Contains(out, "Su Mo") {
		t.Fatalf("header rendered when disabled")
	}
	if !strings.Contains(out, "28") {
		t.Fatalf("february 2026 should end on 28")
	}
	if strings.Contains(out, "29") {
		t.Fatalf("february 2026 has no day 29")
	}
}
