package nutrition

import (
	"testing"
	"time"
)

func TestRange(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 4, 0, 0, time.Local)

	from, to, err := Range(PeriodWeek, now)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if to != "2026-08-28" || from != "2026-08-21" {
		t.Fatalf("week: got %s..%s", from, to)
	}

	from, _, err = Range(PeriodMonth, now)
	if err != nil || from != "2026-07-28" {
		t.Fatalf("month: got %s, err %v", from, err)
	}

	from, _, err = Range(PeriodThreeMonths, now)
	if err != nil || from != "2026-05-28" {
		t.Fatalf("3months: got %s, err %v", from, err)
	}

	if _, _, err := Range("year", now); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestValidDate(t *testing.T) {
	if !ValidDate("2026-08-28") {
		t.Fatalf("expected valid")
	}
	for _, bad := range []string{"", "28-08-2026", "2026-13-01", "2026-08-28T00:00:00Z"} {
		if ValidDate(bad) {
			t.Fatalf("expected %q invalid", bad)
		}
	}
}
