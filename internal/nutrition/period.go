package nutrition

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Period selects the stats date window.
type Period string

const (
	PeriodWeek        Period = "week"
	PeriodMonth       Period = "month"
	PeriodThreeMonths Period = "3months"
)

// Today formats a moment as the wire calendar date in its own location.
func Today(now time.Time) string {
	return now.Format(dateLayout)
}

// Range expands a period ending at now into the date_from/date_to pair the
// chart endpoints take.
func Range(p Period, now time.Time) (dateFrom, dateTo string, err error) {
	dateTo = now.Format(dateLayout)
	switch p {
	case PeriodWeek:
		dateFrom = now.AddDate(0, 0, -7).Format(dateLayout)
	case PeriodMonth:
		dateFrom = now.AddDate(0, -1, 0).Format(dateLayout)
	case PeriodThreeMonths:
		dateFrom = now.AddDate(0, -3, 0).Format(dateLayout)
	default:
		return "", "", fmt.Errorf("unknown period %q", p)
	}
	return dateFrom, dateTo, nil
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
