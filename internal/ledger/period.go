package ledger

import (
	"fmt"
	"time"
)

// PeriodOf returns the "YYYY-MM" bucket of t.
func PeriodOf(t time.Time) string {
	return t.Format("2006-01")
}

// ParsePeriod validates a "YYYY-MM" token and returns the first day of it.
func ParsePeriod(p string) (time.Time, error) {
	t, err := time.Parse("2006-01", p)
	if err != nil || len(p) != 7 {
		return time.Time{}, fmt.Errorf("invalid period %q", p)
	}
	return t, nil
}

// LastPeriods returns n consecutive periods ending with the month of end, ascending.
func LastPeriods(end time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	first := firstOfMonth(end)
	out := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, PeriodOf(first.AddDate(0, -i, 0)))
	}
	return out
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
