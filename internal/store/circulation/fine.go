package circulation

import "time"

// FineRatePerDay is charged per whole overdue day.
const FineRatePerDay = 0.5

// OverdueDays counts calendar days between the due date and the return
// instant, both normalized to UTC day granularity. Any fraction of a day
// past the due day counts as a full day; returning on or before the due day
// counts zero.
func OverdueDays(due, returned time.Time) int {
	days := int(dayOf(returned).Sub(dayOf(due)) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// FineFor computes the monetary penalty for a return at the given instant.
func FineFor(due, returned time.Time) float64 {
	return float64(OverdueDays(due, returned)) * FineRatePerDay
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
