package dateutil

import (
	"fmt"
	"time"
)

// StartOfDay returns midnight UTC of the day t falls in.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDay returns midnight UTC of the day after t.
func NextDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// IsSameDay reports whether a and b fall on the same UTC calendar day.
func IsSameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// Stardate formats t as YYYY.DDD.HHMM in UTC, where DDD is the zero padded
// day of the year.
func Stardate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%04d.%03d.%02d%02d", t.Year(), t.YearDay(), t.Hour(), t.Minute())
}
