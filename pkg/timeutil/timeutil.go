// Package timeutil provides timezone helpers for quiz-night dates.
// Quiz nights happen in Málaga; "today" on the entry form must mean today
// in Málaga even when the server runs in UTC. Scores are entered during the
// evening, hours away from the DST switch, so a fixed CET offset is enough
// for date bucketing.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// MalagaTZ is the Málaga timezone pinned to CET (UTC+1).
var MalagaTZ = time.FixedZone("Europe/Madrid", 1*60*60)

// Now returns the current time in Málaga.
func Now() time.Time {
	return time.Now().In(MalagaTZ)
}

// Today returns the current calendar date in Málaga, as year/month/day.
func Today() (year int, month time.Month, day int) {
	return Now().Date()
}

// TodayString returns the current Málaga date formatted as YYYY-MM-DD,
// the entry form's default quiz date.
func TodayString() string {
	return Now().Format("2006-01-02")
}

// StartOfDay returns midnight of the given time's Málaga date.
func StartOfDay(t time.Time) time.Time {
	local := t.In(MalagaTZ)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, MalagaTZ)
}

// SameDate reports whether two times fall on the same Málaga calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.In(MalagaTZ).Date()
	by, bm, bd := b.In(MalagaTZ).Date()
	return ay == by && am == bm && ad == bd
}
