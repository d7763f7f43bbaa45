package domain

import "time"

// Midnight truncates a time to the start of its calendar day in its own
// location. Expiry arithmetic works on whole days, so every comparison in the
// engine goes through this first.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the signed number of whole calendar days from `from` to
// `to`. Negative when `to` is in the past. Both dates are rebuilt in UTC so
// DST transitions cannot skew the division.
func DaysUntil(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Midnight(a).Equal(Midnight(b))
}
