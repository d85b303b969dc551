package calendar

import "time"

const daysPerWeek = 7

// WeekStartOf returns midnight of the Sunday at or before t.
func WeekStartOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// NextWeek returns the week start following the week containing t.
func NextWeek(t time.Time) time.Time {
	return WeekStartOf(t).AddDate(0, 0, daysPerWeek)
}

// PrevWeek returns the week start preceding the week containing t.
func PrevWeek(t time.Time) time.Time {
	return WeekStartOf(t).AddDate(0, 0, -daysPerWeek)
}

// IsInWeek reports whether t falls in [weekStart, weekStart+7 days).
func IsInWeek(t, weekStart time.Time) bool {
	end := weekStart.AddDate(0, 0, daysPerWeek)
	return !t.Before(weekStart) && t.Before(end)
}

// DayOffset counts calendar days from weekStart's date to t's date.
func DayOffset(t, weekStart time.Time) int {
	from := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

// MinutesSinceMidnight returns the wall-clock minute of the day, 0..1439.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
