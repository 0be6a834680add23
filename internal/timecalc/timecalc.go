package timecalc

import (
	"fmt"
	"time"
)

// MinutesPerDay is the exclusive upper bound of a minute-of-day value.
const MinutesPerDay = 24 * 60

// MinuteOfDay returns the number of whole minutes elapsed since local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ClockLabel formats a minute-of-day as a 12-hour clock label like "9:00 AM".
func ClockLabel(minute int) string {
	h := minute / 60
	m := minute % 60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

// Clock24 formats a minute-of-day as HH:MM.
func Clock24(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// DateKey returns the YYYY-MM-DD label of t's calendar day.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := StartOfDay(t.AddDate(0, 0, -(wd - 1)))
	sunday := EndOfDay(monday.AddDate(0, 0, 6))
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
