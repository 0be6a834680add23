package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/trivial-attendance/internal/timecalc"
)

func TestMinuteOfDay(t *testing.T) {
	tests := []struct {
		h, m int
		want int
	}{
		{0, 0, 0},
		{9, 0, 540},
		{9, 30, 570},
		{12, 30, 750},
		{18, 30, 1110},
		{23, 59, 1439},
	}
	for _, tt := range tests {
		ts := time.Date(2026, 2, 27, tt.h, tt.m, 42, 0, time.UTC)
		got := timecalc.MinuteOfDay(ts)
		if got != tt.want {
			t.Errorf("MinuteOfDay(%02d:%02d) = %d, want %d", tt.h, tt.m, got, tt.want)
		}
	}
}

func TestClockLabel(t *testing.T) {
	tests := []struct {
		minute int
		want   string
	}{
		{0, "12:00 AM"},
		{540, "9:00 AM"},
		{570, "9:30 AM"},
		{720, "12:00 PM"},
		{870, "2:30 PM"},
		{1110, "6:30 PM"},
	}
	for _, tt := range tests {
		got := timecalc.ClockLabel(tt.minute)
		if got != tt.want {
			t.Errorf("ClockLabel(%d) = %q, want %q", tt.minute, got, tt.want)
		}
	}
}

func TestClock24(t *testing.T) {
	if got := timecalc.Clock24(965); got != "16:05" {
		t.Errorf("Clock24(965) = %q, want %q", got, "16:05")
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}


func TestDateKey(t *testing.T) {
	ts := time.Date(2026, 3, 4, 1, 2, 3, 0, time.UTC)
	if got := timecalc.DateKey(ts); got != "2026-03-04" {
		t.Errorf("DateKey = %q, want %q", got, "2026-03-04")
	}
}
