package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/trivial-attendance/internal/api"
	"github.com/Tiliavir/trivial-attendance/internal/attendance"
	"github.com/Tiliavir/trivial-attendance/internal/marking"
	"github.com/Tiliavir/trivial-attendance/internal/model"
	"github.com/Tiliavir/trivial-attendance/internal/session"
	"github.com/Tiliavir/trivial-attendance/internal/timecalc"
)

func TestAvailability(t *testing.T) {
	login, _ := attendance.RuleFor(model.EventLogin)
	day := func(h, m int) time.Time { return time.Date(2026, 2, 27, h, m, 0, 0, time.UTC) }

	fresh := model.NewDailyState(day(0, 0))
	pending := model.NewDailyState(day(0, 0))
	pending.MarkPending(model.EventLogin, "k", day(9, 1))
	confirmed := model.NewDailyState(day(0, 0))
	confirmed.Confirm(model.EventLogin, day(9, 1))

	tests := []struct {
		name  string
		state model.DailyState
		now   time.Time
		want  string
	}{
		{"before", fresh, day(8, 0), "opens at 9:00 AM"},
		{"open", fresh, day(9, 10), "open until 9:30 AM (att mark login)"},
		{"missed", fresh, day(10, 0), "missed"},
		{"pending", pending, day(10, 0), "… pending (att retry login)"},
		{"confirmed", confirmed, day(9, 10), "✓ marked"},
		{"confirmed yesterday", confirmed, day(9, 10).AddDate(0, 0, 1), "open until 9:30 AM (att mark login)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := availability(login, tt.state, tt.now); got != tt.want {
				t.Errorf("availability = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDayLine(t *testing.T) {
	at := time.Date(2026, 2, 27, 9, 5, 0, 0, time.UTC)
	d := model.NewDailyState(at)
	d.Confirm(model.EventLogin, at)
	d.MarkPending(model.EventLunch, "k", at)

	want := "2026-02-27  login ✓  lunch …  tea ·  logout ·"
	if got := dayLine(d); got != want {
		t.Errorf("dayLine = %q, want %q", got, want)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{session.ErrTokenExpired, "Session expired. Please log in again."},
		{api.ErrSessionExpired, "Session expired. Please log in again."},
		{fmt.Errorf("%w (bad segment)", session.ErrTokenInvalid), "Invalid session. Please log in again."},
		{&api.SubmissionError{StatusCode: 500, Message: "db down"}, "Attendance marking failed: db down"},
		{&attendance.Rejection{Reason: attendance.AlreadyMarked, Message: "You have already marked your lunch for today."}, "You have already marked your lunch for today."},
		{errors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		if got := userMessage(tt.err); got != tt.want {
			t.Errorf("userMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
	if got := userMessage(session.ErrNoToken); !strings.HasPrefix(got, "Please log in again.") {
		t.Errorf("userMessage(ErrNoToken) = %q", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{session.ErrNoToken, 1},
		{api.ErrSessionExpired, 1},
		{marking.ErrInFlight, 1},
		{fmt.Errorf("login: %w", marking.ErrNothingPending), 1},
		{&attendance.Rejection{Reason: attendance.OutsideWindow}, 1},
		{&api.SubmissionError{}, 1},
		{&api.Error{Op: "list users", StatusCode: 403}, 1},
		{errors.New("storage error writing temp file"), 2},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		in   string
		want model.EventType
	}{
		{"login", model.EventLogin},
		{" Morning ", model.EventLogin},
		{"LUNCH", model.EventLunch},
		{"tea-break", model.EventTea},
		{"out", model.EventLogout},
		{"", ""},
		{"nap", "nap"},
	}
	for _, tt := range tests {
		if got := parseEvent(tt.in); got != tt.want {
			t.Errorf("parseEvent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskToken(t *testing.T) {
	if got := maskToken("short"); got != "****" {
		t.Errorf("maskToken(short) = %q", got)
	}
	if got := maskToken("eyJhbGciOi.payload.signature"); got != "eyJh…ture" {
		t.Errorf("maskToken = %q", got)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if got := confirm(strings.NewReader(tt.input), &out, "Delete?"); got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.HasPrefix(out.String(), "Delete? [y/N] ") {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestBuildReport(t *testing.T) {
	at := time.Date(2026, 2, 23, 9, 5, 0, 0, time.UTC)
	mon := model.NewDailyState(at)
	mon.Confirm(model.EventLogin, at)
	mon.MarkPending(model.EventLunch, "k", at)
	tue := model.NewDailyState(at.AddDate(0, 0, 1))
	tue.Confirm(model.EventLogin, at)

	r := buildReport("2026-W09", []model.DailyState{mon, tue})
	if r.Days != 2 {
		t.Errorf("Days = %d, want 2", r.Days)
	}
	if r.Confirmed[model.EventLogin] != 2 || r.Pending[model.EventLunch] != 1 || r.Confirmed[model.EventTea] != 0 {
		t.Errorf("report = %+v", r)
	}
}

func TestPrintUsers(t *testing.T) {
	var buf bytes.Buffer
	printUsers(&buf, []model.User{{ID: "1", Name: "Asha", Email: "asha@example.com"}})
	out := buf.String()
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "asha@example.com") {
		t.Errorf("printUsers output = %q", out)
	}

	buf.Reset()
	printUsers(&buf, nil)
	if buf.String() != "No users found.\n" {
		t.Errorf("printUsers(nil) = %q", buf.String())
	}
}

func TestPrintWindows(t *testing.T) {
	var buf bytes.Buffer
	printWindows(&buf)
	for _, want := range []string{"login", "09:00", "09:30", "logout", "18:30"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("printWindows output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestHistoryRange(t *testing.T) {
	wed := time.Date(2026, 2, 25, 14, 0, 0, 0, time.UTC)
	dayFrom := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)
	dayTo := time.Date(2026, 2, 25, 23, 59, 59, 0, time.UTC)
	weekFrom, weekTo := timecalc.WeekRange(wed)

	tests := []struct {
		name        string
		today, week bool
		from, to    time.Time
	}{
		{"bare", false, false, dayFrom, dayTo},
		{"today", true, false, dayFrom, dayTo},
		{"week", false, true, weekFrom, weekTo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := historyRange(tt.today, tt.week, wed)
			if !from.Equal(tt.from) || !to.Equal(tt.to) {
				t.Errorf("historyRange = %v..%v, want %v..%v", from, to, tt.from, tt.to)
			}
		})
	}
}

func TestRetryHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"pending rejection", &attendance.Rejection{Reason: attendance.PendingConfirmation},
			`Run "att retry login" to resubmit it.`},
		{"submission failure", &api.SubmissionError{StatusCode: 503, Message: "down"},
			`The login mark is kept as pending. Run "att retry login" to resubmit it.`},
		{"remote session expired", fmt.Errorf("submit: %w", api.ErrSessionExpired),
			`The login mark is kept as pending. After logging in again, run "att retry login" to resubmit it.`},
		{"already marked", &attendance.Rejection{Reason: attendance.AlreadyMarked}, ""},
		{"local token expired", session.ErrTokenExpired, ""},
		{"storage", errors.New("disk full"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryHint(tt.err, model.EventLogin); got != tt.want {
				t.Errorf("retryHint = %q, want %q", got, tt.want)
			}
		})
	}
}
