package model

import (
	"time"

	"github.com/Tiliavir/trivial-attendance/internal/timecalc"
)

// EventType is the category of presence record being marked.
type EventType string

const (
	EventLogin  EventType = "login"
	EventLunch  EventType = "lunch"
	EventTea    EventType = "tea"
	EventLogout EventType = "logout"
)

// EventTypes lists all event types in the order they occur during a day.
var EventTypes = []EventType{EventLogin, EventLunch, EventTea, EventLogout}

// Known reports whether e is one of the four event types.
func (e EventType) Known() bool {
	for _, k := range EventTypes {
		if e == k {
			return true
		}
	}
	return false
}

// MarkStatus is the per-day state of a single event type.
type MarkStatus string

const (
	StatusUnmarked MarkStatus = ""
	// StatusPending is set after local validation passed and before the
	// remote has confirmed the submission.
	StatusPending   MarkStatus = "pending"
	StatusConfirmed MarkStatus = "confirmed"
)

func (s MarkStatus) rank() int {
	switch s {
	case StatusPending:
		return 1
	case StatusConfirmed:
		return 2
	}
	return 0
}

// String returns a display label; the unmarked status is stored as "".
func (s MarkStatus) String() string {
	if s == StatusUnmarked {
		return "unmarked"
	}
	return string(s)
}

// Mark is the recorded state of one event type on one day.
type Mark struct {
	Status MarkStatus `json:"status"`
	// Key is the idempotency key the event was (or is being) submitted with.
	Key       string     `json:"key,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DailyState is the per-day attendance state of the current user. It is the
// top-level structure stored in each daily JSON file.
type DailyState struct {
	Date  string             `json:"date"`
	Marks map[EventType]Mark `json:"marks"`
}

// NewDailyState returns an all-unmarked state for t's calendar day.
func NewDailyState(t time.Time) DailyState {
	return DailyState{Date: timecalc.DateKey(t), Marks: map[EventType]Mark{}}
}

// On returns s if it belongs to now's calendar day, otherwise a fresh
// all-unmarked state. Marks expire at local midnight.
func (s DailyState) On(now time.Time) DailyState {
	if s.Date != timecalc.DateKey(now) {
		return NewDailyState(now)
	}
	if s.Marks == nil {
		s.Marks = map[EventType]Mark{}
	}
	return s
}

// Status returns the status of e; missing entries are unmarked.
func (s DailyState) Status(e EventType) MarkStatus {
	return s.Marks[e].Status
}

// Marked reports whether e has been marked today, pending or confirmed.
func (s DailyState) Marked(e EventType) bool {
	return s.Status(e) != StatusUnmarked
}

// MarkPending records that e passed local validation and is being submitted
// under key. It never lowers an existing status.
func (s *DailyState) MarkPending(e EventType, key string, at time.Time) {
	s.raise(e, Mark{Status: StatusPending, Key: key, UpdatedAt: &at})
}

// Confirm records that the remote accepted e.
func (s *DailyState) Confirm(e EventType, at time.Time) {
	s.raise(e, Mark{Status: StatusConfirmed, Key: s.Marks[e].Key, UpdatedAt: &at})
}

// Merge raises every mark in s to at least the status held in other.
func (s *DailyState) Merge(other DailyState) {
	for e, m := range other.Marks {
		s.raise(e, m)
	}
}

func (s *DailyState) raise(e EventType, m Mark) {
	if s.Marks == nil {
		s.Marks = map[EventType]Mark{}
	}
	if m.Status.rank() <= s.Marks[e].Status.rank() {
		return
	}
	s.Marks[e] = m
}

// RemoteStatus is the "already marked today" report of the attendance API.
// Older deployments omit logoutMarked; it then decodes as false.
type RemoteStatus struct {
	LoginMarked  bool `json:"loginMarked"`
	LunchMarked  bool `json:"lunchMarked"`
	TeaMarked    bool `json:"teaMarked"`
	LogoutMarked bool `json:"logoutMarked,omitempty"`
}

// Marked returns the remote flag for e.
func (r RemoteStatus) Marked(e EventType) bool {
	switch e {
	case EventLogin:
		return r.LoginMarked
	case EventLunch:
		return r.LunchMarked
	case EventTea:
		return r.TeaMarked
	case EventLogout:
		return r.LogoutMarked
	}
	return false
}

// SubmissionUser identifies the user an attendance record belongs to.
type SubmissionUser struct {
	ID string `json:"id"`
}

// Submission is the request body of the attendance add endpoint.
type Submission struct {
	LoginOption        EventType      `json:"loginOption"`
	User               SubmissionUser `json:"user"`
	InstituteName      string         `json:"instituteName"`
	InstituteLatitude  float64        `json:"instituteLatitude"`
	InstituteLongitude float64        `json:"instituteLongitude"`
}
