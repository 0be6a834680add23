// Package attendance decides whether an attendance event may be recorded at
// a given time, independently of the network.
package attendance

import (
	"fmt"

	"github.com/Tiliavir/trivial-attendance/internal/model"
	"github.com/Tiliavir/trivial-attendance/internal/timecalc"
)

// Rule is the inclusive clock-time window during which an event type may be
// marked.
type Rule struct {
	Event model.EventType
	// Start and End are minutes of day, both inclusive.
	Start int
	End   int
	// Title names the event in listings, Noun in duplicate and pending
	// messages.
	Title string
	Noun  string
	// Closed is shown when the event is requested outside its window.
	Closed string
}

// Contains reports whether minute lies within the window.
func (r Rule) Contains(minute int) bool {
	return minute >= r.Start && minute <= r.End
}

// Span returns the window as "9:00 AM–9:30 AM".
func (r Rule) Span() string {
	return timecalc.ClockLabel(r.Start) + "–" + timecalc.ClockLabel(r.End)
}

func (r Rule) duplicateMessage() string {
	return fmt.Sprintf("You have already marked your %s for today.", r.Noun)
}

func (r Rule) pendingMessage() string {
	return fmt.Sprintf("Your %s is pending confirmation.", r.Noun)
}

var rules = []Rule{
	{
		Event: model.EventLogin, Start: 540, End: 570,
		Title: "Morning login", Noun: "morning login",
		Closed: "Morning login is only available between 9:00 AM and 9:30 AM.",
	},
	{
		Event: model.EventLunch, Start: 750, End: 870,
		Title: "Lunch attendance", Noun: "lunch",
		Closed: "Lunch attendance can only be marked between 12:30 PM and 2:30 PM.",
	},
	{
		Event: model.EventTea, Start: 960, End: 1020,
		Title: "Tea attendance", Noun: "tea break",
		Closed: "Tea attendance can only be marked between 4:00 PM and 5:00 PM.",
	},
	{
		Event: model.EventLogout, Start: 1080, End: 1110,
		Title: "Logout attendance", Noun: "logout",
		Closed: "Logout attendance can only be marked between 6:00 PM and 6:30 PM.",
	},
}

// Rules returns a copy of the window table in day order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// RuleFor returns the window for e.
func RuleFor(e model.EventType) (Rule, bool) {
	for _, r := range rules {
		if r.Event == e {
			return r, true
		}
	}
	return Rule{}, false
}
