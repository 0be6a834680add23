package attendance

import (
	"fmt"
	"time"

	"github.com/Tiliavir/trivial-attendance/internal/model"
	"github.com/Tiliavir/trivial-attendance/internal/timecalc"
)

// Reason classifies a local validation rejection.
type Reason int

const (
	NoEventTypeSelected Reason = iota + 1
	UnknownEventType
	OutsideWindow
	AlreadyMarked
	// PendingConfirmation is a duplicate of an event whose submission was
	// never confirmed by the server.
	PendingConfirmation
)

func (r Reason) String() string {
	switch r {
	case NoEventTypeSelected:
		return "no event type selected"
	case UnknownEventType:
		return "unknown event type"
	case OutsideWindow:
		return "outside window"
	case AlreadyMarked:
		return "already marked"
	case PendingConfirmation:
		return "pending confirmation"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Rejection is returned when an event may not be recorded right now. No
// state is mutated when it is returned.
type Rejection struct {
	Reason Reason
	Event  model.EventType
	// Rule is set for OutsideWindow, AlreadyMarked and PendingConfirmation.
	Rule    Rule
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

// Initialize builds today's state from the remote status report. Types the
// remote reports as marked are confirmed; all others, including any the
// remote omits, are unmarked.
func Initialize(remote model.RemoteStatus, now time.Time) model.DailyState {
	s := model.NewDailyState(now)
	for _, e := range model.EventTypes {
		if remote.Marked(e) {
			s.Confirm(e, now)
		}
	}
	return s
}

// CheckWindow validates the event type and the clock-time window only.
func CheckWindow(e model.EventType, now time.Time) error {
	if e == "" {
		return &Rejection{Reason: NoEventTypeSelected, Message: "Please select an attendance type."}
	}
	if !e.Known() {
		return &Rejection{
			Reason:  UnknownEventType,
			Event:   e,
			Message: fmt.Sprintf("Unknown attendance type %q (choose login, lunch, tea or logout).", e),
		}
	}
	rule, _ := RuleFor(e)
	if !rule.Contains(timecalc.MinuteOfDay(now)) {
		return &Rejection{Reason: OutsideWindow, Event: e, Rule: rule, Message: rule.Closed}
	}
	return nil
}

// Validate decides whether e may be recorded at now given state. Checks run
// in order: event selected, inside window, not yet marked today. A state that
// belongs to an earlier day counts as all-unmarked. A pending mark blocks a
// new submission like a confirmed one, but is reported as PendingConfirmation
// so the caller can offer a retry instead.
func Validate(e model.EventType, state model.DailyState, now time.Time) error {
	if err := CheckWindow(e, now); err != nil {
		return err
	}
	rule, _ := RuleFor(e)
	switch state.On(now).Status(e) {
	case model.StatusPending:
		return &Rejection{Reason: PendingConfirmation, Event: e, Rule: rule, Message: rule.pendingMessage()}
	case model.StatusConfirmed:
		return &Rejection{Reason: AlreadyMarked, Event: e, Rule: rule, Message: rule.duplicateMessage()}
	}
	return nil
}
