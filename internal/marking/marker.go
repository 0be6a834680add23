// Package marking records attendance events: it refreshes today's state
// from the API, validates a requested event locally, submits it and keeps
// the local day file in step with the outcome.
package marking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tiliavir/trivial-attendance/internal/attendance"
	"github.com/Tiliavir/trivial-attendance/internal/model"
	"github.com/Tiliavir/trivial-attendance/internal/session"
	"github.com/Tiliavir/trivial-attendance/internal/storage"
)

var (
	// ErrInFlight is returned while another action is being submitted, by
	// this Marker or by another process sharing the data directory.
	ErrInFlight = errors.New("an attendance submission is already in progress")
	// ErrNothingPending is returned by Retry when the event has no
	// unconfirmed submission today.
	ErrNothingPending = errors.New("nothing pending to retry")
)

// Remote is the attendance API as used by the Marker.
type Remote interface {
	FetchStatus(ctx context.Context) (model.RemoteStatus, error)
	Submit(ctx context.Context, sub model.Submission, key string) (string, error)
}

// Result describes a recorded event.
type Result struct {
	Event   model.EventType
	Message string
	State   model.DailyState
}

// Marker owns the current user's daily attendance state.
type Marker struct {
	Base        string
	Remote      Remote
	Credentials session.Credentials
	Logger      *zap.Logger
	// Now and NewKey are replaceable for tests.
	Now    func() time.Time
	NewKey func() string

	mu   sync.Mutex
	busy bool
}

// New returns a Marker storing day files under base.
func New(base string, remote Remote, creds session.Credentials, logger *zap.Logger) *Marker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Marker{
		Base:        base,
		Remote:      remote,
		Credentials: creds,
		Logger:      logger,
		Now:         time.Now,
		NewKey:      uuid.NewString,
	}
}

// begin acquires the re-entrancy guard and the data directory's action lock.
// The returned function releases both.
func (m *Marker) begin() (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return nil, ErrInFlight
	}
	release, err := storage.Lock(m.Base)
	if errors.Is(err, storage.ErrLocked) {
		return nil, ErrInFlight
	}
	if err != nil {
		return nil, err
	}
	m.busy = true
	return func() {
		m.mu.Lock()
		m.busy = false
		m.mu.Unlock()
		release()
	}, nil
}

// Today returns the local state for the current day.
func (m *Marker) Today() (model.DailyState, error) {
	return storage.LoadDay(m.Base, m.Now())
}

// Refresh seeds today's state from the API. A failed fetch is logged and
// treated as "nothing marked remotely"; local marks are never lowered.
func (m *Marker) Refresh(ctx context.Context) (model.DailyState, error) {
	now := m.Now()

	remote, fetchErr := m.Remote.FetchStatus(ctx)
	if fetchErr != nil {
		m.Logger.Warn("attendance status fetch failed", zap.Error(fetchErr))
		remote = model.RemoteStatus{}
	}
	state := attendance.Initialize(remote, now)

	local, err := storage.LoadDay(m.Base, now)
	if err != nil {
		return model.DailyState{}, err
	}
	state.Merge(local)

	release, err := storage.Lock(m.Base)
	if errors.Is(err, storage.ErrLocked) {
		// An action in progress owns the day file; it is saved again then.
		m.Logger.Debug("attendance state not saved, action in progress", zap.String("date", state.Date))
		return state, nil
	}
	if err != nil {
		return model.DailyState{}, err
	}
	defer release()
	if err := storage.SaveDay(m.Base, state); err != nil {
		return model.DailyState{}, err
	}
	m.Logger.Debug("attendance state refreshed",
		zap.String("date", state.Date),
		zap.Bool("remote_ok", fetchErr == nil),
	)
	return state, nil
}

// Mark validates and submits e. On a passed validation the event is stored
// as pending before submission; a failed submission leaves it pending so
// Retry can resubmit it.
func (m *Marker) Mark(ctx context.Context, e model.EventType) (Result, error) {
	end, err := m.begin()
	if err != nil {
		return Result{}, err
	}
	defer end()

	now := m.Now()
	if err := session.Check(m.Credentials, now); err != nil {
		m.Logger.Info("attendance action aborted", zap.String("event", string(e)), zap.Error(err))
		return Result{}, err
	}

	state, err := storage.LoadDay(m.Base, now)
	if err != nil {
		return Result{}, err
	}
	if err := attendance.Validate(e, state, now); err != nil {
		m.Logger.Debug("attendance rejected", zap.String("event", string(e)), zap.Error(err))
		return Result{State: state}, err
	}

	key := m.NewKey()
	state.MarkPending(e, key, now)
	if err := storage.SaveDay(m.Base, state); err != nil {
		return Result{}, err
	}

	return m.submit(ctx, e, key, state)
}

// Retry resubmits a pending event with its original idempotency key. The
// event's window is checked again; the duplicate check is not, since the
// pending mark is the one being completed.
func (m *Marker) Retry(ctx context.Context, e model.EventType) (Result, error) {
	end, err := m.begin()
	if err != nil {
		return Result{}, err
	}
	defer end()

	now := m.Now()
	if err := session.Check(m.Credentials, now); err != nil {
		return Result{}, err
	}

	state, err := storage.LoadDay(m.Base, now)
	if err != nil {
		return Result{}, err
	}
	if state.Status(e) != model.StatusPending {
		return Result{State: state}, fmt.Errorf("%s: %w", e, ErrNothingPending)
	}
	if err := attendance.CheckWindow(e, now); err != nil {
		return Result{State: state}, err
	}
	return m.submit(ctx, e, state.Marks[e].Key, state)
}

func (m *Marker) submit(ctx context.Context, e model.EventType, key string, state model.DailyState) (Result, error) {
	sub := attendance.BuildSubmission(e, m.Credentials.UserID)
	msg, err := m.Remote.Submit(ctx, sub, key)
	if err != nil {
		m.Logger.Warn("attendance submission failed",
			zap.String("event", string(e)),
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
		return Result{Event: e, State: state}, err
	}

	state.Confirm(e, m.Now())
	if err := storage.SaveDay(m.Base, state); err != nil {
		return Result{Event: e, Message: msg, State: state}, fmt.Errorf("attendance recorded but local state not saved: %w", err)
	}
	m.Logger.Debug("attendance confirmed", zap.String("event", string(e)), zap.String("idempotency_key", key))
	return Result{Event: e, Message: msg, State: state}, nil
}
