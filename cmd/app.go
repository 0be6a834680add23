package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-attendance/internal/api"
	"github.com/Tiliavir/trivial-attendance/internal/attendance"
	"github.com/Tiliavir/trivial-attendance/internal/config"
	"github.com/Tiliavir/trivial-attendance/internal/marking"
	"github.com/Tiliavir/trivial-attendance/internal/model"
	"github.com/Tiliavir/trivial-attendance/internal/session"
	"github.com/Tiliavir/trivial-attendance/internal/storage"
)

// app bundles what every command needs: configuration, the data directory
// and the current credentials.
type app struct {
	cfg   config.Config
	base  string
	creds session.Credentials
}

// loadApp exits with status 2 when configuration or the data directory is
// unusable.
func loadApp() app {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	creds, err := session.Load(session.FilePath(base))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		creds = session.Credentials{}
	}
	if cfg.Token != "" {
		creds.Token = cfg.Token
	}
	if cfg.UserID != "" {
		creds.UserID = cfg.UserID
	}
	return app{cfg: cfg, base: base, creds: creds}
}

func (a app) now() time.Time {
	return time.Now().In(a.cfg.Location())
}

func (a app) client(ctx context.Context) *api.Client {
	return api.NewClient(ctx, a.cfg.API.BaseURL, a.creds.Token)
}

func (a app) marker(ctx context.Context) *marking.Marker {
	m := marking.New(a.base, a.client(ctx), a.creds, logger)
	m.Now = a.now
	return m
}

// parseEvent accepts the event names along with a few spoken aliases.
func parseEvent(s string) model.EventType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning", "morning-login", "in":
		return model.EventLogin
	case "tea-break", "teabreak", "break":
		return model.EventTea
	case "out", "evening":
		return model.EventLogout
	}
	return model.EventType(strings.ToLower(strings.TrimSpace(s)))
}

// userMessage turns an action failure into the text shown to the user.
func userMessage(err error) string {
	var rej *attendance.Rejection
	var subErr *api.SubmissionError
	switch {
	case errors.Is(err, session.ErrNoToken):
		return "Please log in again.\nStore your session with: att session set --token <token> --user <id>"
	case errors.Is(err, session.ErrTokenExpired), errors.Is(err, api.ErrSessionExpired):
		return "Session expired. Please log in again."
	case errors.Is(err, session.ErrTokenInvalid):
		return "Invalid session. Please log in again."
	case errors.As(err, &rej):
		return rej.Message
	case errors.As(err, &subErr):
		return subErr.Error()
	}
	return err.Error()
}

// exitCode is 1 for failures the user can act on and 2 for local faults.
func exitCode(err error) int {
	var rej *attendance.Rejection
	var subErr *api.SubmissionError
	var apiErr *api.Error
	switch {
	case errors.Is(err, session.ErrNoToken),
		errors.Is(err, session.ErrTokenExpired),
		errors.Is(err, session.ErrTokenInvalid),
		errors.Is(err, api.ErrSessionExpired),
		errors.Is(err, marking.ErrInFlight),
		errors.Is(err, marking.ErrNothingPending),
		errors.As(err, &rej),
		errors.As(err, &subErr),
		errors.As(err, &apiErr):
		return 1
	}
	return 2
}

// fail prints err the way the user should read it and exits.
func fail(err error) {
	fmt.Fprintln(os.Stderr, userMessage(err))
	os.Exit(exitCode(err))
}

// retryHint tells the user how to complete e when err left it pending. It is
// empty for errors that leave nothing to resubmit.
func retryHint(err error, e model.EventType) string {
	var rej *attendance.Rejection
	var subErr *api.SubmissionError
	switch {
	case errors.As(err, &rej):
		if rej.Reason != attendance.PendingConfirmation {
			return ""
		}
		return fmt.Sprintf("Run \"att retry %s\" to resubmit it.", e)
	case errors.As(err, &subErr):
		return fmt.Sprintf("The %s mark is kept as pending. Run \"att retry %s\" to resubmit it.", e, e)
	case errors.Is(err, api.ErrSessionExpired):
		return fmt.Sprintf("The %s mark is kept as pending. After logging in again, run \"att retry %s\" to resubmit it.", e, e)
	}
	return ""
}

// failPending is fail with the retry hint for e appended when one applies.
func failPending(err error, e model.EventType) {
	fmt.Fprintln(os.Stderr, userMessage(err))
	if hint := retryHint(err, e); hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
	os.Exit(exitCode(err))
}
