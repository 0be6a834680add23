package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity errors. Each aborts the current action before anything is
// validated or submitted.
var (
	ErrNoToken      = errors.New("no session token")
	ErrTokenExpired = errors.New("session token expired")
	ErrTokenInvalid = errors.New("invalid session token")
)

// Credentials are the bearer token and user identifier issued by the login
// service. They are stored as-is; this package never issues or renews them.
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// FilePath returns the path to the stored credentials under base.
func FilePath(base string) string {
	return filepath.Join(base, "auth", "session.json")
}

// Load reads credentials from path. A missing file yields empty credentials.
func Load(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("reading session file: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("corrupt session file (delete %s to log in again): %w", path, err)
	}
	return c, nil
}

// Save persists credentials to path with owner-only permissions.
func Save(path string, c Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling session: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving session file: %w", err)
	}
	return nil
}

// Clear removes the stored credentials. Removing a missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Expiry decodes the token's exp claim without verifying its signature. The
// zero time is returned when the token carries no exp claim.
func Expiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether token's exp claim lies before now. Tokens
// without an exp claim never expire.
func IsExpired(token string, now time.Time) (bool, error) {
	exp, err := Expiry(token)
	if err != nil {
		return false, err
	}
	return !exp.IsZero() && exp.Before(now), nil
}

// Check reports whether c can be used at now.
func Check(c Credentials, now time.Time) error {
	if c.Token == "" {
		return ErrNoToken
	}
	expired, err := IsExpired(c.Token, now)
	if err != nil {
		return fmt.Errorf("%w (%v)", ErrTokenInvalid, err)
	}
	if expired {
		return ErrTokenExpired
	}
	return nil
}
