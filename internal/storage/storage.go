package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/trivial-attendance/internal/model"
)

// BaseDir returns the root data directory (~/.att).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".att"), nil
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, "days", t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the DailyState for the given date. Returns an all-unmarked
// state if not found.
func LoadDay(base string, t time.Time) (model.DailyState, error) {
	path := dayFilePath(base, t)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.NewDailyState(t), nil
	}
	if err != nil {
		return model.DailyState{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var ds model.DailyState
	if err := json.Unmarshal(data, &ds); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DailyState{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	// A file whose date does not match its path is treated as foreign.
	return ds.On(t), nil
}

// SaveDay atomically writes the DailyState under the day named by its Date.
func SaveDay(base string, ds model.DailyState) error {
	day, err := time.ParseInLocation("2006-01-02", ds.Date, time.Local)
	if err != nil {
		return fmt.Errorf("storage error: invalid state date %q: %w", ds.Date, err)
	}
	path := dayFilePath(base, day)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// LoadRange loads the states of all days in [from, to] inclusive that have a
// file on disk, oldest first.
func LoadRange(base string, from, to time.Time) ([]model.DailyState, error) {
	var days []model.DailyState
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if _, err := os.Stat(dayFilePath(base, d)); os.IsNotExist(err) {
			continue
		}
		ds, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		days = append(days, ds)
	}
	return days, nil
}
