package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by Lock when another holder has the action lock.
var ErrLocked = errors.New("data directory is locked by another att process")

// Lock takes the exclusive action lock under base without waiting and returns
// its release function. The operating system drops the lock when the holding
// process exits, so a crash never leaves it stale.
func Lock(base string) (func(), error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("storage error creating %s: %w", base, err)
	}
	fl := flock.New(filepath.Join(base, "action.lock"))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("storage error locking %s: %w", fl.Path(), err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() { _ = fl.Unlock() }, nil
}
