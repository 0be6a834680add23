package storage_test

import (
	"errors"
	"testing"

	"github.com/Tiliavir/trivial-attendance/internal/storage"
)

func TestLockExclusive(t *testing.T) {
	base := t.TempDir()

	release, err := storage.Lock(base)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	if _, err := storage.Lock(base); !errors.Is(err, storage.ErrLocked) {
		t.Fatalf("second Lock error = %v, want ErrLocked", err)
	}

	release()
	again, err := storage.Lock(base)
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	again()
}
