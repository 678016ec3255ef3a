// Package lockfile provides advisory file locking for lore's single-host
// concurrency model (spec.md §5): writers serialize on a per-store lock
// file, readers never block.
package lockfile

import (
	"errors"
	"os"
)

// ErrLocked is returned when a non-blocking lock cannot be acquired
// because another process already holds it.
var ErrLocked = errors.New("lock busy: held by another process")

// IsLocked reports whether err indicates a lock held by another process.
func IsLocked(err error) bool {
	return errors.Is(err, ErrLocked)
}

// Lock represents an acquired advisory lock on a file. Release it with
// Unlock once the protected section is done.
type Lock struct {
	f *os.File
}

// AcquireExclusive opens (creating if necessary) the lock file at path and
// blocks until an exclusive lock is held. Callers must call Unlock.
func AcquireExclusive(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := flockExclusiveBlocking(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Lock{f: f}, nil
}

// TryAcquireExclusive is the non-blocking variant; it returns ErrLocked if
// another process already holds the lock.
func TryAcquireExclusive(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := flockExclusiveNonBlocking(f); err != nil {
		_ = f.Close()
		if errors.Is(err, errWouldBlock) {
			return nil, ErrLocked
		}
		return nil, err
	}
	return &Lock{f: f}, nil
}

// Unlock releases the lock and closes the underlying file descriptor.
func (l *Lock) Unlock() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := flockUnlock(l.f)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	return err
}
