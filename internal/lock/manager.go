// Package lock serializes writers on a file via OS-level advisory locks.
// The lock file is a ".lock" sibling of the target, so editing a file never
// requires opening the file itself for locking.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

var (
	// ErrLockTimeout is returned when acquiring a lock times out.
	ErrLockTimeout = fmt.Errorf("timeout acquiring lock")
	// ErrFilenameRequired is returned when a filename is empty.
	ErrFilenameRequired = fmt.Errorf("filename is required")
	// ErrNilLock is returned when a nil lock handle is passed to ReleaseLock.
	ErrNilLock = fmt.Errorf("nil lock handle")
)

// shortPollInterval is how often a blocked acquirer retries the flock.
const shortPollInterval = 10 * time.Millisecond

// FileLock is a held advisory lock for a file.
type FileLock struct {
	FilePath string
	flock    *flock.Flock
}

// Manager acquires and releases per-file advisory locks.
type Manager interface {
	AcquireLock(filename string, timeout time.Duration) (*FileLock, error)
	ReleaseLock(lock *FileLock) error
}

// FlockManager implements Manager on top of gofrs/flock.
type FlockManager struct{}

// NewFlockManager initializes and returns a new FlockManager.
func NewFlockManager() *FlockManager {
	return &FlockManager{}
}

var _ Manager = (*FlockManager)(nil)

// AcquireLock attempts to acquire an exclusive OS-level lock for the given
// file, polling until it succeeds or the timeout elapses.
func (m *FlockManager) AcquireLock(filename string, timeout time.Duration) (*FileLock, error) {
	if filename == "" {
		return nil, ErrFilenameRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fileLock := flock.New(filename + ".lock")
	locked, err := fileLock.TryLockContext(ctx, shortPollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLockTimeout
		}
		return nil, fmt.Errorf("error acquiring file lock for %s: %w", filename, err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}

	return &FileLock{FilePath: filename, flock: fileLock}, nil
}

// ReleaseLock releases the given OS-level lock.
func (m *FlockManager) ReleaseLock(lock *FileLock) error {
	if lock == nil {
		return ErrNilLock
	}
	if lock.flock != nil {
		_ = lock.flock.Unlock()
	}
	return nil
}
