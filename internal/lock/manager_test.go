package lock

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLockTimeout = 200 * time.Millisecond

func TestAcquireReleaseBasic(t *testing.T) {
	m := NewFlockManager()
	path := filepath.Join(t.TempDir(), "file.txt")

	l, err := m.AcquireLock(path, testLockTimeout)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, path, l.FilePath)

	require.NoError(t, m.ReleaseLock(l))
}

func TestAcquireEmptyFilename(t *testing.T) {
	m := NewFlockManager()
	_, err := m.AcquireLock("", testLockTimeout)
	assert.ErrorIs(t, err, ErrFilenameRequired)
}

func TestReleaseNilLock(t *testing.T) {
	m := NewFlockManager()
	assert.ErrorIs(t, m.ReleaseLock(nil), ErrNilLock)
}

func TestSecondAcquirerTimesOut(t *testing.T) {
	m := NewFlockManager()
	path := filepath.Join(t.TempDir(), "contended.txt")

	held, err := m.AcquireLock(path, testLockTimeout)
	require.NoError(t, err)
	defer m.ReleaseLock(held)

	start := time.Now()
	_, err = m.AcquireLock(path, 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestReacquireAfterRelease(t *testing.T) {
	m := NewFlockManager()
	path := filepath.Join(t.TempDir(), "file.txt")

	first, err := m.AcquireLock(path, testLockTimeout)
	require.NoError(t, err)
	require.NoError(t, m.ReleaseLock(first))

	second, err := m.AcquireLock(path, testLockTimeout)
	require.NoError(t, err)
	require.NoError(t, m.ReleaseLock(second))
}
