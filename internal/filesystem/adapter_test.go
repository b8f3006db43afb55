package filesystem

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileBytes(t *testing.T) {
	fs := NewOSAdapter()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	content, err := fs.ReadFileBytes(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello\n"), content)

	_, err = fs.ReadFileBytes(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileBytesAtomic(t *testing.T) {
	fs := NewOSAdapter()
	dir := t.TempDir()
	path := filepath.Join(dir, "b.txt")

	require.NoError(t, fs.WriteFileBytesAtomic(path, []byte("first\n"), 0o644))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(content))

	// Overwrite goes through the same temp+rename path.
	require.NoError(t, fs.WriteFileBytesAtomic(path, []byte("second\n"), 0o644))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(content))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileExists(t *testing.T) {
	fs := NewOSAdapter()
	dir := t.TempDir()
	path := filepath.Join(dir, "c.txt")

	exists, err := fs.FileExists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	exists, err = fs.FileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGetFileStats(t *testing.T) {
	fs := NewOSAdapter()
	dir := t.TempDir()
	path := filepath.Join(dir, "d.txt")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	stats, err := fs.GetFileStats(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Size)
	assert.False(t, stats.IsDir)
}

func TestMkdirAll(t *testing.T) {
	fs := NewOSAdapter()
	dir := t.TempDir()
	nested := filepath.Join(dir, "x", "y", "z")

	require.NoError(t, fs.MkdirAll(nested, 0o755))
	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEvalSymlinksResolvesLink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks not reliable on windows")
	}
	fs := NewOSAdapter()
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(target, 0o755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	resolved, err := fs.EvalSymlinks(link)
	require.NoError(t, err)

	wantTarget, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, wantTarget, resolved)
}

func TestCheckDirectoryIsWritable(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, CheckDirectoryIsWritable(dir))

	assert.Error(t, CheckDirectoryIsWritable(filepath.Join(dir, "missing")))

	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.Error(t, CheckDirectoryIsWritable(file))
}
