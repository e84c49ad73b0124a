package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for SourceWatcher:
// - NewSourceWatcher rejects an empty file list
// - NewSourceWatcher fails when the parent directory does not exist
// - Writing the tracked file fires the callback after debounce
// - Rapid writes are coalesced into one callback
// - Changes to untracked files in the same directory are ignored
// - Replacing the file via rename still fires
// - Stop is idempotent and safe without Start

const testDebounce = 50 * time.Millisecond

type callbackRecorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *callbackRecorder) record(files []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, files)
}

func (r *callbackRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *callbackRecorder) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func setupSource(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	source := filepath.Join(dir, "Example.swift")
	require.NoError(t, os.WriteFile(source, []byte("func f() {}\n"), 0644))

	abs, err := filepath.Abs(source)
	require.NoError(t, err)
	return dir, abs
}

func TestNewSourceWatcher_NoFiles(t *testing.T) {
	t.Parallel()

	w, err := NewSourceWatcher(nil, testDebounce)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestNewSourceWatcher_MissingDirectory(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing", "Example.swift")
	w, err := NewSourceWatcher([]string{missing}, testDebounce)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestSourceWatcher_WriteFiresCallback(t *testing.T) {
	t.Parallel()

	_, source := setupSource(t)
	w, err := NewSourceWatcher([]string{source}, testDebounce)
	require.NoError(t, err)
	defer w.Stop()

	rec := &callbackRecorder{}
	require.NoError(t, w.Start(context.Background(), rec.record))

	require.NoError(t, os.WriteFile(source, []byte("func g() {}\n"), 0644))

	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{source}, rec.last())
}

func TestSourceWatcher_CoalescesRapidWrites(t *testing.T) {
	t.Parallel()

	_, source := setupSource(t)
	w, err := NewSourceWatcher([]string{source}, 200*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	rec := &callbackRecorder{}
	require.NoError(t, w.Start(context.Background(), rec.record))

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(source, []byte{byte('a' + i)}, 0644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestSourceWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir, source := setupSource(t)
	w, err := NewSourceWatcher([]string{source}, testDebounce)
	require.NoError(t, err)
	defer w.Stop()

	rec := &callbackRecorder{}
	require.NoError(t, w.Start(context.Background(), rec.record))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Other.swift"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Example.sil"), []byte("x"), 0644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestSourceWatcher_RenameOverSource(t *testing.T) {
	t.Parallel()

	dir, source := setupSource(t)
	w, err := NewSourceWatcher([]string{source}, testDebounce)
	require.NoError(t, err)
	defer w.Stop()

	rec := &callbackRecorder{}
	require.NoError(t, w.Start(context.Background(), rec.record))

	tmp := filepath.Join(dir, ".Example.swift.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("func h() {}\n"), 0644))
	require.NoError(t, os.Rename(tmp, source))

	require.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{source}, rec.last())
}

func TestSourceWatcher_StopIdempotent(t *testing.T) {
	t.Parallel()

	_, source := setupSource(t)

	w, err := NewSourceWatcher([]string{source}, testDebounce)
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())

	w, err = NewSourceWatcher([]string{source}, testDebounce)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), func([]string) {}))
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
