package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_CoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>one</p>"), 0o644))

	w, err := New()
	require.NoError(t, err)
	w.Debounce = 50 * time.Millisecond
	defer w.Stop()

	var calls atomic.Int32
	require.NoError(t, w.Watch(path, func(string) { calls.Add(1) }))

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("<p>two</p>"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.html")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := New()
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond
	defer w.Stop()

	var calls atomic.Int32
	require.NoError(t, w.Watch(path, func(string) { calls.Add(1) }))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.html"), []byte("x"), 0o644))

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
