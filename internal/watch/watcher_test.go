package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestWatcher_TriggersMergeOnInputChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "chart.html")
	require.NoError(t, os.WriteFile(input, []byte(`var spec = {"a": 1};`), 0644))

	var merges atomic.Int32
	w, err := New([]string{input}, func() error {
		merges.Add(1)
		return nil
	}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(input, []byte(`var spec = {"a": 2};`), 0644))

	require.Eventually(t, func() bool {
		return merges.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond, "merge was not triggered after input change")

	stats := w.GetStats()
	assert.GreaterOrEqual(t, stats.EventsSeen, 1)
	assert.GreaterOrEqual(t, stats.MergesTriggered, 1)
	assert.Equal(t, input, stats.LastEventPath)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "chart.html")
	require.NoError(t, os.WriteFile(input, []byte(`var spec = {};`), 0644))

	var merges atomic.Int32
	w, err := New([]string{input}, func() error {
		merges.Add(1)
		return nil
	}, nil)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// A sibling file in the watched directory must not trigger a merge.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	time.Sleep(1 * time.Second)
	assert.Equal(t, int32(0), merges.Load())
	assert.Equal(t, 0, w.GetStats().EventsSeen)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "chart.html")
	require.NoError(t, os.WriteFile(input, []byte(`var spec = {};`), 0644))

	w, err := New([]string{input}, func() error { return nil }, nil)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsWatching())

	w.Stop()
	assert.False(t, w.IsWatching())
	w.Stop() // second Stop must not panic or block
}

func TestWatcher_CoalescesRapidWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "chart.html")
	require.NoError(t, os.WriteFile(input, []byte(`var spec = {"n": 0};`), 0644))

	var merges atomic.Int32
	w, err := New([]string{input}, func() error {
		merges.Add(1)
		return nil
	}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// A burst of writes inside the debounce window settles into one merge.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(input, []byte(`var spec = {"n": 1};`), 0644))
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return merges.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond)

	// Give the loop a chance to misbehave before asserting it did not.
	time.Sleep(1 * time.Second)
	assert.Equal(t, int32(1), merges.Load())
}

func TestWatcher_SessionID(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "chart.html")
	require.NoError(t, os.WriteFile(input, []byte(`var spec = {};`), 0644))

	w1, err := New([]string{input}, func() error { return nil }, nil)
	require.NoError(t, err)
	w2, err := New([]string{input}, func() error { return nil }, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, w1.SessionID())
	assert.NotEqual(t, w1.SessionID(), w2.SessionID())

	// Neither watcher was started; Close the underlying notifiers directly.
	require.NoError(t, w1.watcher.Close())
	require.NoError(t, w2.watcher.Close())
}
