package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfrontapp/shopfront/internal/logger"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := New(path, 50*time.Millisecond, logger.NewTest())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = w.Start(ctx) }()

	return w
}

func waitForChange(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case path := <-w.Changes():
		return path
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
		return ""
	}
}

func TestWatcherReportsWrite(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "inventory.csv")
	require.NoError(t, os.WriteFile(csv, []byte("sku,title\n"), 0644))

	w := startWatcher(t, csv)

	require.NoError(t, os.WriteFile(csv, []byte("sku,title\nW-1,Widget\n"), 0644))

	assert.Equal(t, csv, waitForChange(t, w))
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "inventory.csv")
	require.NoError(t, os.WriteFile(csv, []byte("a\n"), 0644))

	w := startWatcher(t, csv)

	// Rapid successive writes collapse into one settled change.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(csv, []byte("a\nb\n"), 0644))
		time.Sleep(5 * time.Millisecond)
	}

	waitForChange(t, w)

	select {
	case <-w.Changes():
		t.Error("expected a single settled change for a burst of writes")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherReportsReplace(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "inventory.csv")
	require.NoError(t, os.WriteFile(csv, []byte("old\n"), 0644))

	w := startWatcher(t, csv)

	// Export tools write a temp file and rename it over the target.
	tmp := filepath.Join(dir, "inventory.csv.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("new\n"), 0644))
	require.NoError(t, os.Rename(tmp, csv))

	assert.Equal(t, csv, waitForChange(t, w))
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "inventory.csv")
	require.NoError(t, os.WriteFile(csv, []byte("a\n"), 0644))

	w := startWatcher(t, csv)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x\n"), 0644))

	select {
	case <-w.Changes():
		t.Error("change reported for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
