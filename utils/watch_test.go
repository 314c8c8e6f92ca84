package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReparsesNewSources(t *testing.T) {
	dir := t.TempDir()
	staging := t.TempDir()
	cfg := testConfig(dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outcomes := make(chan Outcome, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cfg, discardLogger(), func(o Outcome) { outcomes <- o })
	}()
	// Give the watcher time to register the directory.
	time.Sleep(200 * time.Millisecond)

	copyFixtures(t, staging, "class_95.as")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))
	require.NoError(t, os.Rename(filepath.Join(staging, "class_95.as"), filepath.Join(dir, "class_95.as")))

	select {
	case o := <-outcomes:
		require.NoError(t, o.Err)
		require.NotNil(t, o.Schema)
		assert.Equal(t, "class_95", o.Schema.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no outcome from watcher")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := Watch(context.Background(), testConfig(filepath.Join(t.TempDir(), "nope")), discardLogger(), func(Outcome) {})
	assert.Error(t, err)
}

func TestWatchCoalescesChunkedWrites(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	data, err := os.ReadFile(filepath.Join("netcode", "testdata", "class_95.as"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outcomes := make(chan Outcome, 8)
	go func() {
		_ = Watch(ctx, cfg, discardLogger(), func(o Outcome) { outcomes <- o })
	}()
	time.Sleep(200 * time.Millisecond)

	f, err := os.Create(filepath.Join(dir, "class_95.as"))
	require.NoError(t, err)
	half := len(data) / 2
	_, err = f.Write(data[:half])
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	time.Sleep(watchDebounce / 5)
	_, err = f.Write(data[half:])
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case o := <-outcomes:
		require.NoError(t, o.Err)
		require.NotNil(t, o.Schema)
		assert.Equal(t, "class_95", o.Schema.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no outcome from watcher")
	}

	select {
	case o := <-outcomes:
		t.Fatalf("unexpected second outcome for %s", o.Source)
	case <-time.After(3 * watchDebounce):
	}
}
