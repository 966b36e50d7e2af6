package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_SignalsOnGrammarWrite(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{Dirs: []string{dir}, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ch, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "py.lang"), []byte("keywords: [if]\n"), 0o600))

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change signal")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{Dirs: []string{dir}, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ch, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600))

	select {
	case <-ch:
		t.Fatal("unexpected signal for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{Dirs: []string{dir}, DebounceDur: 100 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ch, err := w.Start()
	require.NoError(t, err)

	path := filepath.Join(dir, "default.theme")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("font: mono\n"), 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	// One coalesced signal arrives.
	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change signal")
	}

	// And no flood behind it once things settle.
	time.Sleep(200 * time.Millisecond)
	select {
	case <-ch:
		// A second signal is acceptable if events straddled the debounce
		// window, but there must not be one per write.
		select {
		case <-ch:
			t.Fatal("watcher did not debounce")
		default:
		}
	default:
	}
}

func TestWatcher_MissingDirectoryFailsToStart(t *testing.T) {
	w, err := New(DefaultConfig(filepath.Join(t.TempDir(), "nope")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	_, err = w.Start()
	require.Error(t, err)
}
