package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dbFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drafts.db")
	require.NoError(t, os.WriteFile(path, []byte("initial"), 0600))
	return path
}

func waitChanged(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change notification")
	}
}

func TestDetectsWrite(t *testing.T) {
	path := dbFile(t)
	w, err := New(path, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("modified content"), 0600))
	waitChanged(t, w)
}

func TestDetectsWALWrite(t *testing.T) {
	path := dbFile(t)
	w, err := New(path, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path+"-wal", []byte("frame"), 0600))
	waitChanged(t, w)
}

func TestIgnoresUnrelatedFiles(t *testing.T) {
	path := dbFile(t)
	w, err := New(path, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "config"), []byte("x"), 0600))

	select {
	case <-w.Changed():
		t.Fatal("unexpected change notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPollingFallback(t *testing.T) {
	path := dbFile(t)
	w, err := New(path,
		WithDebounce(20*time.Millisecond),
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()
	assert.True(t, w.IsPolling())

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("modified via polling"), 0600))
	waitChanged(t, w)
}

func TestEnvForcesPolling(t *testing.T) {
	t.Setenv(EnvForcePoll, "yes")
	w, err := New(dbFile(t))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	assert.True(t, w.IsPolling())
}

func TestCoalescesBursts(t *testing.T) {
	path := dbFile(t)
	w, err := New(path, WithDebounce(100*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0600))
		time.Sleep(10 * time.Millisecond)
	}
	waitChanged(t, w)

	select {
	case <-w.Changed():
		t.Fatal("burst produced more than one notification")
	case <-time.After(250 * time.Millisecond):
	}
}

func TestStartStop(t *testing.T) {
	path := dbFile(t)
	w, err := New(path)
	require.NoError(t, err)

	abs, _ := filepath.Abs(path)
	assert.Equal(t, abs, w.Path())

	require.NoError(t, w.Start())
	assert.ErrorIs(t, w.Start(), ErrAlreadyStarted)
	w.Stop()
	w.Stop()
	require.NoError(t, w.Start())
	w.Stop()
}

func TestEnvBool(t *testing.T) {
	for value, want := range map[string]bool{
		"1": true, "TRUE": true, "on": true, "y": true,
		"0": false, "": false, "nope": false,
	} {
		t.Setenv("TAGDRAWER_TEST_BOOL", value)
		assert.Equal(t, want, envBool("TAGDRAWER_TEST_BOOL"), value)
	}
}
