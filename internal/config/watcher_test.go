package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// No goleak TestMain here: fsnotify keeps platform goroutines alive past
// Close on some platforms, which goleak flags as leaks.

// waitForReload blocks until the watcher delivers a config or the timeout
// passes. Debounce is 500ms, so anything over a second means no reload.
func waitForReload(t *testing.T, ch <-chan *Config, timeout time.Duration) *Config {
	t.Helper()
	select {
	case cfg := <-ch:
		return cfg
	case <-time.After(timeout):
		return nil
	}
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	clearEnvOverrides(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	initial := DefaultConfig()
	initial.API.BaseURL = "http://before:8000"
	require.NoError(t, initial.Save(path))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.True(t, w.IsWatching())

	updated := DefaultConfig()
	updated.API.BaseURL = "http://after:9000"
	require.NoError(t, updated.Save(path))

	cfg := waitForReload(t, reloaded, 3*time.Second)
	require.NotNil(t, cfg, "expected a reload after config change")
	assert.Equal(t, "http://after:9000", cfg.API.BaseURL)
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	clearEnvOverrides(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	sibling := filepath.Join(tmpDir, "notes.txt")
	require.NoError(t, os.WriteFile(sibling, []byte("unrelated"), 0644))

	cfg := waitForReload(t, reloaded, 1200*time.Millisecond)
	assert.Nil(t, cfg, "sibling file changes should not trigger a reload")
}

func TestWatcher_InvalidConfigKeepsPrevious(t *testing.T) {
	clearEnvOverrides(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("api: [broken"), 0644))

	cfg := waitForReload(t, reloaded, 1200*time.Millisecond)
	assert.Nil(t, cfg, "a file that fails to parse should not reach the callback")
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	assert.False(t, w.IsWatching())
	w.Stop() // must not panic or block
}

func TestWatcher_StartTwice(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()), "second Start is a no-op")

	w.Stop()
}
