package config

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcher_ReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stratagem.json")
	require.NoError(t, Default().Save(path))

	var mu sync.Mutex
	var got *Config
	watcher, err := NewWatcher(path, zap.NewNop(), func(cfg *Config) {
		mu.Lock()
		got = cfg
		mu.Unlock()
	})
	require.NoError(t, err)
	require.NoError(t, watcher.Start(context.Background()))
	defer watcher.Stop()

	updated := Default()
	updated.Engine.MaxConcurrent = 7
	require.NoError(t, updated.Save(path))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil && got.Engine.MaxConcurrent == 7
	}, 5*time.Second, 50*time.Millisecond, "reload callback never fired")

	stats := watcher.Stats()
	assert.GreaterOrEqual(t, stats.Reloads, 1)
	assert.Zero(t, stats.ReloadErrors)
}

func TestWatcher_InvalidConfigRejectedWithoutCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stratagem.json")
	require.NoError(t, Default().Save(path))

	var calls int
	var mu sync.Mutex
	watcher, err := NewWatcher(path, zap.NewNop(), func(cfg *Config) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	require.NoError(t, watcher.Start(context.Background()))
	defer watcher.Stop()

	bad := Default()
	bad.Synthesis.MarketWeight = 0.9
	require.NoError(t, bad.Save(path))

	require.Eventually(t, func() bool {
		return watcher.Stats().ReloadErrors >= 1
	}, 5*time.Second, 50*time.Millisecond, "invalid reload never observed")

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls, "callback must not fire for rejected config")
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stratagem.json")
	require.NoError(t, Default().Save(path))

	watcher, err := NewWatcher(path, zap.NewNop(), func(cfg *Config) {
		t.Error("callback fired for sibling file")
	})
	require.NoError(t, err)
	require.NoError(t, watcher.Start(context.Background()))
	defer watcher.Stop()

	require.NoError(t, Default().Save(filepath.Join(dir, "other.json")))
	time.Sleep(600 * time.Millisecond)
	assert.Zero(t, watcher.Stats().Reloads)
}

func TestWatcher_StartStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stratagem.json")
	watcher, err := NewWatcher(path, zap.NewNop(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, watcher.Start(ctx))
	require.NoError(t, watcher.Start(ctx)) // second start is a no-op
	watcher.Stop()
	watcher.Stop() // second stop is a no-op
}
