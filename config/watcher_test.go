package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/actionplan/action"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.yaml")
	writePlan(t, path, "types: {inc: INC}\n")

	w, err := NewWatcher(WatcherConfig{
		Patterns:      []string{path},
		DebounceDelay: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("types: {inc: INC, dec: DEC}\n"), 0644))

	// A write can surface as truncate then write, so the first reload may
	// see a partial file.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			assert.NotEmpty(t, ev.Paths)
			if ev.Error != nil {
				continue
			}
			require.NotNil(t, ev.Plan)
			assert.Equal(t, action.Type("DEC"), ev.Plan.Types["dec"])
			return
		case <-timeout:
			t.Fatal("timed out waiting for reload event")
		}
	}
}

func TestWatcher_ReportsInvalidPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.yaml")
	writePlan(t, path, "types: {inc: INC}\n")

	w, err := NewWatcher(WatcherConfig{
		Patterns:      []string{path},
		DebounceDelay: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("types: {inc: ''}\n"), 0644))

	select {
	case ev := <-w.Events():
		assert.ErrorIs(t, ev.Error, ErrInvalidPlan)
		assert.Nil(t, ev.Plan)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload event")
	}
}

func TestWatcher_StartWithoutPlans(t *testing.T) {
	w, err := NewWatcher(WatcherConfig{Patterns: []string{filepath.Join(t.TempDir(), "*.yaml")}})
	require.NoError(t, err)
	defer w.Stop()

	assert.ErrorIs(t, w.Start(context.Background()), ErrNoPlans)
}

func TestIsPlanFile(t *testing.T) {
	assert.True(t, isPlanFile("a/plan.yaml"))
	assert.True(t, isPlanFile("plan.YML"))
	assert.False(t, isPlanFile("plan.json"))
	assert.False(t, isPlanFile("plan.yaml.swp"))
}
