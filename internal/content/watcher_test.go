package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeFile(t, dir, JourneyFile, testJourney)

	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	reloaded := make(chan uint64, 4)
	store.Subscribe(func(s *Snapshot) {
		if s.Version > 1 {
			select {
			case reloaded <- s.Version:
			default:
			}
		}
	})

	w, err := NewWatcher(store, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, dir, JourneyFile, `{"Academic": []}`)

	select {
	case v := <-reloaded:
		assert.GreaterOrEqual(t, v, uint64(2))
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload")
	}
	assert.Empty(t, store.Current().Dataset.Academic)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcherRequiresDirectory(t *testing.T) {
	_, err := NewWatcher(NewStaticStore(Dataset{}), 0, nil)
	assert.Error(t, err)
}
