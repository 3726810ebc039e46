package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fuzdev/fuzcss/internal/pathfilter"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func TestWatcherFiresOnFilteredInFileChange(t *testing.T) {
	dir := t.TempDir()
	filter := pathfilter.New(nil, nil)

	w, err := New(dir, filter, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fired := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.svelte"), []byte("<div></div>"), 0o644))

	select {
	case <-fired:
	case <-time.After(1500 * time.Millisecond):
		t.Fatal("onChange was never invoked for a filtered-in file write")
	}

	cancel()
	<-done
}

func TestWatcherIgnoresFilteredOutFiles(t *testing.T) {
	dir := t.TempDir()
	filter := pathfilter.New(nil, nil)

	w, err := New(dir, filter, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	fired := false
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { fired = true })
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))

	<-done
	assert.False(t, fired)
}
