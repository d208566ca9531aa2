package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitCall(t *testing.T, calls <-chan struct{}) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
}

func TestWatcherRerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))

	calls := make(chan struct{}, 10)
	w := New(path, 20*time.Millisecond, zaptest.NewLogger(t), func(context.Context) error {
		calls <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	<-w.Ready()
	waitCall(t, calls)

	require.NoError(t, os.WriteFile(path, []byte("x\ny\n"), 0o644))
	waitCall(t, calls)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))

	calls := make(chan struct{}, 10)
	w := New(path, 10*time.Millisecond, nil, func(context.Context) error {
		calls <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	<-w.Ready()
	waitCall(t, calls)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("y\n"), 0o644))
	select {
	case <-calls:
		t.Fatal("handler ran for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcherSurvivesHandlerError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))

	calls := make(chan struct{}, 10)
	w := New(path, 10*time.Millisecond, nil, func(context.Context) error {
		calls <- struct{}{}
		return errors.New("boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	<-w.Ready()
	waitCall(t, calls)

	require.NoError(t, os.WriteFile(path, []byte("y\n"), 0o644))
	waitCall(t, calls)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "in.txt"), time.Millisecond, nil, func(context.Context) error { return nil })
	assert.Error(t, w.Run(context.Background()))
}
