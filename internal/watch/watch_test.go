package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	rhllog "github.com/msto63/rhl/foundation/core/log"
)

func quietLogger() *rhllog.Logger {
	return rhllog.New().WithOutput(io.Discard)
}

func newTestWatcher(t *testing.T, debounce time.Duration) (*Watcher, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.rhl")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path, Options{Debounce: debounce, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, path
}

func TestDefaults(t *testing.T) {
	w, path := newTestWatcher(t, 0)
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want %v", w.debounce, DefaultDebounce)
	}
	abs, _ := filepath.Abs(path)
	if w.Path() != abs {
		t.Errorf("Path() = %q, want %q", w.Path(), abs)
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "script.rhl"), Options{Logger: quietLogger()})
	if err == nil {
		t.Fatal("watching a file in a missing directory succeeded")
	}
}

func TestRelevant(t *testing.T) {
	w, path := newTestWatcher(t, time.Millisecond)
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: path + ".swp", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := w.relevant(tt.event); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestLoopCoalescesBursts(t *testing.T) {
	w, path := newTestWatcher(t, 40*time.Millisecond)

	events := make(chan fsnotify.Event)
	errs := make(chan error)
	var calls atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.loop(ctx, events, errs, func(context.Context) { calls.Add(1) })
	}()

	for i := 0; i < 5; i++ {
		events <- fsnotify.Event{Name: path, Op: fsnotify.Write}
	}
	events <- fsnotify.Event{Name: path + ".bak", Op: fsnotify.Write}
	errs <- os.ErrPermission

	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("callbacks after burst = %d, want 1", got)
	}

	events <- fsnotify.Event{Name: path, Op: fsnotify.Create}
	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 2 {
		t.Errorf("callbacks after second change = %d, want 2", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("loop returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}

func TestRunSeesFileWrites(t *testing.T) {
	w, path := newTestWatcher(t, 20*time.Millisecond)

	changed := make(chan struct{}, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) { changed <- struct{}{} })
	}()

	// give the loop a moment to start selecting
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("x = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}
