// ============================================================================
// RHL - Scripting Language Toolkit
// ============================================================================
//
// Package:     watch
// Description: Re-run a script when its file changes on disk
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package watch reports changes to a single file. The parent directory is
// watched rather than the file itself so that editors that save by
// writing a new file and renaming it over the old one are still seen.
// Bursts of events are coalesced: the callback runs once the file has
// been quiet for the debounce interval.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	rhllog "github.com/msto63/rhl/foundation/core/log"
)

// DefaultDebounce is used when Options.Debounce is not positive
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher
type Options struct {
	Debounce time.Duration
	Logger   *rhllog.Logger
}

// Watcher observes one file
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *rhllog.Logger
	fsw      *fsnotify.Watcher
}

// New starts watching path
func New(path string, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, rhlerr.Wrap(err, "resolve watch path").WithCode(rhlerr.CodeIO)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = rhllog.GetDefault()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, rhlerr.Wrap(err, "create watcher").WithCode(rhlerr.CodeIO)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, rhlerr.Wrap(err, fmt.Sprintf("watch %s", filepath.Dir(abs))).WithCode(rhlerr.CodeIO)
	}

	return &Watcher{
		path:     abs,
		debounce: opts.Debounce,
		logger:   logger.WithFields(rhllog.Fields{"component": "watch", "file": abs}),
		fsw:      fsw,
	}, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string { return w.path }

// Run calls onChange after every settled change until ctx is cancelled.
// It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	w.logger.Info("watching for changes", rhllog.Fields{"debounce": w.debounce.String()})
	return w.loop(ctx, w.fsw.Events, w.fsw.Errors, onChange)
}

// Close stops the underlying watcher
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, onChange func(context.Context)) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopped watching")
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", rhllog.Fields{"op": event.Op.String()})
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			onChange(ctx)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.ErrorWithErr("watcher error", err)
		}
	}
}

// relevant reports whether event modified the watched file
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
