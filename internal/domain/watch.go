package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last sourcemap event before
// a new run starts. Rojo rewrites the file in several steps.
const DefaultDebounce = 500 * time.Millisecond

// WatchArgs contains the arguments for watch mode.
type WatchArgs struct {
	RunArgs
	Debounce time.Duration
}

// Watch runs once and then again after every burst of changes to the
// sourcemap. It watches the sourcemap's directory so atomic renames are seen.
// Failed runs are reported and watching continues; Watch returns nil when ctx
// is cancelled.
func (w *workflow) Watch(ctx context.Context, args WatchArgs) error {
	target, err := w.CanonicalPath("", args.Sourcemap)
	if err != nil {
		return &SourcemapLoadError{Path: args.Sourcemap, Err: err}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	defer func() {
		if closeErr := fsw.Close(); closeErr != nil {
			slog.Error("Failed to close watcher", "error", closeErr)
		}
	}()

	if err := fsw.Add(filepath.Dir(string(target))); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(string(target)), err)
	}

	debounce := args.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w.DisplayWatchInfo(ctx, args.Sourcemap, debounce)
	w.runOnce(ctx, args.RunArgs)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			if filepath.Clean(evt.Name) != string(target) || evt.Op == fsnotify.Chmod {
				continue
			}

			slog.Debug("Sourcemap changed", "path", evt.Name, "op", evt.Op.String())

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}

			timerC = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}

			slog.Error("Watcher error", "error", err)

		case <-timerC:
			timerC = nil
			w.runOnce(ctx, args.RunArgs)
		}
	}
}

// runOnce runs a batch and reports fatal errors instead of returning them.
func (w *workflow) runOnce(ctx context.Context, args RunArgs) {
	err := w.Run(ctx, args)
	if err == nil || errors.Is(err, ErrBatchFailed) || ctx.Err() != nil {
		return
	}

	slog.Error("Watch run failed", "error", err)
	w.DisplayError(ctx, err)
}
