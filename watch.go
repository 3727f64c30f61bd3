package schemabloom

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the bursts of filesystem events editors
// produce for a single save.
const watchDebounce = 200 * time.Millisecond

// Watch regenerates models whenever the schema file changes, until ctx
// is cancelled. It generates once immediately, then on every change.
//
// Each cycle's outcome is delivered to notify (result and nil on
// success, nil and the error otherwise); a failed cycle is reported and
// watching continues, so a half-saved document does not kill the loop.
// The parent directory is watched rather than the file itself, because
// editors that replace files on save would otherwise detach the watch.
func Watch(ctx context.Context, inputFile, outputDir, format string, notify func(*GenerateResult, error)) error {
	if notify == nil {
		notify = func(*GenerateResult, error) {}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(inputFile)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	notify(Generate(inputFile, outputDir, format))

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)

		case <-timer.C:
			notify(Generate(inputFile, outputDir, format))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			notify(nil, err)
		}
	}
}
