package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/espalier-dev/espalier"
	"github.com/espalier-dev/espalier/internal/presentation/tui"
)

// debounceDelay coalesces the burst of events an editor emits per save.
const debounceDelay = 300 * time.Millisecond

// RunWatch compiles once, then recompiles whenever the export changes.
// A broken export does not stop the watcher; the error is reported and the
// next change tried again.
func RunWatch(opts RunOptions) error {
	pipe, set, logger, err := NewPipeline(opts)
	if err != nil {
		return err
	}
	tui.PrintBanner(espalier.Version)

	ctx := NewSignalContext(context.Background())
	defer ctx.Cancel()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	export := filepath.Clean(set.PathArticyJSON)
	// Watch the directory: editors save through rename, which would detach
	// a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(export)); err != nil {
		return fmt.Errorf("error watching %s: %w", filepath.Dir(export), err)
	}

	compile := func() {
		res, err := pipe.Compile(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("compile failed", "error", err)
			printSystemMessage("Compile failed: %v", err)
			return
		}
		printSummary(res, set)
		printSystemMessage("Waiting for changes...")
	}

	logger.Info("starting watcher", "export", export)
	printSystemMessage("Watching '%s'.", export)
	compile()

	timer := time.NewTimer(debounceDelay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if sig := ctx.Signal(); sig != nil {
				fmt.Println()
				printSystemMessage("Stopped (%s).", sig)
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != export {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", "event", event.String())
			timer.Reset(debounceDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		case <-timer.C:
			printSystemMessage("Change detected in '%s'.", export)
			compile()
		}
	}
}
