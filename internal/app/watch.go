package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vk/pipeini/internal/ctxlog"
)

// settleDelay batches the burst of filesystem events editors produce for a
// single save (write + rename + chmod) into one re-validation.
const settleDelay = 200 * time.Millisecond

// runWatch validates the file, then keeps re-validating whenever it changes
// until the context is cancelled. The parent directory is watched rather than
// the file itself so that editor-style replace-by-rename keeps working.
func (a *App) runWatch(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	a.report(a.check(ctx, a.config.ConfigPath))

	target, err := filepath.Abs(a.config.ConfigPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}
	logger.Info("Watching for changes.", "path", a.config.ConfigPath)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			evPath, err := filepath.Abs(event.Name)
			if err != nil || evPath != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Change detected.", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(settleDelay)
				timerC = timer.C
			} else {
				timer.Reset(settleDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error.", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			a.report(a.check(ctx, a.config.ConfigPath))
		}
	}
}
