package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/miniflow/internal/ctxlog"
)

// Watch re-runs Pass every time the feed file is written or replaced, until
// ctx is cancelled. Failed passes are logged and do not stop the loop. The
// feed's directory is watched so that editors which save by renaming a new
// file into place are still noticed.
func (a *App) Watch(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(a.config.FeedPath)
	if err != nil {
		return fmt.Errorf("failed to resolve feed path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("Watching feed for changes.", "path", target)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("Feed changed.", "op", event.Op.String())
			if err := a.Pass(ctx); err != nil {
				logger.Error("Forward pass failed.", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)
		}
	}
}
