package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/yantoz/finderex/pkg/log"
)

// Watch calls onChange each time the document at path is written, created,
// renamed or removed, until ctx is done. The parent directory is watched so
// that editors which replace the file are followed.
func Watch(ctx context.Context, path string, onChange func(ctx context.Context)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}

	logger := log.WithContext(ctx)

	defer func() {
		err := watcher.Close()
		if err != nil {
			logger.ErrorContext(ctx, "close watcher", slog.Any("err", err))
		}
	}()

	err = watcher.Add(filepath.Dir(absPath))
	if err != nil {
		return fmt.Errorf("add path to watcher: %w", err)
	}

	logger.DebugContext(ctx, "watching config", slog.String("path", absPath))

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if evt.Name != absPath || evt.Has(fsnotify.Chmod) {
				continue
			}

			logger.DebugContext(ctx, "config changed", slog.String("event", evt.String()))
			onChange(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.WarnContext(ctx, "watch config", slog.Any("err", err))
		}
	}
}
