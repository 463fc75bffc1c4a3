package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"doxreduce/internal/domain"
)

const watchDebounce = 100 * time.Millisecond

// BatchFunc receives the outcome of each debounced batch of changes.
type BatchFunc func(paths []string, result *domain.ReduceResult, err error)

// Watch reduces files under root as they are written, until ctx is done.
// Writes made by the reduction itself match the manifest and are skipped.
func (u *ReduceUseCase) Watch(ctx context.Context, root string, onBatch BatchFunc) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDir(watcher, root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	u.logger.Info("watching for changes", "root", root)

	pending := make(map[string]struct{})
	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// New directories from a regeneration need their own watch.
				if err := watchDir(watcher, event.Name); err != nil {
					u.logger.Debug("not watching", "path", event.Name, "error", err)
				}
			}

			pending[event.Name] = struct{}{}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(watchDebounce)
			fire = debounce.C

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)

			result, err := u.ReduceFiles(ctx, root, paths)
			if err != nil {
				u.logger.Error("reduction failed", "error", err)
			}
			if onBatch != nil {
				onBatch(paths, result, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			u.logger.Warn("watcher error", "error", err)
		}
	}
}

// watchDir adds dir and its subdirectories to the watcher, skipping the
// state directory.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".doxreduce" {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
