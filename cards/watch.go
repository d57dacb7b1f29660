package cards

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates cached templates when files under the engine root
// change, so edits show up on the next render without a restart. It blocks
// until ctx is cancelled or the underlying watcher fails. FS-backed
// engines have no directory to watch.
func (e *HTMLEngine) Watch(ctx context.Context) error {
	if e.fsys != nil {
		return fmt.Errorf("watch: engine reads from an fs.FS, not a directory")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create template watcher: %w", err)
	}
	defer watcher.Close()

	root := e.root
	if root == "" {
		root = "."
	}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch template root %s: %w", root, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// New subdirectories are not watched automatically.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
					continue
				}
			}
			if rel, err := filepath.Rel(root, event.Name); err == nil {
				e.Invalidate(rel)
			}
			e.Invalidate(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("template watcher: %w", err)
		}
	}
}
