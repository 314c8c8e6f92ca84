package utils

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the events of one file so a file written in
// several chunks is parsed once, after the last write.
var watchDebounce = 100 * time.Millisecond

// Watch re-parses source files under cfg.SourceDir whenever they are created
// or written, and hands every outcome to handle. Events on one path are
// debounced. New subdirectories are watched as they appear. Watch returns
// when ctx is done.
func Watch(ctx context.Context, cfg *Config, logger *slog.Logger, handle func(Outcome)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := addTree(w, cfg.SourceDir); err != nil {
		return err
	}
	logger.Info("watching sources", "dir", cfg.SourceDir)

	ready := make(chan string)
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-ready:
			delete(pending, path)
			handle(ParseSource(path, cfg, logger))

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if err := addTree(w, event.Name); err != nil {
					logger.Warn("failed to watch directory", "dir", event.Name, "error", err)
				}
				continue
			}
			if !MatchesSource(cfg, event.Name) || !shouldIncludeFile(event.Name, cfg.PackagesOfInterest, logger) {
				continue
			}
			if t, ok := pending[event.Name]; ok {
				t.Reset(watchDebounce)
				continue
			}
			path := event.Name
			pending[path] = time.AfterFunc(watchDebounce, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}
		}
		return nil
	})
}
