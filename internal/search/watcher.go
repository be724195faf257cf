package search

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/halvard/vitrine/internal/store"
)

// EventCallback is called after a watcher-driven change to the content
// tree. kind is "<entity>.<op>", for example "product.updated" or
// "post.deleted".
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the content root and keeps the
// search index reconciled until ctx is cancelled. Events are debounced
// into a single Sync pass because one logical edit (say, a product save)
// touches several files. It calls cb (if non-nil) per file event.
//
// New directories created at runtime are automatically added to the
// watch list.
func Watch(ctx context.Context, db *DB, st *store.Store, contentRoot string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, contentRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", contentRoot))

	// syncTimer debounces bursts of file events into one reconcile.
	var syncTimer *time.Timer
	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(200 * time.Millisecond)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-syncCh:
			if err := Sync(db, st, logger); err != nil {
				logger.Warn("watcher: sync failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					scheduleSync()
					continue
				}
			}

			rel, relErr := filepath.Rel(contentRoot, absPath)
			if relErr != nil {
				continue
			}

			entity := classify(rel)
			if entity == "" {
				continue
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				op := "updated"
				switch {
				case ev.Op&fsnotify.Create != 0:
					op = "created"
				case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
					// Rename fires on the old path only. The new path, if
					// any, arrives as a separate Create event.
					op = "deleted"
				}
				logger.Debug("watcher: content change",
					slog.String("path", rel),
					slog.String("kind", entity+"."+op))
				if cb != nil {
					cb(entity+"."+op, rel)
				}
				scheduleSync()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// classify maps a content-relative path to its entity kind, or "" when
// the file is not part of the content model (temp files, images).
func classify(rel string) string {
	rel = filepath.ToSlash(rel)
	switch {
	case strings.Contains(rel, "/images/"):
		return ""
	case strings.HasPrefix(rel, "products/") && (strings.HasSuffix(rel, "/product.md") || strings.HasSuffix(rel, "/tags.txt")):
		return "product"
	case strings.HasPrefix(rel, "categories/") && strings.HasSuffix(rel, "/category.md"):
		return "category"
	case strings.HasPrefix(rel, "blog/") && strings.HasSuffix(rel, ".md"):
		return "post"
	case strings.HasPrefix(rel, "codex/") && strings.HasSuffix(rel, ".md"):
		return "codex"
	default:
		return ""
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
