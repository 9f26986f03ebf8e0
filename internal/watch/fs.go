package watch

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// addDirsRecursive watches root and every directory below it, skipping
// hidden directories, node_modules and excluded paths.
func addDirsRecursive(w *fsnotify.Watcher, root string, excluded []string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
			return filepath.SkipDir
		}
		if isExcluded(path, excluded) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// isExcluded reports whether path is one of dirs or lies below one.
func isExcluded(path string, dirs []string) bool {
	for _, dir := range dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnoreEvent reports whether a changed path never affects the build:
// hidden files, editor swap and backup files, OS metadata.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}

// relevant reports whether an event should request a rebuild. Chmod alone
// does not.
func relevant(ev fsnotify.Event, excluded []string) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return !shouldIgnoreEvent(ev.Name) && !isExcluded(ev.Name, excluded)
}
