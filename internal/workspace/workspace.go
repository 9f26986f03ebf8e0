package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// Manager owns the checkout directory for remote sources.
type Manager struct {
	baseDir    string
	dir        string
	persistent bool
}

// NewManager creates a manager with an ephemeral directory under baseDir
// (os.TempDir when empty).
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager creates a manager that uses dir as-is and never
// removes it.
func NewPersistentManager(dir string) *Manager {
	return &Manager{baseDir: filepath.Dir(dir), dir: dir, persistent: true}
}

// ForConfig picks a persistent manager when content.workspace is set, an
// ephemeral one otherwise. A relative workspace resolves against the site
// root.
func ForConfig(cfg *config.Config) *Manager {
	ws := cfg.Content.Workspace
	if ws == "" {
		return NewManager("")
	}
	if !filepath.IsAbs(ws) {
		ws = filepath.Join(cfg.Site.Root, ws)
	}
	return NewPersistentManager(ws)
}

// Create makes the workspace directory.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("failed to create persistent workspace directory: %w", err)
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace base directory: %w", err)
	}
	dir, err := os.MkdirTemp(m.baseDir, "sitebuilder-")
	if err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory, or "" before Create.
func (m *Manager) Path() string { return m.dir }

// Persistent reports whether the directory survives Cleanup.
func (m *Manager) Persistent() bool { return m.persistent }

// Cleanup removes an ephemeral workspace. Persistent workspaces are kept.
func (m *Manager) Cleanup() error {
	if m.dir == "" || m.persistent {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}

// Fetcher brings a remote source up to date and returns its content root.
type Fetcher interface {
	Sync(ctx context.Context, src config.ContentSource) (string, error)
}

// LocalRoot resolves a local source's path against the site root.
func LocalRoot(cfg *config.Config, src config.ContentSource) string {
	if filepath.IsAbs(src.Path) {
		return src.Path
	}
	return filepath.Join(cfg.Site.Root, filepath.FromSlash(src.Path))
}

// ResolveRoots returns the content root of every source keyed by name.
// Remote sources are fetched through f; a nil f is an error only when a
// remote source exists.
func ResolveRoots(ctx context.Context, cfg *config.Config, f Fetcher) (map[string]string, error) {
	roots := make(map[string]string, len(cfg.Content.Sources))
	for _, src := range cfg.Content.Sources {
		if !src.IsRemote() {
			roots[src.Name] = LocalRoot(cfg, src)
			continue
		}
		if f == nil {
			return nil, fmt.Errorf("remote source %s needs a fetcher", src.Name)
		}
		root, err := f.Sync(ctx, src)
		if err != nil {
			return nil, err
		}
		roots[src.Name] = root
	}
	return roots, nil
}
