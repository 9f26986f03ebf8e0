// Package docs discovers content files in configured source directories and
// turns them into content nodes.
package docs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// ignoredNames are skipped at a source root.
var ignoredNames = []string{"CONTRIBUTING.md", "CHANGELOG.md", "LICENSE.md"}

// Discovery walks content sources.
type Discovery struct {
	sources []config.ContentSource
}

// NewDiscovery creates a discovery over the given sources.
func NewDiscovery(sources []config.ContentSource) *Discovery {
	return &Discovery{sources: sources}
}

// Discover returns every markdown file in the sources, keyed by source name
// in roots. Files are ordered by source, then relative path.
func (d *Discovery) Discover(roots map[string]string) ([]content.File, error) {
	files := make([]content.File, 0)
	for _, src := range d.sources {
		root, ok := roots[src.Name]
		if !ok {
			slog.Warn("Content source root not resolved", logfields.Source(src.Name))
			continue
		}
		if _, err := os.Stat(root); err != nil {
			return nil, fmt.Errorf("%w: %s (%s): %w", ErrSourcePathNotFound, src.Name, root, err)
		}

		found, err := walkSource(src, root)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDirWalkFailed, src.Name, err)
		}
		slog.Info("Content discovered", logfields.Source(src.Name), logfields.Count(len(found)))
		files = append(files, found...)
	}
	return files, nil
}

func walkSource(src config.ContentSource, root string) ([]content.File, error) {
	var files []content.File
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || content.TypeForExt(filepath.Ext(name)) == "" {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if isIgnored(rel, src.Ignore) {
			slog.Debug("Skipping ignored file", logfields.Source(src.Name), logfields.File(rel))
			return nil
		}

		files = append(files, content.NewFile(src.Name, root, rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	return files, nil
}

func isIgnored(rel string, patterns []string) bool {
	if !strings.Contains(rel, "/") {
		for _, name := range ignoredNames {
			if strings.EqualFold(rel, name) {
				return true
			}
		}
	}
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}

// Load reads a discovered file and builds its node. Frontmatter problems are
// logged and the node is kept with empty frontmatter.
func Load(file content.File) (*content.Node, error) {
	raw, err := os.ReadFile(file.AbsolutePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, file.AbsolutePath, err)
	}
	node, err := content.NewNode(file, raw)
	if err != nil {
		slog.Warn("Invalid frontmatter, continuing with empty frontmatter",
			logfields.Source(file.Source),
			logfields.File(file.RelativePath),
			logfields.Error(err))
	}
	return node, nil
}
