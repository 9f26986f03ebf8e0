package bundler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrModuleNotFound is returned when a module request cannot be resolved.
var ErrModuleNotFound = errors.New("module not found")

// ModuleResolver maps a module request such as "core-js/es" to a file.
type ModuleResolver interface {
	Resolve(request string) (string, error)
}

// NodeResolver resolves requests the way Node's require.resolve does for
// package paths: it searches node_modules directories from Dir upwards and
// tries the request as a file, then as a directory with package.json main or
// index.js.
type NodeResolver struct {
	Dir string
}

var resolveExtensions = []string{"", ".js", ".json", ".cjs", ".mjs"}

// Resolve implements ModuleResolver.
func (r NodeResolver) Resolve(request string) (string, error) {
	if request == "" || strings.HasPrefix(request, ".") || filepath.IsAbs(request) {
		return "", fmt.Errorf("%w: %q is not a package request", ErrModuleNotFound, request)
	}
	dir, err := filepath.Abs(r.Dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(request))
		if file, ok := resolveFile(candidate); ok {
			return file, nil
		}
		if file, ok := resolveDirectory(candidate); ok {
			return file, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s (from %s)", ErrModuleNotFound, request, r.Dir)
		}
		dir = parent
	}
}

func resolveFile(path string) (string, bool) {
	for _, ext := range resolveExtensions {
		if info, err := os.Stat(path + ext); err == nil && !info.IsDir() {
			return path + ext, true
		}
	}
	return "", false
}

func resolveDirectory(dir string) (string, bool) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	if data, err := os.ReadFile(filepath.Join(dir, "package.json")); err == nil {
		var pkg struct {
			Main string `json:"main"`
		}
		if json.Unmarshal(data, &pkg) == nil && pkg.Main != "" {
			main := filepath.Join(dir, filepath.FromSlash(pkg.Main))
			if file, ok := resolveFile(main); ok {
				return file, true
			}
			if file, ok := resolveFile(filepath.Join(main, "index")); ok {
				return file, true
			}
		}
	}
	return resolveFile(filepath.Join(dir, "index"))
}
