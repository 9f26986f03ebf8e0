package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FileAssertions asserts on files under a base directory, typically build
// output. Methods return the receiver so checks can be chained.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates assertions rooted at baseDir.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// Exists fails unless rel is a regular file.
func (fa *FileAssertions) Exists(rel string) *FileAssertions {
	fa.t.Helper()
	info, err := os.Stat(fa.path(rel))
	switch {
	case err != nil:
		fa.t.Errorf("expected file %s: %v", rel, err)
	case info.IsDir():
		fa.t.Errorf("expected %s to be a file, found a directory", rel)
	}
	return fa
}

// Missing fails if rel exists.
func (fa *FileAssertions) Missing(rel string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(fa.path(rel)); err == nil {
		fa.t.Errorf("expected %s not to exist", rel)
	}
	return fa
}

// Contains fails unless rel contains every snippet.
func (fa *FileAssertions) Contains(rel string, snippets ...string) *FileAssertions {
	fa.t.Helper()
	body := fa.Read(rel)
	for _, s := range snippets {
		if !strings.Contains(body, s) {
			fa.t.Errorf("expected %s to contain %q\nactual content:\n%s", rel, s, body)
		}
	}
	return fa
}

// NotContains fails if rel contains snippet.
func (fa *FileAssertions) NotContains(rel, snippet string) *FileAssertions {
	fa.t.Helper()
	if strings.Contains(fa.Read(rel), snippet) {
		fa.t.Errorf("expected %s not to contain %q", rel, snippet)
	}
	return fa
}

// Read returns the content of rel, failing the test when it cannot be read.
func (fa *FileAssertions) Read(rel string) string {
	fa.t.Helper()
	data, err := os.ReadFile(fa.path(rel))
	if err != nil {
		fa.t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}
