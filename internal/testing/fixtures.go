package testing

import (
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
)

// MdxNode builds an Mdx node for a file under root, the way the host would
// after ingestion. Fields start empty.
func MdxNode(source, root, relPath string, fm map[string]any) *content.Node {
	if fm == nil {
		fm = map[string]any{}
	}
	file := content.NewFile(source, root, relPath)
	return &content.Node{
		ID:          content.NodeID(source, file.RelativePath),
		Type:        content.TypeMdx,
		Parent:      file,
		Frontmatter: fm,
		Fields:      map[string]any{},
	}
}

// SiteFixture is a throwaway project directory with content sources.
type SiteFixture struct {
	t      *testing.T
	Root   string
	Config *config.Config
}

// NewSiteFixture creates a project root with an empty "docs" source and a
// defaulted configuration writing to <root>/out.
func NewSiteFixture(t *testing.T) *SiteFixture {
	t.Helper()
	root := t.TempDir()
	cfg, err := config.Parse([]byte("content:\n  sources:\n    - name: docs\n      path: docs\n"), config.FormatYAML)
	if err != nil {
		t.Fatalf("fixture config: %v", err)
	}
	cfg.Site.Root = root
	cfg.Content.Sources[0].Path = filepath.Join(root, "docs")
	cfg.Output.Directory = filepath.Join(root, "out")
	if err := os.MkdirAll(cfg.Content.Sources[0].Path, testDirPermissions); err != nil {
		t.Fatalf("fixture mkdir: %v", err)
	}
	return &SiteFixture{t: t, Root: root, Config: cfg}
}

// WithSource adds a content source rooted at <root>/<name>.
func (f *SiteFixture) WithSource(name string, defaultPages bool) *SiteFixture {
	f.t.Helper()
	dir := filepath.Join(f.Root, name)
	if err := os.MkdirAll(dir, testDirPermissions); err != nil {
		f.t.Fatalf("fixture mkdir: %v", err)
	}
	f.Config.Content.Sources = append(f.Config.Content.Sources, config.ContentSource{
		Name:         name,
		Path:         dir,
		DefaultPages: defaultPages,
	})
	return f
}

// WriteFile writes a file relative to the project root.
func (f *SiteFixture) WriteFile(relPath, body string) *SiteFixture {
	f.t.Helper()
	full := filepath.Join(f.Root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), testDirPermissions); err != nil {
		f.t.Fatalf("fixture mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(body), testFilePermissions); err != nil {
		f.t.Fatalf("fixture write: %v", err)
	}
	return f
}

// Output returns assertions over the configured output directory.
func (f *SiteFixture) Output() *FileAssertions {
	return NewFileAssertions(f.t, f.Config.Output.Directory)
}
