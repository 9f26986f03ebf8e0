package hugo

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/host"
	"git.home.luguber.info/inful/sitebuilder/internal/routes"
)

// Front matter keys the host owns. Derived fields with these names are not
// copied into pages.
var reservedPageKeys = map[string]bool{
	"url": true, "title": true, "layout": true, "type": true, "id": true,
	"component": true, "weight": true, "toc": true, routes.FieldSlug: true,
	mdfp.FingerprintField: true,
}

// contentPath maps a page path onto its file under content/. The root page is
// the home _index.md.
func contentPath(pagePath string) (string, error) {
	for _, seg := range strings.Split(pagePath, "/") {
		if seg == ".." {
			return "", fmt.Errorf("page path %q escapes the content root", pagePath)
		}
	}
	rel := strings.Trim(path.Clean("/"+pagePath), "/")
	if rel == "" {
		return "_index.md", nil
	}
	return rel + ".md", nil
}

// pageFrontMatter builds the front matter of a page file.
func pageFrontMatter(req host.PageRequest, node *content.Node, siteRoot string) map[string]any {
	fm := map[string]any{
		"url": req.Path,
		"id":  req.Context.ID,
	}
	title := node.StringField(routes.FieldTitle)
	if title == "" {
		title = routes.DeriveTitle(nil, node.Parent.Name)
	}
	fm["title"] = title
	if req.Context.Layout != "" {
		fm["layout"] = req.Context.Layout
		fm["type"] = req.Context.Layout
	}
	if req.Component != "" {
		fm["component"] = relativeTo(siteRoot, req.Component)
	}
	if w, ok := node.Field(routes.FieldWeight); ok && w != nil {
		fm["weight"] = w
	}
	if node.ContentDigest != "" {
		fm[mdfp.FingerprintField] = node.ContentDigest
	}
	if len(node.TableOfContents) > 0 {
		fm["toc"] = content.TOCEntries(node.TableOfContents)
	}
	for k, v := range node.Fields {
		if !reservedPageKeys[k] {
			fm[k] = v
		}
	}
	return fm
}

// writePage writes one page file under contentDir and returns its path.
func writePage(contentDir string, req host.PageRequest, node *content.Node, siteRoot string) (string, error) {
	rel, err := contentPath(req.Path)
	if err != nil {
		return "", err
	}
	doc, err := frontmatter.Render(pageFrontMatter(req, node, siteRoot), node.Body)
	if err != nil {
		return "", fmt.Errorf("render page %s: %w", req.Path, err)
	}
	full := filepath.Join(contentDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, doc, 0o600); err != nil {
		return "", err
	}
	return full, nil
}

// relativeTo returns p relative to root with forward slashes, or p unchanged
// when it lies outside root.
func relativeTo(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
