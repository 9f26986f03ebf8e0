package hugo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/host"
	sbtesting "git.home.luguber.info/inful/sitebuilder/internal/testing"
)

func TestContentPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/", "_index.md"},
		{"", "_index.md"},
		{"/docs/getting-started", "docs/getting-started.md"},
		{"/about/", "about.md"},
		{"//guide//intro", "guide/intro.md"},
	}
	for _, tt := range tests {
		got, err := contentPath(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := contentPath("/docs/../../etc/passwd")
	assert.Error(t, err)
}

func TestPageFrontMatter(t *testing.T) {
	root := "/site"
	node := sbtesting.MdxNode("docs", "/site/docs", "guide/getting-started.md", nil)
	node.Fields = map[string]any{
		"slug":     "/guide/getting-started",
		"id":       node.ID,
		"title":    "Getting Started",
		"weight":   float64(3),
		"jobTitle": nil,
	}
	node.TableOfContents = []content.Heading{{Level: 2, Title: "Install", Anchor: "install"}}

	fm := pageFrontMatter(host.PageRequest{
		Path:      "/guide/getting-started",
		Component: "/site/src/layouts/docs.js",
		Context:   host.PageContext{ID: node.ID, Layout: "docs"},
	}, node, root)

	assert.Equal(t, "/guide/getting-started", fm["url"])
	assert.Equal(t, node.ID, fm["id"])
	assert.Equal(t, "Getting Started", fm["title"])
	assert.Equal(t, "docs", fm["layout"])
	assert.Equal(t, "docs", fm["type"])
	assert.Equal(t, "src/layouts/docs.js", fm["component"])
	assert.InDelta(t, 3, fm["weight"], 0)
	assert.Contains(t, fm, "jobTitle")
	assert.NotContains(t, fm, "slug")
	assert.Len(t, fm["toc"], 1)
}

func TestPageFrontMatter_FallbackTitleAndNoLayout(t *testing.T) {
	node := sbtesting.MdxNode("pages", "/site/pages", "team-members.md", nil)

	fm := pageFrontMatter(host.PageRequest{Path: "/team-members", Component: "/elsewhere/team.js"}, node, "/site")

	assert.Equal(t, "Team Members", fm["title"])
	assert.Equal(t, "/elsewhere/team.js", fm["component"])
	assert.NotContains(t, fm, "layout")
	assert.NotContains(t, fm, "weight")
	assert.NotContains(t, fm, "toc")
	assert.NotContains(t, fm, mdfp.FingerprintField)
}

func TestPageFrontMatter_Fingerprint(t *testing.T) {
	raw := []byte("---\nweight: 1\n---\n# Setup\n")
	node, err := content.NewNode(content.NewFile("docs", "/site/docs", "setup.md"), raw)
	require.NoError(t, err)
	require.NotEmpty(t, node.ContentDigest)
	node.Fields[mdfp.FingerprintField] = "stale"

	fm := pageFrontMatter(host.PageRequest{Path: "/setup"}, node, "/site")
	assert.Equal(t, node.ContentDigest, fm[mdfp.FingerprintField])

	full, err := writePage(t.TempDir(), host.PageRequest{Path: "/setup"}, node, "/site")
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Contains(t, string(data), mdfp.FingerprintField+": "+node.ContentDigest)
}

func TestWritePage(t *testing.T) {
	dir := t.TempDir()
	node := sbtesting.MdxNode("docs", "/site/docs", "index.md", map[string]any{})
	node.Body = []byte("# Hello\n")

	full, err := writePage(dir, host.PageRequest{Path: "/", Context: host.PageContext{ID: node.ID}}, node, "/site")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "_index.md"), full)

	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Index")
	assert.Contains(t, string(data), "# Hello\n")
}
