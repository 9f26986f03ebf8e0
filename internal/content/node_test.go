package content

import (
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFile(t *testing.T) {
	root := filepath.Join("srv", "content")
	f := NewFile("docs", root, filepath.Join("guide", "setup.mdx"))

	assert.Equal(t, "docs", f.Source)
	assert.Equal(t, "guide/setup.mdx", f.RelativePath)
	assert.Equal(t, filepath.Join(root, "guide", "setup.mdx"), f.AbsolutePath)
	assert.Equal(t, "setup", f.Name)
	assert.Equal(t, ".mdx", f.Ext)
}

func TestNodeID_Stable(t *testing.T) {
	a := NodeID("docs", "guide/setup.md")
	b := NodeID("docs", "guide/setup.md")
	c := NodeID("pages", "guide/setup.md")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
}

func TestTypeForExt(t *testing.T) {
	assert.Equal(t, TypeMdx, TypeForExt(".md"))
	assert.Equal(t, TypeMdx, TypeForExt(".MDX"))
	assert.Empty(t, TypeForExt(".json"))
}

func TestNewNode(t *testing.T) {
	f := NewFile("docs", "/site/docs", "jobs/job-engineer.mdx")
	raw := []byte("---\njobTitle: Engineer\njobLocation: Remote\n---\n# Role\n\n## Duties\n")

	node, err := NewNode(f, raw)
	require.NoError(t, err)
	assert.Equal(t, TypeMdx, node.Type)
	assert.Equal(t, "Engineer", node.Frontmatter["jobTitle"])
	assert.Equal(t, "# Role\n\n## Duties\n", string(node.Body))
	assert.NotEmpty(t, node.ContentDigest)
	assert.NotNil(t, node.Fields)
	require.Len(t, node.TableOfContents, 2)
	assert.Equal(t, Heading{Level: 2, Title: "Duties", Anchor: "duties"}, node.TableOfContents[1])
}

func TestNewNode_InvalidFrontmatterKeepsNode(t *testing.T) {
	f := NewFile("docs", "/site/docs", "broken.md")

	node, err := NewNode(f, []byte("---\ntitle: [oops\n---\nBody\n"))
	require.ErrorIs(t, err, frontmatter.ErrInvalidFrontmatter)
	require.NotNil(t, node)
	assert.Empty(t, node.Frontmatter)
	assert.Equal(t, "Body\n", string(node.Body))
}

func TestNode_FieldAccessors(t *testing.T) {
	var nilNode *Node
	_, ok := nilNode.Field("slug")
	assert.False(t, ok)

	n := &Node{Fields: map[string]any{"slug": "/intro", "weight": 1.0}}
	assert.Equal(t, "/intro", n.StringField("slug"))
	assert.Empty(t, n.StringField("weight"))
}

func TestDigest_KeyOrderIndependent(t *testing.T) {
	a, err := Digest(map[string]any{"a": 1, "b": 2}, []byte("x"))
	require.NoError(t, err)
	b, err := Digest(map[string]any{"b": 2, "a": 1}, []byte("x"))
	require.NoError(t, err)
	c, err := Digest(map[string]any{"a": 1, "b": 2}, []byte("y"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestTableOfContents(t *testing.T) {
	body := []byte("# Getting Started\n\nText\n\n## Install `cli`\n\n### Next steps\n")

	toc := TableOfContents(body)
	require.Len(t, toc, 3)
	assert.Equal(t, "Getting Started", toc[0].Title)
	assert.Equal(t, "getting-started", toc[0].Anchor)
	assert.Equal(t, 2, toc[1].Level)
	assert.Equal(t, "Install cli", toc[1].Title)
	assert.Equal(t, 3, toc[2].Level)

	entries := TOCEntries(toc)
	assert.Equal(t, "next-steps", entries[2]["anchor"])
}
