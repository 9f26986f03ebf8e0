package content

import (
	"errors"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
)

// TypeMdx is the node type of markdown and MDX documents.
const TypeMdx = "Mdx"

// File describes the source file a node was created from.
type File struct {
	Source       string // Name of the configured content source
	RelativePath string // Slash-separated path relative to the source root, with extension
	AbsolutePath string
	Name         string // Base name without extension
	Ext          string // Extension including the leading dot
}

// NewFile builds a File for relPath under root.
func NewFile(source, root, relPath string) File {
	rel := filepath.ToSlash(relPath)
	ext := path.Ext(rel)
	return File{
		Source:       source,
		RelativePath: rel,
		AbsolutePath: filepath.Join(root, filepath.FromSlash(rel)),
		Name:         strings.TrimSuffix(path.Base(rel), ext),
		Ext:          ext,
	}
}

// Node is one ingested content document.
type Node struct {
	ID              string
	Type            string
	Parent          File
	Frontmatter     map[string]any
	Body            []byte
	TableOfContents []Heading
	ContentDigest   string
	Fields          map[string]any
}

// Field returns a derived field value and whether it was attached.
func (n *Node) Field(name string) (any, bool) {
	if n == nil || n.Fields == nil {
		return nil, false
	}
	v, ok := n.Fields[name]
	return v, ok
}

// StringField returns a derived string field, or "" when absent.
func (n *Node) StringField(name string) string {
	v, _ := n.Field(name)
	s, _ := v.(string)
	return s
}

// NodeID returns a stable identifier for a file within a source.
func NodeID(source, relPath string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("sitebuilder:"+source+"/"+filepath.ToSlash(relPath))).String()
}

// TypeForExt maps a file extension onto a node type. Unknown extensions
// return "".
func TypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".md", ".mdx", ".markdown":
		return TypeMdx
	default:
		return ""
	}
}

// NewNode parses raw file content into a Node.
//
// Frontmatter that fails to parse yields a node with empty frontmatter and a
// non-nil error wrapping frontmatter.ErrInvalidFrontmatter or
// frontmatter.ErrMissingClosingDelimiter; callers may log and keep the node.
func NewNode(file File, raw []byte) (*Node, error) {
	fields, body, parseErr := frontmatter.Parse(raw)

	node := &Node{
		ID:              NodeID(file.Source, file.RelativePath),
		Type:            TypeForExt(file.Ext),
		Parent:          file,
		Frontmatter:     fields,
		Body:            body,
		TableOfContents: TableOfContents(body),
		Fields:          map[string]any{},
	}

	digest, err := Digest(fields, body)
	if err != nil {
		return node, errors.Join(parseErr, err)
	}
	node.ContentDigest = digest
	return node, parseErr
}
