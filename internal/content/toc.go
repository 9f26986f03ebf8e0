package content

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is one table-of-contents entry.
type Heading struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// TableOfContents extracts the headings of a markdown body in document order.
func TableOfContents(body []byte) []Heading {
	md := goldmark.New(goldmark.WithParserOptions(parser.WithAutoHeadingID()))
	root := md.Parser().Parse(text.NewReader(body))

	headings := make([]Heading, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		entry := Heading{Level: h.Level, Title: headingText(h, body)}
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				entry.Anchor = string(b)
			}
		}
		headings = append(headings, entry)
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

func headingText(h gmast.Node, source []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(h, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *gmast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// TOCEntries converts headings into plain maps for serialization into page
// front matter.
func TOCEntries(headings []Heading) []map[string]any {
	out := make([]map[string]any, 0, len(headings))
	for _, h := range headings {
		out = append(out, map[string]any{
			"level":  h.Level,
			"title":  h.Title,
			"anchor": h.Anchor,
		})
	}
	return out
}
