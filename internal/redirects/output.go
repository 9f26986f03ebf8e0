package redirects

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StatusPermanent is the status written for every rule.
const StatusPermanent = 301

// WriteNetlify writes rules in Netlify _redirects format, one
// "from to status" line per rule in order. Wildcards are written as declared.
func WriteNetlify(w io.Writer, rules []Rule) error {
	bw := bufio.NewWriter(w)
	for _, r := range rules {
		if _, err := fmt.Fprintf(bw, "%s  %s  %d\n", r.From, r.To, StatusPermanent); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// IsExternal reports whether a redirect target leaves the site.
func IsExternal(to string) bool {
	return strings.HasPrefix(to, "http://") || strings.HasPrefix(to, "https://") || strings.HasPrefix(to, "//")
}

// StubPath returns the slash-separated file that serves a redirect stub for
// r, relative to the static root. Wildcard rules and non-absolute sources get
// no stub.
func StubPath(r Rule) (string, bool) {
	if r.IsWildcard() || !strings.HasPrefix(r.From, "/") {
		return "", false
	}
	clean := strings.Trim(path.Clean(r.From), "/")
	if clean == "" || clean == "." {
		return "", false
	}
	if path.Ext(clean) != "" {
		// A file-like source such as /install.sh is served as-is by the
		// static host; a stub would shadow the file name.
		return "", false
	}
	return clean + "/index.html", true
}

// StubHTML renders a meta-refresh document pointing at to.
func StubHTML(to string) ([]byte, error) {
	el := func(a atom.Atom, attrs ...html.Attribute) *html.Node {
		return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	}
	attr := func(k, v string) html.Attribute { return html.Attribute{Key: k, Val: v} }

	head := el(atom.Head)
	head.AppendChild(el(atom.Meta, attr("charset", "utf-8")))
	title := el(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: "Redirecting to " + to})
	head.AppendChild(title)
	head.AppendChild(el(atom.Link, attr("rel", "canonical"), attr("href", to)))
	head.AppendChild(el(atom.Meta, attr("http-equiv", "refresh"), attr("content", "0; url="+to)))

	link := el(atom.A, attr("href", to))
	link.AppendChild(&html.Node{Type: html.TextNode, Data: to})
	p := el(atom.P)
	p.AppendChild(&html.Node{Type: html.TextNode, Data: "Redirecting to "})
	p.AppendChild(link)
	body := el(atom.Body)
	body.AppendChild(p)

	root := el(atom.Html, attr("lang", "en"))
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
