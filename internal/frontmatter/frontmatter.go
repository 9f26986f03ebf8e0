// Package frontmatter splits content files into a metadata block and a body.
//
// Two block styles are recognized: YAML between `---` lines and TOML between
// `+++` lines. Output is always written as YAML.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the frontmatter block syntax.
type Format string

const (
	FormatNone Format = ""
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Style captures formatting details needed for stable rewriting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Block is a document split into its frontmatter and body.
type Block struct {
	Format Format
	Raw    []byte
	Body   []byte
	Style  Style
}

var (
	// ErrMissingClosingDelimiter indicates a document opened a frontmatter block
	// without closing it.
	ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")
	// ErrInvalidFrontmatter wraps YAML/TOML decoding failures.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
)

var delimiters = []struct {
	marker string
	format Format
}{
	{"---", FormatYAML},
	{"+++", FormatTOML},
}

// Split separates frontmatter from the body.
//
// If the document does not start with a known delimiter the Block has
// FormatNone and Body holds the full input.
func Split(content []byte) (Block, error) {
	style := detectStyle(content)
	nl := style.Newline

	for _, d := range delimiters {
		open := []byte(d.marker + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}
		start := len(open)
		if bytes.HasPrefix(content[start:], open) {
			return Block{Format: d.format, Raw: []byte{}, Body: content[start+len(open):], Style: style}, nil
		}
		closeSeq := []byte(nl + d.marker + nl)
		idx := bytes.Index(content[start:], closeSeq)
		if idx < 0 {
			// A closing marker on the final line without a newline still counts.
			tail := []byte(nl + d.marker)
			if bytes.HasSuffix(content, tail) {
				return Block{Format: d.format, Raw: content[start : len(content)-len(tail)+len(nl)], Body: []byte{}, Style: style}, nil
			}
			return Block{Body: content, Style: style}, ErrMissingClosingDelimiter
		}
		return Block{
			Format: d.format,
			Raw:    content[start : start+idx+len(nl)],
			Body:   content[start+idx+len(closeSeq):],
			Style:  style,
		}, nil
	}
	return Block{Format: FormatNone, Body: content, Style: style}, nil
}

// Fields decodes the block's frontmatter into a map. An absent or empty block
// yields an empty, non-nil map.
func (b Block) Fields() (map[string]any, error) {
	switch b.Format {
	case FormatYAML:
		return ParseYAML(b.Raw)
	case FormatTOML:
		return ParseTOML(b.Raw)
	default:
		return map[string]any{}, nil
	}
}

// Parse splits content and decodes its frontmatter in one step.
func Parse(content []byte) (map[string]any, []byte, error) {
	block, err := Split(content)
	if err != nil {
		return map[string]any{}, block.Body, err
	}
	fields, err := block.Fields()
	if err != nil {
		return map[string]any{}, block.Body, err
	}
	return fields, block.Body, nil
}

// ParseYAML parses raw YAML frontmatter (without delimiters) into a map.
func ParseYAML(raw []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", ErrInvalidFrontmatter, err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// ParseTOML parses raw TOML frontmatter (without delimiters) into a map.
func ParseTOML(raw []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}
	if err := toml.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: toml: %w", ErrInvalidFrontmatter, err)
	}
	return fields, nil
}

// Join reassembles a YAML-fronted document. Empty frontmatter returns body as-is.
func Join(raw []byte, body []byte, style Style) []byte {
	if len(raw) == 0 {
		return body
	}
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := []byte("---" + nl)

	out := make([]byte, 0, 2*len(delim)+len(raw)+len(body))
	out = append(out, delim...)
	out = append(out, raw...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}
	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
