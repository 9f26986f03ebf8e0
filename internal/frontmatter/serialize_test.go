package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeYAML_SortsKeysRecursively(t *testing.T) {
	out, err := SerializeYAML(map[string]any{
		"title": "Intro",
		"id":    "n1",
		"params": map[string]any{
			"z": 1,
			"a": true,
		},
	}, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, "id: n1\nparams:\n  a: true\n  z: 1\ntitle: Intro\n", string(out))
}

func TestSerializeYAML_NilAndPointerValues(t *testing.T) {
	w := 2.5
	out, err := SerializeYAML(map[string]any{
		"jobTitle": nil,
		"weight":   &w,
		"missing":  (*float64)(nil),
		"order":    4.0,
	}, Style{})
	require.NoError(t, err)
	require.Equal(t, "jobTitle: null\nmissing: null\norder: 4\nweight: 2.5\n", string(out))
}

func TestSerializeYAML_Sequences(t *testing.T) {
	out, err := SerializeYAML(map[string]any{
		"toc": []map[string]any{{"title": "A", "anchor": "a"}},
	}, Style{})
	require.NoError(t, err)
	require.Equal(t, "toc:\n  - anchor: a\n    title: A\n", string(out))
}

func TestSerializeYAML_Empty(t *testing.T) {
	out, err := SerializeYAML(nil, Style{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestRender_RoundTrip(t *testing.T) {
	doc, err := Render(map[string]any{"title": "Hello"}, []byte("Body\n"))
	require.NoError(t, err)
	require.Equal(t, "---\ntitle: Hello\n---\nBody\n", string(doc))

	fields, body, err := Parse(doc)
	require.NoError(t, err)
	require.Equal(t, "Hello", fields["title"])
	require.Equal(t, []byte("Body\n"), body)
}
