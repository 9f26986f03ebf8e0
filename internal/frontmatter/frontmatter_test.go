package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	block, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, FormatNone, block.Format)
	require.Empty(t, block.Raw)
	require.Equal(t, input, block.Body)
}

func TestSplit_YAMLFrontmatter(t *testing.T) {
	block, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.Equal(t, FormatYAML, block.Format)
	require.Equal(t, []byte("key: value\n"), block.Raw)
	require.Equal(t, []byte("# Title\n"), block.Body)
}

func TestSplit_TOMLFrontmatter(t *testing.T) {
	block, err := Split([]byte("+++\ntitle = \"Hello\"\n+++\nbody\n"))
	require.NoError(t, err)
	require.Equal(t, FormatTOML, block.Format)
	require.Equal(t, []byte("title = \"Hello\"\n"), block.Raw)
	require.Equal(t, []byte("body\n"), block.Body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\nkey: value\n# Title\n")

	block, err := Split(input)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
	require.Equal(t, FormatNone, block.Format)
	require.Equal(t, input, block.Body)
}

func TestSplit_CRLF(t *testing.T) {
	block, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.Equal(t, "\r\n", block.Style.Newline)
	require.Equal(t, []byte("key: value\r\n"), block.Raw)
	require.Equal(t, []byte("# Title\r\n"), block.Body)
}

func TestSplit_EmptyBlock(t *testing.T) {
	block, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.Equal(t, FormatYAML, block.Format)
	require.Empty(t, block.Raw)
	require.Equal(t, []byte("# Title\n"), block.Body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	block, err := Split([]byte("---\nkey: value\n---"))
	require.NoError(t, err)
	require.Equal(t, []byte("key: value\n"), block.Raw)
	require.Empty(t, block.Body)
}

func TestParse_YAML(t *testing.T) {
	fields, body, err := Parse([]byte("---\nmetaTitle: Jobs\nweight: 3\n---\nHi\n"))
	require.NoError(t, err)
	assert.Equal(t, "Jobs", fields["metaTitle"])
	assert.Equal(t, 3, fields["weight"])
	assert.Equal(t, []byte("Hi\n"), body)
}

func TestParse_TOML(t *testing.T) {
	fields, _, err := Parse([]byte("+++\njobTitle = \"Engineer\"\nweight = 2\n+++\n"))
	require.NoError(t, err)
	assert.Equal(t, "Engineer", fields["jobTitle"])
	assert.Equal(t, int64(2), fields["weight"])
}

func TestParse_InvalidYAML(t *testing.T) {
	fields, body, err := Parse([]byte("---\nkey: [unclosed\n---\nbody\n"))
	require.ErrorIs(t, err, ErrInvalidFrontmatter)
	assert.Empty(t, fields)
	assert.Equal(t, []byte("body\n"), body)
}

func TestParse_NoFrontmatter(t *testing.T) {
	fields, body, err := Parse([]byte("plain"))
	require.NoError(t, err)
	assert.NotNil(t, fields)
	assert.Empty(t, fields)
	assert.Equal(t, []byte("plain"), body)
}
