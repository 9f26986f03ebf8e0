package content

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
)

// Digest fingerprints a document from its frontmatter and body. Key order in
// fields does not affect the result.
func Digest(fields map[string]any, body []byte) (string, error) {
	fm := ""
	if len(fields) > 0 {
		serialized, err := frontmatter.SerializeYAML(fields, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(serialized), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}
