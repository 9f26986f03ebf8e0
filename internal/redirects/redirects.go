// Package redirects holds the site's legacy URL redirects and serializes them
// for static hosts.
package redirects

import "git.home.luguber.info/inful/sitebuilder/internal/host"

// Rule maps an exact path, or a pattern ending in "*", to an absolute path or
// external URL. Rules are registered unvalidated.
type Rule struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// IsWildcard reports whether From is a trailing-wildcard pattern.
func (r Rule) IsWildcard() bool {
	return len(r.From) > 0 && r.From[len(r.From)-1] == '*'
}

var table = []Rule{
	{From: "/blog", To: "https://medium.com/qri-io"},
	{From: "/blog/a_better_mousetrap_podcast/", To: "https://medium.com/qri-io/a-better-mousetrap-podcast-6cd068aba347"},
	{From: "/blog/datasets_are_books/", To: "https://medium.com/qri-io/datasets-are-books-not-houses-760bd4736229"},
	{From: "/blog/introducing_qri/", To: "https://medium.com/qri-io/introducing-qri-3b0e7fb470da"},
	{From: "/blog/mlb_homeruns/", To: "https://medium.com/qri-io/leave-the-munging-to-the-machines-mlb-edition-9c23c82b4867"},
	{From: "/blog/qri_out_and_about/", To: "https://medium.com/qri-io/qri-oot-and-aboot-7d5f5c591908"},
	{From: "/blog/unit_test_performance/", To: "https://medium.com/qri-io"},
	{From: "/blog/*", To: "https://medium.com/qri-io"},

	{From: "/desktop", To: "/download"},
	{From: "/desktop/getting-started", To: "/docs/getting-started/qri-desktop-quickstart"},
	{From: "/docs/concepts/content-addressing", To: "/docs/reference/content-addressing"},
	{From: "/docs/concepts/dataset", To: "/docs/dataset-components/overview"},
	{From: "/docs/concepts/ipfs_to_qri", To: "/docs/reference/ipfs_to_qri"},
	{From: "/docs/concepts/overview", To: "/docs/getting-started/what-is-qri"},
	{From: "/docs/concepts/*", To: "/docs"},
	{From: "/docs/concepts", To: "/docs"},
	{From: "/docs/starlark/introduction", To: "/docs/transforms/overview"},
	{From: "/docs/starlark/starlib", To: "/docs/transforms/starlib"},
	{From: "/docs/starlark/examples", To: "/docs/transforms/examples"},
	{From: "/docs/starlark/runtime", To: "/docs/transforms/runtime"},
	{From: "/docs/tutorials/cli-quickstart", To: "/docs/getting-started/qri-cli-quickstart"},
	{From: "/docs/tutorials/*", To: "/docs"},
	{From: "/docs/tutorials", To: "/docs"},
	{From: "/docs/reference/dataset-specification/", To: "/docs/reference/dataset"},
	{From: "/docs/reference/starlark_syntax", To: "/docs/starlark/runtime"},
	{From: "/docs/reference/starlark_examples", To: "/docs/starlark/examples"},
	{From: "/docs/reference/starlib", To: "/docs/starlark/starlib"},
	{From: "/docs/reference", To: "/docs"},
	{From: "/docs/workflows", To: "/docs"},

	{From: "/papers/deterministic_querying", To: "/deterministic-querying"},

	{From: "/install.sh", To: "https://raw.githubusercontent.com/qri-io/qri_install/master/install.sh"},
}

// Table returns a copy of the redirect table in declaration order.
func Table() []Rule {
	out := make([]Rule, len(table))
	copy(out, table)
	return out
}

// Register submits each rule to r exactly once, in order, and returns the
// number of registrations.
func Register(r host.RedirectRegistrar, rules []Rule) int {
	for _, rule := range rules {
		r.RegisterRedirect(rule.From, rule.To)
	}
	return len(rules)
}
