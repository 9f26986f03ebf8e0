package commands

import (
	"git.home.luguber.info/inful/sitebuilder/internal/redirects"
)

// RedirectsCmd implements the 'redirects' command. It needs no configuration.
type RedirectsCmd struct{}

func (r *RedirectsCmd) Run(g *Global) error {
	return redirects.WriteNetlify(g.out(), redirects.Table())
}
