package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/sitebuilder/internal/hugo"
)

// RoutesCmd implements the 'routes' command.
type RoutesCmd struct {
	JSON bool `help:"Print pages as JSON"`
}

type routeEntry struct {
	Path      string `json:"path"`
	Component string `json:"component"`
	Layout    string `json:"layout,omitempty"`
	ID        string `json:"id"`
}

func (r *RoutesCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	bs, err := s.gen.Plan(ctx)
	if err != nil {
		return err
	}
	return writeRoutes(g, bs, r.JSON)
}

func writeRoutes(g *Global, bs *hugo.BuildState, asJSON bool) error {
	pages := bs.Pages()
	entries := make([]routeEntry, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, routeEntry{
			Path:      p.Path,
			Component: p.Component,
			Layout:    p.Context.Layout,
			ID:        p.Context.ID,
		})
	}

	if asJSON {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PATH\tLAYOUT\tCOMPONENT")
	for _, e := range entries {
		layout := e.Layout
		if layout == "" {
			layout = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Path, layout, e.Component)
	}
	return tw.Flush()
}
