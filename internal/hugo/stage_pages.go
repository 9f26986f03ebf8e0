package hugo

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/host"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/routes"
)

// stageCreatePages creates default pages first, so requests from the site
// module replace them on a shared path.
func stageCreatePages(ctx context.Context, bs *BuildState) error {
	api := &hostAPI{ctx: ctx, bs: bs, stage: StageCreatePages}

	n, err := createDefaultPages(ctx, bs, api)
	if err != nil {
		return err
	}
	bs.Report.DefaultPages = n

	if err := bs.Generator.hooks.CreatePages(ctx, api); err != nil {
		return err
	}
	bs.Report.Pages = len(bs.pageOrder)
	bs.Report.Redirects = len(bs.redirects)
	return nil
}

// createDefaultPages requests one page per node of every default_pages
// source, at the path its file has under the source root. The file itself is
// the page component.
func createDefaultPages(ctx context.Context, bs *BuildState, api host.PageRegistrar) (int, error) {
	sources := map[string]bool{}
	for _, src := range bs.Generator.config.Content.Sources {
		if src.DefaultPages {
			sources[src.Name] = true
		}
	}
	if len(sources) == 0 {
		return 0, nil
	}

	nodes, err := bs.Index.Query(ctx, content.TypeMdx, nil)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range nodes {
		if !sources[n.Parent.Source] {
			continue
		}
		api.RegisterPage(host.PageRequest{
			Path:      routes.DeriveSlug(n.Parent.RelativePath, n.Parent.Ext),
			Component: n.Parent.AbsolutePath,
			Context:   host.PageContext{ID: n.ID},
		})
		count++
	}
	slog.Debug("Default pages requested", logfields.Count(count))
	return count, nil
}
