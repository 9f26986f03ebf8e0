package hugo

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/host"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/redirects"
)

// hostAPI is the host surface handed to the site module during one stage.
type hostAPI struct {
	ctx   context.Context
	bs    *BuildState
	stage StageName
}

var _ interface {
	host.PagesAPI
	host.NodeAPI
	host.SchemaRegistry
} = (*hostAPI)(nil)

func (a *hostAPI) RegisterRedirect(from, to string) {
	a.bs.redirects = append(a.bs.redirects, redirects.Rule{From: from, To: to})
}

func (a *hostAPI) QueryContent(ctx context.Context, q host.Query) host.QueryResult {
	return a.bs.Index.QueryContent(ctx, q)
}

func (a *hostAPI) RegisterPage(req host.PageRequest) {
	if a.bs.registerPage(req) {
		slog.Debug("Page path registered again, keeping the later request",
			logfields.Slug(req.Path), logfields.NodeID(req.Context.ID))
	}
}

func (a *hostAPI) AttachField(node *content.Node, name string, value any) {
	if node.Fields == nil {
		node.Fields = map[string]any{}
	}
	node.Fields[name] = value
	if err := a.bs.Index.SetFields(a.ctx, node.ID, node.Fields); err != nil {
		slog.Warn("Failed to persist node field", logfields.NodeID(node.ID), slog.String("field", name), logfields.Error(err))
		a.bs.Report.AddIssue(IssueIndexFailure, a.stage, SeverityWarning, err.Error(), err)
	}
}

func (a *hostAPI) GetNode(id string) (*content.Node, bool) {
	n, ok, err := a.bs.Index.Get(a.ctx, id)
	if err != nil {
		slog.Warn("Node lookup failed", logfields.NodeID(id), logfields.Error(err))
		return nil, false
	}
	return n, ok
}

func (a *hostAPI) DeclareSchemaTypes(typeDefs string) error {
	defs, err := ParseTypeDefs(typeDefs)
	if err != nil {
		return err
	}
	a.bs.schema.declare(defs)
	for _, d := range defs {
		slog.Debug("Schema type declared", slog.String("type", d.Name), logfields.Count(len(d.Fields)))
	}
	return nil
}
