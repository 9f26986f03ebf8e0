package routes

import (
	"context"
	stderrors "errors"
	"log/slog"
	"regexp"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/host"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// DocsLayout is the layout name passed in every docs page context.
const DocsLayout = "docs"

// DocsPattern selects docs nodes by absolute path.
var DocsPattern = regexp.MustCompile(`/docs/`)

// PageOptions configures BuildPages.
type PageOptions struct {
	Component string         // Docs page component
	Pattern   *regexp.Regexp // Defaults to DocsPattern
	Logger    *slog.Logger
}

// PageSource is the part of the host BuildPages needs.
type PageSource interface {
	host.ContentQuerier
	host.PageRegistrar
}

// BuildPages requests one page per Mdx node under the docs tree and returns
// the number of requests.
//
// If the query reports errors they are logged and a fatal query error is
// returned before any page is registered.
func BuildPages(ctx context.Context, api PageSource, opts PageOptions) (int, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	pattern := opts.Pattern
	if pattern == nil {
		pattern = DocsPattern
	}

	res := api.QueryContent(ctx, host.Query{NodeType: content.TypeMdx, PathPattern: pattern})
	if len(res.Errors) > 0 {
		for _, err := range res.Errors {
			log.Error("Content query failed", logfields.Error(err))
		}
		return 0, errors.WrapError(stderrors.Join(res.Errors...), errors.CategoryQuery, "content query failed").
			WithContext("errors", len(res.Errors)).
			WithContext("pattern", pattern.String()).
			Fatal().
			Build()
	}

	for _, node := range res.Nodes {
		req := PageRequestFor(node, opts.Component, DocsLayout)
		api.RegisterPage(req)
		log.Debug("Page requested", logfields.Slug(req.Path), logfields.NodeID(req.Context.ID))
	}
	return len(res.Nodes), nil
}

// PageRequestFor builds the page request for a node from its attached slug
// and id fields. An empty slug maps to "/".
func PageRequestFor(node *content.Node, component, layout string) host.PageRequest {
	path := node.StringField(FieldSlug)
	if path == "" {
		path = "/"
	}
	return host.PageRequest{
		Path:      path,
		Component: component,
		Context: host.PageContext{
			ID:     node.StringField(FieldID),
			Layout: layout,
		},
	}
}
