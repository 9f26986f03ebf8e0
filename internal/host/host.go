// Package host declares the API a site configuration module uses to talk to
// the static-site host, and the lifecycle hooks the host calls on it.
package host

import (
	"context"
	"regexp"

	"git.home.luguber.info/inful/sitebuilder/internal/bundler"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
)

// RedirectRegistrar records URL redirects for the host to serve.
type RedirectRegistrar interface {
	RegisterRedirect(from, to string)
}

// Query selects content nodes.
type Query struct {
	NodeType    string
	PathPattern *regexp.Regexp // Matched against the slash-separated absolute file path; nil matches all
}

// QueryResult carries matching nodes or the errors that prevented the query.
type QueryResult struct {
	Nodes  []*content.Node
	Errors []error
}

// ContentQuerier answers content queries.
type ContentQuerier interface {
	QueryContent(ctx context.Context, q Query) QueryResult
}

// PageContext is passed to the page component.
type PageContext struct {
	ID     string `json:"id"`
	Layout string `json:"layout"`
}

// PageRequest asks the host to build one page.
type PageRequest struct {
	Path      string
	Component string
	Context   PageContext
}

// PageRegistrar accepts page requests. Registering a path twice replaces the
// earlier request.
type PageRegistrar interface {
	RegisterPage(req PageRequest)
}

// FieldAttacher attaches derived fields to nodes.
type FieldAttacher interface {
	AttachField(node *content.Node, name string, value any)
}

// NodeGetter looks up nodes by ID.
type NodeGetter interface {
	GetNode(id string) (*content.Node, bool)
}

// SchemaRegistry accepts type definitions in SDL form.
type SchemaRegistry interface {
	DeclareSchemaTypes(typeDefs string) error
}

// NodeAPI is available while a node is being created.
type NodeAPI interface {
	FieldAttacher
	NodeGetter
}

// PagesAPI is available during page creation.
type PagesAPI interface {
	RedirectRegistrar
	ContentQuerier
	PageRegistrar
}

// Hooks is the lifecycle a site module implements. The host calls
// CreateSchemaCustomization first, OnCreateNode once per ingested node, then
// CreatePages, then OnCreateBundlerConfig once per bundler stage and
// OnCreateCompilerConfig once.
type Hooks interface {
	CreateSchemaCustomization(ctx context.Context, schema SchemaRegistry) error
	OnCreateNode(ctx context.Context, node *content.Node, api NodeAPI) error
	CreatePages(ctx context.Context, api PagesAPI) error
	OnCreateBundlerConfig(ctx context.Context, stage bundler.Stage, cfg *bundler.Config) (*bundler.Config, error)
	OnCreateCompilerConfig(ctx context.Context, cfg *bundler.CompilerConfig) error
}
