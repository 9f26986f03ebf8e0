// Package site is the site's configuration module: it implements host.Hooks
// by wiring redirects, route derivation, schema declarations and the bundler
// patch into the host lifecycle.
package site

import (
	"context"
	"log/slog"
	"regexp"

	"git.home.luguber.info/inful/sitebuilder/internal/bundler"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/host"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/redirects"
	"git.home.luguber.info/inful/sitebuilder/internal/routes"
)

// SchemaTypeDefs guarantees the job fields exist on every Mdx node, so pages
// listing jobs render even when no job documents exist.
const SchemaTypeDefs = `
  type MdxFields implements Node {
    jobTitle: String
    jobLocation: String
  }
`

// ExportDefaultFromPlugin is the compiler plugin the site's components need.
const ExportDefaultFromPlugin = "@babel/plugin-proposal-export-default-from"

// Options configures the Plugin.
type Options struct {
	Root          string         // Project root
	DocsComponent string         // Page component for docs pages
	DocsPattern   *regexp.Regexp // Defaults to routes.DocsPattern
	Redirects     []redirects.Rule
	Resolver      bundler.ModuleResolver
	Logger        *slog.Logger
}

// Plugin implements host.Hooks.
type Plugin struct {
	opts Options
	log  *slog.Logger
}

var _ host.Hooks = (*Plugin)(nil)

// New creates the plugin. Nil Redirects means the built-in table; a nil
// Resolver searches node_modules from Root.
func New(opts Options) *Plugin {
	if opts.Redirects == nil {
		opts.Redirects = redirects.Table()
	}
	if opts.Resolver == nil {
		opts.Resolver = bundler.NodeResolver{Dir: opts.Root}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Plugin{opts: opts, log: log}
}

// CreateSchemaCustomization declares SchemaTypeDefs.
func (p *Plugin) CreateSchemaCustomization(_ context.Context, schema host.SchemaRegistry) error {
	if err := schema.DeclareSchemaTypes(SchemaTypeDefs); err != nil {
		return errors.WrapError(err, errors.CategorySchema, "failed to declare schema types").Fatal().Build()
	}
	return nil
}

// OnCreateNode attaches routing fields to Mdx nodes.
func (p *Plugin) OnCreateNode(_ context.Context, node *content.Node, api host.NodeAPI) error {
	if stored, ok := api.GetNode(node.ID); ok {
		node = stored
	}
	if d, ok := routes.AttachDerived(api, node); ok {
		p.log.Debug("Fields attached", logfields.NodeID(d.ID), logfields.Slug(d.Slug))
	}
	return nil
}

// CreatePages registers the redirect table, then requests the docs pages.
func (p *Plugin) CreatePages(ctx context.Context, api host.PagesAPI) error {
	n := redirects.Register(api, p.opts.Redirects)
	p.log.Info("Redirects registered", logfields.Count(n))

	pages, err := routes.BuildPages(ctx, api, routes.PageOptions{
		Component: p.opts.DocsComponent,
		Pattern:   p.opts.DocsPattern,
		Logger:    p.log,
	})
	if err != nil {
		return err
	}
	p.log.Info("Docs pages requested", logfields.Count(pages))
	return nil
}

// BundlerSteps is the site's bundler patch in application order.
func BundlerSteps() []bundler.Step {
	return []bundler.Step{
		bundler.ResolveRoots("src", "node_modules"),
		bundler.AliasPath("$components", "src/components"),
		bundler.Substitute("buble", "@philpl/buble"),
		bundler.NullModuleForHTML("mapbox-gl"),
		// redoc imports core-js 3 while the host aliases core-js 2.
		bundler.ReconcilePolyfill("core-js"),
	}
}

// OnCreateBundlerConfig applies BundlerSteps for stage.
func (p *Plugin) OnCreateBundlerConfig(_ context.Context, stage bundler.Stage, cfg *bundler.Config) (*bundler.Config, error) {
	env := bundler.Env{
		Stage:    stage,
		Root:     p.opts.Root,
		Resolver: p.opts.Resolver,
		Logger:   p.log,
	}
	return bundler.Apply(cfg, env, BundlerSteps()...)
}

// OnCreateCompilerConfig registers ExportDefaultFromPlugin.
func (p *Plugin) OnCreateCompilerConfig(_ context.Context, cfg *bundler.CompilerConfig) error {
	cfg.SetPlugin(ExportDefaultFromPlugin, nil)
	return nil
}
