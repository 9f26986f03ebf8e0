package hugo

import (
	"git.home.luguber.info/inful/sitebuilder/internal/bundler"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/host"
	"git.home.luguber.info/inful/sitebuilder/internal/index"
	"git.home.luguber.info/inful/sitebuilder/internal/redirects"
)

// BuildState carries everything stages share during one build.
type BuildState struct {
	Generator *Generator
	Report    *BuildReport

	// OutDir is where stages write; the staging directory during Build.
	OutDir string

	Roots map[string]string
	Files []content.File
	Index *index.Store

	schema    *schemaRegistry
	redirects []redirects.Rule
	pages     map[string]host.PageRequest
	pageOrder []string

	Bundler  map[bundler.Stage]*bundler.Config
	Compiler *bundler.CompilerConfig
}

func newBuildState(g *Generator, report *BuildReport) *BuildState {
	return &BuildState{
		Generator: g,
		Report:    report,
		schema:    newSchemaRegistry(),
		pages:     map[string]host.PageRequest{},
		Bundler:   map[bundler.Stage]*bundler.Config{},
	}
}

// Pages returns page requests in first-registration order. A path
// registered more than once holds its last request.
func (bs *BuildState) Pages() []host.PageRequest {
	out := make([]host.PageRequest, 0, len(bs.pageOrder))
	for _, p := range bs.pageOrder {
		out = append(out, bs.pages[p])
	}
	return out
}

// Redirects returns redirects in registration order.
func (bs *BuildState) Redirects() []redirects.Rule {
	out := make([]redirects.Rule, len(bs.redirects))
	copy(out, bs.redirects)
	return out
}

// SchemaTypes returns declared types in declaration order.
func (bs *BuildState) SchemaTypes() []TypeDef {
	out := make([]TypeDef, 0, len(bs.schema.order))
	for _, name := range bs.schema.order {
		out = append(out, *bs.schema.types[name])
	}
	return out
}

func (bs *BuildState) registerPage(req host.PageRequest) (replaced bool) {
	if _, ok := bs.pages[req.Path]; ok {
		replaced = true
	} else {
		bs.pageOrder = append(bs.pageOrder, req.Path)
	}
	bs.pages[req.Path] = req
	return replaced
}
