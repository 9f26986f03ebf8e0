package site

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/bundler"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/redirects"
	sbtesting "git.home.luguber.info/inful/sitebuilder/internal/testing"
)

type failingSchema struct{}

func (failingSchema) DeclareSchemaTypes(string) error { return errors.New("parse error") }

type fixedResolver string

func (f fixedResolver) Resolve(string) (string, error) { return string(f), nil }

func TestPlugin_CreateSchemaCustomization(t *testing.T) {
	p := New(Options{})
	rec := sbtesting.NewRecorder()

	require.NoError(t, p.CreateSchemaCustomization(context.Background(), rec))
	require.Len(t, rec.Schema, 1)
	assert.Contains(t, rec.Schema[0], "type MdxFields implements Node")
	assert.Contains(t, rec.Schema[0], "jobLocation: String")

	err := p.CreateSchemaCustomization(context.Background(), failingSchema{})
	assert.True(t, ferrors.HasCategory(err, ferrors.CategorySchema))
}

func TestPlugin_LifecycleRegistersRedirectsBeforeQuery(t *testing.T) {
	node := sbtesting.MdxNode("docs", "/site/content/docs", "getting-started.mdx", nil)
	rec := sbtesting.NewRecorder(node)
	p := New(Options{Root: "/site", DocsComponent: "/site/src/layouts/docs.js"})

	require.NoError(t, p.OnCreateNode(context.Background(), node, rec))
	assert.Equal(t, "Getting Started", rec.Attached[node.ID]["title"])

	require.NoError(t, p.CreatePages(context.Background(), rec))
	assert.Len(t, rec.Redirects, len(redirects.Table()))
	require.Len(t, rec.Pages, 1)
	assert.Equal(t, "/getting-started", rec.Pages[0].Path)
	assert.Equal(t, "docs", rec.Pages[0].Context.Layout)
}

func TestPlugin_CreatePagesFailsOnQueryErrors(t *testing.T) {
	rec := sbtesting.NewRecorder()
	rec.Result.Errors = []error{errors.New("boom")}
	p := New(Options{Redirects: []redirects.Rule{{From: "/a", To: "/b"}}})

	err := p.CreatePages(context.Background(), rec)
	require.Error(t, err)
	assert.Len(t, rec.Redirects, 1, "redirects are registered before the query")
	assert.Empty(t, rec.Pages)
}

func TestPlugin_OnCreateBundlerConfig(t *testing.T) {
	root := filepath.FromSlash("/site")
	p := New(Options{Root: root, Resolver: fixedResolver("/site/node_modules/core-js/es/index.js")})
	base := &bundler.Config{Resolve: bundler.Resolve{Alias: map[string]string{"core-js": "/gatsby/core-js"}}}

	html, err := p.OnCreateBundlerConfig(context.Background(), bundler.StageBuildHTML, base)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src"), "node_modules"}, html.Resolve.Modules)
	assert.Equal(t, filepath.Join(root, "src", "components"), html.Resolve.Alias["$components"])
	assert.Equal(t, "@philpl/buble", html.Resolve.Alias["buble"])
	assert.Equal(t, "/gatsby/core-js/modules", html.Resolve.Alias["core-js/modules"])
	assert.Equal(t, "/site/node_modules/core-js/es", html.Resolve.Alias["core-js/es"])
	assert.Len(t, html.Rules, 1)

	js, err := p.OnCreateBundlerConfig(context.Background(), bundler.StageBuildJavaScript, base)
	require.NoError(t, err)
	assert.Empty(t, js.Rules)
	assert.Equal(t, "/gatsby/core-js", base.Resolve.Alias["core-js"], "base config is not modified")
}

func TestPlugin_OnCreateCompilerConfig(t *testing.T) {
	p := New(Options{})
	var cfg bundler.CompilerConfig

	require.NoError(t, p.OnCreateCompilerConfig(context.Background(), &cfg))
	require.NoError(t, p.OnCreateCompilerConfig(context.Background(), &cfg))
	assert.Equal(t, []bundler.CompilerPlugin{{Name: ExportDefaultFromPlugin}}, cfg.Plugins)
}
