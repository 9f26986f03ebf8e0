package routes

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/host"
	sbtesting "git.home.luguber.info/inful/sitebuilder/internal/testing"
)

func attached(rec *sbtesting.Recorder, nodes ...*content.Node) {
	for _, n := range nodes {
		AttachDerived(rec, n)
	}
}

func TestBuildPages(t *testing.T) {
	index := sbtesting.MdxNode("docs", "/site/content/docs", "index.mdx", nil)
	setup := sbtesting.MdxNode("docs", "/site/content/docs", "guide/setup.md", nil)
	page := sbtesting.MdxNode("pages", "/site/content/pages", "about.mdx", nil)
	rec := sbtesting.NewRecorder(index, setup, page)
	attached(rec, index, setup, page)

	n, err := BuildPages(context.Background(), rec, PageOptions{Component: "/site/src/layouts/docs.js"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, rec.Queries, 1)
	assert.Equal(t, content.TypeMdx, rec.Queries[0].NodeType)
	assert.Equal(t, "/docs/", rec.Queries[0].PathPattern.String())

	assert.Equal(t, []host.PageRequest{
		{Path: "/", Component: "/site/src/layouts/docs.js", Context: host.PageContext{ID: index.ID, Layout: "docs"}},
		{Path: "/guide/setup", Component: "/site/src/layouts/docs.js", Context: host.PageContext{ID: setup.ID, Layout: "docs"}},
	}, rec.Pages)
}

func TestBuildPages_QueryErrorsRegisterNothing(t *testing.T) {
	node := sbtesting.MdxNode("docs", "/site/docs", "a.md", nil)
	rec := sbtesting.NewRecorder(node)
	rec.Result.Errors = []error{errors.New("syntax error"), errors.New("unknown field")}

	var logs bytes.Buffer
	n, err := BuildPages(context.Background(), rec, PageOptions{
		Component: "docs.js",
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
	})

	require.Error(t, err)
	assert.Zero(t, n)
	assert.Empty(t, rec.Pages)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryQuery))
	assert.Equal(t, ferrors.SeverityFatal, ferrors.GetSeverity(err))
	assert.Contains(t, err.Error(), "syntax error")
	assert.Contains(t, logs.String(), "unknown field")
}

func TestBuildPages_SlugCollisionRequestsBoth(t *testing.T) {
	a := sbtesting.MdxNode("docs", "/site/docs", "guide.md", nil)
	b := sbtesting.MdxNode("docs", "/site/docs", "guide.mdx", nil)
	rec := sbtesting.NewRecorder(a, b)
	attached(rec, a, b)

	n, err := BuildPages(context.Background(), rec, PageOptions{Component: "docs.js"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, rec.Pages, 2)
	assert.Equal(t, rec.Pages[0].Path, rec.Pages[1].Path)
	assert.Equal(t, b.ID, rec.Pages[1].Context.ID)
}

func TestBuildPages_CustomPattern(t *testing.T) {
	a := sbtesting.MdxNode("docs", "/site/handbook", "a.md", nil)
	rec := sbtesting.NewRecorder(a)
	attached(rec, a)

	n, err := BuildPages(context.Background(), rec, PageOptions{Pattern: regexp.MustCompile(`/handbook/`)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPageRequestFor_EmptySlug(t *testing.T) {
	node := &content.Node{Fields: map[string]any{"id": "x"}}
	req := PageRequestFor(node, "c", "docs")
	assert.Equal(t, "/", req.Path)
	assert.Equal(t, "x", req.Context.ID)
}
