package hugo

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/redirects"
)

// RedirectsFile is the Netlify-style redirect list under static/.
const RedirectsFile = "_redirects"

func stageWriteOutput(ctx context.Context, bs *BuildState) error {
	if err := writePages(ctx, bs); err != nil {
		return err
	}
	if err := writeRedirects(bs); err != nil {
		return err
	}
	if err := writeBundlerManifests(bs); err != nil {
		return err
	}
	if err := bs.Generator.writeHugoConfig(bs, bs.OutDir); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "failed to write site configuration").Fatal().Build()
	}
	return nil
}

// writePages writes one content file per page request. A request whose node
// is gone is a warning; the page is skipped.
func writePages(ctx context.Context, bs *BuildState) error {
	contentDir := filepath.Join(bs.OutDir, "content")
	root := bs.Generator.config.Site.Root
	written := 0
	for _, req := range bs.Pages() {
		node, ok, err := bs.Index.Get(ctx, req.Context.ID)
		if err != nil {
			return err
		}
		if !ok {
			msg := fmt.Sprintf("page %s references unknown node %q", req.Path, req.Context.ID)
			slog.Warn("Skipping page without node", logfields.Slug(req.Path), logfields.NodeID(req.Context.ID))
			bs.Report.AddIssue(IssueMissingNode, StageWriteOutput, SeverityWarning, msg, stderrors.New(msg))
			continue
		}
		file, err := writePage(contentDir, req, node, root)
		if err != nil {
			return errors.WrapError(err, errors.CategoryRender, "failed to write page").
				WithContext("path", req.Path).Fatal().Build()
		}
		slog.Debug("Page written", logfields.Slug(req.Path), logfields.File(file))
		written++
	}
	slog.Info("Pages written", logfields.Count(written))
	return nil
}

// writeRedirects writes static/_redirects and, when enabled, a meta-refresh
// stub per exact internal source that no page occupies.
func writeRedirects(bs *BuildState) error {
	rules := bs.Redirects()
	staticDir := filepath.Join(bs.OutDir, "static")

	var buf bytes.Buffer
	if err := redirects.WriteNetlify(&buf, rules); err != nil {
		return errors.WrapError(err, errors.CategoryRender, "failed to render redirects").Fatal().Build()
	}
	if err := os.WriteFile(filepath.Join(staticDir, RedirectsFile), buf.Bytes(), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write redirects").Fatal().Build()
	}

	if !bs.Generator.config.Output.RedirectStubs {
		return nil
	}
	stubs := 0
	for _, r := range rules {
		rel, ok := redirects.StubPath(r)
		if !ok {
			continue
		}
		if _, taken := bs.pages[r.From]; taken {
			slog.Debug("Redirect source is also a page, no stub written", logfields.Redirect(r.From, r.To))
			continue
		}
		doc, err := redirects.StubHTML(r.To)
		if err != nil {
			return errors.WrapError(err, errors.CategoryRender, "failed to render redirect stub").
				WithContext("from", r.From).Fatal().Build()
		}
		full := filepath.Join(staticDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create stub directory").Fatal().Build()
		}
		if err := os.WriteFile(full, doc, 0o600); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write redirect stub").Fatal().Build()
		}
		stubs++
	}
	bs.Report.RedirectStubs = stubs
	return nil
}

// writeBundlerManifests writes bundler/<stage>.json and bundler/compiler.json.
func writeBundlerManifests(bs *BuildState) error {
	dir := filepath.Join(bs.OutDir, "bundler")
	write := func(name string, v any) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.WrapError(err, errors.CategoryBundler, "failed to encode bundler manifest").
				WithContext("file", name).Fatal().Build()
		}
		if err := os.WriteFile(filepath.Join(dir, name), append(data, '\n'), 0o600); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write bundler manifest").
				WithContext("file", name).Fatal().Build()
		}
		return nil
	}
	for stage, cfg := range bs.Bundler {
		if err := write(string(stage)+".json", cfg); err != nil {
			return err
		}
	}
	if bs.Compiler != nil {
		return write("compiler.json", bs.Compiler)
	}
	return nil
}
