package hugo

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/docs"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	if err := createProjectStructure(bs.OutDir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to prepare output").Fatal().Build()
	}
	return nil
}

func stageCustomizeSchema(ctx context.Context, bs *BuildState) error {
	api := &hostAPI{ctx: ctx, bs: bs, stage: StageCustomizeSchema}
	return bs.Generator.hooks.CreateSchemaCustomization(ctx, api)
}

// stageSourceContent discovers files, indexes each node and hands it to the
// site module, then fills fields the schema guarantees but the module did not
// attach.
func stageSourceContent(ctx context.Context, bs *BuildState) error {
	files, err := docs.NewDiscovery(bs.Generator.config.Content.Sources).Discover(bs.Roots)
	if err != nil {
		return errors.WrapError(err, errors.CategoryContent, "content discovery failed").Fatal().Build()
	}
	bs.Files = files

	api := &hostAPI{ctx: ctx, bs: bs, stage: StageSourceContent}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageSourceContent, err)
		}
		node, err := docs.Load(f)
		if err != nil {
			return errors.WrapError(err, errors.CategoryContent, "failed to load content file").
				WithContext("file", f.RelativePath).Fatal().Build()
		}
		if err := bs.Index.Put(ctx, node); err != nil {
			return err
		}
		if err := bs.Generator.hooks.OnCreateNode(ctx, node, api); err != nil {
			return err
		}
	}
	indexed, err := bs.Index.Count(ctx)
	if err != nil {
		return err
	}
	bs.Report.Nodes = indexed

	filled, err := fillDeclaredFields(ctx, bs)
	if err != nil {
		return err
	}
	slog.Info("Content sourced", logfields.Count(len(files)), slog.Int("indexed", indexed), slog.Int("schema_filled", filled))
	return nil
}

// fillDeclaredFields sets every declared-but-absent field to nil and returns
// the number of nodes touched.
func fillDeclaredFields(ctx context.Context, bs *BuildState) (int, error) {
	if len(bs.schema.order) == 0 {
		return 0, nil
	}
	nodes, err := bs.Index.Query(ctx, "", nil)
	if err != nil {
		return 0, err
	}
	touched := 0
	for _, n := range nodes {
		if n.Fields == nil {
			n.Fields = map[string]any{}
		}
		missing := false
		for _, name := range bs.schema.nodeFields(n.Type) {
			if _, ok := n.Fields[name]; !ok {
				n.Fields[name] = nil
				missing = true
			}
		}
		if !missing {
			continue
		}
		if err := bs.Index.SetFields(ctx, n.ID, n.Fields); err != nil {
			return touched, err
		}
		touched++
	}
	return touched, nil
}
