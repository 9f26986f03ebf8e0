package hugo

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/bundler"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// baseBundlerConfig is the configuration the host starts every stage from:
// packages resolve from node_modules and core-js is pinned to the host's own
// copy.
func baseBundlerConfig(root string) *bundler.Config {
	return &bundler.Config{
		Resolve: bundler.Resolve{
			Modules: []string{"node_modules"},
			Alias: map[string]string{
				"core-js": filepath.Join(root, "node_modules", "core-js"),
			},
		},
	}
}

func stageConfigureBundler(ctx context.Context, bs *BuildState) error {
	root := bs.Generator.config.Site.Root
	base := baseBundlerConfig(root)
	for _, stage := range bundler.Stages() {
		cfg, err := bs.Generator.hooks.OnCreateBundlerConfig(ctx, stage, base.Clone())
		if err != nil {
			return err
		}
		if cfg == nil {
			return errors.BundlerError("bundler hook returned no configuration").
				WithContext("stage", string(stage)).Fatal().Build()
		}
		bs.Bundler[stage] = cfg
	}
	bs.Report.BundlerStages = len(bs.Bundler)

	compiler := &bundler.CompilerConfig{}
	if err := bs.Generator.hooks.OnCreateCompilerConfig(ctx, compiler); err != nil {
		return err
	}
	bs.Compiler = compiler
	return nil
}
