package hugo

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/events"
	"git.home.luguber.info/inful/sitebuilder/internal/host"
	"git.home.luguber.info/inful/sitebuilder/internal/index"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/workspace"
)

// Generator runs a site module through the host lifecycle and writes a Hugo
// project.
type Generator struct {
	config    *config.Config
	hooks     host.Hooks
	outputDir string // final output dir
	stageDir  string // ephemeral staging dir for the current build
	roots     map[string]string

	recorder  metrics.Recorder
	observer  BuildObserver
	extra     BuildObserver
	publisher events.Publisher
}

// NewGenerator creates a generator for cfg driving hooks.
func NewGenerator(cfg *config.Config, hooks host.Hooks) *Generator {
	out := cfg.Output.Directory
	if !filepath.IsAbs(out) {
		out = filepath.Join(cfg.Site.Root, out)
	}
	g := &Generator{
		config:    cfg,
		hooks:     hooks,
		outputDir: filepath.Clean(out),
		publisher: events.NoopPublisher{},
	}
	g.SetRecorder(nil)
	return g
}

// Config exposes the underlying configuration.
func (g *Generator) Config() *config.Config { return g.config }

// OutputDir returns the final output directory.
func (g *Generator) OutputDir() string { return g.outputDir }

// SetRecorder injects a metrics recorder. Nil restores the no-op recorder.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	g.recorder = r
	g.rebuildObserver()
	return g
}

// SetObserver adds an observer called after the metrics observer.
func (g *Generator) SetObserver(o BuildObserver) *Generator {
	g.extra = o
	g.rebuildObserver()
	return g
}

// SetPublisher sets where build-completed events go.
func (g *Generator) SetPublisher(p events.Publisher) *Generator {
	if p == nil {
		p = events.NoopPublisher{}
	}
	g.publisher = p
	return g
}

// SetRoots provides resolved content source roots, keyed by source name.
// Without it only local sources can be built.
func (g *Generator) SetRoots(roots map[string]string) *Generator {
	g.roots = roots
	return g
}

func (g *Generator) rebuildObserver() {
	obs := multiObserver{recorderObserver{rec: g.recorder}}
	if g.extra != nil {
		obs = append(obs, g.extra)
	}
	g.observer = obs
}

// Build runs every stage, promotes the staged output into the output
// directory, and persists the build report there. On failure the previous
// output is left untouched and the report is returned with the error.
func (g *Generator) Build(ctx context.Context) (*BuildReport, error) {
	report := newBuildReport()
	log := slog.With(logfields.BuildID(report.BuildID))
	log.Info("Starting site build", logfields.Path(g.outputDir))

	if err := g.beginStaging(); err != nil {
		return nil, err
	}
	bs, cleanup, err := g.newState(ctx, report)
	if err != nil {
		g.abortStaging()
		return nil, err
	}
	defer cleanup()
	bs.OutDir = g.stageDir

	runErr := runStages(ctx, bs, buildStages(true))
	report.deriveOutcome()
	report.finish()

	if runErr != nil {
		g.abortStaging()
		g.complete(ctx, report)
		log.Error("Site build failed", logfields.Error(runErr))
		return report, runErr
	}
	if err := report.Persist(g.stageDir); err != nil {
		log.Warn("Failed to persist build report", logfields.Error(err))
	}
	if err := g.finalizeStaging(); err != nil {
		g.abortStaging()
		return report, fmt.Errorf("finalize staging: %w", err)
	}
	g.complete(ctx, report)
	log.Info("Site build completed",
		logfields.Path(g.outputDir),
		logfields.Count(report.Pages),
		slog.Int("redirects", report.Redirects),
		slog.String("outcome", string(report.Outcome)))
	return report, nil
}

// Plan runs the lifecycle without writing anything and returns the state:
// page requests, redirects, schema and bundler configuration.
func (g *Generator) Plan(ctx context.Context) (*BuildState, error) {
	report := newBuildReport()
	bs, cleanup, err := g.newState(ctx, report)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	err = runStages(ctx, bs, buildStages(false))
	report.deriveOutcome()
	report.finish()
	return bs, err
}

// buildStages lists the lifecycle stages in order. Without write the output
// directory is neither prepared nor written.
func buildStages(write bool) []StageDef {
	return NewPipeline().
		AddIf(write, StagePrepareOutput, stagePrepareOutput).
		Add(StageCustomizeSchema, stageCustomizeSchema).
		Add(StageSourceContent, stageSourceContent).
		Add(StageCreatePages, stageCreatePages).
		Add(StageConfigureBundler, stageConfigureBundler).
		AddIf(write, StageWriteOutput, stageWriteOutput).
		Build()
}

// newState resolves source roots and opens the content index.
func (g *Generator) newState(ctx context.Context, report *BuildReport) (*BuildState, func(), error) {
	roots := g.roots
	if roots == nil {
		var err error
		if roots, err = workspace.ResolveRoots(ctx, g.config, nil); err != nil {
			return nil, nil, err
		}
	}

	store, err := index.Open(g.indexPath())
	if err != nil {
		return nil, nil, err
	}
	if err := store.Reset(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	bs := newBuildState(g, report)
	bs.Roots = roots
	bs.Index = store
	report.Sources = len(g.config.Content.Sources)
	return bs, func() { _ = store.Close() }, nil
}

func (g *Generator) indexPath() string {
	p := g.config.Index.Path
	if p == "" || p == config.DefaultIndexPath || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(g.config.Site.Root, p)
}

// complete notifies observers and publishes the build event. Publish
// failures are logged only.
func (g *Generator) complete(ctx context.Context, report *BuildReport) {
	g.observer.OnBuildComplete(report)
	ev := events.BuildCompleted{
		BuildID:    report.BuildID,
		Outcome:    string(report.Outcome),
		Pages:      report.Pages,
		Redirects:  report.Redirects,
		Nodes:      report.Nodes,
		DurationMS: report.Duration().Milliseconds(),
		OutputDir:  g.outputDir,
	}
	if err := g.publisher.PublishBuildCompleted(ctx, ev); err != nil {
		slog.Warn("Failed to publish build event", logfields.BuildID(report.BuildID), logfields.Error(err))
	}
}
