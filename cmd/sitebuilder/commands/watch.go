package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output string `short:"o" help:"Output directory, overriding output.directory"`
}

func (w *WatchCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if w.Output != "" {
		cfg.Output.Directory = w.Output
	}
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	watcher, err := watch.New(watchOptions(cfg, s))
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

// watchOptions watches every local source root and the site's src directory.
// The output, its staging and backup directories and the workspace are
// excluded.
func watchOptions(cfg *config.Config, s *session) watch.Options {
	dirs := []string{filepath.Join(cfg.Site.Root, "src")}
	for _, src := range cfg.Content.Sources {
		if !src.IsRemote() {
			dirs = append(dirs, s.roots[src.Name])
		}
	}
	sort.Strings(dirs)

	out := s.gen.OutputDir()
	exclude := []string{out, out + "_stage", out + ".prev"}
	if s.ws != nil && s.ws.Path() != "" {
		exclude = append(exclude, s.ws.Path())
	}

	opts := watch.Options{
		Dirs:     dirs,
		Exclude:  exclude,
		Debounce: cfg.Watch.DebounceDuration(),
		Interval: cfg.Watch.IntervalDuration(),
		Build: func(ctx context.Context, trigger watch.Trigger) error {
			if trigger == watch.TriggerInterval && s.fetcher != nil {
				if err := s.refreshRoots(ctx); err != nil {
					return err
				}
			}
			report, err := s.build(ctx)
			if err != nil {
				return err
			}
			slog.Info("Site rebuilt", logfields.Path(s.gen.OutputDir()), slog.String("summary", report.Summary()))
			return nil
		},
	}
	if s.recorder != nil {
		opts.Recorder = s.recorder
	}
	return opts
}
