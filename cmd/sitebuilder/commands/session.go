package commands

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/events"
	"git.home.luguber.info/inful/sitebuilder/internal/git"
	"git.home.luguber.info/inful/sitebuilder/internal/hugo"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/workspace"
)

// session holds everything one or more builds of a configuration share: the
// workspace for remote sources, the metrics recorder and the event publisher.
type session struct {
	cfg       *config.Config
	gen       *hugo.Generator
	ws        *workspace.Manager
	fetcher   workspace.Fetcher
	recorder  *metrics.PrometheusRecorder
	publisher events.Publisher
	roots     map[string]string
}

func hasRemoteSources(cfg *config.Config) bool {
	for _, src := range cfg.Content.Sources {
		if src.IsRemote() {
			return true
		}
	}
	return false
}

// openSession wires the generator for cfg. Close releases what it opened.
func openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	s := &session{cfg: cfg, publisher: events.NoopPublisher{}}

	if cfg.Monitoring.Metrics.Textfile != "" {
		s.recorder = metrics.NewPrometheusRecorder(prometheus.NewRegistry())
	}

	if hasRemoteSources(cfg) {
		s.ws = workspace.ForConfig(cfg)
		if err := s.ws.Create(); err != nil {
			return nil, err
		}
		client := git.NewClient(s.ws.Path())
		if s.recorder != nil {
			client.WithRecorder(s.recorder)
		}
		s.fetcher = client
	}

	if err := s.refreshRoots(ctx); err != nil {
		s.Close()
		return nil, err
	}

	if cfg.Events.Enabled() {
		pub, err := events.Connect(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.publisher = pub
	}

	docsPattern, err := cfg.DocsRegexp()
	if err != nil {
		s.Close()
		return nil, err
	}
	plugin := site.New(site.Options{
		Root:          cfg.Site.Root,
		DocsComponent: cfg.DocsLayoutPath(),
		DocsPattern:   docsPattern,
	})
	s.gen = hugo.NewGenerator(cfg, plugin).SetPublisher(s.publisher).SetRoots(s.roots)
	if s.recorder != nil {
		s.gen.SetRecorder(s.recorder)
	}
	return s, nil
}

// refreshRoots resolves source roots, syncing remote sources.
func (s *session) refreshRoots(ctx context.Context) error {
	roots, err := workspace.ResolveRoots(ctx, s.cfg, s.fetcher)
	if err != nil {
		return err
	}
	s.roots = roots
	if s.gen != nil {
		s.gen.SetRoots(roots)
	}
	return nil
}

// build runs one build and exports metrics when a textfile is configured.
func (s *session) build(ctx context.Context) (*hugo.BuildReport, error) {
	report, err := s.gen.Build(ctx)
	s.flushMetrics()
	return report, err
}

func (s *session) flushMetrics() {
	if s.recorder == nil {
		return
	}
	path := s.cfg.Monitoring.Metrics.Textfile
	if err := s.recorder.WriteTextfile(path); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}

// Close releases the publisher and removes an ephemeral workspace.
func (s *session) Close() {
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.ws != nil {
		if err := s.ws.Cleanup(); err != nil {
			slog.Warn("Failed to cleanup workspace", logfields.Error(err))
		}
	}
}
