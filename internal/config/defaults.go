package config

import (
	"path/filepath"
	"strings"
)

const (
	DefaultDocsPattern   = "/docs/"
	DefaultDocsLayout    = "src/layouts/docs.js"
	DefaultOutputDir     = "site"
	DefaultIndexPath     = ":memory:"
	DefaultEventsSubject = "sitebuilder.build.completed"
	DefaultWatchDebounce = "300ms"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Site"
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "/"
	}
	if cfg.Site.Root == "" {
		cfg.Site.Root = "."
	}
	if cfg.Layouts.Docs == "" {
		cfg.Layouts.Docs = DefaultDocsLayout
	}
}

type contentDefaults struct{}

func (contentDefaults) Domain() string { return "content" }

func (contentDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Content.DocsPattern == "" {
		cfg.Content.DocsPattern = DefaultDocsPattern
	}
	for i := range cfg.Content.Sources {
		src := &cfg.Content.Sources[i]
		src.Name = strings.TrimSpace(src.Name)
		if src.Path == "" && !src.IsRemote() {
			src.Path = src.Name
		}
		if src.IsRemote() && src.Path == "" {
			src.Path = "."
		}
		if src.Auth != nil {
			src.Auth.Type = authTypeNormalizer.Normalize(string(src.Auth.Type))
		}
	}
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	cfg.Output.Directory = filepath.Clean(cfg.Output.Directory)
	if cfg.Index.Path == "" {
		cfg.Index.Path = DefaultIndexPath
	}
}

type monitoringDefaults struct{}

func (monitoringDefaults) Domain() string { return "monitoring" }

func (monitoringDefaults) ApplyDefaults(cfg *Config) {
	cfg.Monitoring.Logging.Level = NormalizeLogLevel(string(cfg.Monitoring.Logging.Level))
	cfg.Monitoring.Logging.Format = NormalizeLogFormat(string(cfg.Monitoring.Logging.Format))
	if cfg.Events.Subject == "" {
		cfg.Events.Subject = DefaultEventsSubject
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}

// defaultAppliers run in order; later domains may rely on earlier ones.
var defaultAppliers = []DefaultApplier{
	siteDefaults{},
	contentDefaults{},
	outputDefaults{},
	monitoringDefaults{},
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
	return nil
}
