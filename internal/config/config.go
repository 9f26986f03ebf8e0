package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// CurrentVersion is the only configuration version understood by Load.
const CurrentVersion = "1.0"

// Config is the sitebuilder configuration file.
type Config struct {
	Version    string           `yaml:"version" toml:"version"`
	Site       SiteConfig       `yaml:"site" toml:"site"`
	Content    ContentConfig    `yaml:"content" toml:"content"`
	Layouts    LayoutsConfig    `yaml:"layouts" toml:"layouts"`
	Output     OutputConfig     `yaml:"output" toml:"output"`
	Index      IndexConfig      `yaml:"index" toml:"index"`
	Monitoring MonitoringConfig `yaml:"monitoring" toml:"monitoring"`
	Events     EventsConfig     `yaml:"events" toml:"events"`
	Watch      WatchConfig      `yaml:"watch" toml:"watch"`
}

// SiteConfig describes the site being built.
type SiteConfig struct {
	Title   string `yaml:"title" toml:"title"`
	BaseURL string `yaml:"base_url" toml:"base_url"`
	Root    string `yaml:"root" toml:"root"` // Project root; src/ and src/components/ resolve against it
}

// ContentConfig lists content sources and the pattern selecting docs pages.
type ContentConfig struct {
	Sources     []ContentSource `yaml:"sources" toml:"sources"`
	DocsPattern string          `yaml:"docs_pattern" toml:"docs_pattern"`
	Workspace   string          `yaml:"workspace,omitempty" toml:"workspace,omitempty"` // Clone directory for remote sources
}

// ContentSource is one named content tree, local or cloned from git.
type ContentSource struct {
	Name         string      `yaml:"name" toml:"name"`
	Path         string      `yaml:"path" toml:"path"`
	URL          string      `yaml:"url,omitempty" toml:"url,omitempty"`
	Branch       string      `yaml:"branch,omitempty" toml:"branch,omitempty"`
	Auth         *AuthConfig `yaml:"auth,omitempty" toml:"auth,omitempty"`
	DefaultPages bool        `yaml:"default_pages,omitempty" toml:"default_pages,omitempty"`
	Ignore       []string    `yaml:"ignore,omitempty" toml:"ignore,omitempty"`
}

// IsRemote reports whether the source is cloned from a git URL.
func (s ContentSource) IsRemote() bool { return strings.TrimSpace(s.URL) != "" }

// LayoutsConfig names page components.
type LayoutsConfig struct {
	Docs string `yaml:"docs" toml:"docs"`
}

// OutputConfig controls where and what the host writes.
type OutputConfig struct {
	Directory     string `yaml:"directory" toml:"directory"`
	Clean         bool   `yaml:"clean" toml:"clean"`
	RedirectStubs bool   `yaml:"redirect_stubs" toml:"redirect_stubs"`
}

// IndexConfig configures the content index database.
type IndexConfig struct {
	Path string `yaml:"path" toml:"path"` // ":memory:" keeps the index in process
}

// MonitoringConfig represents logging and metrics configuration.
type MonitoringConfig struct {
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level" toml:"level"`
	Format LogFormat `yaml:"format" toml:"format"`
}

// MetricsConfig represents metrics export configuration.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" toml:"textfile"` // node_exporter textfile path; empty disables
}

// EventsConfig configures build event publishing.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url" toml:"nats_url"`
	Subject string `yaml:"subject" toml:"subject"`
}

// Enabled reports whether events should be published.
func (e EventsConfig) Enabled() bool { return strings.TrimSpace(e.NATSURL) != "" }

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce" toml:"debounce"`
	Interval string `yaml:"interval" toml:"interval"` // Periodic rebuild; empty disables
}

// DebounceDuration parses Debounce; callers run after validation.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(w.Debounce)
	return d
}

// IntervalDuration parses Interval, returning 0 when unset.
func (w WatchConfig) IntervalDuration() time.Duration {
	if w.Interval == "" {
		return 0
	}
	d, _ := time.ParseDuration(w.Interval)
	return d
}

// DocsLayoutPath resolves the docs component against the site root.
func (c *Config) DocsLayoutPath() string {
	if filepath.IsAbs(c.Layouts.Docs) {
		return c.Layouts.Docs
	}
	return filepath.Join(c.Site.Root, c.Layouts.Docs)
}

// DocsRegexp compiles content.docs_pattern, falling back to the default when
// it is unset.
func (c *Config) DocsRegexp() (*regexp.Regexp, error) {
	pattern := c.Content.DocsPattern
	if pattern == "" {
		pattern = DefaultDocsPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "content.docs_pattern: invalid regular expression").
			WithContext("field", "content.docs_pattern").Fatal().Build()
	}
	return re, nil
}

// Load reads, normalizes, defaults and validates a configuration file.
// The decoder is chosen by extension: .toml uses TOML, anything else YAML.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
				WithContext("path", configPath).Fatal().Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).Fatal().Build()
	}

	cfg, err := Parse(data, formatForPath(configPath))
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.Site.Root) {
		cfg.Site.Root = filepath.Join(filepath.Dir(configPath), cfg.Site.Root)
	}
	return cfg, nil
}

// Format selects the configuration syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes configuration data after expanding ${VAR} references, then
// applies defaults and validates the result.
func Parse(data []byte, format Format) (*Config, error) {
	expanded := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(expanded, &cfg)
	default:
		err = yaml.Unmarshal(expanded, &cfg)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, fmt.Sprintf("failed to unmarshal %s config", format)).
			Fatal().Build()
	}

	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, errors.ConfigError(fmt.Sprintf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion)).Build()
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	example := Example()

	var data []byte
	var err error
	switch formatForPath(configPath) {
	case FormatTOML:
		data, err = toml.Marshal(example)
	default:
		data, err = yaml.Marshal(example)
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create config directory").Build()
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		Version: CurrentVersion,
		Site: SiteConfig{
			Title:   "Qri",
			BaseURL: "https://qri.io/",
			Root:    ".",
		},
		Content: ContentConfig{
			Sources: []ContentSource{
				{Name: "docs", Path: "content/docs"},
				{Name: "pages", Path: "content/pages", DefaultPages: true},
			},
			DocsPattern: DefaultDocsPattern,
		},
		Layouts: LayoutsConfig{Docs: DefaultDocsLayout},
		Output:  OutputConfig{Directory: "site", Clean: true},
		Index:   IndexConfig{Path: ":memory:"},
		Monitoring: MonitoringConfig{
			Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		},
		Events: EventsConfig{Subject: DefaultEventsSubject},
		Watch:  WatchConfig{Debounce: DefaultWatchDebounce},
	}
}
