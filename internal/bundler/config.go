package bundler

import (
	"maps"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/normalization"
)

// Stage is a bundler build stage.
type Stage string

const (
	StageDevelop         Stage = "develop"
	StageDevelopHTML     Stage = "develop-html"
	StageBuildJavaScript Stage = "build-javascript"
	StageBuildHTML       Stage = "build-html"
)

// Stages lists every stage in the order the host configures them.
func Stages() []Stage {
	return []Stage{StageDevelop, StageDevelopHTML, StageBuildJavaScript, StageBuildHTML}
}

// IsHTML reports whether the stage renders HTML on the server.
func (s Stage) IsHTML() bool {
	return s == StageBuildHTML || s == StageDevelopHTML
}

var stageNormalizer = normalization.WithFunc("bundler stage", map[string]Stage{
	string(StageDevelop):         StageDevelop,
	string(StageDevelopHTML):     StageDevelopHTML,
	string(StageBuildJavaScript): StageBuildJavaScript,
	string(StageBuildHTML):       StageBuildHTML,
}, StageBuildJavaScript, func(s string) string {
	return strings.ReplaceAll(normalization.Lower(s), "_", "-")
})

// ParseStage parses a stage name; underscores are accepted for dashes.
func ParseStage(raw string) (Stage, error) {
	return stageNormalizer.Parse(raw)
}

// Loader names a module loader.
type Loader string

// LoaderNull replaces a module with an empty one.
const LoaderNull Loader = "null"

// Rule applies loaders to modules whose request matches Test.
type Rule struct {
	Test string   `json:"test"`
	Use  []Loader `json:"use"`
}

// Resolve controls module resolution.
type Resolve struct {
	Modules []string          `json:"modules"`
	Alias   map[string]string `json:"alias"`
}

// Config is the subset of bundler configuration the site edits.
type Config struct {
	Resolve Resolve `json:"resolve"`
	Rules   []Rule  `json:"rules"`
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{Resolve: Resolve{Alias: map[string]string{}}}
	}
	out := &Config{
		Resolve: Resolve{
			Modules: slices.Clone(c.Resolve.Modules),
			Alias:   maps.Clone(c.Resolve.Alias),
		},
		Rules: make([]Rule, len(c.Rules)),
	}
	if out.Resolve.Alias == nil {
		out.Resolve.Alias = map[string]string{}
	}
	for i, r := range c.Rules {
		out.Rules[i] = Rule{Test: r.Test, Use: slices.Clone(r.Use)}
	}
	return out
}

// CompilerPlugin is one compiler (Babel) plugin entry.
type CompilerPlugin struct {
	Name    string         `json:"name"`
	Options map[string]any `json:"options,omitempty"`
}

// CompilerConfig holds compiler plugins in registration order.
type CompilerConfig struct {
	Plugins []CompilerPlugin `json:"plugins"`
}

// SetPlugin registers a plugin. Registering a name again replaces its options
// in place.
func (c *CompilerConfig) SetPlugin(name string, options map[string]any) {
	for i := range c.Plugins {
		if c.Plugins[i].Name == name {
			c.Plugins[i].Options = options
			return
		}
	}
	c.Plugins = append(c.Plugins, CompilerPlugin{Name: name, Options: options})
}

// HasPlugin reports whether name is registered.
func (c *CompilerConfig) HasPlugin(name string) bool {
	return slices.ContainsFunc(c.Plugins, func(p CompilerPlugin) bool { return p.Name == name })
}
