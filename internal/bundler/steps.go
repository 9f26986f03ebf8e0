package bundler

import (
	"log/slog"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// Env is what a Step may consult besides the configuration itself.
type Env struct {
	Stage    Stage
	Root     string // Project root
	Resolver ModuleResolver
	Logger   *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Step transforms cfg in place.
type Step func(cfg *Config, env Env) error

// Apply runs steps in order against a copy of base. The first failing step
// aborts the patch and base is left untouched.
func Apply(base *Config, env Env, steps ...Step) (*Config, error) {
	cfg := base.Clone()
	for i, step := range steps {
		if err := step(cfg, env); err != nil {
			return nil, errors.WrapError(err, errors.CategoryBundler, "bundler step failed").
				WithContext("step", i).
				WithContext("stage", string(env.Stage)).
				Build()
		}
	}
	return cfg, nil
}

// ResolveRoots replaces the module resolution roots with srcDir, resolved
// against env.Root, followed by extra roots taken literally.
func ResolveRoots(srcDir string, extra ...string) Step {
	return func(cfg *Config, env Env) error {
		src := srcDir
		if !filepath.IsAbs(src) {
			src = filepath.Join(env.Root, src)
		}
		cfg.Resolve.Modules = append([]string{src}, extra...)
		return nil
	}
}

// AliasPath maps an import prefix onto a directory under env.Root.
func AliasPath(alias, dir string) Step {
	return func(cfg *Config, env Env) error {
		if alias == "" {
			return errors.BundlerError("alias name is empty").Build()
		}
		target := dir
		if !filepath.IsAbs(target) {
			target = filepath.Join(env.Root, target)
		}
		cfg.Resolve.Alias[alias] = target
		return nil
	}
}

// Substitute makes imports of pkg resolve to replacement.
func Substitute(pkg, replacement string) Step {
	return func(cfg *Config, _ Env) error {
		cfg.Resolve.Alias[pkg] = replacement
		return nil
	}
}

// NullModuleForHTML stubs out modules matching pattern in HTML stages, where
// browser-only packages cannot be evaluated.
func NullModuleForHTML(pattern string) Step {
	return func(cfg *Config, env Env) error {
		if !env.Stage.IsHTML() {
			return nil
		}
		cfg.Rules = append(cfg.Rules, Rule{Test: pattern, Use: []Loader{LoaderNull}})
		return nil
	}
}

// ReconcilePolyfill lets two major versions of a polyfill package coexist.
//
// The host's whole-package alias for pkg is removed and narrowed to
// pkg/modules, which is where the older version is imported from. pkg/es is
// then pointed at the directory the resolver finds for the newer version.
// Resolution failure is logged and the step still succeeds.
func ReconcilePolyfill(pkg string) Step {
	return func(cfg *Config, env Env) error {
		log := env.logger().With(logfields.Module(pkg), logfields.BundlerStage(string(env.Stage)))

		if old, ok := cfg.Resolve.Alias[pkg]; ok {
			delete(cfg.Resolve.Alias, pkg)
			cfg.Resolve.Alias[pkg+"/modules"] = strings.TrimSuffix(old, "/") + "/modules"
		} else {
			log.Debug("No existing alias to narrow")
		}

		if env.Resolver == nil {
			log.Error("Polyfill resolution skipped: no module resolver")
			return nil
		}
		resolved, err := env.Resolver.Resolve(pkg + "/es")
		if err != nil {
			log.Error("Polyfill resolution failed", logfields.Error(err))
			return nil
		}
		cfg.Resolve.Alias[pkg+"/es"] = filepath.Dir(resolved)
		return nil
	}
}
