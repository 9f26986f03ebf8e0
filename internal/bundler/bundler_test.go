package bundler

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

type stubResolver struct {
	path string
	err  error
}

func (s stubResolver) Resolve(string) (string, error) { return s.path, s.err }

func baseConfig() *Config {
	return &Config{
		Resolve: Resolve{
			Modules: []string{"node_modules"},
			Alias:   map[string]string{"core-js": "/site/node_modules/core-js"},
		},
	}
}

func TestParseStage(t *testing.T) {
	s, err := ParseStage("BUILD_HTML")
	require.NoError(t, err)
	assert.Equal(t, StageBuildHTML, s)
	assert.True(t, s.IsHTML())

	s, err = ParseStage("develop")
	require.NoError(t, err)
	assert.False(t, s.IsHTML())

	_, err = ParseStage("serve")
	require.Error(t, err)
}

func TestApply_DoesNotMutateBase(t *testing.T) {
	base := baseConfig()
	env := Env{Stage: StageBuildHTML, Root: "/site"}

	cfg, err := Apply(base, env,
		ResolveRoots("src", "node_modules"),
		AliasPath("$components", "src/components"),
		Substitute("buble", "@philpl/buble"),
		NullModuleForHTML("mapbox-gl"),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join("/site", "src"), "node_modules"}, cfg.Resolve.Modules)
	assert.Equal(t, filepath.Join("/site", "src", "components"), cfg.Resolve.Alias["$components"])
	assert.Equal(t, "@philpl/buble", cfg.Resolve.Alias["buble"])
	assert.Equal(t, []Rule{{Test: "mapbox-gl", Use: []Loader{LoaderNull}}}, cfg.Rules)

	assert.Equal(t, baseConfig(), base)
}

func TestNullModuleForHTML_OnlyHTMLStages(t *testing.T) {
	for _, stage := range Stages() {
		cfg, err := Apply(baseConfig(), Env{Stage: stage}, NullModuleForHTML("mapbox-gl"))
		require.NoError(t, err)
		if stage.IsHTML() {
			assert.Len(t, cfg.Rules, 1, stage)
		} else {
			assert.Empty(t, cfg.Rules, stage)
		}
	}
}

func TestApply_StepErrorIsClassified(t *testing.T) {
	failing := func(*Config, Env) error { return errors.New("nope") }

	_, err := Apply(baseConfig(), Env{Stage: StageDevelop}, Substitute("a", "b"), failing)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryBundler))

	_, err = Apply(nil, Env{}, AliasPath("", "x"))
	require.Error(t, err)
}

func TestReconcilePolyfill(t *testing.T) {
	env := Env{Stage: StageBuildJavaScript, Resolver: stubResolver{path: "/site/node_modules/redoc/node_modules/core-js/es/index.js"}}

	cfg, err := Apply(baseConfig(), env, ReconcilePolyfill("core-js"))
	require.NoError(t, err)

	_, hasWhole := cfg.Resolve.Alias["core-js"]
	assert.False(t, hasWhole)
	assert.Equal(t, "/site/node_modules/core-js/modules", cfg.Resolve.Alias["core-js/modules"])
	assert.Equal(t, "/site/node_modules/redoc/node_modules/core-js/es", cfg.Resolve.Alias["core-js/es"])
}

func TestReconcilePolyfill_ResolutionFailureIsSwallowed(t *testing.T) {
	var logs bytes.Buffer
	env := Env{
		Stage:    StageDevelop,
		Resolver: stubResolver{err: ErrModuleNotFound},
		Logger:   slog.New(slog.NewTextHandler(&logs, nil)),
	}

	cfg, err := Apply(baseConfig(), env, ReconcilePolyfill("core-js"))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Polyfill resolution failed")
	assert.Equal(t, "/site/node_modules/core-js/modules", cfg.Resolve.Alias["core-js/modules"])
	_, hasES := cfg.Resolve.Alias["core-js/es"]
	assert.False(t, hasES)
}

func TestReconcilePolyfill_NoExistingAlias(t *testing.T) {
	env := Env{Stage: StageDevelop, Resolver: stubResolver{path: "/x/core-js/es/index.js"}}

	cfg, err := Apply(&Config{}, env, ReconcilePolyfill("core-js"))
	require.NoError(t, err)
	_, hasModules := cfg.Resolve.Alias["core-js/modules"]
	assert.False(t, hasModules)
	assert.Equal(t, "/x/core-js/es", cfg.Resolve.Alias["core-js/es"])
}

func TestCompilerConfig_SetPluginIdempotent(t *testing.T) {
	var c CompilerConfig
	c.SetPlugin("@babel/plugin-proposal-export-default-from", nil)
	c.SetPlugin("@babel/plugin-proposal-export-default-from", nil)
	c.SetPlugin("other", map[string]any{"loose": true})

	require.Len(t, c.Plugins, 2)
	assert.True(t, c.HasPlugin("@babel/plugin-proposal-export-default-from"))
	assert.False(t, c.HasPlugin("missing"))
}

func TestNodeResolver(t *testing.T) {
	root := t.TempDir()
	esDir := filepath.Join(root, "node_modules", "core-js", "es")
	require.NoError(t, os.MkdirAll(esDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(esDir, "index.js"), []byte("module.exports = {}"), 0o644))

	nested := filepath.Join(root, "packages", "site")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	file, err := NodeResolver{Dir: nested}.Resolve("core-js/es")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(esDir, "index.js"), file)

	_, err = NodeResolver{Dir: nested}.Resolve("left-pad")
	require.ErrorIs(t, err, ErrModuleNotFound)

	_, err = NodeResolver{Dir: nested}.Resolve("./local")
	require.ErrorIs(t, err, ErrModuleNotFound)
}

func TestNodeResolver_PackageMain(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "node_modules", "@philpl", "buble")
	require.NoError(t, os.MkdirAll(filepath.Join(pkg, "dist"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "package.json"), []byte(`{"main": "dist/buble.cjs.js"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "dist", "buble.cjs.js"), []byte(""), 0o644))

	file, err := NodeResolver{Dir: root}.Resolve("@philpl/buble")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pkg, "dist", "buble.cjs.js"), file)
}
