package hugo

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/bundler"
)

// hugoConfigFile is the generated Hugo site configuration.
const hugoConfigFile = "hugo.yaml"

// hugoConfig builds the Hugo configuration. Absolute resolution roots of the
// client bundle are mounted as assets so pages can import components.
func (g *Generator) hugoConfig(bs *BuildState) map[string]any {
	mounts := []map[string]any{
		{"source": "content", "target": "content"},
		{"source": "static", "target": "static"},
	}
	if js := bs.Bundler[bundler.StageBuildJavaScript]; js != nil {
		for _, dir := range js.Resolve.Modules {
			if !filepath.IsAbs(dir) {
				continue
			}
			mounts = append(mounts, map[string]any{
				"source": filepath.ToSlash(dir),
				"target": "assets/" + filepath.Base(dir),
			})
		}
	}

	return map[string]any{
		"title":        g.config.Site.Title,
		"baseURL":      g.config.Site.BaseURL,
		"languageCode": "en",
		"markup": map[string]any{
			"goldmark": map[string]any{"renderer": map[string]any{"unsafe": true}},
		},
		"module": map[string]any{"mounts": mounts},
		"params": map[string]any{
			"sitebuilder": map[string]any{
				"build_id":    bs.Report.BuildID,
				"docs_layout": relativeTo(g.config.Site.Root, g.config.DocsLayoutPath()),
			},
		},
	}
}

// writeHugoConfig writes hugo.yaml into root.
func (g *Generator) writeHugoConfig(bs *BuildState, root string) error {
	data, err := yaml.Marshal(g.hugoConfig(bs))
	if err != nil {
		return fmt.Errorf("marshal hugo config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(root, hugoConfigFile), data, 0o600); err != nil {
		return fmt.Errorf("write hugo config: %w", err)
	}
	return nil
}
