package hugo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// Directories created in every output.
var projectDirs = []string{"content", "static", "bundler"}

// beginStaging creates a sibling staging directory for atomic output.
func (g *Generator) beginStaging() error {
	stage := g.outputDir + "_stage"
	if err := os.RemoveAll(stage); err != nil {
		return fmt.Errorf("clear stale staging directory: %w", err)
	}
	if err := os.MkdirAll(stage, 0o750); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	g.stageDir = stage
	slog.Debug("Initialized staging directory", slog.String("staging", stage), logfields.Path(g.outputDir))
	return nil
}

// finalizeStaging promotes the staging directory to the output location. The
// previous output is moved to <output>.prev and removed when output.clean is
// set.
func (g *Generator) finalizeStaging() error {
	if g.stageDir == "" {
		return fmt.Errorf("no staging directory initialized")
	}
	if _, err := os.Stat(g.stageDir); err != nil {
		return fmt.Errorf("staging directory missing: %w", err)
	}

	prev := g.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("remove previous backup: %w", err)
	}
	if _, err := os.Stat(g.outputDir); err == nil {
		if err := os.Rename(g.outputDir, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
	}
	if err := os.Rename(g.stageDir, g.outputDir); err != nil {
		return fmt.Errorf("promote staging: %w", err)
	}
	g.stageDir = ""
	if g.config.Output.Clean {
		if err := os.RemoveAll(prev); err != nil {
			slog.Warn("Failed to remove previous output", logfields.Path(prev), logfields.Error(err))
		}
	}
	slog.Debug("Promoted staging directory", logfields.Path(g.outputDir))
	return nil
}

// abortStaging removes the staging directory after a failed build.
func (g *Generator) abortStaging() {
	if g.stageDir == "" {
		return
	}
	if err := os.RemoveAll(g.stageDir); err != nil {
		slog.Warn("Failed to remove staging directory", logfields.Path(g.stageDir), logfields.Error(err))
	}
	g.stageDir = ""
}

// createProjectStructure creates the fixed output directories under root.
func createProjectStructure(root string) error {
	for _, dir := range projectDirs {
		path := filepath.Join(root, dir)
		if err := os.MkdirAll(path, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, err)
		}
	}
	return nil
}
