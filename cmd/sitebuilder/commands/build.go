package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitebuilder/internal/hugo"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output        string `short:"o" help:"Output directory, overriding output.directory"`
	Clean         bool   `help:"Remove the previous output after a successful build"`
	RedirectStubs bool   `name:"redirect-stubs" help:"Write meta-refresh pages for internal redirects"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	cfg.Output.Clean = cfg.Output.Clean || b.Clean
	cfg.Output.RedirectStubs = cfg.Output.RedirectStubs || b.RedirectStubs

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := s.build(ctx)
	if err != nil {
		return err
	}
	return printReport(g, s.gen.OutputDir(), report)
}

func printReport(g *Global, outDir string, report *hugo.BuildReport) error {
	_, err := fmt.Fprintf(g.out(), "Built %s (%s)\n%s\n", outDir, report.BuildID, report.Summary())
	return err
}
