package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// LogLevelEnv overrides the configured log level.
const LogLevelEnv = "SITEBUILDER_LOG_LEVEL"

// Global is shared state passed to subcommands.
type Global struct {
	Out io.Writer // Command output; logs go to stderr
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitebuilder.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build     BuildCmd     `cmd:"" help:"Build the site into the output directory"`
	Routes    RoutesCmd    `cmd:"" help:"List the pages a build would create"`
	Redirects RedirectsCmd `cmd:"" help:"Print the redirect table in _redirects format"`
	Init      InitCmd      `cmd:"" help:"Write an example configuration file"`
	Watch     WatchCmd     `cmd:"" help:"Rebuild the site whenever content or components change"`
}

// AfterApply runs after flag parsing; it sets up logging before any config
// is read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	configureLogging(c.logLevel(""), config.LogFormatText)
	return nil
}

// logLevel resolves the level: --verbose, then the environment, then the
// configuration file.
func (c *CLI) logLevel(fromConfig config.LogLevel) slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	if env := os.Getenv(LogLevelEnv); env != "" {
		return config.NormalizeLogLevel(env).SlogLevel()
	}
	if fromConfig != "" {
		return fromConfig.SlogLevel()
	}
	return slog.LevelInfo
}

func configureLogging(level slog.Level, format config.LogFormat) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadConfig loads the configuration and re-applies logging from it.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	configureLogging(c.logLevel(cfg.Monitoring.Logging.Level), cfg.Monitoring.Logging.Format)
	return cfg, nil
}
