package commands

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docpage/internal/config"
	"git.home.luguber.info/inful/docpage/internal/observability"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docpage.yaml" env:"DOCPAGE_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve   ServeCmd   `cmd:"" help:"Serve the page bundle HTTP API"`
	Render  RenderCmd  `cmd:"" help:"Resolve and compile one page path and print the response as JSON"`
	Inspect InspectCmd `cmd:"" help:"Print the resolved pointer, configuration, front-matter and flags of a page"`
	Preview PreviewCmd `cmd:"" help:"Watch a local checkout and recompile a page on every change"`
	Stages  StagesCmd  `cmd:"" help:"List the compile stages in execution order"`
	Init    InitCmd    `cmd:"" help:"Write a default configuration file"`

	cfg    *config.Config
	cfgErr error
}

// AfterApply runs after flag parsing; it loads the configuration once and
// installs the default logger from its logging section.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	c.cfg, c.cfgErr = config.Load(c.Config)
	logging := config.Default().Logging
	if c.cfgErr == nil {
		logging = c.cfg.Logging
	}
	logger := NewLogger(logging, c.Verbose, os.Stderr)
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// LoadedConfig returns the configuration loaded in AfterApply.
func (c *CLI) LoadedConfig() (*config.Config, error) {
	if c.cfg == nil && c.cfgErr == nil {
		c.cfg, c.cfgErr = config.Load(c.Config)
	}
	return c.cfg, c.cfgErr
}

// NewLogger builds the slog handler selected by the logging section, wrapped
// so request-scoped attributes reach every record. verbose forces debug level.
func NewLogger(cfg config.LoggingConfig, verbose bool, w io.Writer) *slog.Logger {
	level := cfg.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(observability.NewContextHandler(h))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
