package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docextract/internal/config"
	"git.home.luguber.info/inful/docextract/internal/pipeline"
	"git.home.luguber.info/inful/docextract/internal/render"
	"git.home.luguber.info/inful/docextract/internal/sources"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer // User-facing output
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: docextract.yaml if present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Extract  ExtractCmd  `cmd:"" default:"withargs" help:"Generate documentation pages from the source tree"`
	Discover DiscoverCmd `cmd:"" help:"List candidate source files and their routing without writing"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate documentation whenever the source tree changes"`
	Schedule ScheduleCmd `cmd:"" help:"Regenerate documentation on a fixed interval"`
	Stamp    StampCmd    `cmd:"" help:"Write version.json and update version references in the site"`
	History  HistoryCmd  `cmd:"" help:"Show recent runs from the run journal"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; set up logging once. The configuration
// file may refine it in LoadConfig.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogging(config.LoggingConfig{}, c.Verbose)
	return nil
}

// LoadConfig reads the configuration selected by --config and applies its
// logging section. Without --config a missing docextract.yaml means defaults.
func (c *CLI) LoadConfig() (*config.Config, error) {
	path, explicit := c.Config, c.Config != ""
	if !explicit {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Logging, c.Verbose)
	return cfg, nil
}

func setupLogging(lc config.LoggingConfig, verbose bool) {
	level := lc.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if lc.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// RunFlags override the source and output sections.
type RunFlags struct {
	Source string `short:"s" help:"Source root (overrides source.root)"`
	Output string `short:"o" help:"Output root (overrides output.root)"`
	Clean  bool   `help:"Remove the output root before writing (overrides output.clean)"`
}

// Apply copies set flags onto cfg.
func (f RunFlags) Apply(cfg *config.Config) {
	if f.Source != "" {
		cfg.Source.Root = f.Source
	}
	if f.Output != "" {
		cfg.Output.Root = f.Output
	}
	if f.Clean {
		cfg.Output.Clean = true
	}
}

// PipelineOptions translates the configuration into driver options.
func PipelineOptions(cfg *config.Config) pipeline.Options {
	opts := pipeline.DefaultOptions(cfg.Source.Root, cfg.Output.Root)
	opts.OutputExtension = cfg.Output.Extension
	opts.Sources = sources.Options{
		Extension:    cfg.Source.Extension,
		ExcludeFiles: cfg.Source.ExcludeFiles,
		Ignore:       cfg.Source.Ignore,
	}
	opts.Render = render.Options{
		CodeLanguage:  cfg.Render.CodeLanguage,
		BasicLimit:    cfg.Render.BasicLimit,
		NegationLimit: cfg.Render.NegationLimit,
		UID:           cfg.Render.UID,
		Fingerprint:   cfg.Render.Fingerprint,
	}
	opts.Verify = cfg.Render.VerifyEnabled()
	opts.Clean = cfg.Output.Clean
	return opts
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
