// Package commands implements the releaser command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/releaser/internal/command"
	"git.home.luguber.info/inful/releaser/internal/config"
)

// Global carries process-wide state into subcommands.
type Global struct {
	Context context.Context
	Stdout  io.Writer
	// Runner executes the build and publish tools; nil means command.NewExecRunner.
	Runner command.Runner
}

func (g *Global) ctx() context.Context {
	if g == nil || g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) runner() command.Runner {
	if g == nil || g.Runner == nil {
		return command.NewExecRunner()
	}
	return g.Runner
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (missing file means built-in defaults)" default:"${default_config}"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	EnvFile []string         `name:"env-file" help:"Environment files loaded before the release; missing files are ignored" default:"${default_env_files}" sep:","`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run  RunCmd  `cmd:"" default:"withargs" help:"Clean the output directory, build, and publish every artifact (default)"`
	Plan PlanCmd `cmd:"" help:"Print the resolved release steps without executing them"`
	Init InitCmd `cmd:"" help:"Write an example configuration file"`
}

// Vars returns the interpolation variables the CLI tags reference.
func Vars(ver string) kong.Vars {
	return kong.Vars{
		"version":           ver,
		"default_config":    config.DefaultConfigFile,
		"default_env_files": strings.Join(config.DefaultEnvFiles, ","),
	}
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := parseLogLevel(c.Verbose)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel honours --verbose first, then RELEASER_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(config.EnvLogLevel))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig loads the env files and then the configuration, so both the
// RELEASER_OUTPUT_DIR override and ${VAR} references can come from them.
func (c *CLI) loadConfig() (*config.Config, error) {
	if _, err := config.LoadEnvFiles(c.EnvFile...); err != nil {
		return nil, err
	}
	return config.Load(c.Config)
}
