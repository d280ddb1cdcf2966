package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes for failures that do not carry a subprocess exit status.
const (
	ExitGeneral     = 1
	ExitConfig      = 7
	ExitFailedStep  = 11
	ExitRuntime     = 12
	ExitInternalErr = 10
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter writing operator messages to stderr.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// WithOutput redirects operator-facing messages (used by tests).
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	if w != nil {
		a.out = w
	}
	return a
}

// ExitCodeFor determines the process exit code for an error. A failed build or
// publish subprocess propagates its own exit status.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	classified, ok := AsClassified(err)
	if !ok {
		return ExitGeneral
	}
	if code, ok := classified.ExitCode(); ok {
		return code
	}

	switch classified.Category() {
	case CategoryConfig, CategoryEnvironment:
		return ExitConfig
	case CategoryFileSystem, CategoryBuild, CategoryPublish:
		return ExitFailedStep
	case CategoryRuntime:
		return ExitRuntime
	case CategoryInternal:
		return ExitInternalErr
	default:
		return ExitGeneral
	}
}

// FormatError formats an error for display. Non-verbose output names the failing
// step and the classified message; verbose output prints the whole chain.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	classified, ok := AsClassified(err)
	if !ok || a.verbose {
		return fmt.Sprintf("Error: %v", err)
	}

	msg := classified.Message()
	if cause := classified.Cause(); cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	if step, ok := classified.Context().GetString(ContextStep); ok {
		return fmt.Sprintf("Error: release failed at step %s: %s", step, msg)
	}
	return fmt.Sprintf("Error: %s", msg)
}

// Report logs the error, prints the operator message and returns the exit code.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	a.logError(err)
	fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Release failed", "error", err)
		return
	}

	attrs := []slog.Attr{
		slog.String("category", string(classified.Category())),
	}
	ctx := classified.Context()
	if step, ok := ctx.GetString(ContextStep); ok {
		attrs = append(attrs, slog.String(ContextStep, step))
	}
	if code, ok := classified.ExitCode(); ok {
		attrs = append(attrs, slog.Int(ContextExitCode, code))
	}
	if a.verbose {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	a.logger.LogAttrs(context.Background(), a.slogLevelFromSeverity(classified.Severity()), classified.Message(), attrs...)
}

func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError, SeverityFatal:
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
