package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"git.home.luguber.info/inful/releaser/internal/logfields"
)

// Runner executes a Spec and blocks until it terminates.
type Runner interface {
	Run(ctx context.Context, spec Spec) error
}

// ExecRunner runs commands on the local host via os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	// Trace receives the command line before the process starts.
	Trace io.Writer
}

// NewExecRunner returns a runner bound to the process streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, Trace: os.Stderr}
}

// Run traces spec, executes it and waits for it to exit. There is no timeout:
// the only way to stop a running command is to cancel ctx, which interrupts it.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line := spec.String()
	fmt.Fprintf(r.writer(r.Trace, os.Stderr), "+ %s\n", line)
	slog.Debug("Executing command", logfields.Command(line), logfields.Path(spec.Dir))

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	cmd.Stdout = r.writer(r.Stdout, os.Stdout)
	cmd.Stderr = r.writer(r.Stderr, os.Stderr)

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", spec.Name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Spec: spec, Code: exitErr.ExitCode(), Err: err}
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return &ExitError{Spec: spec, Code: NotFoundExitCode, Err: fmt.Errorf("%w: %w", ErrCommandNotFound, err)}
	}

	return fmt.Errorf("start %s: %w", spec.Name, err)
}

func (r *ExecRunner) writer(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
