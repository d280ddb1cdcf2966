package command

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner() (*ExecRunner, *bytes.Buffer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr, trace bytes.Buffer
	return &ExecRunner{Stdout: &stdout, Stderr: &stderr, Trace: &trace}, &stdout, &stderr, &trace
}

func TestExecRunner_TracesBeforeExecuting(t *testing.T) {
	r, stdout, stderr, trace := newTestRunner()

	err := r.Run(context.Background(), Spec{Name: "sh", Args: []string{"-c", "echo out; echo err >&2"}})
	require.NoError(t, err)

	assert.Equal(t, "+ sh -c 'echo out; echo err >&2'\n", trace.String())
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	r, _, stderr, _ := newTestRunner()

	err := r.Run(context.Background(), Spec{Name: "sh", Args: []string{"-c", "echo rejected >&2; exit 3"}})
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "sh", exitErr.Spec.Name)
	assert.Equal(t, "rejected\n", stderr.String())
}

func TestExecRunner_CommandNotFound(t *testing.T) {
	r, _, _, trace := newTestRunner()

	err := r.Run(context.Background(), Spec{Name: "releaser-definitely-missing-tool"})
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, NotFoundExitCode, exitErr.Code)
	assert.ErrorIs(t, err, ErrCommandNotFound)
	assert.Contains(t, trace.String(), "+ releaser-definitely-missing-tool")
}

func TestExecRunner_EnvAndDir(t *testing.T) {
	dir := t.TempDir()
	r, _, _, _ := newTestRunner()

	err := r.Run(context.Background(), Spec{
		Name: "sh",
		Args: []string{"-c", `printf '%s' "$RELEASER_TEST_VALUE" > marker`},
		Dir:  dir,
		Env:  []string{"RELEASER_TEST_VALUE=hello"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "marker"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestExecRunner_CanceledBeforeStart(t *testing.T) {
	r, _, _, trace := newTestRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, Spec{Name: "true"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, trace.String(), "nothing should be traced for a command that never starts")
}

func TestExecRunner_CancelInterruptsRunningCommand(t *testing.T) {
	r, _, _, _ := newTestRunner()
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	err := r.Run(ctx, Spec{Name: "sleep", Args: []string{"10"}})

	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecRunner_StartFailure(t *testing.T) {
	r, _, _, _ := newTestRunner()

	err := r.Run(context.Background(), Spec{Name: "true", Dir: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)

	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}
