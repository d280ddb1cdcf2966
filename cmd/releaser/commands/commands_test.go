package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/releaser/internal/command"
	ferrors "git.home.luguber.info/inful/releaser/internal/foundation/errors"
)

type fakeRunner struct {
	specs []command.Spec
	fn    func(spec command.Spec) error
}

func (f *fakeRunner) Run(_ context.Context, spec command.Spec) error {
	f.specs = append(f.specs, spec)
	if f.fn != nil {
		return f.fn(spec)
	}
	return nil
}

// testEnv is a project directory with its own config and env file paths.
type testEnv struct {
	dir     string
	config  string
	envFile string
	dist    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		dir:     dir,
		config:  filepath.Join(dir, "releaser.yaml"),
		envFile: filepath.Join(dir, ".env"),
		dist:    filepath.Join(dir, "dist"),
	}
}

func (e *testEnv) writeConfig(t *testing.T, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.config, []byte(body), 0o600))
}

func (e *testEnv) args(extra ...string) []string {
	return append([]string{"--config", e.config, "--env-file", e.envFile}, extra...)
}

func execute(t *testing.T, g *Global, args ...string) (*CLI, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("releaser"),
		Vars("test"),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, kctx.Run(g)
}

func buildsArtifact(dist string) func(command.Spec) error {
	return func(spec command.Spec) error {
		if spec.Name != "python" {
			return nil
		}
		if err := os.MkdirAll(dist, 0o750); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dist, "pkg-1.0.tar.gz"), nil, 0o600)
	}
}

func TestRun_DefaultCommandUsesBuiltInDefaults(t *testing.T) {
	env := newTestEnv(t)
	runner := &fakeRunner{fn: buildsArtifact(env.dist)}

	_, err := execute(t, &Global{Runner: runner}, env.args("--output", env.dist)...)
	require.NoError(t, err)

	require.Len(t, runner.specs, 2)
	assert.Equal(t, []string{"python", "-m", "build"}, runner.specs[0].Argv())
	assert.Equal(t, []string{"twine", "upload", filepath.Join(env.dist, "pkg-1.0.tar.gz")}, runner.specs[1].Argv())
}

func TestRun_ConfigFileAndEnvFile(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("RELEASER_TEST_REPOSITORY", "")
	require.NoError(t, os.Unsetenv("RELEASER_TEST_REPOSITORY"))
	require.NoError(t, os.WriteFile(env.envFile, []byte("RELEASER_TEST_REPOSITORY=testpypi\n"), 0o600))
	env.writeConfig(t, `
output:
  directory: `+env.dist+`
publish:
  command: twine
  args: [upload, --repository, "${RELEASER_TEST_REPOSITORY}"]
`)
	runner := &fakeRunner{fn: buildsArtifact(env.dist)}

	_, err := execute(t, &Global{Runner: runner}, env.args("run")...)
	require.NoError(t, err)
	require.Len(t, runner.specs, 2)
	assert.Equal(t, []string{"upload", "--repository", "testpypi", filepath.Join(env.dist, "pkg-1.0.tar.gz")}, runner.specs[1].Args)
}

func TestRun_BuildFailureExitCode(t *testing.T) {
	env := newTestEnv(t)
	runner := &fakeRunner{fn: func(spec command.Spec) error {
		return &command.ExitError{Spec: spec, Code: 2}
	}}

	cli, err := execute(t, &Global{Runner: runner}, env.args("--output", env.dist)...)
	require.Error(t, err)
	assert.Len(t, runner.specs, 1)

	var out bytes.Buffer
	code := ferrors.NewCLIErrorAdapter(cli.Verbose, nil).WithOutput(&out).Report(err)
	assert.Equal(t, 2, code)
	assert.Contains(t, out.String(), "release failed at step build")
}

func TestRun_UnsetVariableExitCode(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t, "build:\n  command: python\n  args: [-m, build, \"${RELEASER_TEST_UNSET_VARIABLE}\"]\n")
	runner := &fakeRunner{}

	_, err := execute(t, &Global{Runner: runner}, env.args("--output", env.dist)...)
	require.Error(t, err)
	assert.Empty(t, runner.specs)
	assert.Equal(t, ferrors.ExitConfig, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestRun_WritesMetricsTextfile(t *testing.T) {
	env := newTestEnv(t)
	metricsFile := filepath.Join(env.dir, "metrics", "releaser.prom")
	runner := &fakeRunner{fn: buildsArtifact(env.dist)}

	_, err := execute(t, &Global{Runner: runner}, env.args("run", "--output", env.dist, "--metrics-file", metricsFile)...)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `releaser_release_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, string(data), "releaser_published_artifacts 1")
}

func TestRun_WritesMetricsOnFailure(t *testing.T) {
	env := newTestEnv(t)
	metricsFile := filepath.Join(env.dir, "releaser.prom")
	env.writeConfig(t, "metrics:\n  textfile: "+metricsFile+"\n")
	runner := &fakeRunner{fn: func(spec command.Spec) error {
		return &command.ExitError{Spec: spec, Code: 1}
	}}

	_, err := execute(t, &Global{Runner: runner}, env.args("--output", env.dist)...)
	require.Error(t, err)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `releaser_release_outcomes_total{outcome="failed"} 1`)
}

func TestPlan_PrintsSteps(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	runner := &fakeRunner{}

	_, err := execute(t, &Global{Runner: runner, Stdout: &out}, env.args("plan", "--output", "build/dist")...)
	require.NoError(t, err)
	assert.Empty(t, runner.specs)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"1. clean    rm -rf build/dist",
		"2. build    python -m build",
		"3. publish  twine upload build/dist/*",
	}, lines)
}

func TestInit_WritesConfigOnce(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	g := &Global{Stdout: &out}

	_, err := execute(t, g, env.args("init")...)
	require.NoError(t, err)
	assert.FileExists(t, env.config)
	assert.Contains(t, out.String(), "initialized successfully")

	_, err = execute(t, g, env.args("init")...)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = execute(t, g, env.args("init", "--force")...)
	require.NoError(t, err)
}

func TestDefaults(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, Vars("test"))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"plan"})
	require.NoError(t, err)

	assert.Equal(t, "releaser.yaml", cli.Config)
	assert.Equal(t, []string{".env", ".env.local"}, cli.EnvFile)
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv("RELEASER_LOG_LEVEL", "debug")
	assert.Equal(t, "DEBUG", parseLogLevel(false).String())

	t.Setenv("RELEASER_LOG_LEVEL", "")
	assert.Equal(t, "INFO", parseLogLevel(false).String())
	assert.Equal(t, "DEBUG", parseLogLevel(true).String())

	t.Setenv("RELEASER_LOG_LEVEL", "warn")
	assert.Equal(t, "WARN", parseLogLevel(false).String())
}
