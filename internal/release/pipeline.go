package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/releaser/internal/artifacts"
	"git.home.luguber.info/inful/releaser/internal/command"
	"git.home.luguber.info/inful/releaser/internal/config"
	ferrors "git.home.luguber.info/inful/releaser/internal/foundation/errors"
	"git.home.luguber.info/inful/releaser/internal/logfields"
	"git.home.luguber.info/inful/releaser/internal/provenance"
	"git.home.luguber.info/inful/releaser/internal/version"
)

// Pipeline executes clean, build and publish in order.
type Pipeline struct {
	runner   command.Runner
	observer ReleaseObserver
	lookup   config.LookupFunc
	describe func(dir string) (*provenance.Info, error)
	newRunID func() string
	report   *Report
}

// NewPipeline returns a pipeline executing external tools through runner.
// A nil runner uses command.NewExecRunner.
func NewPipeline(runner command.Runner) *Pipeline {
	if runner == nil {
		runner = command.NewExecRunner()
	}
	return &Pipeline{
		runner:   runner,
		observer: NoopObserver{},
		lookup:   os.LookupEnv,
		describe: provenance.Describe,
		newRunID: uuid.NewString,
	}
}

// WithObserver sets the lifecycle observer.
func (p *Pipeline) WithObserver(o ReleaseObserver) *Pipeline {
	if o == nil {
		o = NoopObserver{}
	}
	p.observer = o
	return p
}

// WithLookup replaces the environment lookup used to expand ${VAR} references.
func (p *Pipeline) WithLookup(lookup config.LookupFunc) *Pipeline {
	if lookup != nil {
		p.lookup = lookup
	}
	return p
}

// WithProvenance replaces the source revision probe; nil disables it.
func (p *Pipeline) WithProvenance(describe func(dir string) (*provenance.Info, error)) *Pipeline {
	p.describe = describe
	return p
}

// LastReport returns the report of the most recent Run, or nil.
func (p *Pipeline) LastReport() *Report {
	return p.report
}

// run carries the state of one execution.
type run struct {
	cfg    *config.Config
	dir    *artifacts.Dir
	report *Report
	log    *slog.Logger
}

// Run performs one release. It returns nil only if every step succeeded. Unset
// variables referenced by the configuration are reported before any step runs.
// Nothing is cleaned up after a failure.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return ferrors.InternalError("release configuration is nil").Build()
	}
	resolved, err := cfg.Resolve(p.lookup)
	if err != nil {
		return err
	}

	r := &run{
		cfg:    resolved,
		dir:    artifacts.New(resolved.Output.Directory),
		report: newReport(p.newRunID(), resolved.Output.Directory),
	}
	r.log = slog.Default().With(logfields.RunID(r.report.RunID))
	p.report = r.report

	p.recordProvenance(r)
	r.log.Info("Release started", logfields.OutputDir(resolved.Output.Directory), logfields.Version(version.Version))

	err = p.runSteps(ctx, r, []stepDef{
		{StepClean, p.clean},
		{StepBuild, p.build},
		{StepPublish, p.publish},
	})

	r.report.finish(err)
	p.observer.OnReleaseComplete(r.report)
	if err == nil {
		r.log.Info("Release complete",
			logfields.Artifacts(len(r.report.Artifacts)),
			logfields.Duration(r.report.Duration()))
	}
	return err
}

func (p *Pipeline) runSteps(ctx context.Context, r *run, steps []stepDef) error {
	for i, st := range steps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err := interrupted(st.name, ctxErr)
			p.complete(r, st.name, 0, StepResultCanceled)
			p.skip(r, steps[i+1:])
			return &StepError{Step: st.name, Err: err}
		}

		p.observer.OnStepStart(st.name)
		r.log.Debug("Step started", logfields.Step(string(st.name)))

		t0 := time.Now()
		err := st.fn(ctx, r)
		dur := time.Since(t0)

		if err == nil {
			p.complete(r, st.name, dur, StepResultSuccess)
			continue
		}

		result := StepResultFailed
		if ferrors.HasCategory(err, ferrors.CategoryRuntime) {
			result = StepResultCanceled
		}
		if ce, ok := ferrors.AsClassified(err); ok {
			if code, hasCode := ce.ExitCode(); hasCode {
				r.log.Debug("Step command failed", logfields.Step(string(st.name)), logfields.ExitCode(code))
			}
		}
		p.complete(r, st.name, dur, result)
		p.skip(r, steps[i+1:])
		return &StepError{Step: st.name, Err: err}
	}
	return nil
}

func (p *Pipeline) complete(r *run, step StepName, d time.Duration, result StepResult) {
	r.report.recordStep(step, d, result)
	p.observer.OnStepComplete(step, d, result)
	r.log.Info("Step finished",
		logfields.Step(string(step)),
		logfields.Result(string(result)),
		logfields.Duration(d))
}

func (p *Pipeline) skip(r *run, steps []stepDef) {
	for _, st := range steps {
		r.report.recordStep(st.name, 0, StepResultSkipped)
		p.observer.OnStepComplete(st.name, 0, StepResultSkipped)
	}
}

func (p *Pipeline) recordProvenance(r *run) {
	if p.describe == nil {
		return
	}
	dir := r.cfg.Build.Dir
	if dir == "" {
		dir = "."
	}
	info, err := p.describe(dir)
	switch {
	case errors.Is(err, provenance.ErrNotRepository):
		r.log.Debug("Source tree is not a git repository", logfields.Path(dir))
	case err != nil:
		r.log.Warn("Could not determine source revision", logfields.Path(dir), logfields.Error(err))
	default:
		r.report.Provenance = info
		r.log.Info("Source revision", logfields.Commit(info.Short()), logfields.Branch(info.Branch), slog.Any("tags", info.Tags))
	}
}

func (p *Pipeline) clean(_ context.Context, r *run) error {
	existed, err := r.dir.Exists()
	if err != nil {
		r.log.Debug("Could not inspect output directory", logfields.OutputDir(r.dir.Path()), logfields.Error(err))
	}
	if err := r.dir.Clean(); err != nil {
		if errors.Is(err, artifacts.ErrUnsafePath) {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "refusing to remove output directory").
				Fatal().
				WithStep(string(StepClean)).
				WithContext(ferrors.ContextPath, r.dir.Path()).
				Build()
		}
		return ferrors.FileSystemError("failed to remove output directory").
			WithCause(err).
			WithStep(string(StepClean)).
			WithContext(ferrors.ContextPath, r.dir.Path()).
			Build()
	}
	if existed {
		r.log.Info("Removed previous artifacts", logfields.OutputDir(r.dir.Path()))
	}
	return nil
}

func (p *Pipeline) build(ctx context.Context, r *run) error {
	if err := p.runner.Run(ctx, r.cfg.Build.Spec()); err != nil {
		return commandFailure(ctx, StepBuild, err, ferrors.BuildError)
	}
	if !r.cfg.Output.RequireArtifacts {
		return nil
	}
	if _, err := r.dir.RequireNonEmpty(); err != nil {
		return ferrors.BuildError("build produced no artifacts").
			WithCause(err).
			WithStep(string(StepBuild)).
			WithContext(ferrors.ContextPath, r.dir.Path()).
			Build()
	}
	return nil
}

func (p *Pipeline) publish(ctx context.Context, r *run) error {
	paths, err := r.dir.List()
	if err != nil {
		return ferrors.FileSystemError("failed to list artifacts").
			WithCause(err).
			WithStep(string(StepPublish)).
			WithContext(ferrors.ContextPath, r.dir.Path()).
			Build()
	}
	r.report.Artifacts = paths
	if len(paths) == 0 {
		r.log.Warn("Output directory is empty; publishing without artifacts", logfields.OutputDir(r.dir.Path()))
	}

	args, err := publishArgs(paths, r.cfg.Publish.Dir)
	if err != nil {
		return ferrors.FileSystemError("failed to resolve artifact paths").
			WithCause(err).
			WithStep(string(StepPublish)).
			WithContext(ferrors.ContextPath, r.dir.Path()).
			Build()
	}

	if err := p.runner.Run(ctx, r.cfg.Publish.Spec().WithArgs(args...)); err != nil {
		return commandFailure(ctx, StepPublish, err, ferrors.PublishError)
	}
	return nil
}

// publishArgs makes the listed artifacts reachable from the publish tool's
// working directory. Paths are listed relative to releaser's own working
// directory, so they are made absolute when the tool runs elsewhere.
func publishArgs(paths []string, workDir string) ([]string, error) {
	if workDir == "" {
		return paths, nil
	}
	args := make([]string, len(paths))
	for i, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		args[i] = abs
	}
	return args, nil
}

// commandFailure classifies a runner error. A subprocess exit status is kept so
// the CLI can propagate it.
func commandFailure(ctx context.Context, step StepName, err error, build func(string) *ferrors.ErrorBuilder) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return interrupted(step, err)
	}

	var exitErr *command.ExitError
	if !errors.As(err, &exitErr) {
		return build(fmt.Sprintf("%s tool could not be started", step)).
			WithCause(err).
			WithStep(string(step)).
			Build()
	}

	msg := fmt.Sprintf("%s tool exited with status %d", step, exitErr.Code)
	switch {
	case errors.Is(err, command.ErrCommandNotFound):
		msg = fmt.Sprintf("%s tool not found", step)
	case exitErr.Code < 0:
		msg = fmt.Sprintf("%s tool was terminated", step)
	}
	return build(msg).
		WithCause(err).
		WithStep(string(step)).
		WithExitCode(exitErr.Code).
		WithContext(ferrors.ContextCommand, exitErr.Spec.String()).
		Build()
}

func interrupted(step StepName, cause error) error {
	return ferrors.RuntimeError("release interrupted").
		WithCause(cause).
		WithStep(string(step)).
		Build()
}
