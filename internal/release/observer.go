package release

import (
	"time"

	"git.home.luguber.info/inful/releaser/internal/metrics"
)

// ReleaseObserver receives callbacks around step execution and the release lifecycle.
type ReleaseObserver interface {
	OnStepStart(step StepName)
	OnStepComplete(step StepName, duration time.Duration, result StepResult)
	OnReleaseComplete(report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStepStart(_ StepName)                                   {}
func (NoopObserver) OnStepComplete(_ StepName, _ time.Duration, _ StepResult) {}
func (NoopObserver) OnReleaseComplete(_ *Report)                              {}

// RecorderObserver adapts metrics.Recorder into a ReleaseObserver.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (r RecorderObserver) OnStepStart(_ StepName) {}
func (r RecorderObserver) OnStepComplete(step StepName, d time.Duration, result StepResult) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.IncStepResult(string(step), metrics.ResultLabel(result))
	if result != StepResultSkipped {
		r.Recorder.ObserveStepDuration(string(step), d)
	}
}

func (r RecorderObserver) OnReleaseComplete(report *Report) {
	if r.Recorder == nil || report == nil {
		return
	}
	r.Recorder.ObserveReleaseDuration(report.Duration())
	r.Recorder.IncReleaseOutcome(metrics.OutcomeLabel(report.Outcome))
	r.Recorder.SetArtifactCount(len(report.Artifacts))
	if report.Outcome == OutcomeSuccess {
		r.Recorder.SetLastSuccess(report.End)
	}
}
