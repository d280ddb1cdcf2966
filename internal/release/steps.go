package release

import (
	"context"
	"fmt"
)

// StepName identifies a pipeline step.
type StepName string

// Canonical step names, in execution order.
const (
	StepClean   StepName = "clean"
	StepBuild   StepName = "build"
	StepPublish StepName = "publish"
)

// StepResult captures the outcome of a step.
type StepResult string

const (
	StepResultSuccess  StepResult = "success"
	StepResultFailed   StepResult = "failed"
	StepResultCanceled StepResult = "canceled"
	StepResultSkipped  StepResult = "skipped" // Not run because an earlier step aborted.
)

// StepError ties a failure to the step that produced it.
type StepError struct {
	Step StepName
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("step %s: %v", e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

type stepFunc func(ctx context.Context, r *run) error

type stepDef struct {
	name StepName
	fn   stepFunc
}
