package release

import (
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/releaser/internal/provenance"
)

// Outcome is the final status of a release run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Report records what a single run did. It feeds logging and metrics only;
// the command line contract is the exit status.
type Report struct {
	RunID         string
	Start         time.Time
	End           time.Time
	OutputDir     string
	StepDurations map[StepName]time.Duration
	StepResults   map[StepName]StepResult
	// Artifacts is the list handed to the publish tool, empty if publish never ran.
	Artifacts  []string
	Outcome    Outcome
	Provenance *provenance.Info
	Err        error
}

func newReport(runID, outputDir string) *Report {
	return &Report{
		RunID:         runID,
		Start:         time.Now(),
		OutputDir:     outputDir,
		StepDurations: make(map[StepName]time.Duration),
		StepResults:   make(map[StepName]StepResult),
	}
}

func (r *Report) recordStep(step StepName, d time.Duration, result StepResult) {
	r.StepResults[step] = result
	if result != StepResultSkipped {
		r.StepDurations[step] = d
	}
}

// finish stamps the end time and derives the outcome from the step results.
func (r *Report) finish(err error) {
	r.End = time.Now()
	r.Err = err
	r.Outcome = OutcomeSuccess
	for _, res := range r.StepResults {
		switch res {
		case StepResultCanceled:
			r.Outcome = OutcomeCanceled
			return
		case StepResultFailed:
			r.Outcome = OutcomeFailed
		case StepResultSuccess, StepResultSkipped:
		}
	}
	if err != nil && r.Outcome == OutcomeSuccess {
		r.Outcome = OutcomeFailed
	}
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// Summary renders a one-line human readable digest.
func (r *Report) Summary() string {
	var steps []string
	for _, s := range []StepName{StepClean, StepBuild, StepPublish} {
		if res, ok := r.StepResults[s]; ok {
			steps = append(steps, fmt.Sprintf("%s=%s", s, res))
		}
	}
	return fmt.Sprintf("release %s: %s in %s (%s), %d artifact(s)",
		r.RunID, r.Outcome, r.Duration().Round(time.Millisecond), strings.Join(steps, " "), len(r.Artifacts))
}
