package release

import (
	"path/filepath"

	"git.home.luguber.info/inful/releaser/internal/command"
	"git.home.luguber.info/inful/releaser/internal/config"
)

// PlannedStep is the dry-run view of one step.
type PlannedStep struct {
	Name StepName
	// Command is the traced form of what the step would execute.
	Command string
}

// Plan resolves cfg and describes what Run would execute, without touching the
// filesystem. Publish arguments are shown as the unexpanded `<dir>/*` pattern
// because the artifacts only exist after the build.
func Plan(cfg *config.Config, lookup config.LookupFunc) ([]PlannedStep, error) {
	resolved, err := cfg.Resolve(lookup)
	if err != nil {
		return nil, err
	}
	dir := resolved.Output.Directory
	pattern := dir
	if resolved.Publish.Dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		pattern = abs
	}
	return []PlannedStep{
		{Name: StepClean, Command: command.Spec{Name: "rm", Args: []string{"-rf", dir}}.String()},
		{Name: StepBuild, Command: resolved.Build.Spec().String()},
		{Name: StepPublish, Command: resolved.Publish.Spec().String() + " " + command.Quote(pattern) + "/*"},
	}, nil
}
