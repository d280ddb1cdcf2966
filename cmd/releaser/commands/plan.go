package commands

import (
	"fmt"

	"git.home.luguber.info/inful/releaser/internal/release"
)

// PlanCmd implements the 'plan' command.
type PlanCmd struct {
	Output string `short:"o" help:"Override output.directory"`
}

func (p *PlanCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if p.Output != "" {
		cfg.Output.Directory = p.Output
	}

	steps, err := release.Plan(cfg, nil)
	if err != nil {
		return err
	}
	out := g.stdout()
	for i, st := range steps {
		fmt.Fprintf(out, "%d. %-8s %s\n", i+1, st.Name, st.Command)
	}
	return nil
}
