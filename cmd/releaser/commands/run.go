package commands

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/releaser/internal/logfields"
	"git.home.luguber.info/inful/releaser/internal/metrics"
	"git.home.luguber.info/inful/releaser/internal/release"
)

// RunCmd implements the 'run' command.
type RunCmd struct {
	Output      string `short:"o" help:"Override output.directory"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics for this run to a textfile"`
}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if r.Output != "" {
		slog.Debug("Output directory overridden by flag", logfields.OutputDir(r.Output))
		cfg.Output.Directory = r.Output
	}

	// Resolved here only to learn the metrics path; the pipeline resolves cfg itself.
	resolved, err := cfg.Resolve(nil)
	if err != nil {
		return err
	}
	metricsPath := r.MetricsFile
	if metricsPath == "" {
		metricsPath = resolved.Metrics.Textfile
	}

	pipeline := release.NewPipeline(g.runner())
	var registry *prometheus.Registry
	if metricsPath != "" {
		registry = prometheus.NewRegistry()
		pipeline.WithObserver(release.RecorderObserver{Recorder: metrics.NewPrometheusRecorder(registry)})
	}

	runErr := pipeline.Run(g.ctx(), cfg)

	if report := pipeline.LastReport(); report != nil {
		slog.Debug(report.Summary(), logfields.RunID(report.RunID))
	}
	if registry != nil {
		if err := metrics.WriteTextfile(metricsPath, registry); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(metricsPath), logfields.Error(err))
		} else {
			slog.Debug("Wrote metrics textfile", logfields.Path(metricsPath))
		}
	}
	return runErr
}
