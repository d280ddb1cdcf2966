package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "releaser"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stepDuration    *prom.HistogramVec
	stepResults     *prom.CounterVec
	releaseDuration prom.Histogram
	releaseOutcome  *prom.CounterVec
	artifacts       prom.Gauge
	lastSuccess     prom.Gauge
}

// NewPrometheusRecorder constructs the release metrics and registers them on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	buckets := prom.ExponentialBuckets(0.5, 2, 12) // 0.5s .. ~17min
	pr := &PrometheusRecorder{
		stepDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of individual release steps",
			Buckets:   buckets,
		}, []string{"step"}),
		stepResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "step_results_total",
			Help:      "Release step results by outcome",
		}, []string{"step", "result"}),
		releaseDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "release_duration_seconds",
			Help:      "Total release duration",
			Buckets:   buckets,
		}),
		releaseOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "release_outcomes_total",
			Help:      "Release runs by final status",
		}, []string{"outcome"}),
		artifacts: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "published_artifacts",
			Help:      "Number of artifacts handed to the publish tool in the last run",
		}),
		lastSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful release",
		}),
	}
	reg.MustRegister(pr.stepDuration, pr.stepResults, pr.releaseDuration, pr.releaseOutcome, pr.artifacts, pr.lastSuccess)
	return pr
}

func (p *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	if p == nil {
		return
	}
	p.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStepResult(step string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stepResults.WithLabelValues(step, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveReleaseDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.releaseDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncReleaseOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.releaseOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetArtifactCount(n int) {
	if p == nil {
		return
	}
	p.artifacts.Set(float64(n))
}

func (p *PrometheusRecorder) SetLastSuccess(t time.Time) {
	if p == nil {
		return
	}
	p.lastSuccess.Set(float64(t.Unix()))
}
