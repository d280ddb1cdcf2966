package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStepDuration("build", 1500*time.Millisecond)
	pr.IncStepResult("clean", ResultSuccess)
	pr.IncStepResult("build", ResultSuccess)
	pr.IncStepResult("publish", ResultFailed)
	pr.ObserveReleaseDuration(2 * time.Second)
	pr.IncReleaseOutcome(OutcomeFailed)
	pr.SetArtifactCount(2)
	pr.SetLastSuccess(time.Unix(1700000000, 0))

	assert.Equal(t, 1.0, testutil.ToFloat64(pr.stepResults.WithLabelValues("publish", string(ResultFailed))))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.releaseOutcome.WithLabelValues(string(OutcomeFailed))))
	assert.Equal(t, 2.0, testutil.ToFloat64(pr.artifacts))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(pr.lastSuccess))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStepDuration("build", time.Second)
		pr.IncStepResult("build", ResultSuccess)
		pr.ObserveReleaseDuration(time.Second)
		pr.IncReleaseOutcome(OutcomeSuccess)
		pr.SetArtifactCount(1)
		pr.SetLastSuccess(time.Now())
	})
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncReleaseOutcome(OutcomeSuccess)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncReleaseOutcome(OutcomeSuccess)
	pr.SetArtifactCount(3)

	path := filepath.Join(t.TempDir(), "collector", "releaser.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `releaser_release_outcomes_total{outcome="success"} 1`), text)
	assert.Contains(t, text, "releaser_published_artifacts 3")
}

func TestWriteTextfile_NilRegistry(t *testing.T) {
	assert.Error(t, WriteTextfile(filepath.Join(t.TempDir(), "x.prom"), nil))
}
