package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/elecmarket/core/metrics"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordStep(coremetrics.StepEvent{RunID: "r", SoC: 4.5, Reward: -6, GridDemand: 2}))
	require.NoError(t, sink.RecordStep(coremetrics.StepEvent{RunID: "r", SoC: 10, Reward: 24, GridDemand: 0}))
	require.NoError(t, sink.RecordEpisode(coremetrics.EpisodeEvent{RunID: "r", Return: 18}))

	assert.InDelta(t, 2, testutil.ToFloat64(sink.steps.WithLabelValues("r")), 0.001)
	assert.InDelta(t, 10, testutil.ToFloat64(sink.soc.WithLabelValues("r")), 0.001)
	assert.InDelta(t, 24, testutil.ToFloat64(sink.reward.WithLabelValues("r")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(sink.episodes.WithLabelValues("r")), 0.001)
	assert.InDelta(t, 18, testutil.ToFloat64(sink.ret.WithLabelValues("r")), 0.001)
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	// Registering the same metrics again must reuse the existing collectors.
	_, err = NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	assert.NoError(t, err)
}
