package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/elecmarket/core/metrics"
)

// PromSink records rollout events in Prometheus metrics.
type PromSink struct {
	steps    *prometheus.CounterVec
	episodes *prometheus.CounterVec
	soc      *prometheus.GaugeVec
	reward   *prometheus.GaugeVec
	grid     prometheus.Histogram
	ret      *prometheus.GaugeVec
}

// NewPromSink registers rollout metrics on the default Prometheus
// registerer. The metrics server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	steps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "market_steps_total",
		Help: "Total number of environment steps",
	}, []string{"run_id"})
	episodes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "market_episodes_total",
		Help: "Total number of finished episodes",
	}, []string{"run_id"})
	soc := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "market_state_of_charge",
		Help: "Battery state of charge after the last step",
	}, []string{"run_id"})
	reward := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "market_last_reward",
		Help: "Reward of the last step",
	}, []string{"run_id"})
	grid := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "market_grid_demand",
		Help:    "Energy drawn from the grid per step",
		Buckets: prometheus.LinearBuckets(0, 25, 10),
	})
	ret := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "market_episode_return",
		Help: "Return of the last finished episode",
	}, []string{"run_id"})

	collectors := []prometheus.Collector{steps, episodes, soc, reward, grid, ret}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	return &PromSink{
		steps:    collectors[0].(*prometheus.CounterVec),
		episodes: collectors[1].(*prometheus.CounterVec),
		soc:      collectors[2].(*prometheus.GaugeVec),
		reward:   collectors[3].(*prometheus.GaugeVec),
		grid:     collectors[4].(prometheus.Histogram),
		ret:      collectors[5].(*prometheus.GaugeVec),
	}, nil
}

// RecordStep updates the per-step metrics.
func (s *PromSink) RecordStep(ev coremetrics.StepEvent) error {
	s.steps.WithLabelValues(ev.RunID).Inc()
	s.soc.WithLabelValues(ev.RunID).Set(ev.SoC)
	s.reward.WithLabelValues(ev.RunID).Set(ev.Reward)
	s.grid.Observe(ev.GridDemand)
	return nil
}

// RecordEpisode updates the per-episode metrics.
func (s *PromSink) RecordEpisode(ev coremetrics.EpisodeEvent) error {
	s.episodes.WithLabelValues(ev.RunID).Inc()
	s.ret.WithLabelValues(ev.RunID).Set(ev.Return)
	return nil
}
