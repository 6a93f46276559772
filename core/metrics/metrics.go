package metrics

import "time"

// StepEvent is a per-transition record emitted by the rollout runner.
type StepEvent struct {
	RunID      string    `json:"run_id"`
	EpisodeID  string    `json:"episode_id"`
	Episode    int       `json:"episode"`
	Timestep   int       `json:"timestep"`
	Action     float64   `json:"action"`
	Reward     float64   `json:"reward"`
	SoC        float64   `json:"soc"`
	Demand     float64   `json:"demand"`
	Price      float64   `json:"price"`
	GridDemand float64   `json:"grid_demand"`
	Truncated  bool      `json:"truncated"`
	Time       time.Time `json:"time"`
}

// EpisodeEvent summarizes a finished episode.
type EpisodeEvent struct {
	RunID      string    `json:"run_id"`
	EpisodeID  string    `json:"episode_id"`
	Episode    int       `json:"episode"`
	Seed       int64     `json:"seed"`
	Steps      int       `json:"steps"`
	Return     float64   `json:"return"`
	GridEnergy float64   `json:"grid_energy"`
	Time       time.Time `json:"time"`
}

// StepRecorder records per-step transitions.
type StepRecorder interface {
	RecordStep(ev StepEvent) error
}

// EpisodeRecorder records episode summaries.
type EpisodeRecorder interface {
	RecordEpisode(ev EpisodeEvent) error
}

// Sink records rollout events for observability purposes.
type Sink interface {
	StepRecorder
	EpisodeRecorder
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordStep(StepEvent) error       { return nil }
func (NopSink) RecordEpisode(EpisodeEvent) error { return nil }

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}
