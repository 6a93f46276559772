package metrics

import coremetrics "github.com/kilianp07/elecmarket/core/metrics"

// MultiSink fans rollout events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordStep forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordStep(ev coremetrics.StepEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordStep(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordEpisode forwards the record to all sinks.
func (m *MultiSink) RecordEpisode(ev coremetrics.EpisodeEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordEpisode(ev); err != nil {
			return err
		}
	}
	return nil
}
