package metrics

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	coremetrics "github.com/kilianp07/elecmarket/core/metrics"
)

type recordingSink struct {
	mu       sync.Mutex
	steps    []coremetrics.StepEvent
	episodes []coremetrics.EpisodeEvent
	fail     bool
}

func (r *recordingSink) RecordStep(ev coremetrics.StepEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return fmt.Errorf("sink failed")
	}
	r.steps = append(r.steps, ev)
	return nil
}

func (r *recordingSink) RecordEpisode(ev coremetrics.EpisodeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return fmt.Errorf("sink failed")
	}
	r.episodes = append(r.episodes, ev)
	return nil
}

func (r *recordingSink) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.steps), len(r.episodes)
}

func TestMultiSinkForwardsAll(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	m := NewMultiSink(a, b)

	assert.NoError(t, m.RecordStep(coremetrics.StepEvent{RunID: "r"}))
	assert.NoError(t, m.RecordEpisode(coremetrics.EpisodeEvent{RunID: "r"}))

	for _, s := range []*recordingSink{a, b} {
		steps, eps := s.counts()
		assert.Equal(t, 1, steps)
		assert.Equal(t, 1, eps)
	}
}

func TestMultiSinkReturnsFirstError(t *testing.T) {
	ok := &recordingSink{}
	bad := &recordingSink{fail: true}
	m := NewMultiSink(bad, ok)

	assert.Error(t, m.RecordStep(coremetrics.StepEvent{}))
	steps, _ := ok.counts()
	assert.Zero(t, steps)
}
