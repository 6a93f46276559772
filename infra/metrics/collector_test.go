package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/elecmarket/core/metrics"
	"github.com/kilianp07/elecmarket/internal/eventbus"
)

func TestEventCollectorForwardsEvents(t *testing.T) {
	bus := eventbus.New[any]()
	defer bus.Close()
	sink := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartEventCollector(ctx, bus, sink)

	// The subscription is registered before StartEventCollector returns,
	// so publishing immediately is safe.
	bus.Publish(coremetrics.StepEvent{RunID: "r"})
	bus.Publish(coremetrics.EpisodeEvent{RunID: "r"})
	bus.Publish("unrelated")

	require.Eventually(t, func() bool {
		steps, eps := sink.counts()
		return steps == 1 && eps == 1
	}, time.Second, 5*time.Millisecond)
}

func TestEventCollectorNilArgs(t *testing.T) {
	// Must not panic.
	StartEventCollector(context.Background(), nil, nil)
}
