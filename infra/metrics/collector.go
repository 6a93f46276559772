package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/elecmarket/core/metrics"
	"github.com/kilianp07/elecmarket/internal/eventbus"
)

// StartEventCollector subscribes to the rollout event bus and forwards
// events to the sink. It stops when the context is canceled or the bus is
// closed.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[any], sink coremetrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.SubscribeBuffered(256)
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case coremetrics.StepEvent:
					_ = sink.RecordStep(e)
				case coremetrics.EpisodeEvent:
					_ = sink.RecordEpisode(e)
				}
			}
		}
	}()
}
