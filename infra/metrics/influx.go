package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/elecmarket/core/logger"
	coremetrics "github.com/kilianp07/elecmarket/core/metrics"
	infralogger "github.com/kilianp07/elecmarket/infra/logger"
)

// InfluxSink writes rollout events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing database never blocks
// a rollout.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordStep writes the transition as a line protocol point.
func (s *InfluxSink) RecordStep(ev coremetrics.StepEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("market_step").
		AddTag("run_id", ev.RunID).
		AddTag("episode_id", ev.EpisodeID).
		AddTag("truncated", strconv.FormatBool(ev.Truncated)).
		AddField("timestep", ev.Timestep).
		AddField("action", round3(ev.Action)).
		AddField("reward", round3(ev.Reward)).
		AddField("soc", round3(ev.SoC)).
		AddField("demand", round3(ev.Demand)).
		AddField("price", round3(ev.Price)).
		AddField("grid_demand", round3(ev.GridDemand)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordEpisode writes the episode summary.
func (s *InfluxSink) RecordEpisode(ev coremetrics.EpisodeEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("market_episode").
		AddTag("run_id", ev.RunID).
		AddTag("episode_id", ev.EpisodeID).
		AddField("episode", ev.Episode).
		AddField("seed", ev.Seed).
		AddField("steps", ev.Steps).
		AddField("return", round3(ev.Return)).
		AddField("grid_energy", round3(ev.GridEnergy)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
