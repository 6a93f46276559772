// Package app wires the environment, a baseline policy and the metric
// sinks into a runnable rollout service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/elecmarket/config"
	"github.com/kilianp07/elecmarket/core/logger"
	"github.com/kilianp07/elecmarket/core/market"
	coremetrics "github.com/kilianp07/elecmarket/core/metrics"
	"github.com/kilianp07/elecmarket/core/policy"
	infralogger "github.com/kilianp07/elecmarket/infra/logger"
	"github.com/kilianp07/elecmarket/infra/metrics"
	inframqtt "github.com/kilianp07/elecmarket/infra/mqtt"
	"github.com/kilianp07/elecmarket/infra/render"
	"github.com/kilianp07/elecmarket/internal/eventbus"
)

// Service runs episodes of the market environment and records the rollout.
type Service struct {
	cfg   *config.Config
	env   *market.Env
	pol   policy.Policy
	sink  coremetrics.Sink
	bus   *eventbus.Bus[any]
	log   logger.Logger
	runID string

	mqttPub *inframqtt.Publisher
	closers []func()
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	s := &Service{
		cfg:   cfg,
		bus:   eventbus.New[any](),
		log:   infralogger.New("service"),
		runID: uuid.NewString(),
	}

	// Synchronous sinks: Prometheus and InfluxDB. The MQTT publisher is
	// fed through the event bus instead, since streaming is lossy by
	// nature and must not slow the rollout down.
	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics)
		if closer, ok := sink.(*metrics.InfluxSink); ok {
			s.closers = append(s.closers, closer.Close)
		}
		sinks = append(sinks, sink)
	}
	switch len(sinks) {
	case 0:
		s.sink = coremetrics.NopSink{}
	case 1:
		s.sink = sinks[0]
	default:
		s.sink = metrics.NewMultiSink(sinks...)
	}

	if cfg.MQTT.Enabled {
		pub, err := inframqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		s.mqttPub = pub
		s.closers = append(s.closers, pub.Close)
	}

	env, err := market.New(cfg.Market, market.DefaultDemand, market.DefaultPrice,
		market.WithRenderer(render.ForMode(cfg.Market.RenderMode)),
		market.WithLogger(infralogger.New("market")),
	)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	s.env = env

	switch cfg.Runner.Policy {
	case config.PolicyThreshold:
		s.pol = policy.Threshold{
			Capacity:  cfg.Market.Capacity,
			BuyBelow:  cfg.Runner.BuyBelow,
			SellAbove: cfg.Runner.SellAbove,
		}
	default:
		s.pol = policy.NewRandom(cfg.Market.Capacity, cfg.Runner.Seed)
	}
	return s, nil
}

// RunID returns the identifier attached to all events of this run.
func (s *Service) RunID() string { return s.runID }

// Bus exposes the rollout event bus for external subscribers.
func (s *Service) Bus() *eventbus.Bus[any] { return s.bus }

// Run executes the configured number of episodes. It returns early when
// the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.mqttPub != nil {
		metrics.StartEventCollector(ctx, s.bus, s.mqttPub)
	}

	episodes := s.cfg.Runner.Episodes
	returns := make([]float64, 0, episodes)
	for ep := 0; ep < episodes; ep++ {
		ret, err := s.runEpisode(ctx, ep)
		if err != nil {
			return err
		}
		returns = append(returns, ret)
	}

	mean := stat.Mean(returns, nil)
	if len(returns) > 1 {
		s.log.Infof("run %s done: episodes=%d mean_return=%.2f stddev=%.2f",
			s.runID, episodes, mean, stat.StdDev(returns, nil))
	} else {
		s.log.Infof("run %s done: episodes=%d mean_return=%.2f", s.runID, episodes, mean)
	}
	return nil
}

func (s *Service) runEpisode(ctx context.Context, ep int) (float64, error) {
	seed := s.cfg.Runner.Seed + int64(ep)
	episodeID := uuid.NewString()
	obs, _ := s.env.Reset(seed)

	var ret, gridEnergy float64
	steps := 0
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		action := s.pol.Action(obs)
		res, err := s.env.Step(action)
		if err != nil {
			return 0, fmt.Errorf("step: %w", err)
		}
		steps++
		ret += res.Reward
		gridEnergy += s.env.LastGridDemand()

		ev := coremetrics.StepEvent{
			RunID:      s.runID,
			EpisodeID:  episodeID,
			Episode:    ep,
			Timestep:   s.env.Timestep() - 1,
			Action:     action,
			Reward:     res.Reward,
			SoC:        res.Observation.SoC,
			Demand:     res.Observation.Demand,
			Price:      res.Observation.Price,
			GridDemand: s.env.LastGridDemand(),
			Truncated:  res.Truncated,
			Time:       time.Now(),
		}
		if err := s.sink.RecordStep(ev); err != nil {
			s.log.Warnf("record step: %v", err)
		}
		s.bus.Publish(ev)

		obs = res.Observation
		if res.Truncated {
			break
		}
	}

	epEv := coremetrics.EpisodeEvent{
		RunID:      s.runID,
		EpisodeID:  episodeID,
		Episode:    ep,
		Seed:       seed,
		Steps:      steps,
		Return:     ret,
		GridEnergy: gridEnergy,
		Time:       time.Now(),
	}
	if err := s.sink.RecordEpisode(epEv); err != nil {
		s.log.Warnf("record episode: %v", err)
	}
	s.bus.Publish(epEv)

	s.log.Infof("episode %d seed=%d steps=%d return=%.2f grid_energy=%.2f",
		ep, seed, steps, ret, gridEnergy)
	return ret, nil
}

// Close releases the attached resources.
func (s *Service) Close() error {
	s.bus.Close()
	for _, c := range s.closers {
		c()
	}
	return nil
}
