package market

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/kilianp07/elecmarket/core/logger"
)

// Observation is the snapshot returned to the agent after reset and step.
type Observation struct {
	SoC    float64 `json:"soc"`
	Demand float64 `json:"demand"`
	Price  float64 `json:"price"`
}

// Vector returns the observation as an ordered 3-vector.
func (o Observation) Vector() []float64 {
	return []float64{o.SoC, o.Demand, o.Price}
}

// Box describes per-component bounds of a space.
type Box struct {
	Low  []float64
	High []float64
}

// StepResult carries everything a step returns to the agent.
type StepResult struct {
	Observation Observation
	Reward      float64
	// Terminated is always false: the episode only ends by truncation.
	Terminated bool
	// Truncated reports that the episode clock reached the horizon.
	Truncated bool
	Info      map[string]any
}

// Frame is the state snapshot handed to a Renderer on each render pass.
type Frame struct {
	Timestep int
	SoC      float64
	Demand   float64
	Price    float64
}

// Renderer consumes render passes. Rendering is a side-effecting read of
// the current state and has no effect on simulation semantics.
type Renderer interface {
	Render(Frame)
}

// Env simulates an electricity market in which an agent operates a battery
// to balance stochastic household demand against a fluctuating price.
//
// The action is a scalar in [-capacity, capacity]: negative values
// discharge the battery, non-negative values charge it. Note that a zero
// action goes through the charge branch, so the household demand for that
// step is still bought from the grid at the current price.
type Env struct {
	cfg      Config
	demandFn Source
	priceFn  Source

	// demand and price are the signal instances used during the episode,
	// wrapped with noise when cfg.Noisy is set. Rebuilt on every reset.
	demand Source
	price  Source

	// rng is the single generator owned by the environment. It is reseeded
	// on reset and borrowed by both noise wrappers.
	rng *rand.Rand

	timestep   int
	soc        float64
	gridDemand []float64

	renderer Renderer
	log      logger.Logger
}

// Option customizes an Env at construction time.
type Option func(*Env)

// WithRenderer attaches the renderer invoked in console mode.
func WithRenderer(r Renderer) Option {
	return func(e *Env) { e.renderer = r }
}

// WithLogger sets the component logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Env) { e.log = l }
}

// New validates the configuration and builds an environment using the given
// baseline demand and price sources. One render pass is triggered before
// returning.
func New(cfg Config, demand, price Source, opts ...Option) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if demand == nil {
		return nil, fmt.Errorf("demand source must not be nil")
	}
	if price == nil {
		return nil, fmt.Errorf("price source must not be nil")
	}
	e := &Env{
		cfg:      cfg,
		demandFn: demand,
		priceFn:  price,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:      logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rebuildSignals()
	e.render()
	return e, nil
}

// rebuildSignals reinstalls the episode signal instances. Noise wrappers
// are reconstructed so no generator state leaks across episodes.
func (e *Env) rebuildSignals() {
	if e.cfg.Noisy {
		e.demand = NewNoiseWrapper(e.demandFn, e.cfg.DemandStd, e.rng)
		e.price = NewNoiseWrapper(e.priceFn, e.cfg.PriceStd, e.rng)
		return
	}
	e.demand = e.demandFn
	e.price = e.priceFn
}

// Reset reinitializes the episode: zero state of charge, timestep 0, empty
// grid-demand log, and fresh signal instances seeded from seed. It may be
// called at any point, including mid-episode, and fully replaces prior
// state. The returned info mapping is always empty.
func (e *Env) Reset(seed int64) (Observation, map[string]any) {
	e.soc = 0
	e.timestep = 0
	e.gridDemand = e.gridDemand[:0]
	e.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)+1))
	e.rebuildSignals()
	e.render()
	return e.observe(), map[string]any{}
}

// Step validates the action, applies the charge or discharge physics,
// computes the reward and advances the episode clock.
//
// The clock check rejects timestep > horizon only, so exactly one more
// step call is permitted after the truncating step has been reported;
// the call after that fails with ErrEpisodeOver.
func (e *Env) Step(action float64) (StepResult, error) {
	if math.IsNaN(action) || action < -e.cfg.Capacity || action > e.cfg.Capacity {
		return StepResult{}, fmt.Errorf("%w: got %v, want [-%v, %v]",
			ErrInvalidAction, action, e.cfg.Capacity, e.cfg.Capacity)
	}
	if e.timestep > e.cfg.Horizon {
		return StepResult{}, ErrEpisodeOver
	}

	demand := e.demand.Evaluate(e.timestep)
	price := e.price.Evaluate(e.timestep)

	var reward float64
	if action < 0 {
		// Cannot discharge more than currently stored. The shortfall is
		// bought from the grid; any surplus beyond demand is implicitly
		// sold and not tracked in the log.
		discharge := math.Min(e.soc, -action)
		e.soc -= discharge
		e.gridDemand = append(e.gridDemand, math.Max(0, demand-discharge))
		reward = (discharge - demand) * price
	} else {
		// Cannot charge beyond the remaining headroom. Charged energy and
		// household demand are both bought from the grid.
		charge := math.Min(e.cfg.Capacity-e.soc, action)
		e.soc += charge
		e.gridDemand = append(e.gridDemand, charge+demand)
		reward = -(charge + demand) * price
	}

	e.render()
	e.timestep++

	return StepResult{
		Observation: e.observe(),
		Reward:      reward,
		Terminated:  false,
		Truncated:   e.timestep == e.cfg.Horizon,
		Info:        map[string]any{},
	}, nil
}

// observe builds the observation against the current timestep. In noisy
// mode this draws fresh noise samples.
func (e *Env) observe() Observation {
	return Observation{
		SoC:    e.soc,
		Demand: e.demand.Evaluate(e.timestep),
		Price:  e.price.Evaluate(e.timestep),
	}
}

// render performs one render pass. Only console mode produces output;
// "debug" is reserved and behaves like "none".
func (e *Env) render() {
	if e.cfg.RenderMode != RenderConsole {
		return
	}
	f := Frame{
		Timestep: e.timestep,
		SoC:      e.soc,
		Demand:   e.demand.Evaluate(e.timestep),
		Price:    e.price.Evaluate(e.timestep),
	}
	if e.renderer != nil {
		e.renderer.Render(f)
		return
	}
	e.log.Infof("t=%d soc=%.3f demand=%.3f price=%.3f", f.Timestep, f.SoC, f.Demand, f.Price)
}

// SoC returns the current state of charge, in [0, Capacity].
func (e *Env) SoC() float64 { return e.soc }

// Timestep returns the current episode clock value.
func (e *Env) Timestep() int { return e.timestep }

// Capacity returns the battery capacity.
func (e *Env) Capacity() float64 { return e.cfg.Capacity }

// Horizon returns the episode length.
func (e *Env) Horizon() int { return e.cfg.Horizon }

// GridDemand returns a copy of the per-step grid draw log. It is cleared
// on reset.
func (e *Env) GridDemand() []float64 {
	out := make([]float64, len(e.gridDemand))
	copy(out, e.gridDemand)
	return out
}

// LastGridDemand returns the most recent grid draw entry, or 0 when no
// step has been taken yet.
func (e *Env) LastGridDemand() float64 {
	if len(e.gridDemand) == 0 {
		return 0
	}
	return e.gridDemand[len(e.gridDemand)-1]
}

// ActionSpace returns the scalar action bounds.
func (e *Env) ActionSpace() Box {
	return Box{Low: []float64{-e.cfg.Capacity}, High: []float64{e.cfg.Capacity}}
}

// ObservationSpace returns the bounds of the 3-component observation.
func (e *Env) ObservationSpace() Box {
	return Box{
		Low:  []float64{0, 0, 0},
		High: []float64{e.cfg.Capacity, math.Inf(1), math.Inf(1)},
	}
}
