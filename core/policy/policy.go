// Package policy provides baseline action sources for the rollout runner.
// Real decision-making agents live outside this module; they only need the
// observation/reward contract of core/market.
package policy

import (
	"math"
	"math/rand/v2"

	"github.com/kilianp07/elecmarket/core/market"
)

// Policy chooses an action from an observation.
type Policy interface {
	Action(obs market.Observation) float64
}

// Random samples actions uniformly from [-capacity, capacity].
type Random struct {
	capacity float64
	rng      *rand.Rand
}

// NewRandom creates a Random policy with its own seeded generator.
func NewRandom(capacity float64, seed int64) *Random {
	return &Random{
		capacity: capacity,
		rng:      rand.New(rand.NewPCG(uint64(seed), uint64(seed)+1)),
	}
}

// Action returns a uniform sample from the action space.
func (p *Random) Action(market.Observation) float64 {
	return -p.capacity + 2*p.capacity*p.rng.Float64()
}

// Threshold is a simple arbitrage baseline: charge fully when the price is
// low, sell the stored energy when it is high, otherwise serve the demand
// from storage.
type Threshold struct {
	Capacity  float64
	BuyBelow  float64
	SellAbove float64
}

// Action implements Policy.
func (p Threshold) Action(obs market.Observation) float64 {
	switch {
	case obs.Price <= p.BuyBelow:
		return p.Capacity - obs.SoC
	case obs.Price >= p.SellAbove:
		return -obs.SoC
	default:
		return -math.Min(obs.SoC, obs.Demand)
	}
}
