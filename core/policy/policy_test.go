package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/elecmarket/core/market"
)

func TestRandomStaysInBounds(t *testing.T) {
	p := NewRandom(10, 1)
	for i := 0; i < 1000; i++ {
		a := p.Action(market.Observation{})
		assert.GreaterOrEqual(t, a, -10.0)
		assert.LessOrEqual(t, a, 10.0)
	}
}

func TestRandomIsSeedDeterministic(t *testing.T) {
	a := NewRandom(10, 7)
	b := NewRandom(10, 7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Action(market.Observation{}), b.Action(market.Observation{}))
	}
}

func TestThreshold(t *testing.T) {
	p := Threshold{Capacity: 10, BuyBelow: 20, SellAbove: 40}

	// Cheap power: fill the remaining headroom.
	assert.Equal(t, 7.0, p.Action(market.Observation{SoC: 3, Price: 15}))
	// Expensive power: sell everything.
	assert.Equal(t, -3.0, p.Action(market.Observation{SoC: 3, Price: 45}))
	// In between: cover the demand from storage.
	assert.Equal(t, -2.0, p.Action(market.Observation{SoC: 3, Demand: 2, Price: 30}))
	assert.Equal(t, -3.0, p.Action(market.Observation{SoC: 3, Demand: 5, Price: 30}))
}
