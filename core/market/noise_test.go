package market

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoiseWrapperSameTimestepDiffers(t *testing.T) {
	src := rand.New(rand.NewPCG(1, 2))
	w := NewNoiseWrapper(Constant(10), 1, src)
	a := w.Evaluate(0)
	b := w.Evaluate(0)
	assert.NotEqual(t, a, b, "generator must advance on every call")
}

func TestNoiseWrapperDeterministicPerSeed(t *testing.T) {
	a := NewNoiseWrapper(Constant(10), 1, rand.New(rand.NewPCG(1, 2)))
	b := NewNoiseWrapper(Constant(10), 1, rand.New(rand.NewPCG(1, 2)))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Evaluate(i), b.Evaluate(i))
	}
}

func TestNoiseWrapperZeroScalePassesThrough(t *testing.T) {
	w := NewNoiseWrapper(Constant(10), 0, rand.New(rand.NewPCG(1, 2)))
	assert.InDelta(t, 10, w.Evaluate(0), 1e-12)
}

func TestNoiseWrapperIsZeroMean(t *testing.T) {
	w := NewNoiseWrapper(Constant(0), 2, rand.New(rand.NewPCG(3, 4)))
	sum := 0.0
	const n = 20000
	for i := 0; i < n; i++ {
		sum += w.Evaluate(0)
	}
	assert.InDelta(t, 0, sum/n, 0.1)
}
