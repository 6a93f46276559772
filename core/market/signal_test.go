package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceFuncAdapter(t *testing.T) {
	src := SourceFunc(func(t int) float64 { return float64(t) * 2 })
	assert.Equal(t, 8.0, src.Evaluate(4))
}

func TestDefaultCurvesArePositive(t *testing.T) {
	for ts := 0; ts <= hoursPerYear; ts++ {
		assert.Greater(t, DefaultDemand.Evaluate(ts), 0.0, "demand at t=%d", ts)
		assert.Greater(t, DefaultPrice.Evaluate(ts), 0.0, "price at t=%d", ts)
	}
}

func TestDefaultCurvesAreDeterministic(t *testing.T) {
	for _, ts := range []int{0, 1, 12, 24, 100, 8760} {
		assert.Equal(t, DefaultDemand.Evaluate(ts), DefaultDemand.Evaluate(ts))
		assert.Equal(t, DefaultPrice.Evaluate(ts), DefaultPrice.Evaluate(ts))
	}
}

func TestDefaultDemandHasDailyCycle(t *testing.T) {
	// The evening value must exceed the night trough.
	assert.Greater(t, DefaultDemand.Evaluate(12), DefaultDemand.Evaluate(0))
}

func TestConstant(t *testing.T) {
	c := Constant(3.5)
	assert.Equal(t, 3.5, c.Evaluate(0))
	assert.Equal(t, 3.5, c.Evaluate(999))
}
