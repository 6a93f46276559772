package market

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NoiseWrapper perturbs a base Source with zero-mean Gaussian noise. Every
// call draws a fresh sample, so evaluating the same timestep twice yields
// two different values. The generator is borrowed from the environment,
// which reseeds it on reset; wrappers never carry state across episodes.
type NoiseWrapper struct {
	base Source
	dist distuv.Normal
}

// NewNoiseWrapper wraps base with N(0, scale) noise drawn from src.
func NewNoiseWrapper(base Source, scale float64, src rand.Source) *NoiseWrapper {
	return &NoiseWrapper{
		base: base,
		dist: distuv.Normal{Mu: 0, Sigma: scale, Src: src},
	}
}

// Evaluate returns the baseline value plus an independent noise sample.
func (w *NoiseWrapper) Evaluate(timestep int) float64 {
	return w.base.Evaluate(timestep) + w.dist.Rand()
}
