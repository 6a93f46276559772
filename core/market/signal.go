package market

import "math"

// Source produces a baseline demand or price value for a discrete timestep.
// Implementations must be deterministic; stochastic behavior belongs to
// NoiseWrapper.
type Source interface {
	Evaluate(timestep int) float64
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(timestep int) float64

// Evaluate calls f.
func (f SourceFunc) Evaluate(timestep int) float64 { return f(timestep) }

const (
	hoursPerDay  = 24
	hoursPerYear = 8760
)

// DefaultDemand models hourly household consumption in kWh with a daily
// cycle (evening peak) on top of a seasonal one. Strictly positive.
var DefaultDemand = SourceFunc(func(timestep int) float64 {
	daily := math.Sin(2*math.Pi*float64(timestep)/hoursPerDay - math.Pi/2)
	seasonal := math.Cos(2 * math.Pi * float64(timestep) / hoursPerYear)
	return 40 + 15*daily + 10*seasonal
})

// DefaultPrice models the hourly market price, roughly tracking demand with
// a daily and a seasonal component. Strictly positive.
var DefaultPrice = SourceFunc(func(timestep int) float64 {
	daily := math.Sin(2*math.Pi*float64(timestep)/hoursPerDay - math.Pi/3)
	seasonal := math.Cos(2 * math.Pi * float64(timestep) / hoursPerYear)
	return 30 + 10*daily + 5*seasonal
})

// Constant returns a Source that ignores the timestep.
func Constant(v float64) Source {
	return SourceFunc(func(int) float64 { return v })
}
