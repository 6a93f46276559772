package market

import (
	"fmt"
	"math"
)

// Render modes accepted by the environment. "debug" is reserved and
// currently behaves like "none".
const (
	RenderConsole = "console"
	RenderDebug   = "debug"
	RenderNone    = "none"
)

// Reference parameters of the environment.
const (
	DefaultCapacity  = 100.0
	DefaultHorizon   = hoursPerYear - 1
	DefaultDemandStd = 20.0
	DefaultPriceStd  = 10.0
)

// Config holds the environment parameters.
type Config struct {
	// Capacity is the battery capacity; actions live in [-Capacity, Capacity].
	Capacity float64 `json:"capacity"`
	// Horizon is the number of steps per episode.
	Horizon int `json:"horizon"`
	// RenderMode is one of "console", "debug" or "none".
	RenderMode string `json:"render_mode"`
	// Noisy selects Gaussian perturbation of the demand and price signals.
	Noisy bool `json:"noisy"`
	// DemandStd and PriceStd are the noise standard deviations used when
	// Noisy is set.
	DemandStd float64 `json:"demand_std"`
	PriceStd  float64 `json:"price_std"`
}

// SetDefaults applies the reference parameters to unset fields.
func (c *Config) SetDefaults() {
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.Horizon == 0 {
		c.Horizon = DefaultHorizon
	}
	if c.RenderMode == "" {
		c.RenderMode = RenderNone
	}
	if c.DemandStd == 0 {
		c.DemandStd = DefaultDemandStd
	}
	if c.PriceStd == 0 {
		c.PriceStd = DefaultPriceStd
	}
}

// Validate checks the parameter constraints.
func (c Config) Validate() error {
	if math.IsNaN(c.Capacity) || math.IsInf(c.Capacity, 0) || c.Capacity <= 0 {
		return fmt.Errorf("capacity must be a positive number, got %v", c.Capacity)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be greater than 0, got %d", c.Horizon)
	}
	switch c.RenderMode {
	case RenderConsole, RenderDebug, RenderNone:
	default:
		return fmt.Errorf("unsupported render mode %q", c.RenderMode)
	}
	if c.DemandStd < 0 || c.PriceStd < 0 {
		return fmt.Errorf("noise standard deviations must not be negative")
	}
	return nil
}
