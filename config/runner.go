package config

import "fmt"

// Policy names accepted by the runner.
const (
	PolicyRandom    = "random"
	PolicyThreshold = "threshold"
)

// RunnerConfig defines the rollout loop parameters.
type RunnerConfig struct {
	// Episodes is the number of episodes to run.
	Episodes int `json:"episodes"`
	// Seed is the base seed; episode e resets the environment with Seed+e.
	Seed int64 `json:"seed"`
	// Policy selects the baseline agent: "random" or "threshold".
	Policy string `json:"policy"`
	// BuyBelow and SellAbove are the threshold policy price bounds.
	BuyBelow  float64 `json:"buy_below"`
	SellAbove float64 `json:"sell_above"`
}

// SetDefaults applies sane defaults.
func (c *RunnerConfig) SetDefaults() {
	if c.Episodes == 0 {
		c.Episodes = 1
	}
	if c.Policy == "" {
		c.Policy = PolicyRandom
	}
	if c.BuyBelow == 0 {
		c.BuyBelow = 25
	}
	if c.SellAbove == 0 {
		c.SellAbove = 35
	}
}

// Validate checks the runner parameters.
func (c RunnerConfig) Validate() error {
	if c.Episodes <= 0 {
		return fmt.Errorf("episodes must be greater than 0, got %d", c.Episodes)
	}
	if c.Policy != PolicyRandom && c.Policy != PolicyThreshold {
		return fmt.Errorf("unknown policy %q", c.Policy)
	}
	if c.SellAbove < c.BuyBelow {
		return fmt.Errorf("sell_above must not be below buy_below")
	}
	return nil
}
