// Package render provides the console renderer for the market environment.
package render

import (
	"github.com/kilianp07/elecmarket/core/logger"
	"github.com/kilianp07/elecmarket/core/market"
	infralogger "github.com/kilianp07/elecmarket/infra/logger"
)

// Console logs one line per render pass through the structured logger.
type Console struct {
	log logger.Logger
}

// NewConsole creates a Console renderer.
func NewConsole() *Console {
	return &Console{log: infralogger.New("render")}
}

// Render implements market.Renderer.
func (c *Console) Render(f market.Frame) {
	c.log.Infof("t=%d soc=%.3f demand=%.3f price=%.3f", f.Timestep, f.SoC, f.Demand, f.Price)
}

// ForMode returns the renderer for the configured render mode, or nil when
// the mode produces no output ("none" and the reserved "debug").
func ForMode(mode string) market.Renderer {
	if mode == market.RenderConsole {
		return NewConsole()
	}
	return nil
}
