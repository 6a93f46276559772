package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/elecmarket/core/market"
	coremetrics "github.com/kilianp07/elecmarket/core/metrics"
	"github.com/kilianp07/elecmarket/infra/mqtt"
)

// Config is the root configuration of the rollout runner.
type Config struct {
	Market  market.Config      `json:"market"`
	Runner  RunnerConfig       `json:"runner"`
	Metrics coremetrics.Config `json:"metrics"`
	MQTT    mqtt.Config        `json:"mqtt"`
}

// Load reads the configuration from a yaml or json file, applies EM_
// environment overrides, then defaults and validation per section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. EM_MARKET__CAPACITY=50.
	if err := k.Load(env.Provider("EM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "em_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Market.SetDefaults()
	cfg.Runner.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Market.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Runner.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
