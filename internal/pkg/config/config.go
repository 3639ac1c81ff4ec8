package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config carries the mode switches of the match checker. The two feature
// switches mirror compilation modes and are kept separate on purpose:
// ExhaustivePatterns changes which types count as uninhabited, and
// BindByMoveGuards relaxes the by-move-into-guard restriction.
type Config struct {
	ExhaustivePatterns bool `yaml:"exhaustive-patterns"`
	BindByMoveGuards   bool `yaml:"bind-by-move-pattern-guards"`
	MaxShownWitnesses  int  `yaml:"max-shown-witnesses"`
}

func Default() *Config {
	return &Config{
		MaxShownWitnesses: 3,
	}
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse checker config: %w", err)
	}
	if cfg.MaxShownWitnesses <= 0 {
		cfg.MaxShownWitnesses = Default().MaxShownWitnesses
	}
	return cfg, nil
}
