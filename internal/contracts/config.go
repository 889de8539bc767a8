package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the on-disk tool configuration (.plandoc/config.yaml).
type Config struct {
	ContextLines    int    `yaml:"context_lines"`
	HistoryPath     string `yaml:"history_path"`
	DefaultStrategy string `yaml:"default_strategy"`
	RulesPath       string `yaml:"rules_path,omitempty"`
	Color           bool   `yaml:"color"`
}

func DefaultConfig() Config {
	return Config{
		ContextLines:    DefaultContextLines,
		HistoryPath:     DefaultHistoryPath,
		DefaultStrategy: "manual",
		Color:           false,
	}
}

// KnownStrategyNames freezes the strategy vocabulary accepted in config files
// and on the command line. The strategy package owns the semantics.
var KnownStrategyNames = []string{"newest", "local", "remote", "rules-based", "manual"}

func ValidateConfig(config Config) error {
	if config.ContextLines < 0 {
		return errors.New("context_lines must not be negative")
	}
	if strings.TrimSpace(config.HistoryPath) == "" {
		return errors.New("history_path is required")
	}
	if !isKnownStrategyName(config.DefaultStrategy) {
		return fmt.Errorf("unknown default_strategy %q", config.DefaultStrategy)
	}
	return nil
}

func isKnownStrategyName(name string) bool {
	for _, known := range KnownStrategyNames {
		if known == name {
			return true
		}
	}
	return false
}
