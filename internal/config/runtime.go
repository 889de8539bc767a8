// pattern: Functional Core
package config

import (
	"strings"

	"github.com/plandoc/plandoc-sync/internal/contracts"
	"github.com/plandoc/plandoc-sync/internal/strategy"
)

// RuntimeFlags are the command-line overrides layered on top of the config
// file. Zero values mean "not set".
type RuntimeFlags struct {
	ContextLines int
	HistoryPath  string
	Strategy     string
	RulesPath    string
	Color        bool
	ColorSet     bool
}

// RuntimeSettings is the effective configuration one command runs with.
type RuntimeSettings struct {
	ContextLines int
	HistoryPath  string
	Strategy     strategy.Kind
	RulesPath    string
	Color        bool
}

// Resolve merges file config and flags, flags winning, and validates the
// result. Strategy names fail hard here so commands never see an unknown one.
func Resolve(config contracts.Config, flags RuntimeFlags) (RuntimeSettings, error) {
	if err := contracts.ValidateConfig(config); err != nil {
		return RuntimeSettings{}, &Error{Code: ErrorCodeValidationFailed, Err: err}
	}

	settings := RuntimeSettings{
		ContextLines: config.ContextLines,
		HistoryPath:  config.HistoryPath,
		RulesPath:    config.RulesPath,
		Color:        config.Color,
	}

	strategyName := config.DefaultStrategy
	if trimmed := strings.TrimSpace(flags.Strategy); trimmed != "" {
		strategyName = trimmed
	}
	kind, err := strategy.ParseKind(strategyName)
	if err != nil {
		return RuntimeSettings{}, err
	}
	settings.Strategy = kind

	if flags.ContextLines > 0 {
		settings.ContextLines = flags.ContextLines
	}
	if trimmed := strings.TrimSpace(flags.HistoryPath); trimmed != "" {
		settings.HistoryPath = trimmed
	}
	if trimmed := strings.TrimSpace(flags.RulesPath); trimmed != "" {
		settings.RulesPath = trimmed
	}
	if flags.ColorSet {
		settings.Color = flags.Color
	}

	return settings, nil
}
