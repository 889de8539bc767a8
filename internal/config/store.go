// pattern: Imperative Shell
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plandoc/plandoc-sync/internal/contracts"
)

// Read loads and validates the tool configuration. A missing file is not an
// error: the defaults apply.
func Read(path string) (contracts.Config, error) {
	resolvedPath := resolvePath(path)
	raw, err := os.ReadFile(resolvedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return contracts.DefaultConfig(), nil
		}
		return contracts.Config{}, &Error{Code: ErrorCodeReadFailed, Path: resolvedPath, Err: err}
	}

	config, err := decode(raw)
	if err != nil {
		return contracts.Config{}, &Error{Code: ErrorCodeParseFailed, Path: resolvedPath, Err: err}
	}

	if err := contracts.ValidateConfig(config); err != nil {
		return contracts.Config{}, &Error{Code: ErrorCodeValidationFailed, Path: resolvedPath, Err: err}
	}

	return config, nil
}

func Write(path string, config contracts.Config) error {
	resolvedPath := resolvePath(path)
	if err := contracts.ValidateConfig(config); err != nil {
		return &Error{Code: ErrorCodeValidationFailed, Path: resolvedPath, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(resolvedPath), 0o755); err != nil {
		return &Error{Code: ErrorCodeWriteFailed, Path: resolvedPath, Err: err}
	}

	encoded, err := yaml.Marshal(config)
	if err != nil {
		return &Error{Code: ErrorCodeWriteFailed, Path: resolvedPath, Err: err}
	}

	if err := os.WriteFile(resolvedPath, encoded, 0o644); err != nil {
		return &Error{Code: ErrorCodeWriteFailed, Path: resolvedPath, Err: err}
	}

	return nil
}

func decode(raw []byte) (contracts.Config, error) {
	config := contracts.DefaultConfig()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return config, nil
	}

	decoder := yaml.NewDecoder(strings.NewReader(string(raw)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return contracts.Config{}, err
	}

	return config, nil
}

func resolvePath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return contracts.DefaultConfigFilePath
	}
	return trimmed
}
