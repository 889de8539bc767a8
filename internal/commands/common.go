// Package commands hosts the command entrypoints behind the CLI. Each RunX
// function is side-effect-contained: it reads the workspace config, drives
// the merge/strategy/history core, and returns a Report for the output layer
// to render.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/plandoc/plandoc-sync/internal/config"
	"github.com/plandoc/plandoc-sync/internal/contracts"
	"github.com/plandoc/plandoc-sync/internal/fs"
	"github.com/plandoc/plandoc-sync/internal/history"
	"github.com/plandoc/plandoc-sync/internal/strategy"
)

func loadSettings(workDir string, flags config.RuntimeFlags) (config.RuntimeSettings, error) {
	cfg, err := config.Read(filepath.Join(workDir, contracts.DefaultConfigFilePath))
	if err != nil {
		return config.RuntimeSettings{}, fmt.Errorf("failed to load config: %w", err)
	}
	return config.Resolve(cfg, flags)
}

func openHistory(workDir string, settings config.RuntimeSettings, resolver *strategy.Resolver) (*history.History, error) {
	path := settings.HistoryPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}
	store, err := history.NewFileStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history log: %w", err)
	}
	return history.New(store, resolver), nil
}

// buildResolver assembles the strategy resolver for one command run. Rules
// are mandatory for the rules-based strategy and loaded opportunistically
// otherwise so replayed records that carry rules-based can still resolve.
func buildResolver(workDir string, settings config.RuntimeSettings, stamps strategy.TimestampSource) (*strategy.Resolver, error) {
	resolver := &strategy.Resolver{Timestamps: stamps}

	rulesPath := settings.RulesPath
	if rulesPath == "" {
		rulesPath = contracts.DefaultRulesFilePath
	}
	if !filepath.IsAbs(rulesPath) {
		rulesPath = filepath.Join(workDir, rulesPath)
	}

	if settings.Strategy == strategy.KindRulesBased {
		rules, err := strategy.LoadRules(rulesPath)
		if err != nil {
			return nil, err
		}
		resolver.Rules = rules
		return resolver, nil
	}

	if _, err := os.Stat(rulesPath); err == nil {
		rules, err := strategy.LoadRules(rulesPath)
		if err != nil {
			return nil, err
		}
		resolver.Rules = rules
	}
	return resolver, nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// readBase tolerates a missing base path: a two-way merge degrades to an
// empty common ancestor.
func readBase(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return readSource(path)
}

// sideTimestamps feeds the newest strategy from the file modification times
// of the two inputs. A missing side leaves both zero, which the strategy
// treats as timestamps-unavailable.
func sideTimestamps(localPath, remotePath string) strategy.StaticTimestamps {
	localInfo, localErr := os.Stat(localPath)
	remoteInfo, remoteErr := os.Stat(remotePath)
	if localErr != nil || remoteErr != nil {
		return strategy.StaticTimestamps{}
	}
	return strategy.StaticTimestamps{
		Local:  localInfo.ModTime(),
		Remote: remoteInfo.ModTime(),
	}
}

// emitContent delivers command output content: to outPath atomically when
// set, otherwise to contentOut (typically stdout in human mode).
func emitContent(outPath string, contentOut io.Writer, text string) error {
	if outPath != "" {
		dir := filepath.Dir(outPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
		safe, err := fs.NewSafeFS(dir)
		if err != nil {
			return fmt.Errorf("failed to open output directory %s: %w", dir, err)
		}
		if err := safe.WriteFileAtomic(filepath.Base(outPath), []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		return nil
	}
	if contentOut != nil {
		if _, err := io.WriteString(contentOut, text); err != nil {
			return fmt.Errorf("failed to write content: %w", err)
		}
	}
	return nil
}

func formatRecordTime(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
