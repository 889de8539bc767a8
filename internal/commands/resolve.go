package commands

import (
	"fmt"
	"io"

	"github.com/plandoc/plandoc-sync/internal/config"
	"github.com/plandoc/plandoc-sync/internal/conflict"
	"github.com/plandoc/plandoc-sync/internal/contracts"
	"github.com/plandoc/plandoc-sync/internal/history"
	"github.com/plandoc/plandoc-sync/internal/output"
	"github.com/plandoc/plandoc-sync/internal/strategy"
)

type ResolveOptions struct {
	LocalPath  string
	RemotePath string
	BasePath   string
	OutPath    string
	ContentOut io.Writer
	Flags      config.RuntimeFlags
}

// RunResolve merges, applies the configured strategy to every conflict, logs
// each applied resolution to the history file, and emits the resulting
// document. Conflicts the strategy cannot decide keep their markers and are
// reported as unresolved.
func RunResolve(workDir string, options ResolveOptions) (output.Report, error) {
	report := output.Report{CommandName: string(contracts.CommandResolve)}

	settings, err := loadSettings(workDir, options.Flags)
	if err != nil {
		return report, err
	}

	local, err := readSource(options.LocalPath)
	if err != nil {
		return report, err
	}
	remote, err := readSource(options.RemotePath)
	if err != nil {
		return report, err
	}
	base, err := readBase(options.BasePath)
	if err != nil {
		return report, err
	}

	resolver, err := buildResolver(workDir, settings, sideTimestamps(options.LocalPath, options.RemotePath))
	if err != nil {
		return report, err
	}
	log, err := openHistory(workDir, settings, resolver)
	if err != nil {
		return report, err
	}

	merger := conflict.NewMerger(conflict.Options{ContextLines: settings.ContextLines})
	result := merger.Merge(local, remote, base)

	report.Counts.Processed = 1
	fileResult := contracts.PerFileResult{
		Path:   options.LocalPath,
		Action: string(contracts.CommandResolve),
		Status: contracts.PerFileStatusSuccess,
	}

	resolved := result.Merged
	// Splice back-to-front so earlier conflict line ranges stay valid.
	for i := len(result.Conflicts) - 1; i >= 0; i-- {
		c := result.Conflicts[i]
		content, err := resolver.Resolve(c, settings.Strategy)
		if err != nil {
			return report, err
		}

		if content == c.Markers() {
			report.Counts.Conflicts++
			fileResult.Messages = append(fileResult.Messages, unresolvedMessage(c, settings.Strategy))
			continue
		}

		resolved = conflict.ReplaceLineRange(resolved, c.StartLine, c.EndLine, content)
		if _, err := log.Log(c, history.Options{
			Strategy:      settings.Strategy,
			ChosenContent: content,
			FilePath:      options.LocalPath,
		}); err != nil {
			return report, fmt.Errorf("failed to record resolution: %w", err)
		}
		report.Counts.Resolved++
	}

	if report.Counts.Conflicts > 0 {
		fileResult.Status = contracts.PerFileStatusConflict
	} else if len(result.Conflicts) == 0 {
		report.Counts.Merged = 1
	}
	report.Files = append(report.Files, fileResult)

	if err := emitContent(options.OutPath, options.ContentOut, resolved); err != nil {
		return report, err
	}
	return report, nil
}

func unresolvedMessage(c conflict.Conflict, kind strategy.Kind) contracts.FileMessage {
	reason := contracts.ReasonCodeStrategyManualRequired
	if kind == strategy.KindNewest {
		reason = contracts.ReasonCodeTimestampsUnavailable
	}
	return contracts.FileMessage{
		Level:      "warning",
		ReasonCode: reason,
		Text:       fmt.Sprintf("conflict %s at lines %d-%d left unresolved", c.Fingerprint(), c.StartLine, c.EndLine),
	}
}
