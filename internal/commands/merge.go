package commands

import (
	"fmt"
	"io"

	"github.com/plandoc/plandoc-sync/internal/config"
	"github.com/plandoc/plandoc-sync/internal/conflict"
	"github.com/plandoc/plandoc-sync/internal/contracts"
	"github.com/plandoc/plandoc-sync/internal/output"
)

type MergeOptions struct {
	LocalPath  string
	RemotePath string
	BasePath   string
	OutPath    string
	ContentOut io.Writer
	Flags      config.RuntimeFlags
}

// RunMerge three-way merges local and remote against base and emits the
// merged document, conflicts marked with Git-style markers.
func RunMerge(workDir string, options MergeOptions) (output.Report, error) {
	report := output.Report{CommandName: string(contracts.CommandMerge)}

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

	merger := conflict.NewMerger(conflict.Options{ContextLines: settings.ContextLines})
	result := merger.Merge(local, remote, base)

	report.Counts.Processed = 1
	fileResult := contracts.PerFileResult{
		Path:   options.LocalPath,
		Action: string(contracts.CommandMerge),
		Status: contracts.PerFileStatusSuccess,
	}

	if result.HasConflicts {
		report.Counts.Conflicts = len(result.Conflicts)
		fileResult.Status = contracts.PerFileStatusConflict
		for _, c := range result.Conflicts {
			fileResult.Messages = append(fileResult.Messages, conflictMessage(c))
		}
	} else {
		report.Counts.Merged = 1
	}
	report.Files = append(report.Files, fileResult)

	if err := emitContent(options.OutPath, options.ContentOut, result.Merged); err != nil {
		return report, err
	}
	return report, nil
}

func conflictMessage(c conflict.Conflict) contracts.FileMessage {
	reason := contracts.ReasonCodeConflictLinesChangedBoth
	switch {
	case c.Binary:
		reason = contracts.ReasonCodeConflictBinaryContent
	case c.LocalText == "" || c.RemoteText == "":
		reason = contracts.ReasonCodeConflictModifyDelete
	}
	return contracts.FileMessage{
		Level:      "warning",
		ReasonCode: reason,
		Text:       fmt.Sprintf("conflict %s at lines %d-%d", c.Fingerprint(), c.StartLine, c.EndLine),
	}
}
