package commands

import (
	"fmt"

	"github.com/plandoc/plandoc-sync/internal/config"
	"github.com/plandoc/plandoc-sync/internal/contracts"
	"github.com/plandoc/plandoc-sync/internal/output"
)

type UndoOptions struct {
	ID    string
	Flags config.RuntimeFlags
}

// RunUndo reverts a logged resolution by appending an undone record that
// restores the previous state of the same conflict. Unknown ids are reported
// as warnings, not failures.
func RunUndo(workDir string, options UndoOptions) (output.Report, error) {
	report := output.Report{CommandName: string(contracts.CommandUndo)}

	settings, err := loadSettings(workDir, options.Flags)
	if err != nil {
		return report, err
	}

	log, err := openHistory(workDir, settings, nil)
	if err != nil {
		return report, err
	}

	record, err := log.Undo(options.ID)
	if err != nil {
		return report, fmt.Errorf("failed to undo resolution: %w", err)
	}

	report.Counts.Processed = 1
	if record == nil {
		report.Counts.Warnings = 1
		report.Files = append(report.Files, contracts.PerFileResult{
			Path:   options.ID,
			Action: string(contracts.CommandUndo),
			Status: contracts.PerFileStatusSkipped,
			Messages: []contracts.FileMessage{{
				Level:      "warning",
				ReasonCode: contracts.ReasonCodeHistoryIDNotFound,
				Text:       fmt.Sprintf("no resolution record with id %s", options.ID),
			}},
		})
		return report, nil
	}

	report.Counts.Resolved = 1
	report.Files = append(report.Files, contracts.PerFileResult{
		Path:   record.FilePath,
		Action: string(contracts.CommandUndo),
		Status: contracts.PerFileStatusSuccess,
		Messages: []contracts.FileMessage{{
			Level: "info",
			Text:  fmt.Sprintf("reverted %s; restored strategy=%s as record %s", options.ID, record.Strategy, record.ID),
		}},
	})
	return report, nil
}
