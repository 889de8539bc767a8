package commands

import (
	"fmt"
	"io"

	"github.com/plandoc/plandoc-sync/internal/config"
	"github.com/plandoc/plandoc-sync/internal/contracts"
	"github.com/plandoc/plandoc-sync/internal/history"
	"github.com/plandoc/plandoc-sync/internal/output"
)

type ReplayOptions struct {
	ID         string
	OutPath    string
	ContentOut io.Writer
	Flags      config.RuntimeFlags
}

// RunReplay re-resolves the conflict snapshot of a past record under the
// effective strategy (config default or --strategy override) and emits the
// new content. The original record is preserved; a replayed record is
// appended.
func RunReplay(workDir string, options ReplayOptions) (output.Report, error) {
	report := output.Report{CommandName: string(contracts.CommandReplay)}

	settings, err := loadSettings(workDir, options.Flags)
	if err != nil {
		return report, err
	}

	resolver, err := buildResolver(workDir, settings, nil)
	if err != nil {
		return report, err
	}
	log, err := openHistory(workDir, settings, resolver)
	if err != nil {
		return report, err
	}

	records, err := log.GetHistory(history.Filter{})
	if err != nil {
		return report, fmt.Errorf("failed to read history log: %w", err)
	}

	report.Counts.Processed = 1
	target := findRecord(records, options.ID)
	if target == nil {
		report.Counts.Warnings = 1
		report.Files = append(report.Files, contracts.PerFileResult{
			Path:   options.ID,
			Action: string(contracts.CommandReplay),
			Status: contracts.PerFileStatusSkipped,
			Messages: []contracts.FileMessage{{
				Level:      "warning",
				ReasonCode: contracts.ReasonCodeHistoryIDNotFound,
				Text:       fmt.Sprintf("no resolution record with id %s", options.ID),
			}},
		})
		return report, nil
	}

	content, err := log.Replay(options.ID, settings.Strategy)
	if err != nil {
		return report, err
	}

	report.Counts.Resolved = 1
	report.Files = append(report.Files, contracts.PerFileResult{
		Path:   target.FilePath,
		Action: string(contracts.CommandReplay),
		Status: contracts.PerFileStatusSuccess,
		Messages: []contracts.FileMessage{{
			Level: "info",
			Text:  fmt.Sprintf("replayed %s under strategy=%s", options.ID, settings.Strategy),
		}},
	})

	if err := emitContent(options.OutPath, options.ContentOut, content); err != nil {
		return report, err
	}
	return report, nil
}

func findRecord(records []history.ResolutionRecord, id string) *history.ResolutionRecord {
	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}
	return nil
}
