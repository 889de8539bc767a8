package commands

import (
	"fmt"

	"github.com/plandoc/plandoc-sync/internal/config"
	"github.com/plandoc/plandoc-sync/internal/contracts"
	"github.com/plandoc/plandoc-sync/internal/history"
	"github.com/plandoc/plandoc-sync/internal/output"
	"github.com/plandoc/plandoc-sync/internal/strategy"
)

type HistoryOptions struct {
	FilePath string
	Strategy string
	Limit    int
	Flags    config.RuntimeFlags
}

// RunHistory lists resolution records, newest first, optionally filtered by
// file path and strategy.
func RunHistory(workDir string, options HistoryOptions) (output.Report, error) {
	report := output.Report{CommandName: string(contracts.CommandHistory)}

	settings, err := loadSettings(workDir, options.Flags)
	if err != nil {
		return report, err
	}

	log, err := openHistory(workDir, settings, nil)
	if err != nil {
		return report, err
	}

	filter := history.Filter{FilePath: options.FilePath}
	if options.Strategy != "" {
		kind, err := strategy.ParseKind(options.Strategy)
		if err != nil {
			return report, err
		}
		filter.Strategy = kind
	}

	records, err := log.GetHistory(filter)
	if err != nil {
		return report, fmt.Errorf("failed to read history log: %w", err)
	}
	if options.Limit > 0 && len(records) > options.Limit {
		records = records[:options.Limit]
	}

	report.Counts.Processed = len(records)
	for _, record := range records {
		report.Files = append(report.Files, contracts.PerFileResult{
			Path:   record.FilePath,
			Action: string(record.Event),
			Status: contracts.PerFileStatusSuccess,
			Messages: []contracts.FileMessage{{
				Level: "info",
				Text: fmt.Sprintf("%s strategy=%s lines %d-%d at %s",
					record.ID, record.Strategy, record.Conflict.StartLine, record.Conflict.EndLine, formatRecordTime(record.Timestamp)),
			}},
		})
	}
	return report, nil
}
