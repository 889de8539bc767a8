package commands

import (
	"io"

	"github.com/plandoc/plandoc-sync/internal/config"
	"github.com/plandoc/plandoc-sync/internal/conflict"
	"github.com/plandoc/plandoc-sync/internal/contracts"
	"github.com/plandoc/plandoc-sync/internal/output"
	"github.com/plandoc/plandoc-sync/internal/render"
)

type DiffOptions struct {
	LocalPath  string
	RemotePath string
	Width      int
	OutPath    string
	ContentOut io.Writer
	Flags      config.RuntimeFlags
}

// RunDiff renders a side-by-side view of the local and remote documents.
func RunDiff(workDir string, options DiffOptions) (output.Report, error) {
	report := output.Report{CommandName: string(contracts.CommandDiff)}

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

	report.Counts.Processed = 1
	fileResult := contracts.PerFileResult{
		Path:   options.LocalPath,
		Action: string(contracts.CommandDiff),
		Status: contracts.PerFileStatusSuccess,
	}

	if conflict.IsBinary(local) || conflict.IsBinary(remote) {
		report.Counts.Warnings = 1
		fileResult.Status = contracts.PerFileStatusWarning
		fileResult.Messages = append(fileResult.Messages, contracts.FileMessage{
			Level:      "warning",
			ReasonCode: contracts.ReasonCodeConflictBinaryContent,
			Text:       "binary content; line diff not available",
		})
		report.Files = append(report.Files, fileResult)
		return report, nil
	}

	renderer := render.New(render.Options{Color: settings.Color, ColumnWidth: options.Width})
	view := renderer.SideBySide(local, remote, options.Width)

	report.Files = append(report.Files, fileResult)
	if err := emitContent(options.OutPath, options.ContentOut, view); err != nil {
		return report, err
	}
	return report, nil
}
