// Package render formats already-computed merge data for terminal display.
// Nothing here diffs or errors: every function is pure formatting that
// degrades to an empty frame on empty input and to a placeholder notice on
// binary content.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/plandoc/plandoc-sync/internal/conflict"
	"github.com/plandoc/plandoc-sync/internal/contracts"
)

const binaryNotice = "(binary content; no line rendering available)"

// Renderer holds the presentation options. The zero-value styles render
// plain text; color is opt-in so piped output stays clean.
type Renderer struct {
	columnWidth int

	markerStyle  lipgloss.Style
	localStyle   lipgloss.Style
	remoteStyle  lipgloss.Style
	changedStyle lipgloss.Style
	gutterStyle  lipgloss.Style
	noticeStyle  lipgloss.Style
}

type Options struct {
	// ColumnWidth is the per-column width for side-by-side output.
	// Zero means the default.
	ColumnWidth int

	// Color enables ANSI styling.
	Color bool
}

func New(options Options) *Renderer {
	columnWidth := options.ColumnWidth
	if columnWidth <= 0 {
		columnWidth = contracts.DefaultColumnWidth
	}

	renderer := &Renderer{columnWidth: columnWidth}
	if options.Color {
		renderer.markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
		renderer.localStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
		renderer.remoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		renderer.changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
		renderer.gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		renderer.noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	}
	return renderer
}

// SideBySide renders local and remote as two aligned columns. Rows where the
// sides diverge are highlighted using the differ's classification with the
// local text as the comparison base.
func (r *Renderer) SideBySide(local, remote string, columnWidth int) string {
	if columnWidth <= 0 {
		columnWidth = r.columnWidth
	}

	if conflict.IsBinary(local) || conflict.IsBinary(remote) {
		return r.noticeStyle.Render(binaryNotice)
	}

	var builder strings.Builder
	writeRow := func(gutter, left, right string, style lipgloss.Style) {
		builder.WriteString(r.gutterStyle.Render(gutter))
		builder.WriteString(style.Render(fitColumn(left, columnWidth)))
		builder.WriteString(" | ")
		builder.WriteString(style.Render(fitColumn(right, columnWidth)))
		builder.WriteByte('\n')
	}

	header := fmt.Sprintf("%6s", "")
	writeRow(header, "LOCAL", "REMOTE", r.markerStyle)
	writeRow(header, strings.Repeat("-", columnWidth), strings.Repeat("-", columnWidth), r.gutterStyle)

	positions := conflict.Classify(local, remote, local)
	for _, position := range positions {
		style := lipgloss.NewStyle()
		if position.Tag != conflict.TagUnchanged {
			style = r.changedStyle
		}
		gutter := fmt.Sprintf("%4d  ", position.Index)
		writeRow(gutter, position.Local.Text, position.Remote.Text, style)
	}

	return strings.TrimSuffix(builder.String(), "\n")
}

// HighlightConflicts wraps each conflict's marker range with emphasis. The
// text is expected to carry the marker blocks the merge engine wrote; lines
// outside any conflict range pass through unstyled.
func (r *Renderer) HighlightConflicts(text string, conflicts []conflict.Conflict) string {
	for _, c := range conflicts {
		if c.Binary {
			return r.noticeStyle.Render(binaryNotice)
		}
	}
	if text == "" {
		return ""
	}

	lines := strings.Split(contracts.NormalizeSingleValue(contracts.NormalizationNormalizeLineEndings, text), "\n")

	type span struct{ start, end int }
	spans := make([]span, 0, len(conflicts))
	for _, c := range conflicts {
		spans = append(spans, span{start: c.StartLine, end: c.EndLine})
	}

	styled := make([]string, len(lines))
	for i, line := range lines {
		number := i + 1
		inConflict := false
		for _, s := range spans {
			if number >= s.start && number <= s.end {
				inConflict = true
				break
			}
		}

		switch {
		case !inConflict:
			styled[i] = line
		case line == contracts.ConflictMarkerLocal,
			line == contracts.ConflictMarkerSeparator,
			line == contracts.ConflictMarkerRemote:
			styled[i] = r.markerStyle.Render(line)
		case r.insideLocalSegment(lines, i):
			styled[i] = r.localStyle.Render(line)
		default:
			styled[i] = r.remoteStyle.Render(line)
		}
	}

	return strings.Join(styled, "\n")
}

// insideLocalSegment reports whether line index i sits between the opening
// marker and the separator of its enclosing block.
func (r *Renderer) insideLocalSegment(lines []string, index int) bool {
	for i := index - 1; i >= 0; i-- {
		switch lines[i] {
		case contracts.ConflictMarkerLocal:
			return true
		case contracts.ConflictMarkerSeparator, contracts.ConflictMarkerRemote:
			return false
		}
	}
	return false
}

// RenderContext extracts contextSize lines around each given 1-indexed line
// number, coalescing overlapping windows, with an ellipsis row between
// disjoint windows.
func (r *Renderer) RenderContext(text string, lineNumbers []int, contextSize int) string {
	if text == "" || len(lineNumbers) == 0 {
		return ""
	}
	if conflict.IsBinary(text) {
		return r.noticeStyle.Render(binaryNotice)
	}
	if contextSize < 0 {
		contextSize = 0
	}

	lines := strings.Split(contracts.NormalizeSingleValue(contracts.NormalizationNormalizeLineEndings, text), "\n")

	type window struct{ start, end int }
	windows := make([]window, 0, len(lineNumbers))
	sorted := append([]int(nil), lineNumbers...)
	sort.Ints(sorted)
	for _, number := range sorted {
		if number < 1 || number > len(lines) {
			continue
		}
		start := number - contextSize
		if start < 1 {
			start = 1
		}
		end := number + contextSize
		if end > len(lines) {
			end = len(lines)
		}
		if n := len(windows); n > 0 && start <= windows[n-1].end+1 {
			if end > windows[n-1].end {
				windows[n-1].end = end
			}
			continue
		}
		windows = append(windows, window{start: start, end: end})
	}

	var builder strings.Builder
	for i, w := range windows {
		if i > 0 {
			builder.WriteString(r.gutterStyle.Render("···"))
			builder.WriteByte('\n')
		}
		for number := w.start; number <= w.end; number++ {
			builder.WriteString(r.gutterStyle.Render(fmt.Sprintf("%4d  ", number)))
			builder.WriteString(lines[number-1])
			builder.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(builder.String(), "\n")
}

// fitColumn pads or truncates a cell to the column width. Width accounting
// goes through lipgloss so wide runes line up.
func fitColumn(value string, width int) string {
	current := lipgloss.Width(value)
	if current == width {
		return value
	}
	if current < width {
		return value + strings.Repeat(" ", width-current)
	}

	runes := []rune(value)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return fitColumn(string(runes)+"…", width)
}
