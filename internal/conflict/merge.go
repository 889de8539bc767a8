package conflict

import (
	"strings"

	"github.com/plandoc/plandoc-sync/internal/contracts"
)

// Conflict is one unresolved divergence between local and remote. LocalText
// and RemoteText are never equal; at least one of them differs from BaseText.
type Conflict struct {
	StartLine     int      `json:"start_line"`
	EndLine       int      `json:"end_line"`
	LocalText     string   `json:"local_text"`
	RemoteText    string   `json:"remote_text"`
	BaseText      string   `json:"base_text"`
	ContextBefore []string `json:"context_before,omitempty"`
	ContextAfter  []string `json:"context_after,omitempty"`
	Binary        bool     `json:"binary,omitempty"`
}

// MergeResult is the outcome of one three-way merge. Merged carries Git-style
// conflict markers at each unresolved range and reconciled content everywhere
// else. HasConflicts is true exactly when Conflicts is non-empty.
type MergeResult struct {
	Merged       string
	HasConflicts bool
	Conflicts    []Conflict
}

// Merger performs line-oriented three-way merges.
type Merger struct {
	contextLines int
}

// Options configure a Merger.
type Options struct {
	// ContextLines is the number of unchanged lines captured around each
	// conflict. Zero means the default; negative disables context capture.
	ContextLines int
}

func NewMerger(options Options) *Merger {
	contextLines := options.ContextLines
	if contextLines == 0 {
		contextLines = contracts.DefaultContextLines
	}
	if contextLines < 0 {
		contextLines = 0
	}
	return &Merger{contextLines: contextLines}
}

// ThreeWayMerge merges with default options.
func ThreeWayMerge(local, remote, base string) MergeResult {
	return NewMerger(Options{}).Merge(local, remote, base)
}

// Merge reconciles local and remote against their common ancestor. It never
// fails: degenerate input merges to empty, binary input degrades to a single
// whole-document conflict so no content is ever lost.
func (m *Merger) Merge(local, remote, base string) MergeResult {
	if IsBinary(local) || IsBinary(remote) || IsBinary(base) {
		return m.binaryResult(local, remote, base)
	}

	positions := Classify(local, remote, base)
	if len(positions) == 0 {
		return MergeResult{}
	}

	markerEnding := dominantEnding(splitDocumentLines(local))

	var (
		merged    []documentLine
		tags      []Tag
		conflicts []Conflict
		run       []LinePosition
	)

	flush := func() {
		if len(run) == 0 {
			return
		}
		// The opening marker must start its own physical line, so an
		// unterminated resolved line before the block gets re-terminated.
		if last := len(merged) - 1; last >= 0 && merged[last].ending == "" {
			merged[last].ending = markerEnding
		}
		conflict, blockLines, conflicting := buildConflict(run, len(merged)+1, markerEnding)
		tag := TagConvergedChanged
		if conflicting {
			tag = TagConflict
		}
		for _, line := range blockLines {
			merged = append(merged, line)
			tags = append(tags, tag)
		}
		if conflicting {
			conflicts = append(conflicts, conflict)
		}
		run = nil
	}

	for _, position := range positions {
		if position.Tag == TagConflict {
			run = append(run, position)
			continue
		}
		flush()

		if picked, ok := pickResolvedLine(position); ok {
			merged = append(merged, picked)
			tags = append(tags, position.Tag)
		}
	}
	flush()

	m.attachContext(conflicts, merged, tags)

	return MergeResult{
		Merged:       joinDocumentLines(merged),
		HasConflicts: len(conflicts) > 0,
		Conflicts:    conflicts,
	}
}

// pickResolvedLine applies the auto-merge table: non-base sides win, converged
// changes are taken once, deletions emit nothing.
func pickResolvedLine(position LinePosition) (documentLine, bool) {
	switch position.Tag {
	case TagUnchanged, TagConvergedChanged, TagLocalChanged, TagLocalInsert:
		return documentLine{text: position.Local.Text, ending: position.Local.Ending}, true
	case TagRemoteChanged, TagRemoteInsert:
		return documentLine{text: position.Remote.Text, ending: position.Remote.Ending}, true
	default:
		// local_delete, remote_delete, both_delete
		return documentLine{}, false
	}
}

// buildConflict turns a contiguous run of conflicting positions into one
// Conflict plus the marker-block lines to splice into the merged output.
// startLine is the 1-indexed merged-output position of the opening marker.
// A run whose sides agree textually once joined (delete versus blank line,
// swapped edits) has converged: it yields the surviving content lines and no
// Conflict, keeping LocalText != RemoteText true for every emitted record.
func buildConflict(run []LinePosition, startLine int, markerEnding string) (Conflict, []documentLine, bool) {
	var localLines, remoteLines []documentLine
	var localTexts, remoteTexts, baseTexts []string

	for _, position := range run {
		if position.Local.Present {
			localLines = append(localLines, contentLine(position.Local, markerEnding))
			localTexts = append(localTexts, position.Local.Text)
		}
		if position.Remote.Present {
			remoteLines = append(remoteLines, contentLine(position.Remote, markerEnding))
			remoteTexts = append(remoteTexts, position.Remote.Text)
		}
		if position.Base.Present {
			baseTexts = append(baseTexts, position.Base.Text)
		}
	}

	localText := strings.Join(localTexts, "\n")
	remoteText := strings.Join(remoteTexts, "\n")
	if localText == remoteText {
		lines := localLines
		if len(lines) == 0 {
			lines = remoteLines
		}
		return Conflict{}, lines, false
	}

	block := make([]documentLine, 0, len(localLines)+len(remoteLines)+3)
	block = append(block, documentLine{text: contracts.ConflictMarkerLocal, ending: markerEnding})
	block = append(block, localLines...)
	block = append(block, documentLine{text: contracts.ConflictMarkerSeparator, ending: markerEnding})
	block = append(block, remoteLines...)
	block = append(block, documentLine{text: contracts.ConflictMarkerRemote, ending: markerEnding})

	conflict := Conflict{
		StartLine:  startLine,
		EndLine:    startLine + len(block) - 1,
		LocalText:  localText,
		RemoteText: remoteText,
		BaseText:   strings.Join(baseTexts, "\n"),
	}

	return conflict, block, true
}

// contentLine re-terminates an unterminated trailing line so it stays
// separated from the marker that follows it inside the block.
func contentLine(ref LineRef, markerEnding string) documentLine {
	ending := ref.Ending
	if ending == "" {
		ending = markerEnding
	}
	return documentLine{text: ref.Text, ending: ending}
}

func (m *Merger) attachContext(conflicts []Conflict, merged []documentLine, tags []Tag) {
	if m.contextLines == 0 {
		return
	}

	for i := range conflicts {
		start := conflicts[i].StartLine - 1
		end := conflicts[i].EndLine - 1

		var before []string
		for j := start - 1; j >= 0 && len(before) < m.contextLines; j-- {
			if tags[j] != TagUnchanged {
				break
			}
			before = append([]string{merged[j].text}, before...)
		}

		var after []string
		for j := end + 1; j < len(merged) && len(after) < m.contextLines; j++ {
			if tags[j] != TagUnchanged {
				break
			}
			after = append(after, merged[j].text)
		}

		conflicts[i].ContextBefore = before
		conflicts[i].ContextAfter = after
	}
}

func (m *Merger) binaryResult(local, remote, base string) MergeResult {
	block := MarkerBlock(local, remote)
	conflict := Conflict{
		StartLine:  1,
		EndLine:    strings.Count(block, "\n") + 1,
		LocalText:  local,
		RemoteText: remote,
		BaseText:   base,
		Binary:     true,
	}
	return MergeResult{Merged: block, HasConflicts: true, Conflicts: []Conflict{conflict}}
}

// MarkerBlock renders the unresolved marker form of a local/remote pair. An
// empty side contributes no content lines between its markers.
func MarkerBlock(localText, remoteText string) string {
	var builder strings.Builder
	builder.WriteString(contracts.ConflictMarkerLocal)
	builder.WriteByte('\n')
	writeMarkerSide(&builder, localText)
	builder.WriteString(contracts.ConflictMarkerSeparator)
	builder.WriteByte('\n')
	writeMarkerSide(&builder, remoteText)
	builder.WriteString(contracts.ConflictMarkerRemote)
	return builder.String()
}

// Markers reproduces a conflict's unresolved marker form.
func (c Conflict) Markers() string {
	return MarkerBlock(c.LocalText, c.RemoteText)
}

func writeMarkerSide(builder *strings.Builder, text string) {
	if text == "" {
		return
	}
	builder.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		builder.WriteByte('\n')
	}
}

func joinDocumentLines(lines []documentLine) string {
	var builder strings.Builder
	for _, line := range lines {
		builder.WriteString(line.text)
		builder.WriteString(line.ending)
	}
	return builder.String()
}
