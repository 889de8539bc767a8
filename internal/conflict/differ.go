package conflict

import "strings"

// Tag classifies one aligned line position across local/remote/base.
type Tag string

const (
	TagUnchanged        Tag = "unchanged"
	TagLocalChanged     Tag = "local_changed"
	TagRemoteChanged    Tag = "remote_changed"
	TagConvergedChanged Tag = "converged_changed"
	TagConflict         Tag = "conflict"
	TagLocalInsert      Tag = "local_insert"
	TagRemoteInsert     Tag = "remote_insert"
	TagLocalDelete      Tag = "local_delete"
	TagRemoteDelete     Tag = "remote_delete"
	TagBothDelete       Tag = "both_delete"
)

// LineRef is one document's view of an aligned position. A position past the
// document's end is not Present, which models deletion.
type LineRef struct {
	Text    string
	Ending  string
	Present bool
}

// LinePosition is the classification of a single 1-indexed aligned position.
type LinePosition struct {
	Index  int
	Tag    Tag
	Base   LineRef
	Local  LineRef
	Remote LineRef
}

// Classify walks local/remote/base index-by-index up to the longest document
// and tags every aligned position. Alignment is positional, not content
// based: non-overlapping insertions at different offsets can classify as
// conflicts. That tradeoff keeps the walk O(n) and is accepted here; a
// content-based diff3 alignment could replace it without changing callers.
func Classify(local, remote, base string) []LinePosition {
	localLines := splitDocumentLines(local)
	remoteLines := splitDocumentLines(remote)
	baseLines := splitDocumentLines(base)

	length := len(localLines)
	if len(remoteLines) > length {
		length = len(remoteLines)
	}
	if len(baseLines) > length {
		length = len(baseLines)
	}

	positions := make([]LinePosition, 0, length)
	for i := 0; i < length; i++ {
		position := LinePosition{
			Index:  i + 1,
			Base:   lineAt(baseLines, i),
			Local:  lineAt(localLines, i),
			Remote: lineAt(remoteLines, i),
		}
		position.Tag = classifyPosition(position.Base, position.Local, position.Remote)
		positions = append(positions, position)
	}

	return positions
}

func classifyPosition(base, local, remote LineRef) Tag {
	switch {
	case base.Present && local.Present && remote.Present:
		localSame := local.Text == base.Text
		remoteSame := remote.Text == base.Text
		switch {
		case localSame && remoteSame:
			return TagUnchanged
		case !localSame && remoteSame:
			return TagLocalChanged
		case localSame && !remoteSame:
			return TagRemoteChanged
		case local.Text == remote.Text:
			return TagConvergedChanged
		default:
			return TagConflict
		}
	case base.Present && !local.Present && !remote.Present:
		return TagBothDelete
	case base.Present && !local.Present:
		// Local deleted the line. If remote also edited it the intents
		// are incompatible (modify/delete).
		if remote.Text == base.Text {
			return TagLocalDelete
		}
		return TagConflict
	case base.Present && !remote.Present:
		if local.Text == base.Text {
			return TagRemoteDelete
		}
		return TagConflict
	case local.Present && remote.Present:
		if local.Text == remote.Text {
			return TagConvergedChanged
		}
		return TagConflict
	case local.Present:
		return TagLocalInsert
	default:
		return TagRemoteInsert
	}
}

func lineAt(lines []documentLine, index int) LineRef {
	if index >= len(lines) {
		return LineRef{}
	}
	return LineRef{Text: lines[index].text, Ending: lines[index].ending, Present: true}
}

// documentLine keeps the terminator alongside the content so merge output can
// reproduce each side's line-ending style. Comparison always happens on the
// terminator-free text.
type documentLine struct {
	text   string
	ending string
}

func splitDocumentLines(input string) []documentLine {
	if input == "" {
		return nil
	}

	lines := make([]documentLine, 0, strings.Count(input, "\n")+1)
	start := 0
	for i := 0; i < len(input); i++ {
		if input[i] != '\n' {
			continue
		}
		text := input[start:i]
		ending := "\n"
		if strings.HasSuffix(text, "\r") {
			text = text[:len(text)-1]
			ending = "\r\n"
		}
		lines = append(lines, documentLine{text: text, ending: ending})
		start = i + 1
	}
	if start < len(input) {
		lines = append(lines, documentLine{text: input[start:]})
	}

	return lines
}

// dominantEnding picks the terminator style used for synthesized lines such
// as conflict markers: the first terminator seen in the local document, LF
// when the document has none.
func dominantEnding(lines []documentLine) string {
	for _, line := range lines {
		if line.ending != "" {
			return line.ending
		}
	}
	return "\n"
}
