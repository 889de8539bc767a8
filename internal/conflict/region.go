package conflict

// ReplaceLineRange substitutes the 1-indexed inclusive line range
// [start, end] of text with replacement. An empty replacement deletes the
// range. The surviving lines keep their original terminators; replacement
// lines are re-terminated with the dominant terminator of the removed range,
// and the final replaced line inherits the removed range's trailing
// terminator so end-of-file shape is preserved. Out-of-range inputs return
// text unchanged.
func ReplaceLineRange(text string, start, end int, replacement string) string {
	lines := splitDocumentLines(text)
	if start < 1 || end < start || end > len(lines) {
		return text
	}

	ending := dominantEnding(lines[start-1 : end])
	var replaced []documentLine
	if replacement != "" {
		for _, line := range splitDocumentLines(replacement) {
			line.ending = ending
			replaced = append(replaced, line)
		}
	}
	if len(replaced) > 0 {
		replaced[len(replaced)-1].ending = lines[end-1].ending
	}

	result := make([]documentLine, 0, len(lines)-(end-start+1)+len(replaced))
	result = append(result, lines[:start-1]...)
	result = append(result, replaced...)
	result = append(result, lines[end:]...)
	return joinDocumentLines(result)
}
