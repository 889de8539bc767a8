package conflict

import "testing"

func TestClassifyTags(t *testing.T) {
	testCases := []struct {
		name     string
		base     string
		local    string
		remote   string
		index    int
		expected Tag
	}{
		{name: "unchanged", base: "a", local: "a", remote: "a", index: 1, expected: TagUnchanged},
		{name: "local changed", base: "a", local: "b", remote: "a", index: 1, expected: TagLocalChanged},
		{name: "remote changed", base: "a", local: "a", remote: "b", index: 1, expected: TagRemoteChanged},
		{name: "converged changed", base: "a", local: "b", remote: "b", index: 1, expected: TagConvergedChanged},
		{name: "conflict", base: "a", local: "b", remote: "c", index: 1, expected: TagConflict},
		{name: "local insert", base: "a", local: "a\nnew", remote: "a", index: 2, expected: TagLocalInsert},
		{name: "remote insert", base: "a", local: "a", remote: "a\nnew", index: 2, expected: TagRemoteInsert},
		{name: "local delete", base: "a\nb", local: "a", remote: "a\nb", index: 2, expected: TagLocalDelete},
		{name: "remote delete", base: "a\nb", local: "a\nb", remote: "a", index: 2, expected: TagRemoteDelete},
		{name: "both delete", base: "a\nb", local: "a", remote: "a", index: 2, expected: TagBothDelete},
		{name: "modify versus local delete", base: "a\nb", local: "a", remote: "a\nB", index: 2, expected: TagConflict},
		{name: "modify versus remote delete", base: "a\nb", local: "a\nB", remote: "a", index: 2, expected: TagConflict},
		{name: "both inserted same", base: "a", local: "a\nnew", remote: "a\nnew", index: 2, expected: TagConvergedChanged},
		{name: "both inserted different", base: "a", local: "a\nx", remote: "a\ny", index: 2, expected: TagConflict},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			positions := Classify(testCase.local, testCase.remote, testCase.base)
			if testCase.index > len(positions) {
				t.Fatalf("missing position %d: only %d positions", testCase.index, len(positions))
			}
			got := positions[testCase.index-1]
			if got.Tag != testCase.expected {
				t.Fatalf("unexpected tag at position %d: got=%s want=%s", testCase.index, got.Tag, testCase.expected)
			}
			if got.Index != testCase.index {
				t.Fatalf("unexpected index: got=%d want=%d", got.Index, testCase.index)
			}
		})
	}
}

func TestClassifyEmptyInputs(t *testing.T) {
	if positions := Classify("", "", ""); len(positions) != 0 {
		t.Fatalf("expected no positions for empty inputs, got %d", len(positions))
	}
}

func TestClassifyOneTagPerPosition(t *testing.T) {
	positions := Classify("a\nb\nc", "a\nB\nc\nd", "a\nb")
	for i, position := range positions {
		if position.Index != i+1 {
			t.Fatalf("positions are not 1-indexed and stable: got=%d want=%d", position.Index, i+1)
		}
		if position.Tag == "" {
			t.Fatalf("position %d has no tag", position.Index)
		}
	}
}

func TestSplitDocumentLinesPreservesEndings(t *testing.T) {
	lines := splitDocumentLines("a\r\nb\nc")
	if len(lines) != 3 {
		t.Fatalf("unexpected line count: got=%d want=3", len(lines))
	}
	if lines[0].text != "a" || lines[0].ending != "\r\n" {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].text != "b" || lines[1].ending != "\n" {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
	if lines[2].text != "c" || lines[2].ending != "" {
		t.Fatalf("unexpected final line: %+v", lines[2])
	}
}

func TestClassifyComparesAcrossEndingStyles(t *testing.T) {
	positions := Classify("a\r\nb\r\n", "a\nb\n", "a\nb\n")
	for _, position := range positions {
		if position.Tag != TagUnchanged {
			t.Fatalf("CRLF-only difference classified as %s at position %d", position.Tag, position.Index)
		}
	}
}
