package conflict

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestThreeWayMergeNoOp(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "single line", text: "line1"},
		{name: "multi line", text: "line1\nline2\nline3\n"},
		{name: "crlf", text: "line1\r\nline2\r\n"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := ThreeWayMerge(testCase.text, testCase.text, testCase.text)
			if result.HasConflicts {
				t.Fatalf("identical inputs produced conflicts: %+v", result.Conflicts)
			}
			if len(result.Conflicts) != 0 {
				t.Fatalf("expected empty conflict list, got %d", len(result.Conflicts))
			}
			if result.Merged != testCase.text {
				t.Fatalf("unexpected merged output: got=%q want=%q", result.Merged, testCase.text)
			}
		})
	}
}

func TestThreeWayMergeDisjointChanges(t *testing.T) {
	base := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\nl11\nl12"
	local := strings.Replace(base, "l2", "local edit", 1)
	remote := strings.Replace(base, "l11", "remote edit", 1)

	result := ThreeWayMerge(local, remote, base)
	if result.HasConflicts {
		t.Fatalf("disjoint changes flagged as conflict: %+v", result.Conflicts)
	}
	if !strings.Contains(result.Merged, "local edit") {
		t.Fatalf("merged output lost local change: %q", result.Merged)
	}
	if !strings.Contains(result.Merged, "remote edit") {
		t.Fatalf("merged output lost remote change: %q", result.Merged)
	}
}

func TestThreeWayMergeSingleConflict(t *testing.T) {
	result := ThreeWayMerge("line1\nLOCAL\nline3", "line1\nREMOTE\nline3", "line1\nline2\nline3")

	if !result.HasConflicts {
		t.Fatal("expected a conflict")
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("unexpected conflict count: got=%d want=1", len(result.Conflicts))
	}

	conflict := result.Conflicts[0]
	if conflict.LocalText != "LOCAL" {
		t.Fatalf("unexpected local text: got=%q want=%q", conflict.LocalText, "LOCAL")
	}
	if conflict.RemoteText != "REMOTE" {
		t.Fatalf("unexpected remote text: got=%q want=%q", conflict.RemoteText, "REMOTE")
	}
	if conflict.BaseText != "line2" {
		t.Fatalf("unexpected base text: got=%q want=%q", conflict.BaseText, "line2")
	}
	if conflict.StartLine != 2 {
		t.Fatalf("unexpected start line: got=%d want=2", conflict.StartLine)
	}

	expected := "line1\n<<<<<<< LOCAL\nLOCAL\n=======\nREMOTE\n>>>>>>> REMOTE\nline3"
	if result.Merged != expected {
		t.Fatalf("unexpected merged output:\ngot:\n%s\nwant:\n%s", result.Merged, expected)
	}
	if conflict.EndLine != 6 {
		t.Fatalf("unexpected end line: got=%d want=6", conflict.EndLine)
	}
}

func TestThreeWayMergeCoalescesAdjacentConflicts(t *testing.T) {
	base := "head\na\nb\nc\ntail"
	local := "head\nA1\nA2\nA3\ntail"
	remote := "head\nB1\nB2\nB3\ntail"

	result := ThreeWayMerge(local, remote, base)
	if len(result.Conflicts) != 1 {
		t.Fatalf("adjacent conflicting lines were not coalesced: got=%d conflicts", len(result.Conflicts))
	}

	conflict := result.Conflicts[0]
	if conflict.LocalText != "A1\nA2\nA3" {
		t.Fatalf("unexpected local text: %q", conflict.LocalText)
	}
	if conflict.RemoteText != "B1\nB2\nB3" {
		t.Fatalf("unexpected remote text: %q", conflict.RemoteText)
	}
}

func TestThreeWayMergeContextCapture(t *testing.T) {
	base := "c1\nc2\nc3\nc4\nmid\nd1\nd2\nd3\nd4"
	local := strings.Replace(base, "mid", "ours", 1)
	remote := strings.Replace(base, "mid", "theirs", 1)

	result := NewMerger(Options{ContextLines: 3}).Merge(local, remote, base)
	if len(result.Conflicts) != 1 {
		t.Fatalf("unexpected conflict count: %d", len(result.Conflicts))
	}

	conflict := result.Conflicts[0]
	wantBefore := []string{"c2", "c3", "c4"}
	wantAfter := []string{"d1", "d2", "d3"}
	if fmt.Sprint(conflict.ContextBefore) != fmt.Sprint(wantBefore) {
		t.Fatalf("unexpected context before: got=%v want=%v", conflict.ContextBefore, wantBefore)
	}
	if fmt.Sprint(conflict.ContextAfter) != fmt.Sprint(wantAfter) {
		t.Fatalf("unexpected context after: got=%v want=%v", conflict.ContextAfter, wantAfter)
	}
}

func TestThreeWayMergeDeletions(t *testing.T) {
	testCases := []struct {
		name     string
		base     string
		local    string
		remote   string
		expected string
	}{
		{name: "local delete wins", base: "a\nb\nc", local: "a\nb", remote: "a\nb\nc", expected: "a\nb"},
		{name: "remote delete wins", base: "a\nb\nc", local: "a\nb\nc", remote: "a\nb", expected: "a\nb"},
		{name: "both delete", base: "a\nb\nc", local: "a\nb", remote: "a\nb", expected: "a\nb"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := ThreeWayMerge(testCase.local, testCase.remote, testCase.base)
			if result.HasConflicts {
				t.Fatalf("deletion flagged as conflict: %+v", result.Conflicts)
			}
			if result.Merged != testCase.expected {
				t.Fatalf("unexpected merged output: got=%q want=%q", result.Merged, testCase.expected)
			}
		})
	}
}

func TestThreeWayMergeModifyDeleteConflicts(t *testing.T) {
	result := ThreeWayMerge("a", "a\nchanged", "a\nb")
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected modify/delete conflict, got %d conflicts", len(result.Conflicts))
	}
	conflict := result.Conflicts[0]
	if conflict.LocalText != "" {
		t.Fatalf("deleted side should be empty, got %q", conflict.LocalText)
	}
	if conflict.RemoteText != "changed" {
		t.Fatalf("unexpected remote text: %q", conflict.RemoteText)
	}
}

func TestThreeWayMergeBinaryContent(t *testing.T) {
	local := "PK\x00\x03binary payload"
	remote := "PK\x00\x04binary payload"

	result := ThreeWayMerge(local, remote, "PK\x00\x03binary payload")
	if len(result.Conflicts) != 1 {
		t.Fatalf("binary input should degrade to a single conflict, got %d", len(result.Conflicts))
	}
	conflict := result.Conflicts[0]
	if !conflict.Binary {
		t.Fatal("conflict is not flagged binary")
	}
	if conflict.LocalText != local || conflict.RemoteText != remote {
		t.Fatal("binary conflict must carry whole documents verbatim")
	}
	if !strings.Contains(result.Merged, local) || !strings.Contains(result.Merged, remote) {
		t.Fatal("binary merge output lost data")
	}
}

func TestThreeWayMergeHasConflictsInvariant(t *testing.T) {
	testCases := []struct {
		name   string
		base   string
		local  string
		remote string
	}{
		{name: "clean", base: "a", local: "a", remote: "a"},
		{name: "conflicted", base: "a", local: "b", remote: "c"},
		{name: "auto merged", base: "a\nb", local: "A\nb", remote: "a\nB"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := ThreeWayMerge(testCase.local, testCase.remote, testCase.base)
			if result.HasConflicts != (len(result.Conflicts) > 0) {
				t.Fatalf("invariant violated: HasConflicts=%v len=%d", result.HasConflicts, len(result.Conflicts))
			}
			for _, conflict := range result.Conflicts {
				if conflict.LocalText == conflict.RemoteText {
					t.Fatalf("conflict with identical sides should have auto-merged: %+v", conflict)
				}
			}
		})
	}
}

func TestThreeWayMergePreservesLocalLineEndings(t *testing.T) {
	base := "a\r\nb\r\nc\r\n"
	local := "a\r\nB\r\nc\r\n"
	remote := "a\r\nb\r\nc\r\n"

	result := ThreeWayMerge(local, remote, base)
	if result.HasConflicts {
		t.Fatalf("unexpected conflicts: %+v", result.Conflicts)
	}
	if result.Merged != local {
		t.Fatalf("CRLF endings were not preserved: got=%q want=%q", result.Merged, local)
	}
}

func TestThreeWayMergeThroughput(t *testing.T) {
	var builder strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&builder, "line %d of a roughly one kilobyte document\n", i)
	}
	base := builder.String()
	local := strings.Replace(base, "line 3 ", "line three ", 1)
	remote := strings.Replace(base, "line 30 ", "line thirty ", 1)

	start := time.Now()
	for i := 0; i < 1000; i++ {
		result := ThreeWayMerge(local, remote, base)
		if result.HasConflicts {
			t.Fatalf("unexpected conflicts during throughput run: %+v", result.Conflicts)
		}
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("1000 merges took %s, budget is 5s", elapsed)
	}
}

func TestMarkerBlock(t *testing.T) {
	block := MarkerBlock("ours", "theirs")
	expected := "<<<<<<< LOCAL\nours\n=======\ntheirs\n>>>>>>> REMOTE"
	if block != expected {
		t.Fatalf("unexpected marker block:\ngot:\n%s\nwant:\n%s", block, expected)
	}

	empty := MarkerBlock("", "theirs")
	if strings.Contains(empty, "\n\n") {
		t.Fatalf("empty side should contribute no content lines: %q", empty)
	}
}

func TestIsBinary(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected bool
	}{
		{name: "empty", content: "", expected: false},
		{name: "plain text", content: "# Heading\n\nbody\n", expected: false},
		{name: "nul byte", content: "abc\x00def", expected: true},
		{name: "control heavy", content: "\x01\x02\x03\x04\x05\x06ab", expected: true},
		{name: "tabs and newlines", content: "a\tb\r\nc\n", expected: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := IsBinary(testCase.content); got != testCase.expected {
				t.Fatalf("unexpected detection: got=%v want=%v", got, testCase.expected)
			}
		})
	}
}

func TestThreeWayMergeUnterminatedTailBeforeConflict(t *testing.T) {
	result := ThreeWayMerge("a", "a\nC", "a\nb")

	if len(result.Conflicts) != 1 {
		t.Fatalf("unexpected conflict count: got=%d want=1", len(result.Conflicts))
	}

	expected := "a\n<<<<<<< LOCAL\n=======\nC\n>>>>>>> REMOTE\n"
	if result.Merged != expected {
		t.Fatalf("opening marker must start its own line:\ngot:\n%q\nwant:\n%q", result.Merged, expected)
	}

	conflict := result.Conflicts[0]
	if conflict.StartLine != 2 || conflict.EndLine != 5 {
		t.Fatalf("unexpected conflict range: got=%d-%d want=2-5", conflict.StartLine, conflict.EndLine)
	}

	lines := strings.Split(strings.TrimSuffix(result.Merged, "\n"), "\n")
	if lines[conflict.StartLine-1] != "<<<<<<< LOCAL" {
		t.Fatalf("StartLine must address the opening marker: got=%q", lines[conflict.StartLine-1])
	}
	if lines[conflict.EndLine-1] != ">>>>>>> REMOTE" {
		t.Fatalf("EndLine must address the closing marker: got=%q", lines[conflict.EndLine-1])
	}
}

func TestThreeWayMergeDeleteVersusBlankConverges(t *testing.T) {
	result := ThreeWayMerge("x", "x\n\n", "x\ny")

	if result.HasConflicts {
		t.Fatalf("delete versus blank should converge, got conflicts: %+v", result.Conflicts)
	}
	if result.Merged != "x\n\n" {
		t.Fatalf("unexpected merged output: got=%q want=%q", result.Merged, "x\n\n")
	}
}

func TestThreeWayMergeConflictSidesAlwaysDiffer(t *testing.T) {
	testCases := []struct {
		name   string
		local  string
		remote string
		base   string
	}{
		{name: "delete versus blank", local: "x", remote: "x\n\n", base: "x\ny"},
		{name: "blank versus delete", local: "x\n\n", remote: "x", base: "x\ny"},
		{name: "swapped edits", local: "a\nq", remote: "q\nb", base: "one\ntwo"},
		{name: "genuine conflict", local: "A\n", remote: "B\n", base: "C\n"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := ThreeWayMerge(testCase.local, testCase.remote, testCase.base)
			for _, conflict := range result.Conflicts {
				if conflict.LocalText == conflict.RemoteText {
					t.Fatalf("conflict sides must differ: %+v", conflict)
				}
			}
		})
	}
}
