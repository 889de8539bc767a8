package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/plandoc/plandoc-sync/internal/contracts"
)

func TestNewRootCommandRegistersCommandsAndGlobalFlags(t *testing.T) {
	root := NewRootCommand(AppContext{
		Stdout: new(bytes.Buffer),
		Stderr: new(bytes.Buffer),
	})

	for _, name := range []string{"json", "strategy", "rules", "history", "context", "color"} {
		if flag := root.PersistentFlags().Lookup(name); flag == nil {
			t.Fatalf("expected --%s persistent flag", name)
		}
	}

	names := make([]string, 0)
	for _, command := range root.Commands() {
		if command.Hidden {
			continue
		}
		names = append(names, command.Name())
	}
	sort.Strings(names)

	expected := []string{"diff", "history", "merge", "replay", "resolve", "undo"}
	if len(names) != len(expected) {
		t.Fatalf("unexpected command count: got=%d want=%d (%v)", len(names), len(expected), names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Fatalf("unexpected command names: got=%v want=%v", names, expected)
		}
	}
}

func TestRunMergeEndToEndHumanMode(t *testing.T) {
	workDir := chdirTemp(t)
	localPath := writeTestFile(t, workDir, "plan.md", "line1\nLOCAL\nline3\n")
	remotePath := writeTestFile(t, workDir, "plan.remote.md", "line1\nREMOTE\nline3\n")
	basePath := writeTestFile(t, workDir, "plan.base.md", "line1\nbase\nline3\n")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	exitCode := Run([]string{"merge", "--local", localPath, "--remote", remotePath, "--base", basePath}, stdout, stderr)
	if exitCode != int(contracts.ExitCodePartial) {
		t.Fatalf("expected partial exit code for conflicted merge, got %d", exitCode)
	}

	got := stdout.String()
	for _, want := range []string{contracts.ConflictMarkerLocal, contracts.ConflictMarkerRemote, "conflicts=1"} {
		if !strings.Contains(got, want) {
			t.Fatalf("stdout missing %q:\n%s", want, got)
		}
	}
}

func TestRunResolveJSONModeEmitsEnvelopeOnly(t *testing.T) {
	workDir := chdirTemp(t)
	localPath := writeTestFile(t, workDir, "plan.md", "line1\nLOCAL\nline3\n")
	remotePath := writeTestFile(t, workDir, "plan.remote.md", "line1\nREMOTE\nline3\n")
	basePath := writeTestFile(t, workDir, "plan.base.md", "line1\nbase\nline3\n")
	outPath := filepath.Join(workDir, "resolved.md")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	exitCode := Run([]string{
		"--json", "--strategy", "remote",
		"resolve", "--local", localPath, "--remote", remotePath, "--base", basePath, "--out", outPath,
	}, stdout, stderr)
	if exitCode != int(contracts.ExitCodeSuccess) {
		t.Fatalf("expected success, got exit code %d (stderr=%s)", exitCode, stderr.String())
	}

	var env contracts.CommandEnvelope
	if err := json.Unmarshal(stdout.Bytes(), &env); err != nil {
		t.Fatalf("stdout is not a single JSON envelope: %v\n%s", err, stdout.String())
	}
	if env.Command.Name != string(contracts.CommandResolve) {
		t.Fatalf("unexpected command name: got=%s", env.Command.Name)
	}
	if env.Counts.Resolved != 1 {
		t.Fatalf("unexpected resolved count: %+v", env.Counts)
	}

	resolved, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read resolved file: %v", err)
	}
	if string(resolved) != "line1\nREMOTE\nline3\n" {
		t.Fatalf("unexpected resolved content: %q", resolved)
	}
}

func TestRunUnknownStrategyIsFatal(t *testing.T) {
	workDir := chdirTemp(t)
	localPath := writeTestFile(t, workDir, "plan.md", "a\n")
	remotePath := writeTestFile(t, workDir, "plan.remote.md", "a\n")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	exitCode := Run([]string{"--strategy", "coinflip", "merge", "--local", localPath, "--remote", remotePath}, stdout, stderr)
	if exitCode != int(contracts.ExitCodeFatal) {
		t.Fatalf("expected fatal exit code for unknown strategy, got %d", exitCode)
	}
	if !strings.Contains(stderr.String(), "coinflip") {
		t.Fatalf("stderr should name the rejected strategy, got %q", stderr.String())
	}
}

func TestRunMissingRequiredFlagIsFatal(t *testing.T) {
	chdirTemp(t)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	exitCode := Run([]string{"merge", "--local", "only.md"}, stdout, stderr)
	if exitCode != int(contracts.ExitCodeFatal) {
		t.Fatalf("expected fatal exit code for missing flag, got %d", exitCode)
	}
}

func TestRunHistoryEmptyLogSucceeds(t *testing.T) {
	chdirTemp(t)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	exitCode := Run([]string{"--json", "history"}, stdout, stderr)
	if exitCode != int(contracts.ExitCodeSuccess) {
		t.Fatalf("expected success for empty history, got %d (stderr=%s)", exitCode, stderr.String())
	}

	var env contracts.CommandEnvelope
	if err := json.Unmarshal(stdout.Bytes(), &env); err != nil {
		t.Fatalf("stdout is not a single JSON envelope: %v", err)
	}
	if env.Counts.Processed != 0 {
		t.Fatalf("expected no records, got %+v", env.Counts)
	}
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
	})
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	return dir
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
