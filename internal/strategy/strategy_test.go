package strategy

import (
	"testing"
	"time"

	"github.com/plandoc/plandoc-sync/internal/conflict"
)

func sampleConflict() conflict.Conflict {
	return conflict.Conflict{
		StartLine:  2,
		EndLine:    6,
		LocalText:  "LOCAL",
		RemoteText: "REMOTE",
		BaseText:   "line2",
	}
}

func TestResolveDeterministicStrategies(t *testing.T) {
	resolver := &Resolver{}
	c := sampleConflict()

	testCases := []struct {
		name     string
		kind     Kind
		expected string
	}{
		{name: "local", kind: KindLocal, expected: "LOCAL"},
		{name: "remote", kind: KindRemote, expected: "REMOTE"},
		{name: "manual", kind: KindManual, expected: c.Markers()},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := resolver.Resolve(c, testCase.kind)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != testCase.expected {
				t.Fatalf("unexpected resolution: got=%q want=%q", got, testCase.expected)
			}
		})
	}
}

func TestResolveUnknownStrategyFails(t *testing.T) {
	resolver := &Resolver{}
	_, err := resolver.Resolve(sampleConflict(), Kind("merge-by-vibes"))
	if err == nil {
		t.Fatal("unknown strategy must not silently resolve")
	}
	if !IsErrorCode(err, ErrorCodeInvalidStrategy) {
		t.Fatalf("unexpected error type: %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"newest", "local", "remote", "rules-based", "manual"} {
		if _, err := ParseKind(name); err != nil {
			t.Fatalf("known strategy %q rejected: %v", name, err)
		}
	}
	if _, err := ParseKind("LOCAL"); !IsErrorCode(err, ErrorCodeInvalidStrategy) {
		t.Fatalf("strategy names are case-sensitive, got err=%v", err)
	}
}

func TestResolveNewest(t *testing.T) {
	c := sampleConflict()
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	testCases := []struct {
		name     string
		source   TimestampSource
		expected string
	}{
		{name: "local newer", source: StaticTimestamps{Local: newer, Remote: older}, expected: "LOCAL"},
		{name: "remote newer", source: StaticTimestamps{Local: older, Remote: newer}, expected: "REMOTE"},
		{name: "tie prefers remote", source: StaticTimestamps{Local: newer, Remote: newer}, expected: "REMOTE"},
		{name: "no source falls back to manual", source: nil, expected: c.Markers()},
		{name: "zero timestamps fall back to manual", source: StaticTimestamps{}, expected: c.Markers()},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resolver := &Resolver{Timestamps: testCase.source}
			got, err := resolver.Resolve(c, KindNewest)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != testCase.expected {
				t.Fatalf("unexpected resolution: got=%q want=%q", got, testCase.expected)
			}
		})
	}
}

func TestResolveNewestWithTimestampMap(t *testing.T) {
	c := sampleConflict()
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	source := TimestampMap{
		c.Fingerprint(): {Local: older.Add(time.Minute), Remote: older},
	}
	resolver := &Resolver{Timestamps: source}

	got, err := resolver.Resolve(c, KindNewest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "LOCAL" {
		t.Fatalf("unexpected resolution: got=%q want=LOCAL", got)
	}

	other := sampleConflict()
	other.RemoteText = "DIFFERENT"
	got, err = resolver.Resolve(other, KindNewest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != other.Markers() {
		t.Fatalf("unknown fingerprint must fall back to manual, got %q", got)
	}
}

func TestResolveRulesFirstMatchWins(t *testing.T) {
	c := sampleConflict()
	resolver := &Resolver{
		Rules: []Rule{
			{Name: "never matches", When: func(conflict.Conflict) bool { return false }, Prefer: KindLocal},
			{Name: "matches", When: func(conflict.Conflict) bool { return true }, Prefer: KindRemote},
			{Name: "shadowed", When: func(conflict.Conflict) bool { return true }, Prefer: KindLocal},
		},
	}

	got, err := resolver.Resolve(c, KindRulesBased)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "REMOTE" {
		t.Fatalf("first matching rule must win: got=%q", got)
	}
}

func TestResolveRulesNoMatchFallsThroughToManual(t *testing.T) {
	c := sampleConflict()
	resolver := &Resolver{
		Rules: []Rule{
			{Name: "never", When: func(conflict.Conflict) bool { return false }, Prefer: KindLocal},
		},
	}

	got, err := resolver.Resolve(c, KindRulesBased)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != c.Markers() {
		t.Fatalf("expected manual fallback, got %q", got)
	}
}
