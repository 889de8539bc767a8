// Package strategy picks a winner (or marks unresolved) for a single merge
// conflict. Resolution is stateless per call; the resolver only carries the
// rule set and timestamp lookup it was constructed with.
package strategy

import (
	"fmt"
	"time"

	"github.com/plandoc/plandoc-sync/internal/conflict"
)

// Kind is the closed set of resolution strategies.
type Kind string

const (
	KindNewest     Kind = "newest"
	KindLocal      Kind = "local"
	KindRemote     Kind = "remote"
	KindRulesBased Kind = "rules-based"
	KindManual     Kind = "manual"
)

// ParseKind validates a strategy name. Unknown names fail hard.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case KindNewest, KindLocal, KindRemote, KindRulesBased, KindManual:
		return Kind(name), nil
	default:
		return "", &Error{Code: ErrorCodeInvalidStrategy, Message: fmt.Sprintf("unknown strategy %q", name)}
	}
}

// Timestamps carries the comparable modification times for the two sides of
// a conflict, supplied out-of-band by the caller.
type Timestamps struct {
	Local  time.Time
	Remote time.Time
}

// TimestampSource looks up side timestamps for a conflict. The second return
// is false when no timestamps are known, in which case the newest strategy
// falls back to manual behavior instead of guessing.
type TimestampSource interface {
	Timestamps(c conflict.Conflict) (Timestamps, bool)
}

// StaticTimestamps serves the same pair of timestamps for every conflict.
// Callers resolving one file at a time use this with the file's mtimes.
type StaticTimestamps Timestamps

func (s StaticTimestamps) Timestamps(conflict.Conflict) (Timestamps, bool) {
	if s.Local.IsZero() && s.Remote.IsZero() {
		return Timestamps{}, false
	}
	return Timestamps(s), true
}

// TimestampMap is a sidecar metadata map keyed by conflict fingerprint.
type TimestampMap map[string]Timestamps

func (m TimestampMap) Timestamps(c conflict.Conflict) (Timestamps, bool) {
	stamps, ok := m[c.Fingerprint()]
	return stamps, ok
}

// Resolver resolves conflicts under a named strategy.
type Resolver struct {
	// Rules back the rules-based strategy, evaluated in order.
	Rules []Rule

	// Timestamps backs the newest strategy; nil means unavailable.
	Timestamps TimestampSource
}

// Resolve produces the resolved text fragment for one conflict. Every Kind is
// handled explicitly; anything else is an invalid-strategy error.
func (r *Resolver) Resolve(c conflict.Conflict, kind Kind) (string, error) {
	switch kind {
	case KindLocal:
		return c.LocalText, nil
	case KindRemote:
		return c.RemoteText, nil
	case KindManual:
		return c.Markers(), nil
	case KindNewest:
		return r.resolveNewest(c), nil
	case KindRulesBased:
		return r.resolveRules(c), nil
	default:
		return "", &Error{Code: ErrorCodeInvalidStrategy, Message: fmt.Sprintf("unknown strategy %q", kind)}
	}
}

func (r *Resolver) resolveNewest(c conflict.Conflict) string {
	if r == nil || r.Timestamps == nil {
		return c.Markers()
	}
	stamps, ok := r.Timestamps.Timestamps(c)
	if !ok {
		return c.Markers()
	}
	if stamps.Local.After(stamps.Remote) {
		return c.LocalText
	}
	// Remote wins ties, matching last-write-wins convention.
	return c.RemoteText
}

func (r *Resolver) resolveRules(c conflict.Conflict) string {
	if r == nil {
		return c.Markers()
	}
	for _, rule := range r.Rules {
		if rule.When == nil || !rule.When(c) {
			continue
		}
		switch rule.Prefer {
		case KindLocal:
			return c.LocalText
		case KindRemote:
			return c.RemoteText
		default:
			return c.Markers()
		}
	}
	return c.Markers()
}
