package history

import (
	"time"

	"github.com/plandoc/plandoc-sync/internal/conflict"
	"github.com/plandoc/plandoc-sync/internal/strategy"
)

// EventKind is the lifecycle stage a record represents. The log is
// append-only: undo and replay layer new records on top of old ones, so the
// full audit trail survives every operation.
type EventKind string

const (
	EventLogged   EventKind = "logged"
	EventUndone   EventKind = "undone"
	EventReplayed EventKind = "replayed"
)

// ResolutionRecord is one immutable audit-log entry. RefID links undone and
// replayed records to the record they act on.
type ResolutionRecord struct {
	ID            string            `json:"id"`
	Event         EventKind         `json:"event"`
	Conflict      conflict.Conflict `json:"conflict"`
	ConflictKey   string            `json:"conflict_key"`
	Strategy      strategy.Kind     `json:"strategy"`
	ChosenContent string            `json:"chosen_content"`
	Timestamp     time.Time         `json:"timestamp"`
	FilePath      string            `json:"file_path,omitempty"`
	RefID         string            `json:"ref_id,omitempty"`
}

// Options parameterize History.Log.
type Options struct {
	Strategy      strategy.Kind
	ChosenContent string
	// Timestamp defaults to the history clock when zero.
	Timestamp time.Time
	FilePath  string
}

// Filter selects records in GetHistory. Zero-valued criteria are
// unconstrained.
type Filter struct {
	Strategy strategy.Kind
	FilePath string
	After    time.Time
	Before   time.Time
}

func (f Filter) matches(record ResolutionRecord) bool {
	if f.Strategy != "" && record.Strategy != f.Strategy {
		return false
	}
	if f.FilePath != "" && record.FilePath != f.FilePath {
		return false
	}
	if !f.After.IsZero() && !record.Timestamp.After(f.After) {
		return false
	}
	if !f.Before.IsZero() && !record.Timestamp.Before(f.Before) {
		return false
	}
	return true
}

// conflictKey derives the conflict identity used by undo's backward walk.
func conflictKey(filePath string, c conflict.Conflict) string {
	return filePath + "#" + c.Fingerprint()
}
