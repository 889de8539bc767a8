// Package history is the audit layer for conflict resolutions: an
// append-only log that supports filtered lookup, logical undo, and replay of
// a past conflict under a different strategy.
package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plandoc/plandoc-sync/internal/conflict"
	"github.com/plandoc/plandoc-sync/internal/strategy"
)

// History owns one mutable append-only store. All mutating operations take
// the internal mutex, so a single History value is safe to share; separate
// processes appending to the same file store must serialize externally (the
// CLI takes a file lock).
type History struct {
	mu       sync.Mutex
	store    Store
	resolver *strategy.Resolver
	now      func() time.Time
	newID    func() string
}

func New(store Store, resolver *strategy.Resolver) *History {
	if store == nil {
		store = NewMemoryStore()
	}
	if resolver == nil {
		resolver = &strategy.Resolver{}
	}
	return &History{
		store:    store,
		resolver: resolver,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Log appends a new resolution record and returns its id.
func (h *History) Log(c conflict.Conflict, options Options) (string, error) {
	if _, err := strategy.ParseKind(string(options.Strategy)); err != nil {
		return "", err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	timestamp := options.Timestamp
	if timestamp.IsZero() {
		timestamp = h.now()
	}

	record := ResolutionRecord{
		ID:            h.newID(),
		Event:         EventLogged,
		Conflict:      c,
		ConflictKey:   conflictKey(options.FilePath, c),
		Strategy:      options.Strategy,
		ChosenContent: options.ChosenContent,
		Timestamp:     timestamp,
		FilePath:      options.FilePath,
	}

	if err := h.store.Append(record); err != nil {
		return "", fmt.Errorf("failed to append resolution record: %w", err)
	}
	return record.ID, nil
}

// GetHistory returns records matching the filter, most recent first.
func (h *History) GetHistory(filter Filter) ([]ResolutionRecord, error) {
	records, err := h.store.ReadAll()
	if err != nil {
		return nil, err
	}

	matched := make([]ResolutionRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		if filter.matches(records[i]) {
			matched = append(matched, records[i])
		}
	}
	return matched, nil
}

// CurrentState returns the latest record for a conflict identity, nil when
// the conflict has never been logged.
func (h *History) CurrentState(filePath string, c conflict.Conflict) (*ResolutionRecord, error) {
	records, err := h.store.ReadAll()
	if err != nil {
		return nil, err
	}

	key := conflictKey(filePath, c)
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].ConflictKey == key {
			record := records[i]
			return &record, nil
		}
	}
	return nil, nil
}

// Undo reverts the effect of the identified record by appending an undone
// record carrying the previous resolution state for the same conflict, or
// the unresolved marker form when no earlier state exists. Unknown ids are a
// no-op and return nil.
func (h *History) Undo(id string) (*ResolutionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	records, err := h.store.ReadAll()
	if err != nil {
		return nil, err
	}

	index := indexByID(records, id)
	if index < 0 {
		return nil, nil
	}
	target := records[index]

	restoredContent := target.Conflict.Markers()
	restoredStrategy := strategy.KindManual
	for i := index - 1; i >= 0; i-- {
		if records[i].ConflictKey == target.ConflictKey {
			restoredContent = records[i].ChosenContent
			restoredStrategy = records[i].Strategy
			break
		}
	}

	record := ResolutionRecord{
		ID:            h.newID(),
		Event:         EventUndone,
		Conflict:      target.Conflict,
		ConflictKey:   target.ConflictKey,
		Strategy:      restoredStrategy,
		ChosenContent: restoredContent,
		Timestamp:     h.now(),
		FilePath:      target.FilePath,
		RefID:         target.ID,
	}

	if err := h.store.Append(record); err != nil {
		return nil, fmt.Errorf("failed to append undo record: %w", err)
	}
	return &record, nil
}

// Replay re-resolves the conflict snapshot of a past record under a new
// strategy, appends a replayed record, and returns the new content. The
// original record is never mutated. Unknown ids return empty content.
func (h *History) Replay(id string, kind strategy.Kind) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	records, err := h.store.ReadAll()
	if err != nil {
		return "", err
	}

	index := indexByID(records, id)
	if index < 0 {
		return "", nil
	}
	target := records[index]

	content, err := h.resolver.Resolve(target.Conflict, kind)
	if err != nil {
		return "", err
	}

	record := ResolutionRecord{
		ID:            h.newID(),
		Event:         EventReplayed,
		Conflict:      target.Conflict,
		ConflictKey:   target.ConflictKey,
		Strategy:      kind,
		ChosenContent: content,
		Timestamp:     h.now(),
		FilePath:      target.FilePath,
		RefID:         target.ID,
	}

	if err := h.store.Append(record); err != nil {
		return "", fmt.Errorf("failed to append replay record: %w", err)
	}
	return content, nil
}

func indexByID(records []ResolutionRecord, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}
