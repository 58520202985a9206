// Package state tracks, per sent chat message, the text last delivered to
// the chat and the tracking identifiers that message currently reports.
// The registry is the basis for refresh: a callback on a message re-queries
// the identifiers recorded here, and the stored text lets the controller
// skip platform edits that would not change anything.
//
// State is in-memory only and does not survive a restart; a refresh on a
// message sent by a previous process instance simply reports no data.
package state

import (
	"sync"

	"github.com/rs/zerolog"
)

// DefaultCapacity is the registry bound used when no explicit capacity is
// configured.
const DefaultCapacity = 1000

// Entry is the tracked state of one sent message.
type Entry struct {
	// Text is the exact text last delivered to the chat for this message.
	Text string
	// TrackingIDs are the identifiers whose statuses the message reports,
	// in the order the store returned them on the last lookup.
	TrackingIDs []string
}

// Registry is a bounded mapping from chat message id to Entry. When an
// insert would grow the registry past its capacity, the oldest half of the
// entries (by insertion order) is evicted first. Safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	capacity int
	entries  map[int64]Entry
	order    []int64 // insertion order of live keys

	log zerolog.Logger
}

// NewRegistry constructs a Registry bounded to capacity entries.
// Capacities below 2 are coerced to DefaultCapacity so the oldest-half
// eviction always makes progress.
func NewRegistry(capacity int, log zerolog.Logger) *Registry {
	if capacity < 2 {
		capacity = DefaultCapacity
	}
	return &Registry{
		capacity: capacity,
		entries:  make(map[int64]Entry, capacity),
		log:      log,
	}
}

// RecordNew inserts a fresh entry for messageID. If the registry is at
// capacity, the oldest capacity/2 entries by insertion order are evicted
// before the insert, so the newest entry is never the victim.
func (r *Registry) RecordNew(messageID int64, text string, ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[messageID]; !exists {
		if len(r.entries) >= r.capacity {
			r.evictOldestLocked(r.capacity / 2)
		}
		r.order = append(r.order, messageID)
	}
	r.entries[messageID] = Entry{Text: text, TrackingIDs: cloneIDs(ids)}
}

// Get returns the entry for messageID, if present.
func (r *Registry) Get(messageID int64) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[messageID]
	return e, ok
}

// Update overwrites the text and identifier set of an existing entry.
// An absent messageID means the controller skipped RecordNew, which is a
// programming error; it is logged and ignored rather than escalated.
func (r *Registry) Update(messageID int64, text string, ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[messageID]; !ok {
		r.log.Warn().
			Int64("message_id", messageID).
			Msg("registry update for untracked message, ignoring")
		return
	}
	r.entries[messageID] = Entry{Text: text, TrackingIDs: cloneIDs(ids)}
}

// Len returns the number of tracked messages.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// evictOldestLocked drops the n oldest live entries by insertion order.
// Caller holds r.mu.
func (r *Registry) evictOldestLocked(n int) {
	if n < 1 {
		n = 1
	}
	if n > len(r.order) {
		n = len(r.order)
	}
	for _, id := range r.order[:n] {
		delete(r.entries, id)
	}
	r.order = append(r.order[:0], r.order[n:]...)
}

// cloneIDs copies the identifier slice so later caller mutation cannot
// corrupt tracked state.
func cloneIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
