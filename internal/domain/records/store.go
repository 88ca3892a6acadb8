package records

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrNotFound         = errors.New("patient not found")
	ErrAlreadyExists    = errors.New("patient already exists")
	ErrInvalidSortField = errors.New("invalid sort field, valid fields are: gender, age")
	ErrInvalidSortOrder = errors.New("invalid order, valid orders are: asc, desc")
	ErrStoreUnavailable = errors.New("patient store unavailable")
)

// ---------------------------------------------------------------------------
// Snapshot
// ---------------------------------------------------------------------------

// Snapshot is the full persisted state: patient id to stored fields.
type Snapshot map[string]Fields

// Records materializes the snapshot as a list ordered by id, with derived
// fields refreshed. The id order stands in for insertion order, which the
// persisted mapping does not keep.
func (s Snapshot) Records() []Record {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	recs := make([]Record, 0, len(s))
	for _, id := range ids {
		recs = append(recs, rebuild(id, s[id]))
	}
	return recs
}

// ---------------------------------------------------------------------------
// Store interface
// ---------------------------------------------------------------------------

// Store persists the record snapshot as a whole: Load returns the complete
// mapping and Save replaces it. A missing or unreadable backing resource is
// reported as ErrStoreUnavailable (wrapped); an absent backing resource is
// not an empty store.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

// MemoryStore is a thread-safe, in-memory Store for testing and development.
type MemoryStore struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewMemoryStore returns an empty ready-to-use MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snap: Snapshot{}}
}

// Load returns a copy of the held snapshot.
func (s *MemoryStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Snapshot, len(s.snap))
	for id, f := range s.snap {
		out[id] = f
	}
	return out, nil
}

// Save replaces the held snapshot with a copy of snap.
func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	out := make(Snapshot, len(snap))
	for id, f := range snap {
		out[id] = f
	}

	s.mu.Lock()
	s.snap = out
	s.mu.Unlock()
	return nil
}
