package records

import (
	"context"
	"sort"
	"sync"
)

// Sort fields and orders accepted by Sorted.
const (
	SortByGender = "gender"
	SortByAge    = "age"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Service runs the record operations against a Store. A single mutex
// serializes every load-mutate-save cycle, reads included, since each
// operation works on the whole snapshot. Processes sharing one backend are
// not coordinated: the last save wins.
type Service struct {
	store Store
	mu    sync.Mutex
}

// NewService returns a Service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListAll returns the persisted snapshot as stored, derived fields included
// exactly as last written.
func (s *Service) ListAll(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

// Get returns the record with the given id, derived fields freshly computed.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	f, ok := snap[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec := rebuild(id, f)
	return &rec, nil
}

// Sorted returns all records ordered by the given field and order. The sort
// is stable; records whose stored fields miss the sort key compare as the
// zero value. An empty order defaults to ascending.
func (s *Service) Sorted(ctx context.Context, field, order string) ([]Record, error) {
	if field != SortByGender && field != SortByAge {
		return nil, ErrInvalidSortField
	}
	if order == "" {
		order = OrderAsc
	}
	if order != OrderAsc && order != OrderDesc {
		return nil, ErrInvalidSortOrder
	}

	s.mu.Lock()
	snap, err := s.store.Load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	recs := snap.Records()
	desc := order == OrderDesc
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if desc {
			a, b = b, a
		}
		if field == SortByAge {
			return a.Age < b.Age
		}
		return a.Gender < b.Gender
	})
	return recs, nil
}

// Create validates the given record and inserts it. The id must not already
// be present.
func (s *Service) Create(ctx context.Context, id string, f Fields) (*Record, error) {
	rec, err := NewRecord(id, f)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap[rec.ID]; ok {
		return nil, ErrAlreadyExists
	}
	snap[rec.ID] = rec.Fields
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update merges the patch into the stored fields of id, revalidates the
// merged record, and persists it with derived fields recomputed. Nothing is
// persisted when the merged fields fail validation.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	f, ok := snap[id]
	if !ok {
		return nil, ErrNotFound
	}

	merged, err := p.Apply(f)
	if err != nil {
		return nil, err
	}
	rec, err := NewRecord(id, merged)
	if err != nil {
		return nil, err
	}

	snap[id] = rec.Fields
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the record with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := snap[id]; !ok {
		return ErrNotFound
	}
	delete(snap, id)
	return s.store.Save(ctx, snap)
}
