package records

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelStore keeps one key per patient id in an embedded LevelDB database,
// each value the JSON-encoded stored fields. Load iterates the whole
// database; Save rewrites it to match the given snapshot.
type LevelStore struct {
	db *leveldb.DB
}

// OpenLevelStore opens an existing LevelDB database at path. The database
// must have been created beforehand (see InitLevelStore); a missing one
// reports ErrStoreUnavailable.
func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{ErrorIfMissing: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &LevelStore{db: db}, nil
}

// InitLevelStore creates an empty LevelDB database at path. An existing
// database is left as is.
func InitLevelStore(path string) error {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return fmt.Errorf("create leveldb store: %w", err)
	}
	return db.Close()
}

// Close releases the database handle.
func (s *LevelStore) Close() error {
	return s.db.Close()
}

func (s *LevelStore) Load(_ context.Context) (Snapshot, error) {
	snap := Snapshot{}
	iter := s.db.NewIterator(nil, nil)
	for iter.Next() {
		id := string(iter.Key())
		var f Fields
		if err := json.Unmarshal(iter.Value(), &f); err != nil {
			iter.Release()
			return nil, fmt.Errorf("%w: decoding %s: %v", ErrStoreUnavailable, id, err)
		}
		snap[id] = f
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return snap, nil
}

func (s *LevelStore) Save(_ context.Context, snap Snapshot) error {
	// Drop keys no longer present, then write every entry.
	iter := s.db.NewIterator(nil, nil)
	for iter.Next() {
		id := string(iter.Key())
		if _, ok := snap[id]; ok {
			continue
		}
		if err := s.db.Delete(iter.Key(), nil); err != nil {
			iter.Release()
			return fmt.Errorf("%w: deleting %s: %v", ErrStoreUnavailable, id, err)
		}
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	for id, f := range snap {
		raw, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", id, err)
		}
		if err := s.db.Put([]byte(id), raw, nil); err != nil {
			return fmt.Errorf("%w: writing %s: %v", ErrStoreUnavailable, id, err)
		}
	}
	return nil
}
