package records

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// FileStore keeps the snapshot as one JSON object in a single file, patient
// ids as keys. The file must exist before the first Load; use Init (or the
// server's init command) to create it. Save rewrites the whole file in place,
// so an interrupted write can leave it truncated.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore over the given path. The path is not
// touched until Load, Save, or Init is called.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Init creates the backing file holding an empty snapshot. An existing file
// is left as is.
func (s *FileStore) Init(_ context.Context) error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	if err := os.WriteFile(s.path, []byte("{}"), 0o644); err != nil {
		return fmt.Errorf("create store file: %w", err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context) (Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrStoreUnavailable, s.path, err)
	}
	if snap == nil {
		snap = Snapshot{}
	}
	return snap, nil
}

func (s *FileStore) Save(_ context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
