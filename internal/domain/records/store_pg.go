package records

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps the snapshot in the patient_record table, one row per id
// with the stored fields as JSONB. Save replaces the whole table in a single
// transaction so Load always observes a complete snapshot.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore returns a PGStore over the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Init creates the patient_record table if it does not exist.
func (s *PGStore) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS patient_record (
			id  TEXT PRIMARY KEY,
			doc JSONB NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create patient_record table: %w", err)
	}
	return nil
}

func (s *PGStore) Load(ctx context.Context) (Snapshot, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, doc FROM patient_record`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	snap := Snapshot{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		var f Fields
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %v", ErrStoreUnavailable, id, err)
		}
		snap[id] = f
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return snap, nil
}

func (s *PGStore) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM patient_record`); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	for id, f := range snap {
		raw, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", id, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO patient_record (id, doc) VALUES ($1, $2)`,
			id, raw,
		); err != nil {
			return fmt.Errorf("%w: writing %s: %v", ErrStoreUnavailable, id, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStoreUnavailable, err)
	}
	return nil
}
